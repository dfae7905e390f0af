package judge

import (
	"fmt"
	"strings"

	"syntax/internal/common"
)

// Program is a complete runnable source file ready for the execution
// service.
type Program struct {
	Filename string
	Source   string
}

// ProgramRenderer wraps user code and a formatted argument list into a
// complete program that calls the challenge's entry point and prints
// the result to standard output.
type ProgramRenderer interface {
	Render(entryPoint, args, userCode string) Program
}

var renderers = map[string]ProgramRenderer{
	"python":     pythonRenderer{},
	"javascript": javascriptRenderer{},
	"c":          cRenderer{},
	"cpp":        cppRenderer{},
	"java":       javaRenderer{},
}

// Supports reports whether a renderer exists for the language.
func Supports(language string) bool {
	_, ok := renderers[language]
	return ok
}

// SupportedLanguages returns the language tags with a renderer.
func SupportedLanguages() []string {
	langs := make([]string, 0, len(renderers))
	for lang := range renderers {
		langs = append(langs, lang)
	}
	return langs
}

// BuildProgram renders the runnable program for one test case. It fails
// fast with ErrUnsupportedLanguage before any execution attempt.
func BuildProgram(language, entryPoint, args, userCode string) (Program, error) {
	renderer, ok := renderers[language]
	if !ok {
		return Program{}, fmt.Errorf("no renderer for %q: %w", language, common.ErrUnsupportedLanguage)
	}
	return renderer.Render(entryPoint, args, userCode), nil
}

// Script languages get a single appended statement that calls the
// function and prints the result.

type pythonRenderer struct{}

func (pythonRenderer) Render(entryPoint, args, userCode string) Program {
	source := fmt.Sprintf("%s\n\nprint(%s(%s))\n", userCode, entryPoint, args)
	return Program{Filename: "main.py", Source: source}
}

type javascriptRenderer struct{}

func (javascriptRenderer) Render(entryPoint, args, userCode string) Program {
	source := fmt.Sprintf("%s\n\nconsole.log(%s(%s));\n", userCode, entryPoint, args)
	return Program{Filename: "main.js", Source: source}
}

// Compiled languages get a synthesized entry point writing the result
// through the language's primitive output facility. Only printable
// primitive return values are supported.

type cRenderer struct{}

func (cRenderer) Render(entryPoint, args, userCode string) Program {
	source := fmt.Sprintf(`#include <stdio.h>

%s

int main(void) {
    printf("%%d\n", %s(%s));
    return 0;
}
`, userCode, entryPoint, args)
	return Program{Filename: "main.c", Source: source}
}

type cppRenderer struct{}

func (cppRenderer) Render(entryPoint, args, userCode string) Program {
	source := fmt.Sprintf(`#include <iostream>

%s

int main() {
    std::cout << %s(%s) << std::endl;
    return 0;
}
`, userCode, entryPoint, args)
	return Program{Filename: "main.cpp", Source: source}
}

type javaRenderer struct{}

func (javaRenderer) Render(entryPoint, args, userCode string) Program {
	source := fmt.Sprintf(`public class Main {
%s

    public static void main(String[] args) {
        System.out.println(%s(%s));
    }
}
`, indent(userCode, "    "), entryPoint, args)
	return Program{Filename: "Main.java", Source: source}
}

func indent(code, prefix string) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
