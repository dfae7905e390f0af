package judge

import (
	"errors"
	"strings"
	"testing"

	"syntax/internal/common"
)

func TestBuildProgramPython(t *testing.T) {
	prog, err := BuildProgram("python", "add", "1, 2", "def add(a, b):\n    return a + b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prog.Filename != "main.py" {
		t.Errorf("filename = %q, want main.py", prog.Filename)
	}
	if !strings.Contains(prog.Source, "print(add(1, 2))") {
		t.Errorf("source missing print call:\n%s", prog.Source)
	}
	if !strings.HasPrefix(prog.Source, "def add(a, b):") {
		t.Errorf("user code should come first:\n%s", prog.Source)
	}
}

func TestBuildProgramJavascript(t *testing.T) {
	prog, err := BuildProgram("javascript", "add", "1, 2", "function add(a, b) { return a + b; }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prog.Filename != "main.js" {
		t.Errorf("filename = %q, want main.js", prog.Filename)
	}
	if !strings.Contains(prog.Source, "console.log(add(1, 2));") {
		t.Errorf("source missing console.log call:\n%s", prog.Source)
	}
}

func TestBuildProgramC(t *testing.T) {
	prog, err := BuildProgram("c", "add", "1, 2", "int add(int a, int b) { return a + b; }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prog.Filename != "main.c" {
		t.Errorf("filename = %q, want main.c", prog.Filename)
	}
	for _, want := range []string{"#include <stdio.h>", `printf("%d\n", add(1, 2));`, "int main(void)"} {
		if !strings.Contains(prog.Source, want) {
			t.Errorf("source missing %q:\n%s", want, prog.Source)
		}
	}
}

func TestBuildProgramCpp(t *testing.T) {
	prog, err := BuildProgram("cpp", "add", "1, 2", "int add(int a, int b) { return a + b; }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prog.Filename != "main.cpp" {
		t.Errorf("filename = %q, want main.cpp", prog.Filename)
	}
	if !strings.Contains(prog.Source, "std::cout << add(1, 2) << std::endl;") {
		t.Errorf("source missing cout call:\n%s", prog.Source)
	}
}

func TestBuildProgramJava(t *testing.T) {
	userCode := "public static int add(int a, int b) {\n    return a + b;\n}"
	prog, err := BuildProgram("java", "add", "1, 2", userCode)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prog.Filename != "Main.java" {
		t.Errorf("filename = %q, want Main.java", prog.Filename)
	}
	if !strings.Contains(prog.Source, "public class Main {") {
		t.Errorf("source missing class wrapper:\n%s", prog.Source)
	}
	if !strings.Contains(prog.Source, "System.out.println(add(1, 2));") {
		t.Errorf("source missing println call:\n%s", prog.Source)
	}
	// User code is indented one level inside the class body.
	if !strings.Contains(prog.Source, "    public static int add(int a, int b) {") {
		t.Errorf("user code not indented:\n%s", prog.Source)
	}
}

func TestBuildProgramUnsupportedLanguage(t *testing.T) {
	_, err := BuildProgram("ruby", "add", "1, 2", "def add(a, b) a + b end")
	if !errors.Is(err, common.ErrUnsupportedLanguage) {
		t.Errorf("expected ErrUnsupportedLanguage, got %v", err)
	}
}

func TestSupports(t *testing.T) {
	for _, lang := range []string{"python", "javascript", "c", "cpp", "java"} {
		if !Supports(lang) {
			t.Errorf("expected %q to be supported", lang)
		}
	}
	if Supports("ruby") {
		t.Error("did not expect ruby to be supported")
	}
}
