package judge

import "testing"

func TestFormatArgs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		language string
		want     string
	}{
		{"python string", `"hello"`, "python", `"hello"`},
		{"javascript string", `"hello"`, "javascript", `"hello"`},
		{"java string", `"hello"`, "java", `"hello"`},
		{"string with quotes python", `"say \"hi\""`, "python", `"say \"hi\""`},

		{"python list", `[1, 2, 3]`, "python", "[1, 2, 3]"},
		{"javascript list", `[1,2,3]`, "javascript", "[1, 2, 3]"},
		{"c list", `[1, 2, 3]`, "c", "{1, 2, 3}"},
		{"cpp list", `[1, 2, 3]`, "cpp", "{1, 2, 3}"},
		{"java list", `[1, 2, 3]`, "java", "{1, 2, 3}"},
		{"nested list python", `[[1, 2], [3]]`, "python", "[[1, 2], [3]]"},
		{"list of strings python", `["a", "b"]`, "python", `["a", "b"]`},

		{"bool true python", `true`, "python", "True"},
		{"bool false python", `false`, "python", "False"},
		{"bool true javascript", `true`, "javascript", "true"},
		{"bool true c", `true`, "c", "1"},
		{"bool false java", `false`, "java", "0"},

		{"integer", `42`, "python", "42"},
		{"negative integer", `-7`, "java", "-7"},
		{"float keeps precision", `3.14`, "python", "3.14"},
		{"large integer not mangled", `9007199254740993`, "javascript", "9007199254740993"},

		{"null python", `null`, "python", "None"},
		{"null javascript", `null`, "javascript", "null"},
		{"null c", `null`, "c", "NULL"},

		{"non-json passthrough", `1, 2, 3`, "python", `1, 2, 3`},
		{"bare word passthrough", `hello`, "python", `hello`},
		{"trailing garbage passthrough", `[1] [2]`, "python", `[1] [2]`},
		{"empty input passthrough", ``, "python", ``},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatArgs(tc.input, tc.language)
			if got != tc.want {
				t.Errorf("FormatArgs(%q, %q) = %q, want %q", tc.input, tc.language, got, tc.want)
			}
		})
	}
}
