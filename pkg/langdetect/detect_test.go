package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdtree/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected string
		detected bool
	}{
		{"shebang bash", "#!/bin/bash\necho hello", "bash", true},
		{"shebang sh", "#!/bin/sh\necho hello", "bash", true},
		{"shebang python", "#!/usr/bin/env python3\nprint('hello')", "python", true},
		{"go code", "package main\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}", "go", true},
		{"python code", "def foo():\n    pass\n\nif __name__ == '__main__':\n    foo()", "python", true},
		{"javascript code", "const x = () => { return 42; };\nconsole.log(x());", "javascript", true},
		{"json object", `{"key": "value", "number": 123}`, "json", true},
		{"yaml content", "key: value\nother: 123\nlist:\n  - item1\n  - item2", "yaml", true},
		{"rust code", "fn main() {\n    println!(\"Hello, world!\");\n}", "rust", true},
		{"sql query", "SELECT * FROM users WHERE id = 1;", "sql", true},
		{"html content", "<!DOCTYPE html>\n<html>\n<head><title>Test</title></head>\n<body></body>\n</html>", "html", true},
		{"dockerfile", "FROM golang:1.21\nWORKDIR /app\nCOPY . .\nRUN go build", "dockerfile", true},
		{"plain text", "just some text without any code patterns", langdetect.Text, false},
		{"empty", "", langdetect.Text, false},
		{"whitespace only", "  \n\t\n", langdetect.Text, false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			lang, ok := langdetect.Detect([]byte(testCase.content))

			assert.Equal(t, testCase.expected, lang)
			assert.Equal(t, testCase.detected, ok)
		})
	}
}

func TestDetect_ShebangTakesPrecedence(t *testing.T) {
	t.Parallel()

	// Looks like Python, but the shebang says otherwise.
	lang, ok := langdetect.Detect([]byte("#!/bin/bash\ndef foo():\n    pass"))

	assert.True(t, ok)
	assert.Equal(t, "bash", lang)
}

func TestLanguages(t *testing.T) {
	t.Parallel()

	langs := langdetect.Languages()

	assert.Contains(t, langs, "go")
	assert.Contains(t, langs, "bash")
	assert.NotContains(t, langs, langdetect.Text)
}
