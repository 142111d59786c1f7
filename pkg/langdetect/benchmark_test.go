package langdetect_test

import (
	"testing"

	"github.com/yaklabco/mdtree/pkg/langdetect"
)

func BenchmarkDetect(b *testing.B) {
	snippets := []struct {
		name    string
		content string
	}{
		{"go", "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"Hello\")\n}"},
		{"python", "def hello():\n    print(\"Hello\")\n\nif __name__ == \"__main__\":\n    hello()"},
		{"json", "{\n  \"name\": \"test\",\n  \"version\": \"1.0.0\"\n}"},
		{"empty", ""},
		{"small", "hello"},
	}

	for _, snippet := range snippets {
		content := []byte(snippet.content)
		b.Run(snippet.name, func(b *testing.B) {
			for b.Loop() {
				langdetect.Detect(content)
			}
		})
	}
}
