// Package langdetect guesses the language of code snippets so that fenced
// code blocks without an info string can still be labelled. It combines
// shebang lookup and the classifier from go-enry with a table of patterns
// that are cheap to check and reliable for short snippets.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Text is the label of content no detector recognized.
const Text = "text"

// Language labels produced by the pattern table.
const (
	langGo         = "go"
	langPython     = "python"
	langJavaScript = "javascript"
	langJSON       = "json"
	langYAML       = "yaml"
	langHTML       = "html"
	langSQL        = "sql"
	langRust       = "rust"
	langDockerfile = "dockerfile"
	langBash       = "bash"
)

// snippet holds the views of the content the matchers inspect.
type snippet struct {
	raw     []byte
	trimmed []byte
	text    string
}

// matcher recognizes one language by its surface patterns.
type matcher struct {
	lang  string
	match func(s snippet) bool
}

// Matchers in order of specificity.
//
//nolint:gochecknoglobals // Read-only lookup table.
var matchers = []matcher{
	{langGo, isGo},
	{langPython, isPython},
	{langHTML, isHTML},
	{langJSON, isJSON},
	{langDockerfile, isDockerfile},
	{langSQL, isSQL},
	{langRust, isRust},
	{langJavaScript, isJavaScript},
	{langYAML, isYAML},
}

// Languages the classifier may choose between.
//
//nolint:gochecknoglobals // Read-only lookup table.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// Detect returns the language of content as a lower-case fence label.
// The boolean is false, and the label is Text, when no strategy is
// confident.
func Detect(content []byte) (string, bool) {
	if len(bytes.TrimSpace(content)) == 0 {
		return Text, false
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang), true
	}

	s := snippet{raw: content, trimmed: bytes.TrimSpace(content), text: string(content)}
	for _, m := range matchers {
		if m.match(s) {
			return m.lang, true
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang), true
	}
	return Text, false
}

// Languages returns the labels the pattern table can produce.
func Languages() []string {
	langs := make([]string, 0, len(matchers)+1)
	for _, m := range matchers {
		langs = append(langs, m.lang)
	}
	return append(langs, langBash)
}

func isGo(s snippet) bool {
	return bytes.HasPrefix(s.trimmed, []byte("package "))
}

func isPython(s snippet) bool {
	if strings.Contains(s.text, "def ") && strings.Contains(s.text, "):") {
		return true
	}
	// Go imports use "import (".
	if strings.Contains(s.text, "import ") && !strings.Contains(s.text, "import (") {
		if strings.Contains(s.text, "from ") || bytes.HasPrefix(s.trimmed, []byte("import ")) {
			return true
		}
	}
	return strings.Contains(s.text, "__name__") || strings.Contains(s.text, "__main__")
}

func isHTML(s snippet) bool {
	lower := bytes.ToLower(s.trimmed)
	for _, tag := range []string{"<!doctype html", "<html", "<head>", "<body>"} {
		if bytes.Contains(lower, []byte(tag)) {
			return true
		}
	}
	return false
}

func isJSON(s snippet) bool {
	return (bytes.HasPrefix(s.trimmed, []byte("{")) || bytes.HasPrefix(s.trimmed, []byte("["))) &&
		bytes.Contains(s.trimmed, []byte(`"`))
}

func isDockerfile(s snippet) bool {
	return bytes.HasPrefix(s.trimmed, []byte("FROM ")) ||
		(bytes.Contains(s.raw, []byte("\nFROM ")) && bytes.Contains(s.raw, []byte("\nRUN "))) ||
		(bytes.Contains(s.raw, []byte("WORKDIR ")) && bytes.Contains(s.raw, []byte("COPY ")))
}

func isSQL(s snippet) bool {
	upper := strings.ToUpper(string(s.trimmed))
	for _, keyword := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
		if strings.HasPrefix(upper, keyword) {
			return true
		}
	}
	return false
}

func isRust(s snippet) bool {
	return strings.Contains(s.text, "fn main()") ||
		strings.Contains(s.text, "println!") ||
		strings.Contains(s.text, "let mut ")
}

func isJavaScript(s snippet) bool {
	return strings.Contains(s.text, "=>") ||
		strings.Contains(s.text, "const ") ||
		strings.Contains(s.text, "let ") ||
		strings.Contains(s.text, "console.log")
}

// isYAML counts "key: value" lines and root-level list items.
func isYAML(s snippet) bool {
	keys := 0
	for line := range bytes.SplitSeq(s.raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || bytes.HasPrefix(line, []byte("#")) {
			continue
		}
		// Lines with brackets look like code, not mappings.
		if bytes.Contains(line, []byte(": ")) &&
			!bytes.Contains(line, []byte("(")) &&
			!bytes.Contains(line, []byte("{")) &&
			!bytes.HasPrefix(line, []byte(`"`)) {
			keys++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			keys++
		}
	}
	return keys >= 2
}

// normalize converts go-enry language names to fence labels.
func normalize(lang string) string {
	if lang == "Shell" {
		return langBash
	}
	return strings.ToLower(lang)
}
