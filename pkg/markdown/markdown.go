// Package markdown is the host-facing entry point: pick a preset, enable
// rules, then render HTML or build generic trees.
//
//	md, err := markdown.New("commonmark")
//	if err != nil { ... }
//	_ = md.EnableMany([]string{"table", "strikethrough"})
//	html, err := md.Render("# Hello")
package markdown

import (
	"sync"

	"github.com/yaklabco/mdtree/pkg/mdast"
	"github.com/yaklabco/mdtree/pkg/parser/goldmark"
)

// Re-exported so hosts need only this package.
var (
	ErrConfiguration = goldmark.ErrConfiguration
	ErrInvalidUTF8   = goldmark.ErrInvalidUTF8
)

// Markdown is a parser configuration with lazily built parsers.
//
// The first Render or Tree call freezes the rules enabled so far. Rules
// enabled afterwards take effect only after an explicit Freeze. All
// methods are safe for concurrent use.
type Markdown struct {
	mu     sync.Mutex
	cfg    *goldmark.Config
	parser *goldmark.Parser
}

// New returns a configuration seeded with the named preset. Unknown
// presets return a *goldmark.ConfigurationError.
func New(preset string) (*Markdown, error) {
	cfg, err := goldmark.NewConfig(preset)
	if err != nil {
		return nil, err
	}
	return &Markdown{cfg: cfg}, nil
}

// Enable activates one rule. It is a no-op for active rules.
func (m *Markdown) Enable(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.cfg.Enable(name)
}

// EnableMany activates rules in order up to the first unknown name.
func (m *Markdown) EnableMany(names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.cfg.EnableMany(names)
}

// SetXHTML overrides the preset's render mode. Like Enable it takes effect
// at the next freeze.
func (m *Markdown) SetXHTML(xhtml bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cfg.SetXHTML(xhtml)
}

// Rules returns the rules configured so far, which may include rules not
// yet frozen.
func (m *Markdown) Rules() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.cfg.Rules()
}

// Preset returns the canonical preset name.
func (m *Markdown) Preset() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.cfg.Preset()
}

// Freeze rebuilds the parser from the current rules and returns it.
func (m *Markdown) Freeze() *goldmark.Parser {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.parser = m.cfg.Freeze()
	return m.parser
}

// Parser returns the frozen parser, freezing on first use.
func (m *Markdown) Parser() *goldmark.Parser {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.parser == nil {
		m.parser = m.cfg.Freeze()
	}
	return m.parser
}

// Render converts src to HTML.
func (m *Markdown) Render(src string) (string, error) {
	return m.Parser().Render(src)
}

// Tree converts src to a generic tree owned by the caller.
func (m *Markdown) Tree(src string) (*mdast.Node, error) {
	return m.Parser().Tree(src)
}

// AvailableRules lists every rule name Enable accepts, in catalogue order.
func AvailableRules() []string {
	return goldmark.AvailableRules()
}

// AvailablePresets lists every canonical preset name, sorted.
func AvailablePresets() []string {
	return goldmark.AvailablePresets()
}
