package goldmark

import (
	"slices"

	"github.com/yaklabco/mdtree/internal/logging"
)

// Config is a parser configuration: a preset baseline plus explicitly
// enabled rules. A Config is mutated only while it is being set up; Freeze
// turns it into an immutable Parser.
//
// Config is not safe for concurrent use.
type Config struct {
	registry *Registry
	preset   *Preset
	rules    []string
	enabled  map[string]bool
	xhtml    bool
}

// NewConfig creates a configuration from a preset name or alias. Unknown
// names return a *ConfigurationError.
func NewConfig(preset string) (*Config, error) {
	return DefaultRegistry.NewConfig(preset)
}

// NewConfig creates a configuration whose names resolve against r.
func (r *Registry) NewConfig(preset string) (*Config, error) {
	p, ok := r.Preset(preset)
	if !ok {
		return nil, &ConfigurationError{Kind: ConfigKindPreset, Name: preset}
	}

	cfg := &Config{
		registry: r,
		preset:   p,
		enabled:  make(map[string]bool),
		xhtml:    p.XHTML,
	}
	for _, name := range p.Rules {
		cfg.add(name)
	}

	logging.Default().Debug("parser configured",
		logging.FieldPreset, p.Name,
		logging.FieldRules, len(cfg.rules),
		logging.FieldXHTML, cfg.xhtml,
	)
	return cfg, nil
}

// Enable activates a rule on top of the baseline. Enabling an active rule
// is a no-op. Unknown names return a *ConfigurationError and leave the
// configuration unchanged.
func (c *Config) Enable(name string) error {
	if _, ok := c.registry.Rule(name); !ok {
		return &ConfigurationError{Kind: ConfigKindRule, Name: name}
	}
	if c.add(name) {
		logging.Default().Debug("rule enabled", logging.FieldRule, name)
	}
	return nil
}

// EnableMany enables names in order and stops at the first unknown name.
// Rules before that name stay enabled.
func (c *Config) EnableMany(names []string) error {
	for _, name := range names {
		if err := c.Enable(name); err != nil {
			return err
		}
	}
	return nil
}

// SetXHTML overrides the preset's render mode.
func (c *Config) SetXHTML(xhtml bool) {
	c.xhtml = xhtml
}

// XHTML reports whether output uses self-closing void elements.
func (c *Config) XHTML() bool {
	return c.xhtml
}

// Preset returns the canonical preset name.
func (c *Config) Preset() string {
	return c.preset.Name
}

// Rules returns the active rules: the baseline first, then enabled rules in
// call order.
func (c *Config) Rules() []string {
	return slices.Clone(c.rules)
}

// IsEnabled reports whether a rule is active.
func (c *Config) IsEnabled(name string) bool {
	return c.enabled[name]
}

// Freeze builds a parser from the current configuration. The parser does
// not see later changes to c; call Freeze again to pick them up.
func (c *Config) Freeze() *Parser {
	asm := newAssembly()
	for _, name := range c.rules {
		rule, _ := c.registry.Rule(name)
		asm.rule = name
		rule.activate(asm)
	}

	logging.Default().Debug("parser frozen",
		logging.FieldPreset, c.preset.Name,
		logging.FieldRules, c.rules,
	)
	return &Parser{
		preset:     c.preset.Name,
		rules:      slices.Clone(c.rules),
		xhtml:      c.xhtml,
		detectLang: c.enabled["langdetect"],
		md:         asm.build(c.xhtml),
	}
}

func (c *Config) add(name string) bool {
	if c.enabled[name] {
		return false
	}
	c.enabled[name] = true
	c.rules = append(c.rules, name)
	return true
}
