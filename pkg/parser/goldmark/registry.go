package goldmark

import "slices"

// Registry maps rule and preset names to their definitions. It is built
// once at start-up and never modified, so it is safe for concurrent use.
type Registry struct {
	byName  map[string]*RuleSpec
	order   []string
	presets map[string]*Preset
	aliases map[string]string // preset alias -> canonical preset name
	listing []string
}

// NewRegistry creates a registry over the given rules and presets. Rule
// order is kept for listings. Later duplicates replace earlier entries.
func NewRegistry(rules []RuleSpec, presets []Preset) *Registry {
	r := &Registry{
		byName:  make(map[string]*RuleSpec, len(rules)),
		presets: make(map[string]*Preset, len(presets)),
		aliases: make(map[string]string),
	}
	for i := range rules {
		rule := &rules[i]
		if _, seen := r.byName[rule.Name]; !seen {
			r.order = append(r.order, rule.Name)
		}
		r.byName[rule.Name] = rule
	}
	for i := range presets {
		preset := &presets[i]
		r.presets[preset.Name] = preset
		r.listing = append(r.listing, preset.Name)
		for _, alias := range preset.Aliases {
			r.aliases[alias] = preset.Name
		}
	}
	return r
}

// Rule returns the rule registered under name.
func (r *Registry) Rule(name string) (*RuleSpec, bool) {
	rule, ok := r.byName[name]
	return rule, ok
}

// Rules returns every rule in catalogue order.
func (r *Registry) Rules() []RuleSpec {
	result := make([]RuleSpec, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, *r.byName[name])
	}
	return result
}

// RuleNames returns every rule name in catalogue order.
func (r *Registry) RuleNames() []string {
	return slices.Clone(r.order)
}

// Preset resolves a preset name or alias. Names match exactly.
func (r *Registry) Preset(name string) (*Preset, bool) {
	if preset, ok := r.presets[name]; ok {
		return preset, true
	}
	if canonical, ok := r.aliases[name]; ok {
		return r.presets[canonical], true
	}
	return nil, false
}

// Presets returns every preset in registration order.
func (r *Registry) Presets() []Preset {
	result := make([]Preset, 0, len(r.listing))
	for _, name := range r.listing {
		result = append(result, *r.presets[name])
	}
	return result
}

// PresetNames returns the canonical preset names, sorted.
func (r *Registry) PresetNames() []string {
	names := slices.Clone(r.listing)
	slices.Sort(names)
	return names
}

// DefaultRegistry holds the built-in rules and presets.
//
//nolint:gochecknoglobals // Read-only registry built at start-up.
var DefaultRegistry = NewRegistry(ruleCatalogue, builtinPresets)

// AvailableRules returns the names accepted by Enable, in catalogue order.
func AvailableRules() []string {
	return DefaultRegistry.RuleNames()
}

// AvailablePresets returns the canonical preset names accepted by
// NewConfig.
func AvailablePresets() []string {
	return DefaultRegistry.PresetNames()
}
