package goldmark

import "errors"

// ErrConfiguration matches every *ConfigurationError via errors.Is.
var ErrConfiguration = errors.New("configuration error")

// ErrInvalidUTF8 is returned when source text is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("source is not valid UTF-8")

// Configuration error kinds.
const (
	ConfigKindPreset = "preset"
	ConfigKindRule   = "rule"
)

// ConfigurationError reports an unknown preset or rule name. It is
// returned by the call that introduced the name, never at parse time.
type ConfigurationError struct {
	// Kind is ConfigKindPreset or ConfigKindRule.
	Kind string

	// Name is the rejected name.
	Name string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return "unknown " + e.Kind + ": " + e.Name
}

// Is lets errors.Is(err, ErrConfiguration) match.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
