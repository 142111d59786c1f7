package configloader

import (
	"slices"

	"github.com/yaklabco/mdtree/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Optional booleans: override overwrites base if override is non-nil
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Preset != "" {
		result.Preset = override.Preset
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.XHTML != nil {
		result.XHTML = config.Bool(*override.XHTML)
	}

	// Debug can only be switched on by a higher layer.
	if override.Debug {
		result.Debug = true
	}

	result.AST = mergeAST(result.AST, override.AST)

	if override.Plugins != nil {
		result.Plugins = slices.Clone(override.Plugins)
	}

	return result
}

// mergeAST merges tree dump settings field by field.
func mergeAST(base, override config.ASTConfig) config.ASTConfig {
	result := base

	if override.Attrs != nil {
		result.Attrs = config.Bool(*override.Attrs)
	}
	if override.Srcmap != nil {
		result.Srcmap = config.Bool(*override.Srcmap)
	}
	if override.Meta != nil {
		result.Meta = config.Bool(*override.Meta)
	}
	if override.Content != nil {
		result.Content = config.Bool(*override.Content)
	}
	if override.Indent != 0 {
		result.Indent = override.Indent
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
