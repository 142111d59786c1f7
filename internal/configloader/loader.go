// Package configloader provides configuration loading and resolution.
// It implements XDG-compliant configuration discovery, hierarchical merging,
// environment variable support and validation.
package configloader

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yaklabco/mdtree/internal/logging"
	"github.com/yaklabco/mdtree/pkg/config"
	"github.com/yaklabco/mdtree/pkg/fsutil"
	"github.com/yaklabco/mdtree/pkg/parser/goldmark"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (MDTREE_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.mdtree.yml upward search)
//  5. User config ($XDG_CONFIG_HOME/mdtree/config.yaml)
//  6. System config (/etc/mdtree/config.yaml)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	logger := logging.FromContext(ctx)

	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	cfg := config.NewConfig()

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	if opts.ExplicitPath != "" {
		paths.Explicit = opts.ExplicitPath
	}
	result := &LoadResult{Paths: paths}

	layers := []struct {
		name   string
		path   string
		ignore bool
	}{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, false},
	}
	for _, layer := range layers {
		if layer.ignore || layer.path == "" {
			continue
		}
		fileCfg, err := loadConfigFile(layer.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
		logger.Debug("config loaded", logging.FieldPath, layer.path, logging.FieldSource, layer.name)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	normalizePreset(cfg, goldmark.DefaultRegistry)

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile loads a configuration from a YAML file.
func loadConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg, err := config.FromYAML(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// WriteConfig writes a configuration to a YAML file with a header comment.
// Without overwrite, an existing file is left alone and the returned error
// matches fs.ErrExist.
func WriteConfig(ctx context.Context, cfg *config.Config, path string, overwrite bool) error {
	content, err := cfg.ToYAMLWithHeader(configHeader)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if overwrite {
		err = fsutil.WriteAtomic(ctx, path, content, configFilePermissions)
	} else {
		err = fsutil.CreateExclusive(ctx, path, content, configFilePermissions)
	}
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

const configHeader = `# mdtree configuration
# Keys: preset, plugins, xhtml, ast.{attrs,srcmap,meta,content,indent}, color`

// normalizePreset replaces a preset alias with its canonical name. Unknown
// names are left for Validate to report.
func normalizePreset(cfg *config.Config, registry *goldmark.Registry) {
	if preset, ok := ResolvePreset(registry, cfg.Preset); ok {
		cfg.Preset = preset.Name
	}
}

// ResolvePreset looks up a preset name typed by a user. Unlike
// Registry.Preset it ignores case and surrounding spaces.
func ResolvePreset(registry *goldmark.Registry, name string) (*goldmark.Preset, bool) {
	return registry.Preset(strings.ToLower(strings.TrimSpace(name)))
}
