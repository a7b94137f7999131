// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/g2rain/archrel/internal/issue"
	"github.com/g2rain/archrel/pkg/cueutil"
	"github.com/g2rain/archrel/pkg/fspath"
	"github.com/g2rain/archrel/pkg/types"
)

const (
	// AppName is the application name.
	AppName = "archrel"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFileName is looked up in the working directory when the
	// user config directory holds no config file.
	LocalConfigFileName = AppName + "." + ConfigFileExt
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the archrel configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (types.FilesystemPath, error) {
	if configDirOverride != "" {
		return types.FilesystemPath(configDirOverride), nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return types.FilesystemPath(filepath.Join(configDir, AppName)), nil
}

// ResolveConfigPath returns the config file that Load would read for opts,
// or "" when no file exists and defaults apply. An explicit ConfigFilePath
// that does not exist is an error.
func ResolveConfigPath(opts LoadOptions) (types.FilesystemPath, error) {
	if opts.ConfigFilePath != "" {
		ok, err := fspath.IsFile(opts.ConfigFilePath)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath.String()).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'archrel config show' to see the default configuration").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return "", err
		}
		cfgDir = dir
	}

	candidates := []types.FilesystemPath{
		fspath.JoinStr(cfgDir, ConfigFileName+"."+ConfigFileExt),
		types.FilesystemPath(LocalConfigFileName),
	}
	for _, candidate := range candidates {
		ok, err := fspath.IsFile(candidate)
		if err != nil {
			return "", err
		}
		if ok {
			return candidate, nil
		}
	}
	return "", nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state. It returns the resolved file path ("" for defaults).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, types.FilesystemPath, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("prune.excluded_directories", defaults.Prune.ExcludedDirectories)
	v.SetDefault("prune.exclude_patterns", defaults.Prune.ExcludePatterns)
	v.SetDefault("output.indent", defaults.Output.Indent)
	v.SetDefault("output.atomic", defaults.Output.Atomic)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	resolvedPath, err := ResolveConfigPath(opts)
	if err != nil {
		return nil, "", err
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath.String()).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath.String()).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Glob patterns use doublestar syntax, e.g. \"**/node_modules\"").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// loadCUEIntoViper validates a CUE file against #Config and merges its
// contents into Viper, over the defaults.
func loadCUEIntoViper(v *viper.Viper, path types.FilesystemPath) error {
	data, err := os.ReadFile(path.String())
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.DecodeMap(configSchema, data, "#Config", path.String())
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// CreateDefaultConfig writes the default config file into dir (the config
// directory when dir is empty). An existing file is left untouched; the
// returned bool reports whether a file was created.
func CreateDefaultConfig(dir types.FilesystemPath) (types.FilesystemPath, bool, error) {
	if dir == "" {
		cfgDir, err := ConfigDir()
		if err != nil {
			return "", false, err
		}
		dir = cfgDir
	}

	if err := os.MkdirAll(dir.String(), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := fspath.JoinStr(dir, ConfigFileName+"."+ConfigFileExt)

	if _, err := os.Stat(cfgPath.String()); err == nil {
		return cfgPath, false, nil
	}

	if err := os.WriteFile(cfgPath.String(), []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, true, nil
}

// GenerateCUE generates a CUE representation of the configuration.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// archrel configuration file\n\n")

	sb.WriteString("prune: {\n")
	sb.WriteString("\texcluded_directories: " + cueStringList(cfg.Prune.ExcludedDirectories) + "\n")
	sb.WriteString("\texclude_patterns: " + cueStringList(cfg.Prune.ExcludePatterns) + "\n")
	sb.WriteString("}\n")

	sb.WriteString("\noutput: {\n")
	fmt.Fprintf(&sb, "\tindent: %d\n", cfg.Output.Indent)
	fmt.Fprintf(&sb, "\tatomic: %v\n", cfg.Output.Atomic)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}

func cueStringList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
