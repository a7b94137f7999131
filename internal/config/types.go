// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/g2rain/archrel/pkg/archetype"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// MaxIndent is the largest accepted output.indent value.
	MaxIndent = 8
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference used when
	// rendering issue guides.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError collects every field error found by Config.Validate.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Prune configures the archetype descriptor pruner.
		Prune PruneConfig `json:"prune" mapstructure:"prune"`
		// Output configures how rewritten documents are written.
		Output OutputConfig `json:"output" mapstructure:"output"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// PruneConfig configures which fileSets are removed from archetype descriptors.
	PruneConfig struct {
		// ExcludedDirectories are directory prefixes; a fileSet whose directory
		// equals or starts with one of them is removed.
		ExcludedDirectories []string `json:"excluded_directories" mapstructure:"excluded_directories"`
		// ExcludePatterns are doublestar glob patterns matched against the whole directory.
		ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns"`
	}

	// OutputConfig configures document serialization.
	OutputConfig struct {
		// Indent reindents the document with this many spaces. Zero keeps the
		// formatting of the input.
		Indent int `json:"indent" mapstructure:"indent"`
		// Atomic writes through a temporary file renamed over the target.
		Atomic bool `json:"atomic" mapstructure:"atomic"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Validate returns an error if the ColorScheme is not one of the defined values.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

// GlamourStyle maps the scheme to a glamour standard style name.
func (c ColorScheme) GlamourStyle() string {
	switch c {
	case ColorSchemeDark:
		return "dark"
	case ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks the constraints CUE cannot express on its own, such as glob
// pattern syntax, and returns an *InvalidConfigError listing every problem.
func (c *Config) Validate() error {
	var errs []error

	for i, dir := range c.Prune.ExcludedDirectories {
		if strings.TrimSpace(dir) == "" {
			errs = append(errs, fmt.Errorf("prune.excluded_directories[%d]: must not be blank", i))
		}
	}
	for i, pattern := range c.Prune.ExcludePatterns {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, fmt.Errorf("prune.exclude_patterns[%d]: invalid glob pattern %q", i, pattern))
		}
	}
	if c.Output.Indent < 0 || c.Output.Indent > MaxIndent {
		errs = append(errs, fmt.Errorf("output.indent: %d out of range 0-%d", c.Output.Indent, MaxIndent))
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("ui.color_scheme: %w", err))
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Prune: PruneConfig{
			ExcludedDirectories: slices.Clone(archetype.DefaultExcludedDirectories),
			ExcludePatterns:     []string{},
		},
		Output: OutputConfig{
			Indent: 0,
			Atomic: true,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
