// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/g2rain/archrel/internal/issue"
	"github.com/g2rain/archrel/internal/testutil"
	"github.com/g2rain/archrel/pkg/types"
)

func writeConfig(t *testing.T, dir, content string) types.FilesystemPath {
	t.Helper()
	return types.FilesystemPath(testutil.WriteFile(t, dir, ConfigFileName+"."+ConfigFileExt, content))
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	want := []string{".github", ".idea", ".vscode", ".settings", "target"}
	if diff := cmp.Diff(want, cfg.Prune.ExcludedDirectories); diff != "" {
		t.Errorf("default excluded directories mismatch (-want +got):\n%s", diff)
	}
	if len(cfg.Prune.ExcludePatterns) != 0 {
		t.Errorf("expected no default exclude patterns, got %v", cfg.Prune.ExcludePatterns)
	}
	if cfg.Output.Indent != 0 {
		t.Errorf("expected default indent 0, got %d", cfg.Output.Indent)
	}
	if !cfg.Output.Atomic {
		t.Error("expected atomic writes by default")
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme auto, got %s", cfg.UI.ColorScheme)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid, got %v", err)
	}
}

func TestDefaultConfig_DoesNotAliasPackageDefaults(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Prune.ExcludedDirectories[0] = "mutated"

	if DefaultConfig().Prune.ExcludedDirectories[0] != ".github" {
		t.Error("mutating a DefaultConfig result leaked into later calls")
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup only applies on Linux")
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg-config")

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if want := types.FilesystemPath(filepath.Join("/tmp/test-xdg-config", AppName)); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}
}

func TestConfigDir_Override(t *testing.T) {
	SetConfigDirOverride("/custom/dir")
	t.Cleanup(Reset)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if dir != "/custom/dir" {
		t.Errorf("ConfigDir() = %s, want /custom/dir", dir)
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Parallel()

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(t.TempDir())})
	if err != nil {
		t.Fatalf("loadWithOptions() error = %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want empty", path)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want := writeConfig(t, dir, `
prune: {
	excluded_directories: [".github", "node_modules"]
	exclude_patterns: ["**/generated/**"]
}
output: indent: 4
ui: verbose: true
`)

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
	if err != nil {
		t.Fatalf("loadWithOptions() error = %v", err)
	}
	if path != want {
		t.Errorf("resolved path = %q, want %q", path, want)
	}

	expected := DefaultConfig()
	expected.Prune.ExcludedDirectories = []string{".github", "node_modules"}
	expected.Prune.ExcludePatterns = []string{"**/generated/**"}
	expected.Output.Indent = 4
	expected.UI.Verbose = true

	if diff := cmp.Diff(expected, cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_LocalFileFallback(t *testing.T) {
	workDir := t.TempDir()
	testutil.WriteFile(t, workDir, LocalConfigFileName, `output: indent: 2`)
	testutil.MustChdir(t, workDir)

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(t.TempDir())})
	if err != nil {
		t.Fatalf("loadWithOptions() error = %v", err)
	}
	if path != LocalConfigFileName {
		t.Errorf("resolved path = %q, want %q", path, LocalConfigFileName)
	}
	if cfg.Output.Indent != 2 {
		t.Errorf("indent = %d, want 2", cfg.Output.Indent)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), `output: atomic: false`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Atomic {
		t.Error("expected atomic=false from explicit config file")
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{name: "unknown field", content: `prune: mode: "fast"`, wantMsg: "mode"},
		{name: "wrong type", content: `output: indent: "four"`, wantMsg: "output.indent"},
		{name: "indent out of range", content: `output: indent: 12`, wantMsg: "output.indent"},
		{name: "bad color scheme", content: `ui: color_scheme: "neon"`, wantMsg: "color_scheme"},
		{name: "bad glob", content: `prune: exclude_patterns: ["[unclosed"]`, wantMsg: "exclude_patterns[0]"},
		{name: "syntax error", content: `prune: {`, wantMsg: "config.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
			if err == nil {
				t.Fatal("expected error")
			}

			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("expected *issue.ActionableError, got %T: %v", err, err)
			}
			if ae.Issue != issue.ConfigLoadFailedId {
				t.Errorf("Issue = %d, want ConfigLoadFailedId", ae.Issue)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q should mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	missing := types.FilesystemPath(filepath.Join(t.TempDir(), "nope.cue"))
	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: missing})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCreateDefaultConfig_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := types.FilesystemPath(t.TempDir())

	path, created, err := CreateDefaultConfig(dir)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if !created {
		t.Fatal("expected config file to be created")
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round-tripped config mismatch (-want +got):\n%s", diff)
	}

	_, created, err = CreateDefaultConfig(dir)
	if err != nil {
		t.Fatalf("second CreateDefaultConfig() error = %v", err)
	}
	if created {
		t.Error("existing config file should not be overwritten")
	}
}

func TestColorScheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme    ColorScheme
		wantValid bool
		style     string
	}{
		{ColorSchemeAuto, true, "auto"},
		{ColorSchemeDark, true, "dark"},
		{ColorSchemeLight, true, "light"},
		{"neon", false, "auto"},
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			t.Parallel()

			err := tt.scheme.Validate()
			if (err == nil) != tt.wantValid {
				t.Fatalf("Validate() error = %v, wantValid %v", err, tt.wantValid)
			}
			if err != nil && !errors.Is(err, ErrInvalidColorScheme) {
				t.Errorf("error should wrap ErrInvalidColorScheme, got %v", err)
			}
			if got := tt.scheme.GlamourStyle(); got != tt.style {
				t.Errorf("GlamourStyle() = %q, want %q", got, tt.style)
			}
		})
	}
}

func TestConfigValidate_CollectsAllErrors(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Prune.ExcludedDirectories = append(cfg.Prune.ExcludedDirectories, "  ")
	cfg.Prune.ExcludePatterns = []string{"[bad"}
	cfg.Output.Indent = -1

	err := cfg.Validate()
	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected *InvalidConfigError, got %T: %v", err, err)
	}
	if len(invalid.FieldErrors) != 3 {
		t.Errorf("expected 3 field errors, got %d: %v", len(invalid.FieldErrors), invalid.FieldErrors)
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("error should wrap ErrInvalidConfig")
	}
}
