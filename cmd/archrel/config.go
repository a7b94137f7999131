// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/g2rain/archrel/internal/config"
	"github.com/g2rain/archrel/pkg/types"
)

// newConfigCommand creates the `archrel config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App, opts *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage archrel configuration",
		Long: `Manage archrel configuration.

Configuration is read from the first file found of:
  - the --config flag
  - Linux: ~/.config/archrel/config.cue
    macOS: ~/Library/Application Support/archrel/config.cue
    Windows: %APPDATA%\archrel\config.cue
  - ./archrel.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd.Context(), app)
			if err != nil {
				return err
			}
			path, err := config.ResolveConfigPath(config.LoadOptions{ConfigFilePath: types.FilesystemPath(opts.configPath)})
			if err != nil {
				return configError(err, opts.configPath)
			}
			showConfig(app.stdout, cfg, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app.stdout, opts.configPath)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app.stdout)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd.Context(), app)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config, path types.FilesystemPath) {
	keyStyle := KeyStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s:\n", keyStyle.Render("prune"))
	fmt.Fprintf(w, "  excluded_directories: %s\n", valueStyle.Render(listOrNone(cfg.Prune.ExcludedDirectories)))
	fmt.Fprintf(w, "  exclude_patterns: %s\n", valueStyle.Render(listOrNone(cfg.Prune.ExcludePatterns)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("output"))
	fmt.Fprintf(w, "  indent: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Output.Indent)))
	fmt.Fprintf(w, "  atomic: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Output.Atomic)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
}

func listOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}

func showConfigPath(w io.Writer, configPath string) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(w, "Config file: %s/%s.%s\n", cfgDir, config.ConfigFileName, config.ConfigFileExt)

	active, err := config.ResolveConfigPath(config.LoadOptions{ConfigFilePath: types.FilesystemPath(configPath)})
	if err != nil {
		return configError(err, configPath)
	}
	if active == "" {
		fmt.Fprintf(w, "Active file: %s\n", SubtitleStyle.Render("(none, using defaults)"))
	} else {
		fmt.Fprintf(w, "Active file: %s\n", active)
	}
	return nil
}

func initConfig(w io.Writer) error {
	path, created, err := config.CreateDefaultConfig("")
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	if !created {
		fmt.Fprintf(w, "%s Configuration already exists at %s\n", SubtitleStyle.Render("•"), path)
		return nil
	}
	fmt.Fprintf(w, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
