// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/g2rain/archrel/internal/config"
	"github.com/g2rain/archrel/pkg/types"
	"github.com/g2rain/archrel/pkg/xmldoc"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootOptions holds the global flags and the state derived from them for one
// invocation.
type rootOptions struct {
	configPath  string
	verbose     bool
	dryRun      bool
	check       bool
	colorScheme config.ColorScheme
	logger      *log.Logger
}

// newRootCommand builds the command tree for one invocation.
func newRootCommand(app *App, opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "archrel",
		Short: "Prepare generated Maven archetypes for release",
		Long: TitleStyle.Render("archrel") + SubtitleStyle.Render(" - Prepare generated Maven archetypes for release") + `

archrel post-processes the output of 'mvn archetype:create-from-project'
so the archetype can be published:

  prune   removes IDE, CI and build-output fileSets from archetype-metadata.xml
  merge   merges a release fragment (SCM, developers, licenses, plugins,
          release profile...) into the generated pom.xml

` + SubtitleStyle.Render("Examples:") + `
  archrel prune target/generated-sources/archetype/src/main/resources/META-INF/maven/archetype-metadata.xml
  archrel merge target/generated-sources/archetype/pom.xml .github/workflows/archetype-release-pom-fragment.xml
  archrel config show`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.check && opts.dryRun {
				return errors.New("--check and --dry-run cannot be used together")
			}
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.verbose)
			slog.SetDefault(slog.New(opts.logger))
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is $HOME/.config/archrel/config.cue)")
	rootCmd.PersistentFlags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "print the result to stdout instead of writing the file")
	rootCmd.PersistentFlags().BoolVar(&opts.check, "check", false, "exit with status 2 if the file would change, without writing it")

	rootCmd.AddCommand(newPruneCommand(app, opts))
	rootCmd.AddCommand(newMergeCommand(app, opts))
	rootCmd.AddCommand(newConfigCommand(app, opts))

	return rootCmd
}

// Execute runs the CLI with the process arguments and exits with its status.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if code := app.Run(context.Background(), os.Args[1:]); !code.IsSuccess() {
		os.Exit(int(code))
	}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// newLogger creates the stderr logger; debug output is enabled by --verbose
// or ui.verbose.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}

// loadConfig loads configuration for the invocation and applies ui settings.
func (o *rootOptions) loadConfig(ctx context.Context, app *App) (*config.Config, error) {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(o.configPath)})
	if err != nil {
		return nil, configError(err, o.configPath)
	}

	o.colorScheme = cfg.UI.ColorScheme
	if cfg.UI.Verbose && !o.verbose {
		o.verbose = true
		if o.logger != nil {
			o.logger.SetLevel(log.DebugLevel)
		}
	}
	return cfg, nil
}

// saveOptions maps the output section of the configuration to xmldoc options.
func saveOptions(cfg *config.Config) xmldoc.SaveOptions {
	return xmldoc.SaveOptions{
		Indent: cfg.Output.Indent,
		Atomic: cfg.Output.Atomic,
	}
}

// checkFile compares rendered with the current content of path. It returns an
// *ExitError with ExitChangesPending when they differ.
func checkFile(w io.Writer, path types.FilesystemPath, rendered []byte) error {
	current, err := os.ReadFile(path.String())
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if bytes.Equal(current, rendered) {
		fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render("Up to date:"), path)
		return nil
	}
	fmt.Fprintf(w, "%s %s\n", WarningStyle.Render("Would change:"), path)
	return &ExitError{Code: types.ExitChangesPending}
}

// slogger returns the invocation logger as a *slog.Logger for library packages.
func (o *rootOptions) slogger() *slog.Logger {
	if o.logger == nil {
		return slog.Default()
	}
	return slog.New(o.logger)
}
