// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/g2rain/archrel/internal/issue"
	"github.com/g2rain/archrel/pkg/archetype"
	"github.com/g2rain/archrel/pkg/types"
)

type pruneFlags struct {
	exclude         []string
	excludePatterns []string
}

// newPruneCommand creates the `archrel prune` command.
func newPruneCommand(app *App, opts *rootOptions) *cobra.Command {
	flags := &pruneFlags{}

	cmd := &cobra.Command{
		Use:   "prune <archetype-metadata.xml>",
		Short: "Remove unwanted fileSets from an archetype descriptor",
		Long: `Remove fileSets whose directory equals or starts with a denylisted prefix.

The default denylist is .github, .idea, .vscode, .settings and target. It can
be replaced with prune.excluded_directories in the config file and extended
with --exclude. Glob patterns (doublestar syntax, e.g. "**/node_modules") can
be added with --exclude-pattern or prune.exclude_patterns.

The descriptor is rewritten in place as UTF-8. With --check nothing is written
and the exit status is 2 when the descriptor would change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(cmd, app, opts, flags, types.FilesystemPath(args[0]))
		},
	}

	cmd.Flags().StringArrayVar(&flags.exclude, "exclude", nil, "additional directory prefix to remove (repeatable)")
	cmd.Flags().StringArrayVar(&flags.excludePatterns, "exclude-pattern", nil, "additional glob pattern to remove (repeatable)")

	return cmd
}

func runPrune(cmd *cobra.Command, app *App, opts *rootOptions, flags *pruneFlags, path types.FilesystemPath) error {
	ctx := cmd.Context()

	cfg, err := opts.loadConfig(ctx, app)
	if err != nil {
		return err
	}

	pruner, err := archetype.NewPruner(
		archetype.WithExcludedDirectories(cfg.Prune.ExcludedDirectories),
		archetype.WithAdditionalExcludedDirectories(flags.exclude),
		archetype.WithExcludePatterns(cfg.Prune.ExcludePatterns),
		archetype.WithExcludePatterns(flags.excludePatterns),
		archetype.WithLogger(opts.slogger()),
	)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("parse exclude patterns").
			WithSuggestion("Patterns use doublestar syntax, e.g. \"**/node_modules\"").
			Wrap(err).
			BuildError()
	}

	opts.slogger().Debug("pruning descriptor", "path", path.String(), "excluded", pruner.ExcludedDirectories())

	fileOpts := archetype.FileOptions{Save: saveOptions(cfg)}
	// Progress goes to stderr in dry-run mode so stdout carries only the document.
	progress := app.stdout
	var rendered bytes.Buffer
	switch {
	case opts.check:
		fileOpts.DryRunOutput = &rendered
	case opts.dryRun:
		fileOpts.DryRunOutput = app.stdout
		progress = app.stderr
	}

	report, err := pruner.PruneFile(ctx, path, fileOpts)
	if err != nil {
		return fileError(err, "prune archetype descriptor", issue.DescriptorParseErrorId)
	}

	if opts.check {
		printRemoved(progress, report, "Would remove fileSet for directory:")
		return checkFile(progress, path, rendered.Bytes())
	}
	printPruneReport(progress, report, path, opts.dryRun)
	return nil
}

func printRemoved(w io.Writer, report *archetype.Report, label string) {
	for _, dir := range report.Removed {
		fmt.Fprintf(w, "%s %s\n", WarningStyle.Render(label), dir)
	}
}

func printPruneReport(w io.Writer, report *archetype.Report, path types.FilesystemPath, dryRun bool) {
	printRemoved(w, report, "Removing fileSet for directory:")
	if dryRun {
		fmt.Fprintf(w, "%s %s %s\n", SubtitleStyle.Render("Dry run, not written:"), KeyStyle.Render(path.String()), SubtitleStyle.Render(fmt.Sprintf("(%d kept)", report.Kept)))
		return
	}
	fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render("Successfully cleaned"), path)
}
