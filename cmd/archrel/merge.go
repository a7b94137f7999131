// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/g2rain/archrel/internal/issue"
	"github.com/g2rain/archrel/pkg/pom"
	"github.com/g2rain/archrel/pkg/types"
)

// newMergeCommand creates the `archrel merge` command.
func newMergeCommand(app *App, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <pom.xml> <fragment.xml>",
		Short: "Merge a release configuration fragment into a pom.xml",
		Long: `Merge a release configuration fragment into a generated archetype pom.xml.

Sections are applied in a fixed order:
  name, description, url               text overwritten (name and url inserted when missing)
  scm, developers, licenses,
  distributionManagement               replaced by the fragment's copy
  properties                           merged key by key
  build/plugins                        merged by groupId and artifactId
  profiles                             the first profile, when its id is "release",
                                       replaced or appended

Running the merge twice produces the same file as running it once. With
--check nothing is written and the exit status is 2 when the POM would change.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, app, opts, types.FilesystemPath(args[0]), types.FilesystemPath(args[1]))
		},
	}
}

func runMerge(cmd *cobra.Command, app *App, opts *rootOptions, pomPath, fragmentPath types.FilesystemPath) error {
	ctx := cmd.Context()

	cfg, err := opts.loadConfig(ctx, app)
	if err != nil {
		return err
	}

	fileOpts := pom.FileOptions{Save: saveOptions(cfg)}
	progress := app.stdout
	var rendered bytes.Buffer
	switch {
	case opts.check:
		fileOpts.DryRunOutput = &rendered
	case opts.dryRun:
		fileOpts.DryRunOutput = app.stdout
		progress = app.stderr
	}

	merger := pom.NewMerger(pom.WithLogger(opts.slogger()))
	report, err := merger.MergeFile(ctx, pomPath, fragmentPath, fileOpts)
	if err != nil {
		parseIssue := issue.PomParseErrorId
		var loadErr *pom.LoadError
		if errors.As(err, &loadErr) && loadErr.Role == pom.RoleFragment {
			parseIssue = issue.FragmentParseErrorId
		}
		return fileError(err, "merge fragment into POM", parseIssue)
	}

	if !report.Changed() {
		opts.slogger().Warn("fragment contains no mergeable sections",
			"fragment", fragmentPath.String(),
			"sections", strings.Join(pom.Sections(), ", "))
	}

	if opts.check {
		printSections(progress, report, opts.verbose)
		return checkFile(progress, pomPath, rendered.Bytes())
	}
	printMergeReport(progress, report, pomPath, opts.dryRun, opts.verbose)
	return nil
}

// printSections lists the per-section actions in verbose mode.
func printSections(w io.Writer, report *pom.Report, verbose bool) {
	if !verbose {
		return
	}
	if report.NamespaceAdded {
		fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render("project"), SubtitleStyle.Render("namespace declared"))
	}
	for _, s := range report.Sections {
		line := fmt.Sprintf("  %s %s", KeyStyle.Render(s.Section), string(s.Action))
		if s.Detail != "" {
			line += " " + SubtitleStyle.Render(s.Detail)
		}
		fmt.Fprintln(w, line)
	}
}

func printMergeReport(w io.Writer, report *pom.Report, path types.FilesystemPath, dryRun, verbose bool) {
	printSections(w, report, verbose)
	if dryRun {
		fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("Dry run, not written:"), KeyStyle.Render(path.String()))
		return
	}
	fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render("Successfully updated"), path)
}
