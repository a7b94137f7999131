// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/g2rain/archrel/internal/config"
	"github.com/g2rain/archrel/internal/issue"
	"github.com/g2rain/archrel/pkg/types"
	"github.com/g2rain/archrel/pkg/xmldoc"
)

// fileError maps a load, parse or write failure to an ActionableError linked
// to the matching issue guide. parseIssue is used for malformed input.
func fileError(err error, operation string, parseIssue issue.Id) error {
	ec := issue.NewErrorContext().WithOperation(operation)

	var (
		notFound *xmldoc.FileNotFoundError
		parseErr *xmldoc.ParseError
	)
	switch {
	case errors.As(err, &notFound):
		ec.WithResource(notFound.Path.String()).
			WithIssue(issue.FileNotFoundId).
			WithSuggestion("Check the path; relative paths are resolved from the working directory").
			Wrap(xmldoc.ErrFileNotFound)
	case errors.As(err, &parseErr):
		ec.WithResource(parseErr.Path.String()).
			WithIssue(parseIssue).
			WithSuggestion("Fix the XML syntax error and run the command again").
			Wrap(fmt.Errorf("%w: %w", xmldoc.ErrMalformedXML, parseErr.Cause))
	case errors.Is(err, types.ErrInvalidFilesystemPath):
		ec.WithIssue(issue.FileNotFoundId).
			WithSuggestion("Pass a non-empty file path").
			Wrap(err)
	case errors.Is(err, context.Canceled):
		ec.WithSuggestion("The command was interrupted before the file was written; the file is unchanged").
			Wrap(err)
	default:
		ec.WithIssue(issue.WriteFailedId).Wrap(err)
	}

	return ec.BuildError()
}

// configError wraps a configuration load failure; errors that already carry
// context are returned unchanged.
func configError(err error, configPath string) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(configPath).
		WithIssue(issue.ConfigLoadFailedId).
		WithSuggestion("Run 'archrel config dump' to see a valid configuration").
		Wrap(err).
		BuildError()
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderError writes err and, when it links to one, the issue guide to w.
// ExitErrors without a cause have already been reported and print nothing.
func renderError(w io.Writer, err error, verbose bool, scheme config.ColorScheme) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		fmt.Fprintf(w, "%s\n", SubtitleStyle.Render("Run 'archrel --help' for usage."))
		return
	}
	if ae.Issue == 0 {
		return
	}

	if catalogEntry := issue.Get(ae.Issue); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render(scheme.GlamourStyle())
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", ae.Issue, "error", renderErr)
			return
		}
		fmt.Fprint(w, rendered)
	}
}
