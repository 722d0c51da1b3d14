// Package controller provides output adapters for displaying pyrig results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "pyrig.dev/pkg/pyrig/internal/model"
)

// UI defines how workflow progress and reports reach the user.
// Implementations can use different output methods (plain text, styled, etc).
type UI interface {
	// Stdout and Stderr receive the streamed output of wrapped tools.
	Stdout() io.Writer
	Stderr() io.Writer
	DisplayBanner(ctx context.Context, title string)
	DisplayNotice(ctx context.Context, format string, args ...any)
	DisplayText(ctx context.Context, text string) error
	DisplayCoverage(ctx context.Context, report m.CoverageReport) error
	DisplayRunSummary(ctx context.Context, record m.RunRecord)
}

// NewUI returns the UI for cmd, styling output only on a terminal.
func NewUI(cmd *cobra.Command, tty bool) UI {
	return NewSimpleUI(cmd, tty)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
