package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "pyrig.dev/pkg/pyrig/internal/model"
)

const bannerRule = "--------------------------"

// SimpleUI implements UI on top of the cobra command's output streams.
type SimpleUI struct {
	cmd    *cobra.Command
	styled bool

	banner lipgloss.Style
	pass   lipgloss.Style
	fail   lipgloss.Style
}

// NewSimpleUI creates a new SimpleUI. When styled is false no ANSI
// sequences are written.
func NewSimpleUI(cmd *cobra.Command, styled bool) *SimpleUI {
	return &SimpleUI{
		cmd:    cmd,
		styled: styled,
		banner: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		pass:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		fail:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	}
}

// Stdout returns the command's output stream.
func (s *SimpleUI) Stdout() io.Writer {
	return s.cmd.OutOrStdout()
}

// Stderr returns the command's error stream.
func (s *SimpleUI) Stderr() io.Writer {
	return s.cmd.ErrOrStderr()
}

// DisplayBanner prints a ruled heading.
func (s *SimpleUI) DisplayBanner(ctx context.Context, title string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", s.render(s.banner, fmt.Sprintf("%s %s %s", bannerRule, title, bannerRule)))
}

// DisplayNotice prints a single informational line.
func (s *SimpleUI) DisplayNotice(ctx context.Context, format string, args ...any) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf(format+"\n", args...)
}

// DisplayText prints a report produced by a wrapped tool.
func (s *SimpleUI) DisplayText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	_, err := io.WriteString(s.cmd.OutOrStdout(), text)

	return err
}

// DisplayCoverage renders a coverage report as a table.
func (s *SimpleUI) DisplayCoverage(ctx context.Context, report m.CoverageReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderCoverageTable(report))

	return nil
}

func renderCoverageTable(report m.CoverageReport) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Name", "Stmts", "Miss", "Cover"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})

	names := make([]string, 0, len(report.Files))
	for name := range report.Files {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		table.Append(summaryRow(name, report.Files[name].Summary))
	}

	table.SetFooter(summaryRow("TOTAL", report.Totals))
	table.Render()

	return tableBuffer.String()
}

func summaryRow(name string, summary m.CoverageSummary) []string {
	return []string{
		name,
		fmt.Sprintf("%d", summary.NumStatements),
		fmt.Sprintf("%d", summary.MissingLines),
		fmt.Sprintf("%.0f%%", summary.PercentCovered),
	}
}

// DisplayRunSummary prints the outcome of a tox run.
func (s *SimpleUI) DisplayRunSummary(ctx context.Context, record m.RunRecord) {
	if err := ctx.Err(); err != nil {
		return
	}

	status := s.render(s.pass, "passed")
	if !record.Passed() {
		status = s.render(s.fail, fmt.Sprintf("failed (exit %d)", record.ExitCode))
	}

	s.printf("tox %s env %s in %s\n", status, record.Mode, record.Duration.Round(10*time.Millisecond))
}

func (s *SimpleUI) render(style lipgloss.Style, text string) string {
	if !s.styled {
		return text
	}

	return style.Render(text)
}

func (s *SimpleUI) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
