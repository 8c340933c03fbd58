package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/zjy-dev/diff-cover/internal/correlate"
)

const textDivider = "-------------\n"

// TextGenerator renders the plain-text summary written to stdout.
type TextGenerator struct{}

// NewTextGenerator creates a TextGenerator.
func NewTextGenerator() *TextGenerator {
	return &TextGenerator{}
}

// Generate writes the summary: header naming the diff, one line per
// changed file with its percentage and missing lines in path order,
// then the aggregate totals.
func (g *TextGenerator) Generate(w io.Writer, result correlate.Result) error {
	var b strings.Builder

	b.WriteString(textDivider)
	b.WriteString("Diff Coverage\n")
	fmt.Fprintf(&b, "Diff: %s\n", result.DiffName)
	b.WriteString(textDivider)

	if len(result.Files) == 0 {
		b.WriteString("No lines with coverage information in this diff.\n")
	}
	for _, f := range result.Files {
		fmt.Fprintf(&b, "%s (%.1f%%)", f.Path, correlate.RoundPercent(f.Percent()))
		if len(f.Violations) > 0 {
			fmt.Fprintf(&b, ": Missing lines %s", joinLines(f.Violations))
		}
		b.WriteString("\n")
	}

	b.WriteString(textDivider)
	fmt.Fprintf(&b, "Total:    %d line(s)\n", result.TotalLines)
	fmt.Fprintf(&b, "Missing:  %d line(s)\n", result.TotalViolations())
	fmt.Fprintf(&b, "Files:    %d\n", len(result.Files))
	fmt.Fprintf(&b, "Coverage: %.1f%%\n", correlate.RoundPercent(result.Percent()))
	b.WriteString(textDivider)

	_, err := io.WriteString(w, b.String())
	return err
}

// joinLines renders line numbers as "11,14,15".
func joinLines(lines []int) string {
	parts := make([]string, len(lines))
	for i, line := range lines {
		parts[i] = strconv.Itoa(line)
	}
	return strings.Join(parts, ",")
}
