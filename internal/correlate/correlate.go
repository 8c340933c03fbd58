package correlate

import (
	"math"

	"github.com/zjy-dev/diff-cover/internal/coverage"
	"github.com/zjy-dev/diff-cover/internal/diff"
	"github.com/zjy-dev/diff-cover/internal/logger"
	"github.com/zjy-dev/diff-cover/internal/paths"
)

// FileResult holds the correlation outcome for one changed file.
type FileResult struct {
	Path         string
	TotalLines   int
	CoveredLines int
	// Violations are changed lines that no report hit, sorted ascending.
	// This includes lines the coverage data never instrumented: a changed
	// line nobody measured is scored as uncovered, not skipped.
	Violations []int
	// CoveredLineNumbers are the changed lines that were hit, sorted.
	CoveredLineNumbers []int
}

// Percent returns the file's changed-line coverage percentage.
// A file with no changed lines is vacuously fully covered.
func (f FileResult) Percent() float64 {
	if f.TotalLines == 0 {
		return 100
	}
	return float64(f.CoveredLines) / float64(f.TotalLines) * 100
}

// Result aggregates per-file results for one run.
type Result struct {
	// DiffName describes the diff source for report headers.
	DiffName string
	// Files is sorted by path for deterministic output.
	Files        []FileResult
	TotalLines   int
	CoveredLines int
}

// Percent returns the aggregate changed-line coverage percentage,
// defined as 100 when there are no changed lines at all.
func (r Result) Percent() float64 {
	if r.TotalLines == 0 {
		return 100
	}
	return float64(r.CoveredLines) / float64(r.TotalLines) * 100
}

// TotalViolations counts violations across all files.
func (r Result) TotalViolations() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Violations)
	}
	return n
}

// RoundPercent rounds to one decimal place. Every generator and the
// gate use this same rounding so text, JSON and exit status agree.
func RoundPercent(p float64) float64 {
	return math.Round(p*10) / 10
}

// Compute intersects the diff's changed lines with the merged coverage
// data. Coverage paths are first resolved against the diff's paths via
// the resolver; files present in the diff but absent from coverage are
// still scored, at 0%, with every changed line a violation.
func Compute(d diff.Reporter, cov *coverage.Set, resolver *paths.Resolver) Result {
	resolved := cov.Resolved(resolver, d.Has)

	result := Result{DiffName: d.Name()}
	for _, path := range d.Paths() {
		changed := d.ChangedLines(path)
		if len(changed) == 0 {
			continue
		}

		file := FileResult{Path: path, TotalLines: len(changed)}
		for _, line := range changed {
			switch resolved.Status(path, line) {
			case coverage.Hit:
				file.CoveredLines++
				file.CoveredLineNumbers = append(file.CoveredLineNumbers, line)
			default:
				file.Violations = append(file.Violations, line)
			}
		}

		if !resolved.Has(path) {
			logger.Debug("no coverage data for %s, all %d changed line(s) are violations", path, len(changed))
		}
		result.Files = append(result.Files, file)
		result.TotalLines += file.TotalLines
		result.CoveredLines += file.CoveredLines
	}
	return result
}

// Pass is the CI gate: coverage at or above the threshold passes.
// The comparison uses the same one-decimal rounding as the reports, so
// the decision always matches the displayed percentage.
func Pass(percent, failUnder float64) bool {
	return RoundPercent(percent) >= failUnder
}
