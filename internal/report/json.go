package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/zjy-dev/diff-cover/internal/correlate"
)

// JSONGenerator renders the machine-readable report. Percentages use
// the exact same one-decimal rounding as the text generator so the two
// outputs are cross-checkable.
type JSONGenerator struct {
	reportName string
}

// NewJSONGenerator creates a JSONGenerator.
func NewJSONGenerator(reportName string) *JSONGenerator {
	return &JSONGenerator{reportName: reportName}
}

type jsonFileStats struct {
	PercentCovered float64 `json:"percent_covered"`
	ViolationLines []int   `json:"violation_lines"`
	CoveredLines   []int   `json:"covered_lines"`
}

type jsonReport struct {
	ReportName          string                   `json:"report_name"`
	DiffName            string                   `json:"diff_name"`
	SrcStats            map[string]jsonFileStats `json:"src_stats"`
	TotalNumLines       int                      `json:"total_num_lines"`
	TotalNumViolations  int                      `json:"total_num_violations"`
	TotalPercentCovered float64                  `json:"total_percent_covered"`
	NumChangedFiles     int                      `json:"num_changed_files"`
}

// Generate implements Generator.
func (g *JSONGenerator) Generate(w io.Writer, result correlate.Result) error {
	out := jsonReport{
		ReportName:          g.reportName,
		DiffName:            result.DiffName,
		SrcStats:            make(map[string]jsonFileStats, len(result.Files)),
		TotalNumLines:       result.TotalLines,
		TotalNumViolations:  result.TotalViolations(),
		TotalPercentCovered: correlate.RoundPercent(result.Percent()),
		NumChangedFiles:     len(result.Files),
	}

	for _, f := range result.Files {
		stats := jsonFileStats{
			PercentCovered: correlate.RoundPercent(f.Percent()),
			ViolationLines: f.Violations,
			CoveredLines:   f.CoveredLineNumbers,
		}
		// Keep empty arrays instead of null for consumers.
		if stats.ViolationLines == nil {
			stats.ViolationLines = []int{}
		}
		if stats.CoveredLines == nil {
			stats.CoveredLines = []int{}
		}
		out.SrcStats[f.Path] = stats
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}
