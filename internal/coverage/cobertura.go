package coverage

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/zjy-dev/diff-cover/internal/logger"
)

// Cobertura XML shape, reduced to the elements we read. A class entry
// carries the source file name and its instrumented lines; everything
// else (branch rates, methods, sources) is irrelevant to line scoring.
type coberturaReport struct {
	XMLName  xml.Name           `xml:"coverage"`
	Packages []coberturaPackage `xml:"packages>package"`
}

type coberturaPackage struct {
	Classes []coberturaClass `xml:"classes>class"`
}

type coberturaClass struct {
	Filename string          `xml:"filename,attr"`
	Lines    []coberturaLine `xml:"lines>line"`
}

type coberturaLine struct {
	Number int `xml:"number,attr"`
	Hits   int `xml:"hits,attr"`
}

// ParseCobertura reads a single Cobertura XML report into a Set. Numeric
// hit counts are reduced to a boolean before merging: count > 0 is a hit.
// Any parse failure is returned as-is; a malformed report must fail the
// whole run rather than produce a silently wrong percentage.
func ParseCobertura(reportPath string) (*Set, error) {
	data, err := os.ReadFile(reportPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read coverage report %s: %w", reportPath, err)
	}

	var report coberturaReport
	if err := xml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("malformed coverage report %s: %w", reportPath, err)
	}

	set := NewSet()
	for _, pkg := range report.Packages {
		for _, class := range pkg.Classes {
			if class.Filename == "" {
				continue
			}
			for _, line := range class.Lines {
				if line.Number < 1 {
					return nil, fmt.Errorf("malformed coverage report %s: line number %d for %s", reportPath, line.Number, class.Filename)
				}
				set.Record(class.Filename, line.Number, line.Hits > 0)
			}
		}
	}

	logger.Debug("parsed %s: %d instrumented file(s)", reportPath, len(set.Paths()))
	return set, nil
}
