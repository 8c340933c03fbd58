package report

import (
	"io"

	"github.com/zjy-dev/diff-cover/internal/correlate"
)

// Generator renders a correlation result. Implementations are pure
// formatting layers: they never mutate the result they render, so the
// same result can be passed through several generators.
type Generator interface {
	Generate(w io.Writer, result correlate.Result) error
}
