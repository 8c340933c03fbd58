package coverage

import (
	"sort"

	"github.com/zjy-dev/diff-cover/internal/paths"
)

// LineStatus is the tri-state coverage classification of a single line.
// Keeping "never measured" distinct from "measured and missed" prevents
// the two from being silently conflated downstream.
type LineStatus int

const (
	// NotInstrumented means no supplied report mentions the line.
	NotInstrumented LineStatus = iota
	// Miss means at least one report mentions the line and none hit it.
	Miss
	// Hit means at least one report recorded the line as executed.
	Hit
)

// String returns the lowercase name of the status.
func (s LineStatus) String() string {
	switch s {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	default:
		return "not-instrumented"
	}
}

// Set holds merged per-line hit data across every supplied coverage
// report. Merging is a union: a line is hit if any report hit it, which
// reflects coverage coming from multiple test runs.
type Set struct {
	files map[string]map[int]bool
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{files: make(map[string]map[int]bool)}
}

// Record adds one instrumented line. Hit status is sticky: once a line
// is recorded as hit, later miss records cannot demote it.
func (s *Set) Record(path string, line int, hit bool) {
	path = paths.Normalize(path)
	if s.files[path] == nil {
		s.files[path] = make(map[int]bool)
	}
	s.files[path][line] = s.files[path][line] || hit
}

// Merge unions another Set into this one. The operation is commutative
// and associative, so reports may be merged in any order.
func (s *Set) Merge(other *Set) {
	for path, lines := range other.files {
		for line, hit := range lines {
			s.Record(path, line, hit)
		}
	}
}

// Status classifies a line for the given path.
func (s *Set) Status(path string, line int) LineStatus {
	lines, ok := s.files[path]
	if !ok {
		return NotInstrumented
	}
	hit, ok := lines[line]
	if !ok {
		return NotInstrumented
	}
	if hit {
		return Hit
	}
	return Miss
}

// Has reports whether any report instruments the path.
func (s *Set) Has(path string) bool {
	return len(s.files[path]) > 0
}

// Paths returns every instrumented path, sorted.
func (s *Set) Paths() []string {
	result := make([]string, 0, len(s.files))
	for path := range s.files {
		result = append(result, path)
	}
	sort.Strings(result)
	return result
}

// Resolved returns a new Set whose paths are rewritten through the
// resolver so that they compare directly against diff paths. Excluded
// paths are dropped. Colliding paths (two report paths resolving to the
// same file) are unioned.
func (s *Set) Resolved(resolver *paths.Resolver, diffHas func(string) bool) *Set {
	out := NewSet()
	for path, lines := range s.files {
		if resolver.Excluded(path) {
			continue
		}
		key := resolver.Resolve(path, diffHas)
		if resolver.Excluded(key) {
			continue
		}
		for line, hit := range lines {
			out.Record(key, line, hit)
		}
	}
	return out
}
