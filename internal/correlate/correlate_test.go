package correlate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjy-dev/diff-cover/internal/coverage"
	"github.com/zjy-dev/diff-cover/internal/diff"
	"github.com/zjy-dev/diff-cover/internal/paths"
)

// fakeReporter is a diff.Reporter backed directly by a ChangeSet.
type fakeReporter struct {
	set *diff.ChangeSet
}

func (f *fakeReporter) Name() string { return "fake diff" }

func (f *fakeReporter) Paths() []string { return f.set.Paths() }

func (f *fakeReporter) ChangedLines(path string) []int { return f.set.ChangedLines(path) }

func (f *fakeReporter) Has(path string) bool { return f.set.Has(path) }

func newFakeReporter(files map[string][]int) *fakeReporter {
	set := diff.NewChangeSet()
	for path, lines := range files {
		for _, line := range lines {
			set.AddLine(path, line)
		}
	}
	return &fakeReporter{set: set}
}

func noRoots() *paths.Resolver {
	return paths.NewResolver(nil, nil)
}

func TestCompute_PartialCoverage(t *testing.T) {
	d := newFakeReporter(map[string][]int{"a.py": {10, 11, 12}})
	cov := coverage.NewSet()
	cov.Record("a.py", 10, true)
	cov.Record("a.py", 11, false)
	cov.Record("a.py", 12, true)

	result := Compute(d, cov, noRoots())
	require.Len(t, result.Files, 1)

	f := result.Files[0]
	assert.Equal(t, "a.py", f.Path)
	assert.Equal(t, 3, f.TotalLines)
	assert.Equal(t, 2, f.CoveredLines)
	assert.Equal(t, []int{11}, f.Violations)
	assert.Equal(t, []int{10, 12}, f.CoveredLineNumbers)
	assert.InDelta(t, 66.7, RoundPercent(f.Percent()), 0.001)
}

func TestCompute_FileWithNoCoverageEntry(t *testing.T) {
	d := newFakeReporter(map[string][]int{"b.py": {5}})
	cov := coverage.NewSet()

	result := Compute(d, cov, noRoots())
	require.Len(t, result.Files, 1, "untested new files must be reported, not omitted")

	f := result.Files[0]
	assert.Equal(t, 1, f.TotalLines)
	assert.Equal(t, 0, f.CoveredLines)
	assert.Equal(t, []int{5}, f.Violations)
	assert.Equal(t, 0.0, f.Percent())
	assert.Equal(t, 0.0, result.Percent())
}

func TestCompute_NotInstrumentedLinesAreViolations(t *testing.T) {
	d := newFakeReporter(map[string][]int{"a.py": {1, 2}})
	cov := coverage.NewSet()
	cov.Record("a.py", 1, true)
	// line 2 never instrumented

	result := Compute(d, cov, noRoots())
	f := result.Files[0]
	assert.Equal(t, 2, f.TotalLines)
	assert.Equal(t, 1, f.CoveredLines)
	assert.Equal(t, []int{2}, f.Violations)
}

func TestCompute_MergedInputsUnion(t *testing.T) {
	d := newFakeReporter(map[string][]int{"c.py": {7}})
	cov := mergedSets(
		record("c.py", 7, false),
		record("c.py", 7, true),
	)

	result := Compute(d, cov, noRoots())
	f := result.Files[0]
	assert.Empty(t, f.Violations)
	assert.Equal(t, 1, f.CoveredLines)
}

func TestCompute_CoverageOnlyFilesIgnored(t *testing.T) {
	d := newFakeReporter(map[string][]int{"a.py": {1}})
	cov := coverage.NewSet()
	cov.Record("a.py", 1, true)
	cov.Record("untouched.py", 1, false)

	result := Compute(d, cov, noRoots())
	require.Len(t, result.Files, 1)
	assert.Equal(t, "a.py", result.Files[0].Path)
	assert.Zero(t, result.TotalViolations())
}

func TestCompute_SortedDeterministicOutput(t *testing.T) {
	d := newFakeReporter(map[string][]int{
		"z.py": {1},
		"a.py": {1},
		"m.py": {1},
	})
	cov := coverage.NewSet()

	first := Compute(d, cov, noRoots())
	second := Compute(d, cov, noRoots())

	assert.Equal(t, first, second, "idempotent on immutable inputs")
	assert.Equal(t, "a.py", first.Files[0].Path)
	assert.Equal(t, "m.py", first.Files[1].Path)
	assert.Equal(t, "z.py", first.Files[2].Path)
}

func TestCompute_ResolvesSourceRoots(t *testing.T) {
	d := newFakeReporter(map[string][]int{"src/main/java/com/X.java": {4}})
	cov := coverage.NewSet()
	cov.Record("com/X.java", 4, true)

	resolver := paths.NewResolver([]string{"src/main/java"}, nil)
	result := Compute(d, cov, resolver)

	require.Len(t, result.Files, 1)
	assert.Equal(t, 1, result.Files[0].CoveredLines)
	assert.Empty(t, result.Files[0].Violations)
}

func TestResult_PercentBounds(t *testing.T) {
	empty := Result{}
	assert.Equal(t, 100.0, empty.Percent(), "no changed lines is vacuously covered")

	half := Result{TotalLines: 2, CoveredLines: 1}
	assert.Equal(t, 50.0, half.Percent())

	full := Result{TotalLines: 3, CoveredLines: 3}
	assert.Equal(t, 100.0, full.Percent())

	none := Result{TotalLines: 3}
	assert.Equal(t, 0.0, none.Percent())
}

func TestRoundPercent(t *testing.T) {
	assert.Equal(t, 66.7, RoundPercent(float64(2)/3*100))
	assert.Equal(t, 100.0, RoundPercent(100))
	assert.Equal(t, 0.0, RoundPercent(0))
	assert.Equal(t, 33.3, RoundPercent(float64(1)/3*100))
}

func TestPass(t *testing.T) {
	assert.True(t, Pass(100, 0))
	assert.True(t, Pass(80.0, 80))
	assert.False(t, Pass(79.9, 80))
	assert.True(t, Pass(0, 0), "threshold defaults to 0: always pass")
	// 79.96 rounds to 80.0 and therefore passes, matching the report.
	assert.True(t, Pass(79.96, 80))
}

func record(path string, line int, hit bool) *coverage.Set {
	s := coverage.NewSet()
	s.Record(path, line, hit)
	return s
}

func mergedSets(sets ...*coverage.Set) *coverage.Set {
	out := coverage.NewSet()
	for _, s := range sets {
		out.Merge(s)
	}
	return out
}
