package diff

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjy-dev/diff-cover/internal/exec"
	"github.com/zjy-dev/diff-cover/internal/git"
	"github.com/zjy-dev/diff-cover/internal/paths"
)

// scriptedExecutor returns a different diff for the committed, staged
// and unstaged invocations.
type scriptedExecutor struct {
	committed string
	staged    string
	unstaged  string
	calls     int
}

func (s *scriptedExecutor) Run(dir string, command string, args ...string) (*exec.ExecutionResult, error) {
	s.calls++
	joined := strings.Join(args, " ")
	switch {
	case strings.Contains(joined, "HEAD"):
		return &exec.ExecutionResult{Stdout: s.committed}, nil
	case strings.Contains(joined, "--cached"):
		return &exec.ExecutionResult{Stdout: s.staged}, nil
	default:
		return &exec.ExecutionResult{Stdout: s.unstaged}, nil
	}
}

func miniDiff(path string, startLine, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n@@ -1,0 +%d,%d @@\n", path, path, startLine, count)
	for i := 0; i < count; i++ {
		b.WriteString("+line\n")
	}
	return b.String()
}

func TestGitReporter_UnionsAllThreeSources(t *testing.T) {
	s := &scriptedExecutor{
		committed: miniDiff("a.py", 1, 2),
		staged:    miniDiff("a.py", 5, 1),
		unstaged:  miniDiff("b.py", 3, 1),
	}
	tool := git.NewDiffTool(s, git.RangeNotationThreeDot, "")

	r, err := NewGitReporter(GitReporterConfig{
		Tool:          tool,
		CompareBranch: "origin/master",
		RangeNotation: git.RangeNotationThreeDot,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, s.calls)
	assert.Equal(t, []string{"a.py", "b.py"}, r.Paths())
	assert.Equal(t, []int{1, 2, 5}, r.ChangedLines("a.py"))
	assert.Equal(t, []int{3}, r.ChangedLines("b.py"))
}

func TestGitReporter_IgnoreFlagsSkipInvocations(t *testing.T) {
	s := &scriptedExecutor{committed: miniDiff("a.py", 1, 1)}
	tool := git.NewDiffTool(s, git.RangeNotationThreeDot, "")

	r, err := NewGitReporter(GitReporterConfig{
		Tool:           tool,
		CompareBranch:  "origin/master",
		RangeNotation:  git.RangeNotationThreeDot,
		IgnoreStaged:   true,
		IgnoreUnstaged: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, s.calls, "only the committed diff should run")
	assert.Equal(t, []string{"a.py"}, r.Paths())
}

func TestGitReporter_Name(t *testing.T) {
	s := &scriptedExecutor{}
	tool := git.NewDiffTool(s, git.RangeNotationTwoDot, "")

	r, err := NewGitReporter(GitReporterConfig{
		Tool:          tool,
		CompareBranch: "origin/main",
		RangeNotation: git.RangeNotationTwoDot,
	})
	require.NoError(t, err)
	assert.Equal(t, "origin/main..HEAD, staged and unstaged changes", r.Name())

	r2, err := NewGitReporter(GitReporterConfig{
		Tool:           tool,
		CompareBranch:  "origin/main",
		RangeNotation:  git.RangeNotationTwoDot,
		IgnoreStaged:   true,
		IgnoreUnstaged: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "origin/main..HEAD", r2.Name())
}

func TestGitReporter_AppliesExcludes(t *testing.T) {
	s := &scriptedExecutor{
		committed: miniDiff("a.py", 1, 1) + miniDiff("a_test.py", 1, 1),
	}
	tool := git.NewDiffTool(s, git.RangeNotationThreeDot, "")

	r, err := NewGitReporter(GitReporterConfig{
		Tool:           tool,
		CompareBranch:  "origin/master",
		RangeNotation:  git.RangeNotationThreeDot,
		IgnoreStaged:   true,
		IgnoreUnstaged: true,
		Resolver:       paths.NewResolver(nil, []string{"*_test.py"}),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py"}, r.Paths())
}
