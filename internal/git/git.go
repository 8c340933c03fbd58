package git

import (
	"fmt"
	"strings"

	"github.com/zjy-dev/diff-cover/internal/exec"
)

// Range notations accepted by git when diffing against a branch.
const (
	RangeNotationThreeDot = "..."
	RangeNotationTwoDot   = ".."
)

// baseArgs are shared by every diff invocation. -U0 keeps hunks minimal
// so the parser only sees changed lines plus headers; prefix and color
// settings keep the output stable regardless of user git config.
var baseArgs = []string{
	"-c", "diff.mnemonicprefix=no",
	"-c", "diff.noprefix=no",
	"diff",
	"--no-color",
	"--no-ext-diff",
	"-U0",
}

// DiffTool runs git diff and returns the raw unified diff text.
type DiffTool struct {
	executor      exec.Executor
	rangeNotation string
	workDir       string
}

// NewDiffTool creates a DiffTool. rangeNotation must be ".." or "...".
func NewDiffTool(executor exec.Executor, rangeNotation, workDir string) *DiffTool {
	return &DiffTool{
		executor:      executor,
		rangeNotation: rangeNotation,
		workDir:       workDir,
	}
}

// DiffCommitted returns the diff of HEAD against the compare branch.
func (t *DiffTool) DiffCommitted(compareBranch string) (string, error) {
	rangeSpec := compareBranch + t.rangeNotation + "HEAD"
	return t.run(append(append([]string{}, baseArgs...), rangeSpec))
}

// DiffStaged returns the diff of staged (index) changes.
func (t *DiffTool) DiffStaged() (string, error) {
	return t.run(append(append([]string{}, baseArgs...), "--cached"))
}

// DiffUnstaged returns the diff of unstaged working-tree changes.
func (t *DiffTool) DiffUnstaged() (string, error) {
	return t.run(append([]string{}, baseArgs...))
}

func (t *DiffTool) run(args []string) (string, error) {
	result, err := t.executor.Run(t.workDir, "git", args...)
	if err != nil {
		return "", fmt.Errorf("failed to run git diff: %w", err)
	}
	if result.ExitCode != 0 {
		return "", fmt.Errorf("git diff exited with %d: %s", result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return result.Stdout, nil
}

// RepoRoot returns the top-level directory of the repository containing dir.
func RepoRoot(executor exec.Executor, dir string) (string, error) {
	result, err := executor.Run(dir, "git", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("failed to locate git repository: %w", err)
	}
	if result.ExitCode != 0 {
		return "", fmt.Errorf("not a git repository: %s", strings.TrimSpace(result.Stderr))
	}
	return strings.TrimSpace(result.Stdout), nil
}
