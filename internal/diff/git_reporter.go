package diff

import (
	"fmt"
	"strings"

	"github.com/zjy-dev/diff-cover/internal/git"
	"github.com/zjy-dev/diff-cover/internal/logger"
	"github.com/zjy-dev/diff-cover/internal/paths"
)

// GitReporter builds its changed-line set from git diff output: the
// committed delta against a compare branch, optionally unioned with
// staged and unstaged working-tree changes.
type GitReporter struct {
	name string
	set  *ChangeSet
}

// GitReporterConfig configures a GitReporter build.
type GitReporterConfig struct {
	Tool           *git.DiffTool
	CompareBranch  string
	RangeNotation  string
	IgnoreStaged   bool
	IgnoreUnstaged bool
	Resolver       *paths.Resolver
}

// NewGitReporter runs the configured git diffs, parses them, and applies
// exclude patterns. A failing git invocation aborts the build: scoring
// against a partial diff would silently produce a wrong percentage.
func NewGitReporter(cfg GitReporterConfig) (*GitReporter, error) {
	set := NewChangeSet()

	committed, err := cfg.Tool.DiffCommitted(cfg.CompareBranch)
	if err != nil {
		return nil, fmt.Errorf("failed to diff against %s: %w", cfg.CompareBranch, err)
	}
	if err := ParseUnified(committed, set); err != nil {
		return nil, fmt.Errorf("failed to parse committed diff: %w", err)
	}

	if !cfg.IgnoreStaged {
		staged, err := cfg.Tool.DiffStaged()
		if err != nil {
			return nil, fmt.Errorf("failed to diff staged changes: %w", err)
		}
		if err := ParseUnified(staged, set); err != nil {
			return nil, fmt.Errorf("failed to parse staged diff: %w", err)
		}
	}

	if !cfg.IgnoreUnstaged {
		unstaged, err := cfg.Tool.DiffUnstaged()
		if err != nil {
			return nil, fmt.Errorf("failed to diff unstaged changes: %w", err)
		}
		if err := ParseUnified(unstaged, set); err != nil {
			return nil, fmt.Errorf("failed to parse unstaged diff: %w", err)
		}
	}

	applyExcludes(set, cfg.Resolver)

	r := &GitReporter{
		name: diffName(cfg.CompareBranch, cfg.RangeNotation, cfg.IgnoreStaged, cfg.IgnoreUnstaged),
		set:  set,
	}
	logger.Debug("git diff covers %d changed file(s)", len(set.Paths()))
	return r, nil
}

// diffName names the diff for report headers, noting which working-tree
// changes were included.
func diffName(compareBranch, rangeNotation string, ignoreStaged, ignoreUnstaged bool) string {
	if rangeNotation == "" {
		rangeNotation = git.RangeNotationThreeDot
	}
	name := compareBranch + rangeNotation + "HEAD"
	var extra []string
	if !ignoreStaged {
		extra = append(extra, "staged")
	}
	if !ignoreUnstaged {
		extra = append(extra, "unstaged")
	}
	if len(extra) > 0 {
		name += ", " + strings.Join(extra, " and ") + " changes"
	}
	return name
}

// applyExcludes drops excluded paths from the set.
func applyExcludes(set *ChangeSet, resolver *paths.Resolver) {
	if resolver == nil {
		return
	}
	for _, path := range set.Paths() {
		if resolver.Excluded(path) {
			logger.Debug("excluding %s from diff", path)
			set.Remove(path)
		}
	}
}

// Name implements Reporter.
func (r *GitReporter) Name() string { return r.name }

// Paths implements Reporter.
func (r *GitReporter) Paths() []string { return r.set.Paths() }

// ChangedLines implements Reporter.
func (r *GitReporter) ChangedLines(path string) []int { return r.set.ChangedLines(path) }

// Has implements Reporter.
func (r *GitReporter) Has(path string) bool { return r.set.Has(path) }
