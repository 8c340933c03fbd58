package diff

import "sort"

// Reporter exposes the set of changed files and their changed line
// numbers, independent of how the diff was produced.
type Reporter interface {
	// Name describes the diff source for report headers.
	Name() string

	// Paths returns every path with at least one changed line, sorted.
	Paths() []string

	// ChangedLines returns the changed line numbers for a path, sorted
	// ascending with no duplicates. Returns nil for unknown paths.
	ChangedLines(path string) []int

	// Has reports whether the path has any changed lines.
	Has(path string) bool
}

// ChangeSet is the mutable accumulator behind both reporters. Once a
// reporter is built the set is only read.
type ChangeSet struct {
	lines map[string]map[int]bool
}

// NewChangeSet creates an empty ChangeSet.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{lines: make(map[string]map[int]bool)}
}

// AddLine records a changed line for the given path.
func (c *ChangeSet) AddLine(path string, line int) {
	if c.lines[path] == nil {
		c.lines[path] = make(map[int]bool)
	}
	c.lines[path][line] = true
}

// Merge unions another ChangeSet into this one.
func (c *ChangeSet) Merge(other *ChangeSet) {
	for path, lines := range other.lines {
		for line := range lines {
			c.AddLine(path, line)
		}
	}
}

// Remove drops a path entirely, used when applying exclude patterns.
func (c *ChangeSet) Remove(path string) {
	delete(c.lines, path)
}

// Paths returns every path with at least one changed line, sorted.
func (c *ChangeSet) Paths() []string {
	paths := make([]string, 0, len(c.lines))
	for path, lines := range c.lines {
		if len(lines) > 0 {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

// ChangedLines returns the sorted changed line numbers for a path.
func (c *ChangeSet) ChangedLines(path string) []int {
	lines, ok := c.lines[path]
	if !ok {
		return nil
	}
	result := make([]int, 0, len(lines))
	for line := range lines {
		result = append(result, line)
	}
	sort.Ints(result)
	return result
}

// Has reports whether the path has any changed lines.
func (c *ChangeSet) Has(path string) bool {
	return len(c.lines[path]) > 0
}
