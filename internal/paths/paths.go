package paths

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Normalize converts a path to forward-slash, cleaned, relative form.
// Both the diff source and the coverage reports go through this before
// any comparison, so slash direction or a leading "./" never causes a
// false mismatch between the two.
func Normalize(p string) string {
	p = filepath.ToSlash(p)
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	if p == "." {
		return ""
	}
	return p
}

// Resolver reconciles coverage-report paths with diff paths using the
// configured source roots, and filters files via exclude glob patterns.
type Resolver struct {
	srcRoots []string
	excludes []string
	baseDir  string
}

// NewResolver creates a Resolver. Source roots and patterns are
// normalized up front.
func NewResolver(srcRoots, excludes []string) *Resolver {
	roots := make([]string, 0, len(srcRoots))
	for _, r := range srcRoots {
		if n := Normalize(r); n != "" {
			roots = append(roots, n)
		}
	}
	return &Resolver{srcRoots: roots, excludes: excludes}
}

// SetBaseDir anchors on-disk existence checks at dir instead of the
// working directory. Git emits paths relative to the repository root,
// so when the tool runs from a subdirectory the checks must be
// anchored there too or every candidate misses.
func (r *Resolver) SetBaseDir(dir string) {
	r.baseDir = dir
}

// Excluded reports whether the path matches any exclude glob pattern.
// Patterns without a slash also match against the base name, mirroring
// fnmatch-style exclusion.
func (r *Resolver) Excluded(p string) bool {
	p = Normalize(p)
	for _, pattern := range r.excludes {
		if ok, err := path.Match(Normalize(pattern), p); err == nil && ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, err := path.Match(pattern, path.Base(p)); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// Resolve maps a path as it appears in a coverage report to the key used
// by the diff. diffHas reports whether the diff knows a candidate path.
//
// Resolution order: the normalized path itself; the path with the longest
// matching source-root prefix stripped; the path prefixed by each source
// root in configured order (taken when the diff knows it or the file
// exists on disk). If nothing matches, the stripped form is returned so
// the caller still gets a stable key.
func (r *Resolver) Resolve(covPath string, diffHas func(string) bool) string {
	p := Normalize(covPath)
	if diffHas(p) {
		return p
	}

	if stripped, ok := r.stripRoot(p); ok && diffHas(stripped) {
		return stripped
	}

	for _, root := range r.srcRoots {
		candidate := path.Join(root, p)
		if diffHas(candidate) {
			return candidate
		}
		if _, err := os.Stat(filepath.Join(r.baseDir, filepath.FromSlash(candidate))); err == nil {
			return candidate
		}
	}

	if stripped, ok := r.stripRoot(p); ok {
		return stripped
	}
	return p
}

// stripRoot removes the longest source-root prefix from p.
func (r *Resolver) stripRoot(p string) (string, bool) {
	roots := make([]string, len(r.srcRoots))
	copy(roots, r.srcRoots)
	sort.Slice(roots, func(i, j int) bool { return len(roots[i]) > len(roots[j]) })

	for _, root := range roots {
		if strings.HasPrefix(p, root+"/") {
			return p[len(root)+1:], true
		}
	}
	return p, false
}
