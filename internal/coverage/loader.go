package coverage

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// Load parses every report file and merges the results. Parsing runs in
// parallel: the union merge is commutative and associative, so the final
// Set does not depend on completion order. Any single malformed report
// fails the whole load.
func Load(reportPaths []string) (*Set, error) {
	merged := NewSet()
	var mu sync.Mutex

	var g errgroup.Group
	for _, reportPath := range reportPaths {
		reportPath := reportPath
		g.Go(func() error {
			set, err := ParseCobertura(reportPath)
			if err != nil {
				return err
			}
			mu.Lock()
			merged.Merge(set)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return merged, nil
}
