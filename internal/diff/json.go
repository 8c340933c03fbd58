package diff

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteJSON serializes a reporter's path-to-changed-lines mapping to a JSON
// file, a side channel for inspecting what the diff source produced.
func WriteJSON(r Reporter, path string) error {
	mapping := make(map[string][]int)
	for _, p := range r.Paths() {
		mapping[p] = r.ChangedLines(p)
	}

	data, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal diff mapping: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for diff JSON: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write diff JSON: %w", err)
	}
	return nil
}
