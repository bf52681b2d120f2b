package parser

import (
	"fmt"
	"path/filepath"
)

// ExpandInputs expands simulation log paths and glob patterns given on the
// command line. Results keep argument order, with each pattern's matches in
// lexical order, and a path reached twice is kept only once. A pattern that
// matches nothing is kept as a literal path so the caller reports it as
// missing.
func ExpandInputs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			add(pattern)
			continue
		}

		for _, match := range matches {
			add(match)
		}
	}

	return result, nil
}
