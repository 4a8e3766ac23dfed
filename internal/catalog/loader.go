package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a catalog from a JSON file. An empty path falls back to the
// built-in seed content.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return New(seedCourses())
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var courses []Course
	if err := json.Unmarshal(buf, &courses); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}
	return New(courses)
}
