// Package discover locates dashboard translation directories in a source
// tree without building anything.
package discover

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// specificSuffix marks dashboard-specific translation sources.
const specificSuffix = "_specific.json"

// Dashboard is a directory holding dashboard-specific translation sources.
type Dashboard struct {
	// Path is relative to the scanned root.
	Path string
	// Languages are the stems of the *_specific.json files found, sorted.
	Languages []string
}

// Scan walks root and returns every directory containing *_specific.json
// files. Dot-directories are skipped; the conventional _*_core dirs the
// dashboards use are not considered hidden.
func Scan(root string) ([]Dashboard, error) {
	found := make(map[string][]string)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return fs.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), specificSuffix) {
			return nil
		}
		lang := strings.TrimSuffix(d.Name(), specificSuffix)
		if lang == "" {
			return nil
		}

		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		found[rel] = append(found[rel], lang)
		return nil
	})
	if err != nil {
		return nil, err
	}

	dashboards := make([]Dashboard, 0, len(found))
	for dir, langs := range found {
		sort.Strings(langs)
		dashboards = append(dashboards, Dashboard{Path: dir, Languages: langs})
	}
	sort.Slice(dashboards, func(i, j int) bool {
		return dashboards[i].Path < dashboards[j].Path
	})
	return dashboards, nil
}
