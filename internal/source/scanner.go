package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDir lists the line item CSV files directly inside dir, sorted by plan key.
// A missing directory yields no files and no error.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	if dir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []DiscoveredFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.EqualFold(filepath.Ext(name), ".csv") || strings.HasPrefix(name, ".") {
			continue
		}
		files = append(files, DiscoveredFile{
			Path:    filepath.Join(dir, name),
			PlanKey: strings.TrimSuffix(name, filepath.Ext(name)),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].PlanKey < files[j].PlanKey
	})
	return files, nil
}
