package memstore

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/edelzer/memory-toolkit/internal/model"
)

// ScanCategory lists every record in one category, sorted by relative
// path. A missing category directory yields an empty list: upstream
// agents create directories lazily.
func (s *Store) ScanCategory(category string) ([]model.FileInfo, error) {
	if !model.ValidCategories[category] {
		return nil, &invalidCategoryError{category}
	}
	dir := filepath.Join(s.memoryRoot, category)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	matches, err := doublestar.Glob(os.DirFS(dir), "*.xml")
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	var files []model.FileInfo
	for _, name := range matches {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, model.FileInfo{
			RelPath:  category + "/" + name,
			Category: category,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}
	return files, nil
}

// ScanAll lists every record across all six categories in the fixed
// category order, each category sorted by path. The ordering keeps
// batch output deterministic across runs.
func (s *Store) ScanAll() ([]model.FileInfo, error) {
	var all []model.FileInfo
	for _, cat := range model.Categories {
		files, err := s.ScanCategory(cat)
		if err != nil {
			return nil, err
		}
		all = append(all, files...)
	}
	return all, nil
}

type invalidCategoryError struct {
	category string
}

func (e *invalidCategoryError) Error() string {
	return "invalid category: " + e.category
}
