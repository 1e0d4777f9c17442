package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	".git":         true,
	".charmpack":   true,
	".tox":         true,
	"venv":         true,
	".venv":        true,
	"dist":         true,
	"build":        true,
}

// FileScanner implements domain.DescriptorFinder by walking the filesystem.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// Find returns the absolute paths of every file named fileName under root,
// sorted. Built-in skip directories and excludePaths are not descended into.
func (s *FileScanner) Find(root, fileName string, excludePaths ...string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	// Merge extra excludes with built-in skip dirs.
	extraSkip := make(map[string]bool, len(excludePaths))
	for _, p := range excludePaths {
		extraSkip[filepath.Clean(strings.TrimSuffix(p, "/"))] = true
	}

	var found []string
	err = filepath.WalkDir(absRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			rel, _ := filepath.Rel(absRoot, path)
			if skipDirs[d.Name()] || extraSkip[d.Name()] || extraSkip[rel] {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Name() == fileName {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(found)
	return found, nil
}
