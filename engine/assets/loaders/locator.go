package loaders

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/spaghettifunk/matkit/engine/assets"
	"github.com/spaghettifunk/matkit/engine/core"
)

// DirectoryLocator enumerates collection directories below a root.
type DirectoryLocator struct {
	FS fs.FS
}

func NewDirectoryLocator(fsys fs.FS) *DirectoryLocator {
	return &DirectoryLocator{FS: fsys}
}

// Locate returns explicitly configured collections in their given order. With
// none configured it returns every sub-directory of the root sorted by name,
// minus the excluded ones. Explicit collections are not checked for
// existence; a missing one surfaces as a load failure instead.
func (dl *DirectoryLocator) Locate(config assets.MaterialConfig) ([]string, error) {
	root := cleanRoot(config.Root)

	if len(config.Collections) > 0 {
		paths := make([]string, 0, len(config.Collections))
		for _, c := range config.Collections {
			c = strings.TrimSpace(c)
			if c == "" {
				continue
			}
			paths = append(paths, path.Join(root, c))
		}
		return paths, nil
	}

	info, err := fs.Stat(dl.FS, root)
	if err != nil {
		return nil, fmt.Errorf("locate collections in '%s': %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("locate collections in '%s': %w", root, core.ErrNotADirectory)
	}

	// fs.ReadDir sorts entries by file name.
	entries, err := fs.ReadDir(dl.FS, root)
	if err != nil {
		return nil, fmt.Errorf("locate collections in '%s': %w", root, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || excluded(entry.Name(), config.Excludes) {
			continue
		}
		paths = append(paths, path.Join(root, entry.Name()))
	}
	return paths, nil
}

// cleanRoot turns a configured root into a valid fs.FS path.
func cleanRoot(root string) string {
	root = strings.Trim(strings.TrimSpace(root), "/")
	if root == "" {
		return "."
	}
	return path.Clean(root)
}

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
