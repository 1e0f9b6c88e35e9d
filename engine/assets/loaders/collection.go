package loaders

import (
	"fmt"
	"io/fs"
	"path"
	"time"

	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/matkit/engine/assets"
	"github.com/spaghettifunk/matkit/engine/core"
)

// DirectoryLoader loads every image file directly inside a collection
// directory. Each file becomes a material named after its stem.
type DirectoryLoader struct {
	FS     fs.FS
	Logger core.Logger
}

func NewDirectoryLoader(fsys fs.FS, logger core.Logger) *DirectoryLoader {
	return &DirectoryLoader{FS: fsys, Logger: logger}
}

func (dl *DirectoryLoader) Load(dir string, config assets.MaterialConfig) (*assets.Collection, error) {
	start := time.Now()

	info, err := fs.Stat(dl.FS, dir)
	if err != nil {
		return nil, fmt.Errorf("load collection '%s': %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("load collection '%s': %w", dir, core.ErrNotADirectory)
	}

	entries, err := fs.ReadDir(dl.FS, dir)
	if err != nil {
		return nil, fmt.Errorf("load collection '%s': %w", dir, err)
	}

	materials := make([]*assets.Material, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !acceptsFile(entry.Name(), config) {
			continue
		}
		name := path.Join(dir, entry.Name())
		img, err := LoadImage(dl.FS, name)
		if err != nil {
			dl.logger().Warnf("Skipping material '%s': %s", name, err)
			continue
		}
		materials = append(materials, assets.NewMaterial(stem(entry.Name()), img))
	}

	dl.logger().Debugf("Loaded %d materials from '%s' in %s", len(materials), dir, time.Since(start))
	return assets.NewCollection(dir, materials), nil
}

func (dl *DirectoryLoader) logger() core.Logger {
	if dl.Logger == nil {
		return core.DefaultLogger()
	}
	return dl.Logger
}

func acceptsFile(name string, config assets.MaterialConfig) bool {
	ext := extension(name)
	if !IsSupported(ext) {
		return false
	}
	if len(config.Extensions) > 0 && !slices.ContainsFunc(config.Extensions, func(e string) bool {
		return normalizeExtension(e) == ext
	}) {
		return false
	}
	return !excluded(stem(name), config.Excludes)
}

func excluded(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
