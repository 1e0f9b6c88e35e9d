package assets

import "github.com/spaghettifunk/matkit/engine/renderer/metadata"

// MaterialConfig describes where material collections live and which files
// count as materials. It is handed unchanged to the Locator and the Loader.
type MaterialConfig struct {
	// Root is the directory holding one sub-directory per collection.
	Root string
	// Collections lists collection names under Root in precedence order
	// (later wins). Empty means every sub-directory, sorted by name.
	Collections []string
	// Extensions without the dot. Empty accepts every decodable image.
	Extensions []string
	// Excludes are path.Match patterns tested against collection and material names.
	Excludes []string
}

// Locator enumerates candidate collection paths. The order defines override
// precedence: later paths win name collisions.
type Locator interface {
	Locate(config MaterialConfig) ([]string, error)
}

// Loader turns a collection path into a Collection. A successful load may
// yield zero materials.
type Loader interface {
	Load(path string, config MaterialConfig) (*Collection, error)
}

// Preparer performs the GPU side work for materials. Calls happen on the
// host's main goroutine only.
type Preparer interface {
	// Prepare uploads m and returns the texture handle it was given.
	Prepare(m *Material, mode metadata.FilterMode) (uint32, error)
	// SetFilterMode updates the sampler of an already prepared material.
	SetFilterMode(m *Material, mode metadata.FilterMode)
	// Release frees whatever Prepare created for m.
	Release(m *Material)
}

type LocatorFunc func(config MaterialConfig) ([]string, error)

func (f LocatorFunc) Locate(config MaterialConfig) ([]string, error) {
	return f(config)
}

type LoaderFunc func(path string, config MaterialConfig) (*Collection, error)

func (f LoaderFunc) Load(path string, config MaterialConfig) (*Collection, error) {
	return f(path, config)
}
