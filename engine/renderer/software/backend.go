package software

import (
	"fmt"
	"image"

	"github.com/spaghettifunk/matkit/engine/renderer/metadata"
)

// Texture is the in-memory stand-in for a GPU texture.
type Texture struct {
	ID     uint32
	Levels []*image.NRGBA
	Mode   metadata.FilterMode
}

// Backend keeps textures in memory. It is used headless and in tests, where
// its counters expose how much GPU work a commit performed.
type Backend struct {
	textures map[uint32]*Texture

	Creates       int
	FilterChanges int
	Destroys      int
}

func NewBackend() *Backend {
	return &Backend{
		textures: make(map[uint32]*Texture),
	}
}

func (b *Backend) TextureCreate(id uint32, levels []*image.NRGBA, mode metadata.FilterMode) error {
	if _, ok := b.textures[id]; ok {
		return fmt.Errorf("texture %d already exists", id)
	}
	if len(levels) == 0 {
		return fmt.Errorf("texture %d has no levels", id)
	}
	b.textures[id] = &Texture{ID: id, Levels: levels, Mode: mode}
	b.Creates++
	return nil
}

func (b *Backend) TextureSetFilter(id uint32, mode metadata.FilterMode) error {
	t, ok := b.textures[id]
	if !ok {
		return fmt.Errorf("texture %d does not exist", id)
	}
	t.Mode = mode
	b.FilterChanges++
	return nil
}

func (b *Backend) TextureDestroy(id uint32) error {
	if _, ok := b.textures[id]; !ok {
		return fmt.Errorf("texture %d does not exist", id)
	}
	delete(b.textures, id)
	b.Destroys++
	return nil
}

// Texture returns the texture stored under id.
func (b *Backend) Texture(id uint32) (*Texture, bool) {
	t, ok := b.textures[id]
	return t, ok
}

func (b *Backend) Len() int {
	return len(b.textures)
}
