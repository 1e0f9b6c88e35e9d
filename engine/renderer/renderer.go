package renderer

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/spaghettifunk/matkit/engine/assets"
	"github.com/spaghettifunk/matkit/engine/core"
	"github.com/spaghettifunk/matkit/engine/renderer/metadata"
)

type textureEntry struct {
	material *assets.Material
	levels   int
}

// TextureRenderer turns materials into backend textures. It is the
// assets.Preparer handed to the material system.
type TextureRenderer struct {
	backend  TextureBackend
	ids      *core.IDPool
	textures map[uint32]*textureEntry
	logger   core.Logger
}

// NewTextureRenderer caps live textures at maxTextureCount (0 = unbounded).
func NewTextureRenderer(backend TextureBackend, maxTextureCount uint32, logger core.Logger) *TextureRenderer {
	if logger == nil {
		logger = core.DefaultLogger()
	}
	return &TextureRenderer{
		backend:  backend,
		ids:      core.NewIDPool(maxTextureCount),
		textures: make(map[uint32]*textureEntry),
		logger:   logger,
	}
}

func (tr *TextureRenderer) Prepare(m *assets.Material, mode metadata.FilterMode) (uint32, error) {
	id, err := tr.ids.Acquire(m)
	if err != nil {
		return metadata.InvalidID, fmt.Errorf("prepare '%s': %w", m.Name(), err)
	}

	levels := BuildMipChain(m.Image(), mode.Minify.UsesMipmaps())
	if err := tr.backend.TextureCreate(id, levels, mode); err != nil {
		_ = tr.ids.Release(id)
		return metadata.InvalidID, fmt.Errorf("prepare '%s': %w", m.Name(), err)
	}
	tr.textures[id] = &textureEntry{material: m, levels: len(levels)}
	return id, nil
}

func (tr *TextureRenderer) SetFilterMode(m *assets.Material, mode metadata.FilterMode) {
	id := m.TextureHandle()
	entry, ok := tr.textures[id]
	if !ok {
		tr.logger.Warnf("Filter change for unknown texture '%s' (%d)", m.Name(), id)
		return
	}

	// A texture created without mip levels has to be recreated once a mipmap
	// filter is requested.
	if mode.Minify.UsesMipmaps() && entry.levels == 1 && (m.Width() > 1 || m.Height() > 1) {
		levels := BuildMipChain(m.Image(), true)
		if err := tr.backend.TextureDestroy(id); err != nil {
			tr.logger.Warnf("Destroying texture '%s' (%d): %s", m.Name(), id, err)
		}
		if err := tr.backend.TextureCreate(id, levels, mode); err != nil {
			tr.logger.Errorf("Recreating texture '%s' (%d) with mipmaps: %s", m.Name(), id, err)
			return
		}
		entry.levels = len(levels)
		return
	}

	if err := tr.backend.TextureSetFilter(id, mode); err != nil {
		tr.logger.Errorf("Setting filter mode of '%s' (%d): %s", m.Name(), id, err)
	}
}

func (tr *TextureRenderer) Release(m *assets.Material) {
	id := m.TextureHandle()
	if _, ok := tr.textures[id]; !ok {
		return
	}
	if err := tr.backend.TextureDestroy(id); err != nil {
		tr.logger.Warnf("Destroying texture '%s' (%d): %s", m.Name(), id, err)
	}
	delete(tr.textures, id)
	if err := tr.ids.Release(id); err != nil {
		tr.logger.Warnf("Releasing texture id: %s", err)
	}
}

// LiveTextures is the number of textures currently held by the backend.
func (tr *TextureRenderer) LiveTextures() int {
	return len(tr.textures)
}

// BuildMipChain returns the base image followed, when mipmaps is set, by
// successively halved levels down to 1x1.
func BuildMipChain(base *image.NRGBA, mipmaps bool) []*image.NRGBA {
	levels := []*image.NRGBA{base}
	if !mipmaps {
		return levels
	}
	w, h := base.Bounds().Dx(), base.Bounds().Dy()
	prev := base
	for w > 1 || h > 1 {
		w = max(w/2, 1)
		h = max(h/2, 1)
		next := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(next, next.Bounds(), prev, prev.Bounds(), draw.Src, nil)
		levels = append(levels, next)
		prev = next
	}
	return levels
}
