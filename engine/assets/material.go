package assets

import (
	"image"
	"image/draw"
	"strings"

	"github.com/spaghettifunk/matkit/engine/renderer/metadata"
)

type MaterialFlag uint8

const (
	/** @brief Indicates if the material image has transparency. */
	MaterialFlagHasTransparency MaterialFlag = 0x1
)

// Material is a single named texture owned by exactly one Collection.
// Lookups are case-insensitive; Name keeps the original spelling.
type Material struct {
	name   string
	image  *image.NRGBA
	flags  MaterialFlag
	mode   metadata.FilterMode
	handle uint32
	// Incremented every time GPU state is (re)created or its sampler changes.
	generation uint32
	prepared   bool
	released   bool
}

// NewMaterial converts img to NRGBA. A nil image yields an empty 0x0 material.
func NewMaterial(name string, img image.Image) *Material {
	m := &Material{
		name:       name,
		image:      toNRGBA(img),
		handle:     metadata.InvalidID,
		generation: metadata.InvalidID,
	}
	if hasTransparency(m.image) {
		m.flags |= MaterialFlagHasTransparency
	}
	return m
}

func (m *Material) Name() string { return m.name }

// Key is the normalized lookup key.
func (m *Material) Key() string { return NormalizeName(m.name) }

func (m *Material) Image() *image.NRGBA { return m.image }

func (m *Material) Width() int { return m.image.Bounds().Dx() }

func (m *Material) Height() int { return m.image.Bounds().Dy() }

func (m *Material) Flags() MaterialFlag { return m.flags }

func (m *Material) HasTransparency() bool {
	return m.flags&MaterialFlagHasTransparency != 0
}

// TextureHandle is the identifier assigned by the Preparer, or
// metadata.InvalidID while unprepared.
func (m *Material) TextureHandle() uint32 { return m.handle }

func (m *Material) Generation() uint32 { return m.generation }

func (m *Material) FilterMode() metadata.FilterMode { return m.mode }

func (m *Material) Prepared() bool { return m.prepared }

// Released reports whether the GPU side state was given back. A released
// material must not be handed to a renderer.
func (m *Material) Released() bool { return m.released }

func (m *Material) prepare(p Preparer, mode metadata.FilterMode) error {
	handle, err := p.Prepare(m, mode)
	if err != nil {
		return err
	}
	m.handle = handle
	m.mode = mode
	m.prepared = true
	m.bumpGeneration()
	return nil
}

func (m *Material) setFilterMode(p Preparer, mode metadata.FilterMode) {
	m.mode = mode
	if !m.prepared {
		return
	}
	p.SetFilterMode(m, mode)
	m.bumpGeneration()
}

func (m *Material) release(p Preparer) {
	if m.released {
		return
	}
	if m.prepared && p != nil {
		p.Release(m)
	}
	m.handle = metadata.InvalidID
	m.prepared = false
	m.released = true
}

func (m *Material) bumpGeneration() {
	if m.generation == metadata.InvalidID {
		m.generation = 0
	} else {
		m.generation++
	}
}

// NormalizeName lowercases a material name for lookups.
func NormalizeName(name string) string {
	return strings.ToLower(name)
}

func toNRGBA(src image.Image) *image.NRGBA {
	if src == nil {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func hasTransparency(img *image.NRGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y).A < 255 {
				return true
			}
		}
	}
	return false
}
