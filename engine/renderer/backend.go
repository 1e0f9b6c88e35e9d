package renderer

import (
	"image"

	"github.com/spaghettifunk/matkit/engine/renderer/metadata"
)

// TextureBackend is the slice of a render API the material systems need.
type TextureBackend interface {
	// TextureCreate uploads levels (base level first) under id.
	TextureCreate(id uint32, levels []*image.NRGBA, mode metadata.FilterMode) error
	// TextureSetFilter changes the sampler of an existing texture.
	TextureSetFilter(id uint32, mode metadata.FilterMode) error
	TextureDestroy(id uint32) error
}
