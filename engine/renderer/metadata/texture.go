package metadata

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/matkit/engine/core"
)

const (
	InvalidID uint32 = 4294967295
)

/** @brief Represents supported texture filtering modes. */
type TextureFilter int

const (
	/** @brief Nearest-neighbor filtering. */
	TextureFilterModeNearest TextureFilter = iota
	/** @brief Linear (i.e. bilinear) filtering.*/
	TextureFilterModeLinear
	/** @brief Nearest texel from the nearest mip level. Minification only. */
	TextureFilterModeNearestMipmapNearest
	/** @brief Linear filtering within the nearest mip level. Minification only. */
	TextureFilterModeLinearMipmapNearest
	/** @brief Nearest texel blended between two mip levels. Minification only. */
	TextureFilterModeNearestMipmapLinear
	/** @brief Trilinear filtering. Minification only. */
	TextureFilterModeLinearMipmapLinear
)

var textureFilterNames = [...]string{
	TextureFilterModeNearest:              "nearest",
	TextureFilterModeLinear:               "linear",
	TextureFilterModeNearestMipmapNearest: "nearest_mipmap_nearest",
	TextureFilterModeLinearMipmapNearest:  "linear_mipmap_nearest",
	TextureFilterModeNearestMipmapLinear:  "nearest_mipmap_linear",
	TextureFilterModeLinearMipmapLinear:   "linear_mipmap_linear",
}

func (f TextureFilter) String() string {
	if f < 0 || int(f) >= len(textureFilterNames) {
		return fmt.Sprintf("TextureFilter(%d)", int(f))
	}
	return textureFilterNames[f]
}

// UsesMipmaps reports whether sampling with f reads more than the base level.
func (f TextureFilter) UsesMipmaps() bool {
	return f >= TextureFilterModeNearestMipmapNearest && f <= TextureFilterModeLinearMipmapLinear
}

// Valid reports whether f is one of the known modes.
func (f TextureFilter) Valid() bool {
	return f >= 0 && int(f) < len(textureFilterNames)
}

// ValidMagnify reports whether f can be used for magnification, which never
// samples mip levels.
func (f TextureFilter) ValidMagnify() bool {
	return f == TextureFilterModeNearest || f == TextureFilterModeLinear
}

// ParseTextureFilter accepts the names produced by String, case-insensitive.
func ParseTextureFilter(name string) (TextureFilter, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range textureFilterNames {
		if s == n {
			return TextureFilter(i), nil
		}
	}
	return TextureFilterModeNearest, fmt.Errorf("%q: %w", name, core.ErrUnknownFilter)
}

/** @brief The pair of filters a texture sampler is created with. */
type FilterMode struct {
	/** @brief Texture filtering mode for minification. */
	Minify TextureFilter
	/** @brief Texture filtering mode for magnification. */
	Magnify TextureFilter
}

func (m FilterMode) String() string {
	return fmt.Sprintf("min=%s mag=%s", m.Minify, m.Magnify)
}
