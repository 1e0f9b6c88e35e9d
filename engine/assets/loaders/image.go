package loaders

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/exp/slices"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

type decodeFunc func(io.Reader) (image.Image, error)

// TGA has no magic number, so formats are picked by extension instead of
// sniffing through image.Decode.
var decoders = map[string]decodeFunc{
	"bmp":  bmp.Decode,
	"gif":  gif.Decode,
	"jpeg": jpeg.Decode,
	"jpg":  jpeg.Decode,
	"png":  png.Decode,
	"tga":  tga.Decode,
	"tif":  tiff.Decode,
	"tiff": tiff.Decode,
	"webp": webp.Decode,
}

// SupportedExtensions lists the file extensions with a decoder, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(decoders))
	for ext := range decoders {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// IsSupported reports whether ext (without the dot) can be decoded.
func IsSupported(ext string) bool {
	_, ok := decoders[strings.ToLower(ext)]
	return ok
}

func DecodeImage(r io.Reader, ext string) (image.Image, error) {
	decode, ok := decoders[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("no decoder for extension %q", ext)
	}
	img, err := decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s image: %w", ext, err)
	}
	return img, nil
}

// LoadImage opens name inside fsys and decodes it.
func LoadImage(fsys fs.FS, name string) (image.Image, error) {
	file, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := DecodeImage(file, extension(name))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return img, nil
}

// extension returns the lowercase extension of name without the dot.
func extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

func stem(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}
