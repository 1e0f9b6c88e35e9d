package metadata

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/matkit/engine/core"
)

func TestParseTextureFilter(t *testing.T) {
	for f := TextureFilterModeNearest; f <= TextureFilterModeLinearMipmapLinear; f++ {
		got, err := ParseTextureFilter(f.String())
		if err != nil || got != f {
			t.Errorf("ParseTextureFilter(%q) = %v, %v; want %v", f.String(), got, err, f)
		}
	}

	if got, _ := ParseTextureFilter(" Linear "); got != TextureFilterModeLinear {
		t.Errorf("ParseTextureFilter(Linear) = %v, want linear", got)
	}
	if _, err := ParseTextureFilter("bicubic"); !errors.Is(err, core.ErrUnknownFilter) {
		t.Errorf("ParseTextureFilter(bicubic) error = %v, want ErrUnknownFilter", err)
	}
}

func TestTextureFilter_Predicates(t *testing.T) {
	tests := []struct {
		filter      TextureFilter
		mipmaps     bool
		magnifiable bool
	}{
		{TextureFilterModeNearest, false, true},
		{TextureFilterModeLinear, false, true},
		{TextureFilterModeNearestMipmapNearest, true, false},
		{TextureFilterModeLinearMipmapNearest, true, false},
		{TextureFilterModeNearestMipmapLinear, true, false},
		{TextureFilterModeLinearMipmapLinear, true, false},
	}
	for _, tt := range tests {
		if got := tt.filter.UsesMipmaps(); got != tt.mipmaps {
			t.Errorf("%v.UsesMipmaps() = %v, want %v", tt.filter, got, tt.mipmaps)
		}
		if got := tt.filter.ValidMagnify(); got != tt.magnifiable {
			t.Errorf("%v.ValidMagnify() = %v, want %v", tt.filter, got, tt.magnifiable)
		}
		if !tt.filter.Valid() {
			t.Errorf("%v.Valid() = false", tt.filter)
		}
	}

	if TextureFilter(9).Valid() {
		t.Error("TextureFilter(9).Valid() = true")
	}
	if got := TextureFilter(9).String(); got != "TextureFilter(9)" {
		t.Errorf("String() = %q, want TextureFilter(9)", got)
	}
}
