package assets

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/spaghettifunk/matkit/engine/core"
	"github.com/spaghettifunk/matkit/engine/renderer/metadata"
)

type countingPreparer struct {
	next     uint32
	prepares int
	filters  int
	releases int
	fail     map[string]bool
}

func (p *countingPreparer) Prepare(m *Material, mode metadata.FilterMode) (uint32, error) {
	if p.fail[m.Name()] {
		return metadata.InvalidID, errors.New("out of memory")
	}
	p.prepares++
	id := p.next
	p.next++
	return id, nil
}

func (p *countingPreparer) SetFilterMode(m *Material, mode metadata.FilterMode) { p.filters++ }

func (p *countingPreparer) Release(m *Material) { p.releases++ }

func opaque(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	return img
}

var linear = metadata.FilterMode{Minify: metadata.TextureFilterModeLinear, Magnify: metadata.TextureFilterModeLinear}

func TestNewMaterial(t *testing.T) {
	m := NewMaterial("Brick", opaque(4, 2))
	if m.Width() != 4 || m.Height() != 2 {
		t.Errorf("size = %dx%d, want 4x2", m.Width(), m.Height())
	}
	if m.HasTransparency() {
		t.Error("opaque image reported transparency")
	}
	if m.Key() != "brick" || m.Name() != "Brick" {
		t.Errorf("Name() = %q, Key() = %q", m.Name(), m.Key())
	}
	if m.TextureHandle() != metadata.InvalidID {
		t.Errorf("TextureHandle() = %d before preparation, want InvalidID", m.TextureHandle())
	}

	img := opaque(2, 2)
	img.Set(1, 1, color.RGBA{})
	if !NewMaterial("glass", img).HasTransparency() {
		t.Error("image with a clear pixel reported no transparency")
	}

	empty := NewMaterial("empty", nil)
	if empty.Width() != 0 || empty.Height() != 0 {
		t.Errorf("nil image size = %dx%d, want 0x0", empty.Width(), empty.Height())
	}
}

func TestCollection_PrepareOnce(t *testing.T) {
	p := &countingPreparer{}
	c := NewCollection("base", []*Material{NewMaterial("a", opaque(1, 1)), NewMaterial("b", opaque(1, 1))})

	if err := c.Prepare(p, linear); err != nil {
		t.Fatalf("Prepare() returned error: %v", err)
	}
	if err := c.Prepare(p, linear); err != nil {
		t.Fatalf("second Prepare() returned error: %v", err)
	}
	if p.prepares != 2 {
		t.Errorf("prepares = %d, want 2", p.prepares)
	}
	if !c.Prepared() || c.FilterMode() != linear {
		t.Errorf("Prepared() = %v, FilterMode() = %v", c.Prepared(), c.FilterMode())
	}
	for _, m := range c.Materials() {
		if m.TextureHandle() == metadata.InvalidID || m.Generation() != 0 {
			t.Errorf("%s handle = %d generation = %d", m.Name(), m.TextureHandle(), m.Generation())
		}
	}
}

func TestCollection_PrepareJoinsFailures(t *testing.T) {
	p := &countingPreparer{fail: map[string]bool{"bad": true}}
	good := NewMaterial("good", opaque(1, 1))
	bad := NewMaterial("bad", opaque(1, 1))
	c := NewCollection("base", []*Material{bad, good})

	if err := c.Prepare(p, linear); err == nil {
		t.Fatal("Prepare() returned no error")
	}
	if !c.Prepared() {
		t.Error("collection not marked prepared after a partial failure")
	}
	if !good.Prepared() || bad.Prepared() {
		t.Errorf("good.Prepared() = %v, bad.Prepared() = %v", good.Prepared(), bad.Prepared())
	}
}

func TestCollection_SetFilterModeSkipsUnprepared(t *testing.T) {
	p := &countingPreparer{}
	c := NewCollection("base", []*Material{NewMaterial("a", opaque(1, 1))})

	c.SetFilterMode(p, linear)
	if p.filters != 0 {
		t.Errorf("filters = %d on an unprepared collection, want 0", p.filters)
	}

	_ = c.Prepare(p, metadata.FilterMode{})
	c.SetFilterMode(p, linear)
	if p.filters != 1 {
		t.Errorf("filters = %d, want 1", p.filters)
	}
	if m := c.Materials()[0]; m.FilterMode() != linear || m.Generation() != 1 {
		t.Errorf("FilterMode() = %v, Generation() = %d", m.FilterMode(), m.Generation())
	}
}

func TestCollection_Release(t *testing.T) {
	p := &countingPreparer{}
	m := NewMaterial("a", opaque(1, 1))
	c := NewCollection("base", []*Material{m})
	_ = c.Prepare(p, linear)

	c.Release(p)
	c.Release(p)

	if p.releases != 1 {
		t.Errorf("releases = %d, want 1", p.releases)
	}
	if !c.Released() || c.Prepared() {
		t.Errorf("Released() = %v, Prepared() = %v", c.Released(), c.Prepared())
	}
	if !m.Released() || m.TextureHandle() != metadata.InvalidID {
		t.Errorf("material Released() = %v, TextureHandle() = %d", m.Released(), m.TextureHandle())
	}
	if err := c.Prepare(p, linear); !errors.Is(err, core.ErrCollectionReleased) {
		t.Errorf("Prepare() after Release error = %v, want ErrCollectionReleased", err)
	}
}

func TestUnloadedCollection(t *testing.T) {
	c := NewUnloadedCollection("missing")
	if c.Loaded() || len(c.Materials()) != 0 || c.Path() != "missing" {
		t.Errorf("placeholder = %s loaded=%v", c, c.Loaded())
	}
	if NewCollection("missing", nil).ID() == c.ID() {
		t.Error("two collections share an ID")
	}
}
