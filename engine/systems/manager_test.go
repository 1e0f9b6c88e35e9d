package systems

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/spaghettifunk/matkit/engine/config"
	"github.com/spaghettifunk/matkit/engine/renderer/software"
)

func pngFile(t *testing.T, c color.NRGBA) *fstest.MapFile {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode returned error: %v", err)
	}
	return &fstest.MapFile{Data: buf.Bytes()}
}

func TestSystemManager_ReloadFromDisk(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	fsys := fstest.MapFS{
		"textures/base/wall.png":  pngFile(t, red),
		"textures/base/floor.png": pngFile(t, red),
		"textures/mod1/WALL.png":  pngFile(t, blue),
	}

	backend := software.NewBackend()
	sm, err := NewSystemManager(config.Default(), fsys, backend, &recordingLogger{})
	if err != nil {
		t.Fatalf("NewSystemManager returned error: %v", err)
	}
	if err := sm.Initialize(); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}

	wall, ok := sm.MaterialSystem.FindMaterial("wall")
	if !ok {
		t.Fatal("FindMaterial(wall) not found")
	}
	if wall.Name() != "WALL" || wall.Image().NRGBAAt(0, 0) != blue {
		t.Errorf("wall = %s %v, want mod1's blue WALL", wall.Name(), wall.Image().NRGBAAt(0, 0))
	}
	if backend.Len() != 3 {
		t.Errorf("backend textures = %d, want 3", backend.Len())
	}

	// Dropping mod1 keeps its texture until the next commit.
	cfg := sm.MaterialConfig()
	cfg.Collections = []string{"base"}
	sm.SetMaterialConfig(cfg)
	sm.Reload()

	if backend.Len() != 3 {
		t.Errorf("backend textures = %d before Commit, want 3", backend.Len())
	}
	sm.Commit()
	if backend.Len() != 2 {
		t.Errorf("backend textures = %d after Commit, want 2", backend.Len())
	}
	if wall, _ = sm.MaterialSystem.FindMaterial("wall"); wall.Image().NRGBAAt(0, 0) != red {
		t.Error("wall does not fall back to base after dropping mod1")
	}

	if err := sm.Shutdown(); err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}
	if backend.Len() != 0 {
		t.Errorf("backend textures = %d after Shutdown, want 0", backend.Len())
	}
}
