package assets

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/matkit/engine/core"
	"github.com/spaghettifunk/matkit/engine/renderer/metadata"
)

// Collection is an ordered group of materials loaded from one source path.
// The path is its identity when deciding whether a reload can reuse it.
type Collection struct {
	id        uuid.UUID
	path      string
	materials []*Material
	mode      metadata.FilterMode
	loaded    bool
	prepared  bool
	released  bool
}

// NewCollection returns a loaded collection owning materials.
func NewCollection(path string, materials []*Material) *Collection {
	return &Collection{
		id:        uuid.New(),
		path:      path,
		materials: materials,
		loaded:    true,
	}
}

// NewUnloadedCollection is the placeholder recorded for a path that failed to
// load. It owns no materials and is retried on the next reload.
func NewUnloadedCollection(path string) *Collection {
	return &Collection{
		id:   uuid.New(),
		path: path,
	}
}

// ID differs between two loads of the same path.
func (c *Collection) ID() uuid.UUID { return c.id }

func (c *Collection) Path() string { return c.path }

func (c *Collection) Materials() []*Material { return c.materials }

func (c *Collection) Loaded() bool { return c.loaded }

func (c *Collection) Prepared() bool { return c.prepared }

func (c *Collection) Released() bool { return c.released }

func (c *Collection) FilterMode() metadata.FilterMode { return c.mode }

func (c *Collection) String() string {
	return fmt.Sprintf("%s (%d materials)", c.path, len(c.materials))
}

// Prepare creates GPU side state for every material. The collection is marked
// prepared even when some materials failed, so the work is not repeated on
// every commit; the failures are returned joined.
func (c *Collection) Prepare(p Preparer, mode metadata.FilterMode) error {
	if c.released {
		return fmt.Errorf("prepare %s: %w", c.path, core.ErrCollectionReleased)
	}
	if c.prepared {
		return nil
	}

	var errs []error
	for _, m := range c.materials {
		if err := m.prepare(p, mode); err != nil {
			errs = append(errs, fmt.Errorf("material '%s': %w", m.Name(), err))
		}
	}
	c.mode = mode
	c.prepared = true
	return errors.Join(errs...)
}

// SetFilterMode changes the sampler filters of every prepared material.
func (c *Collection) SetFilterMode(p Preparer, mode metadata.FilterMode) {
	if c.released {
		return
	}
	for _, m := range c.materials {
		m.setFilterMode(p, mode)
	}
	c.mode = mode
}

// Release gives back the GPU side state of every material. Calling it more
// than once is harmless.
func (c *Collection) Release(p Preparer) {
	if c.released {
		return
	}
	for _, m := range c.materials {
		m.release(p)
	}
	c.prepared = false
	c.released = true
}
