package systems

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/matkit/engine/assets"
	"github.com/spaghettifunk/matkit/engine/core"
	"github.com/spaghettifunk/matkit/engine/renderer/metadata"
)

// MaterialStage tracks which part of the stage/commit protocol is pending.
type MaterialStage uint8

const (
	// Nothing pending, the GPU state matches the index.
	MaterialStageClean MaterialStage = iota
	// Collections were appended with AddCollection but the index was not rebuilt yet.
	MaterialStageStaged
	// The index is current; preparation, a filter change or releases wait for Commit.
	MaterialStageCommitPending
)

func (s MaterialStage) String() string {
	switch s {
	case MaterialStageClean:
		return "clean"
	case MaterialStageStaged:
		return "staged"
	case MaterialStageCommitPending:
		return "commit-pending"
	}
	return fmt.Sprintf("MaterialStage(%d)", uint8(s))
}

type MaterialSystemConfig struct {
	/** @brief Initial minification filter. */
	MinFilter metadata.TextureFilter
	/** @brief Initial magnification filter. */
	MagFilter metadata.TextureFilter
}

// MaterialHandle points at the winning material for a name: the collection
// index in the active sequence and the material index inside it. It is only
// valid for the index generation it was issued in.
type MaterialHandle struct {
	Collection int
	Index      int
	Generation uint64
}

type MaterialSystemStats struct {
	Loads            int
	Reuses           int
	LoadFailures     int
	Prepares         int
	FilterModeResets int
	Releases         int
}

// MaterialSystem owns the active material collections and the merged name
// index over them. Structural changes (Reload, SetCollections, AddCollection)
// only touch CPU state; GPU work and the release of displaced collections are
// deferred until Commit. It must be driven from a single goroutine.
type MaterialSystem struct {
	locator  assets.Locator
	loader   assets.Loader
	preparer assets.Preparer
	logger   core.Logger
	events   *core.EventBus

	// Later entries win name collisions.
	collections []*assets.Collection
	// Indices into collections awaiting preparation.
	toPrepare []int
	// Collections displaced by a reload, released at the next Commit.
	toRemove []*assets.Collection

	materialsByName map[string]MaterialHandle
	// Winning materials ordered by lowercase name.
	materials  []*assets.Material
	generation uint64

	mode            metadata.FilterMode
	resetFilterMode bool

	stage MaterialStage
	stats MaterialSystemStats
}

func NewMaterialSystem(config *MaterialSystemConfig, locator assets.Locator, loader assets.Loader, preparer assets.Preparer, logger core.Logger) (*MaterialSystem, error) {
	if locator == nil || loader == nil || preparer == nil {
		return nil, fmt.Errorf("func NewMaterialSystem - locator, loader and preparer are required")
	}
	if config == nil {
		config = &MaterialSystemConfig{
			MinFilter: metadata.TextureFilterModeNearest,
			MagFilter: metadata.TextureFilterModeNearest,
		}
	}
	mode := metadata.FilterMode{Minify: config.MinFilter, Magnify: config.MagFilter}
	if err := validateFilterMode(mode); err != nil {
		return nil, fmt.Errorf("func NewMaterialSystem - %w", err)
	}
	if logger == nil {
		logger = core.DefaultLogger()
	}

	return &MaterialSystem{
		locator:         locator,
		loader:          loader,
		preparer:        preparer,
		logger:          logger,
		materialsByName: make(map[string]MaterialHandle),
		mode:            mode,
		stage:           MaterialStageClean,
	}, nil
}

// SetEventBus makes the system announce staged and committed states.
func (ms *MaterialSystem) SetEventBus(events *core.EventBus) {
	ms.events = events
}

// Reload asks the locator for the collection paths and stages them. When the
// paths cannot be enumerated the system degrades to no collections at all.
func (ms *MaterialSystem) Reload(config assets.MaterialConfig) {
	paths, err := ms.locator.Locate(config)
	if err != nil {
		ms.logger.Errorf("Could not reload material collections: %s", err)
		paths = nil
	}
	ms.SetCollectionPaths(paths, config)
}

// SetCollectionPaths makes paths the active sequence. A current collection
// with a matching path that loaded successfully is reused as is; anything
// else goes through the loader, and a failed load leaves an unloaded
// placeholder for its path. Collections that are not reused stay alive until
// the next Commit.
func (ms *MaterialSystem) SetCollectionPaths(paths []string, config assets.MaterialConfig) {
	pool := slices.Clone(ms.collections)
	ms.collections = nil
	ms.toPrepare = nil

	for _, path := range paths {
		i := slices.IndexFunc(pool, func(c *assets.Collection) bool {
			return c.Path() == path
		})

		if i >= 0 && pool[i].Loaded() {
			ms.stats.Reuses++
			ms.AddCollection(pool[i])
		} else {
			ms.AddCollection(ms.load(path, config, i >= 0))
		}

		if i >= 0 {
			pool = slices.Delete(pool, i, i+1)
		}
	}

	ms.toRemove = append(ms.toRemove, pool...)
	ms.Rebuild()
}

func (ms *MaterialSystem) load(path string, config assets.MaterialConfig, known bool) *assets.Collection {
	collection, err := ms.loader.Load(path, config)
	if err == nil && collection == nil {
		err = fmt.Errorf("loader returned no collection")
	}
	if err != nil {
		ms.stats.LoadFailures++
		if known {
			ms.logger.Errorf("Still could not load material collection '%s': %s", path, err)
		} else {
			ms.logger.Errorf("Could not load material collection '%s': %s", path, err)
		}
		return assets.NewUnloadedCollection(path)
	}

	ms.stats.Loads++
	if len(collection.Materials()) > 0 {
		ms.logger.Infof("Loaded material collection '%s'", path)
	}
	return collection
}

// SetCollections appends already built collections and rebuilds the index once.
func (ms *MaterialSystem) SetCollections(collections ...*assets.Collection) {
	for _, c := range collections {
		ms.AddCollection(c)
	}
	ms.Rebuild()
}

// AddCollection appends c with the highest precedence and queues it for
// preparation when needed. The index is not rebuilt, so lookups keep
// answering from the previous state until Rebuild, SetCollections or Commit.
func (ms *MaterialSystem) AddCollection(c *assets.Collection) {
	index := len(ms.collections)
	ms.collections = append(ms.collections, c)

	if c.Loaded() && !c.Prepared() {
		ms.toPrepare = append(ms.toPrepare, index)
	}

	ms.stage = MaterialStageStaged
	ms.logger.Debugf("Added material collection '%s' (%s)", c.Path(), c.ID())
}

// Rebuild recomputes the name index from the active sequence.
func (ms *MaterialSystem) Rebuild() {
	ms.rebuild()
	if ms.hasPendingWork() {
		ms.stage = MaterialStageCommitPending
	} else {
		ms.stage = MaterialStageClean
	}
	ms.fireStaged()
}

// Clear drops every collection at once, retained ones included. It is meant
// for teardown: nothing is kept alive for a renderer still holding materials.
func (ms *MaterialSystem) Clear() {
	for _, c := range ms.collections {
		c.Release(ms.preparer)
	}
	for _, c := range ms.toRemove {
		c.Release(ms.preparer)
	}
	ms.collections = nil
	ms.toPrepare = nil
	ms.toRemove = nil
	ms.rebuild()

	if ms.resetFilterMode {
		ms.stage = MaterialStageCommitPending
	} else {
		ms.stage = MaterialStageClean
	}
}

// SetFilterMode records the filters to apply at the next Commit. Calling it
// several times before a commit applies only the last values.
func (ms *MaterialSystem) SetFilterMode(minFilter, magFilter metadata.TextureFilter) error {
	mode := metadata.FilterMode{Minify: minFilter, Magnify: magFilter}
	if err := validateFilterMode(mode); err != nil {
		return err
	}
	ms.mode = mode
	ms.resetFilterMode = true
	if ms.stage == MaterialStageClean {
		ms.stage = MaterialStageCommitPending
	}
	return nil
}

// Commit applies the deferred GPU work: a pending filter change, the
// preparation of newly added collections and the release of displaced ones.
// Materials obtained before Commit must not be used after it returns.
func (ms *MaterialSystem) Commit() {
	if ms.stage == MaterialStageStaged {
		ms.logger.Debugf("Commit with an outdated index, rebuilding")
		ms.rebuild()
		ms.fireStaged()
	}

	if ms.resetFilterMode {
		for _, c := range ms.collections {
			c.SetFilterMode(ms.preparer, ms.mode)
		}
		ms.resetFilterMode = false
		ms.stats.FilterModeResets++
	}

	prepared := 0
	for _, index := range ms.toPrepare {
		c := ms.collections[index]
		if c.Prepared() {
			continue
		}
		if err := c.Prepare(ms.preparer, ms.mode); err != nil {
			ms.logger.Errorf("Could not prepare material collection '%s': %s", c.Path(), err)
		}
		if c.Prepared() {
			prepared++
		}
	}
	ms.toPrepare = nil
	ms.stats.Prepares += prepared

	active := make(map[uuid.UUID]struct{}, len(ms.collections))
	for _, c := range ms.collections {
		active[c.ID()] = struct{}{}
	}
	released := 0
	for _, c := range ms.toRemove {
		// A displaced collection may have been added back by hand.
		if _, ok := active[c.ID()]; ok {
			continue
		}
		ms.logger.Debugf("Releasing material collection '%s' (%s)", c.Path(), c.ID())
		c.Release(ms.preparer)
		released++
	}
	ms.toRemove = nil
	ms.stats.Releases += released

	ms.stage = MaterialStageClean

	var ctx core.EventContext
	ctx.Data.U64[0] = ms.generation
	ctx.Data.I32[0] = int32(prepared)
	ctx.Data.I32[1] = int32(released)
	ms.events.Fire(core.EventCodeMaterialsCommitted, ms, ctx)
}

// Shutdown releases everything immediately.
func (ms *MaterialSystem) Shutdown() error {
	ms.Clear()
	ms.resetFilterMode = false
	ms.stage = MaterialStageClean
	return nil
}

// Lookup finds the winning material for name, ignoring case.
func (ms *MaterialSystem) Lookup(name string) (MaterialHandle, bool) {
	h, ok := ms.materialsByName[assets.NormalizeName(name)]
	return h, ok
}

// Material resolves a handle issued by Lookup.
func (ms *MaterialSystem) Material(h MaterialHandle) (*assets.Material, error) {
	if h.Generation != ms.generation {
		return nil, core.ErrStaleHandle
	}
	if h.Collection < 0 || h.Collection >= len(ms.collections) {
		return nil, core.ErrInvalidHandle
	}
	materials := ms.collections[h.Collection].Materials()
	if h.Index < 0 || h.Index >= len(materials) {
		return nil, core.ErrInvalidHandle
	}
	return materials[h.Index], nil
}

// FindMaterial is Lookup followed by Material.
func (ms *MaterialSystem) FindMaterial(name string) (*assets.Material, bool) {
	h, ok := ms.Lookup(name)
	if !ok {
		return nil, false
	}
	m, err := ms.Material(h)
	if err != nil {
		return nil, false
	}
	return m, true
}

// Materials returns one material per name, ordered by lowercase name. The
// slice belongs to the system and is replaced on the next structural change.
func (ms *MaterialSystem) Materials() []*assets.Material {
	return ms.materials
}

// Collections returns the active sequence in precedence order.
func (ms *MaterialSystem) Collections() []*assets.Collection {
	return ms.collections
}

// Retained returns the displaced collections waiting for the next Commit.
func (ms *MaterialSystem) Retained() []*assets.Collection {
	return ms.toRemove
}

func (ms *MaterialSystem) PendingPreparation() int {
	return len(ms.toPrepare)
}

func (ms *MaterialSystem) FilterMode() metadata.FilterMode {
	return ms.mode
}

func (ms *MaterialSystem) Stage() MaterialStage {
	return ms.stage
}

func (ms *MaterialSystem) Stats() MaterialSystemStats {
	return ms.stats
}

// Generation changes every time the index is rebuilt.
func (ms *MaterialSystem) Generation() uint64 {
	return ms.generation
}

// rebuild derives the name index and the flat view from the active
// sequence. Later collections overwrite earlier entries.
func (ms *MaterialSystem) rebuild() {
	ms.generation++

	byName := make(map[string]MaterialHandle)
	for ci, c := range ms.collections {
		for mi, m := range c.Materials() {
			byName[m.Key()] = MaterialHandle{
				Collection: ci,
				Index:      mi,
				Generation: ms.generation,
			}
		}
	}

	keys := make([]string, 0, len(byName))
	for k := range byName {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	materials := make([]*assets.Material, 0, len(keys))
	for _, k := range keys {
		h := byName[k]
		materials = append(materials, ms.collections[h.Collection].Materials()[h.Index])
	}

	ms.materialsByName = byName
	ms.materials = materials
}

func (ms *MaterialSystem) hasPendingWork() bool {
	return len(ms.toPrepare) > 0 || len(ms.toRemove) > 0 || ms.resetFilterMode
}

func (ms *MaterialSystem) fireStaged() {
	var ctx core.EventContext
	ctx.Data.U64[0] = ms.generation
	ctx.Data.I32[0] = int32(len(ms.collections))
	ctx.Data.I32[1] = int32(len(ms.materials))
	ms.events.Fire(core.EventCodeMaterialsStaged, ms, ctx)
}

func validateFilterMode(mode metadata.FilterMode) error {
	if !mode.Minify.Valid() {
		return fmt.Errorf("minification filter %d: %w", int(mode.Minify), core.ErrUnknownFilter)
	}
	if !mode.Magnify.ValidMagnify() {
		return fmt.Errorf("magnification filter %s: %w", mode.Magnify, core.ErrUnknownFilter)
	}
	return nil
}
