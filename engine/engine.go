package engine

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/spaghettifunk/matkit/engine/config"
	"github.com/spaghettifunk/matkit/engine/core"
	"github.com/spaghettifunk/matkit/engine/renderer"
	"github.com/spaghettifunk/matkit/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine released everything
	EngineStageShutdown
)

func (s Stage) String() string {
	switch s {
	case EngineStageUninitialized:
		return "uninitialized"
	case EngineStageInitializing:
		return "initializing"
	case EngineStageInitialized:
		return "initialized"
	case EngineStageRunning:
		return "running"
	case EngineStageShuttingDown:
		return "shutting-down"
	case EngineStageShutdown:
		return "shutdown"
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

const DefaultFrameInterval = time.Second / 60

// Engine is the host side of the material systems: it owns the main loop,
// stages reloads when asked to and commits once per frame.
type Engine struct {
	currentStage  Stage
	config        config.Config
	systemManager *systems.SystemManager
	frames        uint64
}

func New(cfg config.Config, fsys fs.FS, backend renderer.TextureBackend, logger core.Logger) (*Engine, error) {
	sm, err := systems.NewSystemManager(cfg, fsys, backend, logger)
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}

	return &Engine{
		currentStage:  EngineStageUninitialized,
		config:        cfg,
		systemManager: sm,
	}, nil
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine already initialized (stage %s)", e.currentStage)
	}
	e.currentStage = EngineStageInitializing

	if err := e.systemManager.Initialize(); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

// Reload stages a new set of collections. The previous materials stay
// usable until the next Frame.
func (e *Engine) Reload() {
	e.systemManager.Reload()
}

// Frame is the commit point of the material systems.
func (e *Engine) Frame() {
	e.systemManager.Commit()
	e.frames++
}

// Run drives the main loop until ctx is done. Every receive on reload stages
// a reload; every tick commits. Everything happens on the calling goroutine.
func (e *Engine) Run(ctx context.Context, reload <-chan struct{}, frameInterval time.Duration) error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine cannot run from stage %s", e.currentStage)
	}
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	e.currentStage = EngineStageRunning

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.currentStage = EngineStageInitialized
			return nil
		case _, ok := <-reload:
			if !ok {
				reload = nil
				continue
			}
			core.LogInfo("Reloading material collections")
			e.Reload()
		case <-ticker.C:
			e.Frame()
		}
	}
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	e.currentStage = EngineStageShutdown
	return nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Frames() uint64 {
	return e.frames
}

func (e *Engine) Config() config.Config {
	return e.config
}

func (e *Engine) Systems() *systems.SystemManager {
	return e.systemManager
}
