package systems

import (
	"io/fs"

	"github.com/spaghettifunk/matkit/engine/assets"
	"github.com/spaghettifunk/matkit/engine/assets/loaders"
	"github.com/spaghettifunk/matkit/engine/config"
	"github.com/spaghettifunk/matkit/engine/core"
	"github.com/spaghettifunk/matkit/engine/renderer"
)

type SystemManager struct {
	MaterialSystem *MaterialSystem
	Renderer       *renderer.TextureRenderer
	Events         *core.EventBus

	materialConfig assets.MaterialConfig
}

// NewSystemManager wires the directory locator and loader over fsys, the
// texture renderer over backend and the material system on top of them.
func NewSystemManager(cfg config.Config, fsys fs.FS, backend renderer.TextureBackend, logger core.Logger) (*SystemManager, error) {
	if logger == nil {
		logger = core.DefaultLogger()
	}

	events := core.NewEventBus()
	tr := renderer.NewTextureRenderer(backend, cfg.MaxTextureCount, logger)

	ms, err := NewMaterialSystem(&MaterialSystemConfig{
		MinFilter: cfg.MinFilter,
		MagFilter: cfg.MagFilter,
	}, loaders.NewDirectoryLocator(fsys), loaders.NewDirectoryLoader(fsys, logger), tr, logger)
	if err != nil {
		return nil, err
	}
	ms.SetEventBus(events)

	return &SystemManager{
		MaterialSystem: ms,
		Renderer:       tr,
		Events:         events,
		materialConfig: cfg.MaterialConfig(),
	}, nil
}

// Initialize performs the first reload and commits it.
func (sm *SystemManager) Initialize() error {
	sm.MaterialSystem.Reload(sm.materialConfig)
	sm.MaterialSystem.Commit()
	return nil
}

// Reload stages the configured collections again. GPU work waits for Commit.
func (sm *SystemManager) Reload() {
	sm.MaterialSystem.Reload(sm.materialConfig)
}

// SetMaterialConfig replaces the configuration used by later reloads.
func (sm *SystemManager) SetMaterialConfig(cfg assets.MaterialConfig) {
	sm.materialConfig = cfg
}

func (sm *SystemManager) MaterialConfig() assets.MaterialConfig {
	return sm.materialConfig
}

// Commit is called once per frame by the host.
func (sm *SystemManager) Commit() {
	sm.MaterialSystem.Commit()
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.MaterialSystem.Shutdown(); err != nil {
		return err
	}
	sm.Events.Shutdown()
	return nil
}
