/*
Demo host for the material systems: lists the collections and materials found
under the configured root, optionally exports one material as WebP and, with
-watch-signals, keeps running so SIGHUP can trigger a reload.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/HugoSmits86/nativewebp"
	"github.com/charmbracelet/lipgloss"

	"github.com/spaghettifunk/matkit/engine"
	"github.com/spaghettifunk/matkit/engine/assets"
	"github.com/spaghettifunk/matkit/engine/config"
	"github.com/spaghettifunk/matkit/engine/core"
	"github.com/spaghettifunk/matkit/engine/renderer/software"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	pathStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	failedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	materialStyle = lipgloss.NewStyle().PaddingLeft(2)
)

func main() {
	configPath := flag.String("config", "materials.toml", "path to the TOML configuration")
	baseDir := flag.String("base", ".", "directory the materials root is resolved against")
	root := flag.String("root", "", "override the materials root from the configuration")
	export := flag.String("export", "", "name of a material to export as WebP")
	out := flag.String("out", "", "output file for -export (defaults to <export dir>/<name>.webp)")
	watch := flag.Bool("watch-signals", false, "keep running, reload on SIGHUP, stop on SIGINT/SIGTERM")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		core.LogFatal("%s", err)
	}
	if *root != "" {
		cfg.MaterialsRoot = *root
	}
	core.SetLogLevel(cfg.LogLevel)

	e, err := engine.New(cfg, os.DirFS(*baseDir), software.NewBackend(), nil)
	if err != nil {
		core.LogFatal("%s", err)
	}
	if err := e.Initialize(); err != nil {
		core.LogFatal("%s", err)
	}

	printMaterials(e)

	if *export != "" {
		if err := exportMaterial(e, cfg, *export, *out); err != nil {
			core.LogError("%s", err)
		}
	}

	if *watch {
		if err := watchSignals(e); err != nil {
			core.LogError("%s", err)
		}
	}

	if err := e.Shutdown(); err != nil {
		core.LogFatal("%s", err)
	}
}

func printMaterials(e *engine.Engine) {
	ms := e.Systems().MaterialSystem

	fmt.Println(titleStyle.Render("Collections"))
	for _, c := range ms.Collections() {
		if !c.Loaded() {
			fmt.Println(materialStyle.Render(failedStyle.Render(c.Path() + " (failed)")))
			continue
		}
		fmt.Println(materialStyle.Render(pathStyle.Render(c.Path()) + dimStyle.Render(fmt.Sprintf(" %d materials", len(c.Materials())))))
	}

	fmt.Println(titleStyle.Render("Materials"))
	for _, m := range ms.Materials() {
		line := fmt.Sprintf("%s %s", m.Name(), dimStyle.Render(fmt.Sprintf("%dx%d", m.Width(), m.Height())))
		if m.HasTransparency() {
			line += dimStyle.Render(" alpha")
		}
		fmt.Println(materialStyle.Render(line))
	}
}

func exportMaterial(e *engine.Engine, cfg config.Config, name, out string) error {
	m, ok := e.Systems().MaterialSystem.FindMaterial(name)
	if !ok {
		return fmt.Errorf("export: material '%s' not found", name)
	}
	if out == "" {
		out = filepath.Join(cfg.ExportDir, strings.ToLower(m.Name())+".webp")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return writeWebP(m, out)
}

func writeWebP(m *assets.Material, out string) error {
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, m.Image(), nil); err != nil {
		return fmt.Errorf("export: WebP encode '%s': %w", m.Name(), err)
	}
	core.LogInfo("Exported '%s' to %s", m.Name(), out)
	return nil
}

func watchSignals(e *engine.Engine) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	reload := make(chan struct{}, 1)
	go forwardReloads(ctx, hup, reload)

	core.LogInfo("Waiting for SIGHUP to reload, SIGINT to stop")
	return e.Run(ctx, reload, engine.DefaultFrameInterval)
}

// forwardReloads turns SIGHUP into reload requests, dropping requests while
// one is already queued. It returns once ctx is done.
func forwardReloads(ctx context.Context, hup <-chan os.Signal, reload chan<- struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			select {
			case reload <- struct{}{}:
			default:
			}
		}
	}
}
