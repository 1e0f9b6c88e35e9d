package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/matkit/engine/assets"
	"github.com/spaghettifunk/matkit/engine/core"
	"github.com/spaghettifunk/matkit/engine/renderer/metadata"
)

// Config is the material host configuration.
type Config struct {
	LogLevel core.LogLevel

	MaterialsRoot string
	Collections   []string
	Extensions    []string
	Excludes      []string

	MinFilter metadata.TextureFilter
	MagFilter metadata.TextureFilter

	// MaxTextureCount caps live textures, 0 means unbounded.
	MaxTextureCount uint32

	ExportDir string
}

const (
	defaultMaterialsRoot = "textures"
	defaultExportDir     = "export"
	defaultMinFilter     = "nearest"
	defaultMagFilter     = "nearest"
)

type rawConfig struct {
	LogLevel  string `toml:"log_level"`
	Materials struct {
		Root            string   `toml:"root"`
		Collections     []string `toml:"collections"`
		Extensions      []string `toml:"extensions"`
		Excludes        []string `toml:"excludes"`
		MaxTextureCount uint32   `toml:"max_texture_count"`
	} `toml:"materials"`
	Filter struct {
		Min string `toml:"min"`
		Mag string `toml:"mag"`
	} `toml:"filter"`
	Export struct {
		Dir string `toml:"dir"`
	} `toml:"export"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	cfg, _ := fromRaw(rawConfig{})
	return cfg
}

// Load reads and parses path, falling back to defaults when it is missing.
func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML data. Blank values take their defaults.
func Parse(data []byte) (Config, error) {
	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return fromRaw(raw)
}

func fromRaw(raw rawConfig) (Config, error) {
	level, err := core.ParseLogLevel(raw.LogLevel)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	minFilter, err := metadata.ParseTextureFilter(orDefault(raw.Filter.Min, defaultMinFilter))
	if err != nil {
		return Config{}, fmt.Errorf("parse config: filter.min: %w", err)
	}
	magFilter, err := metadata.ParseTextureFilter(orDefault(raw.Filter.Mag, defaultMagFilter))
	if err != nil {
		return Config{}, fmt.Errorf("parse config: filter.mag: %w", err)
	}
	if !magFilter.ValidMagnify() {
		return Config{}, fmt.Errorf("parse config: filter.mag %q cannot use mipmaps: %w", raw.Filter.Mag, core.ErrUnknownFilter)
	}

	return Config{
		LogLevel:        level,
		MaterialsRoot:   orDefault(raw.Materials.Root, defaultMaterialsRoot),
		Collections:     trimAll(raw.Materials.Collections),
		Extensions:      trimAll(raw.Materials.Extensions),
		Excludes:        trimAll(raw.Materials.Excludes),
		MinFilter:       minFilter,
		MagFilter:       magFilter,
		MaxTextureCount: raw.Materials.MaxTextureCount,
		ExportDir:       orDefault(raw.Export.Dir, defaultExportDir),
	}, nil
}

// MaterialConfig is the part handed to the locator and loader.
func (c Config) MaterialConfig() assets.MaterialConfig {
	return assets.MaterialConfig{
		Root:        c.MaterialsRoot,
		Collections: c.Collections,
		Extensions:  c.Extensions,
		Excludes:    c.Excludes,
	}
}

func orDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
