package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/paceline/paceline/internal/domain"
	"github.com/paceline/paceline/internal/pkg/filesystem"
	"github.com/paceline/paceline/internal/ports"
)

// FileLoader loads YAML configuration from ~/.paceline/config.yaml
// (overridable via PACELINE_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	// Decoding over the defaults keeps absent keys at their default value
	// while honoring explicit zeros, e.g. prune_probability: 0 disables
	// pruning instead of silently snapping back to the default.
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateProviders(cfg), nil
}

// Path reports the config file the loader resolves to.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("PACELINE_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filesystem.StateDir("config.yaml")
}

func ensureConfigDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

// Default is the configuration written on first run.
func Default() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Segments: []domain.SegmentConfig{
			{Type: string(domain.SegmentDirectory), Foreground: "#1c1c1c", Background: "#8fbcbb"},
			{Type: string(domain.SegmentGit), Foreground: "#1c1c1c", Background: "#a3be8c"},
			{Type: string(domain.SegmentUsage), Foreground: "#e5e9f0", Background: "#5e81ac"},
			{Type: string(domain.SegmentPace), Foreground: "#e5e9f0", Background: "#b48ead"},
			{Type: string(domain.SegmentContext), Foreground: "#1c1c1c", Background: "#ebcb8b"},
			{Type: string(domain.SegmentTime), Foreground: "#e5e9f0", Background: "#4c566a"},
		},
		Theme: domain.ThemeSettings{
			Separator: "powerline",
			ColorMode: "auto",
			Dark:      true,
		},
		Usage: domain.UsageSettings{
			Providers: []domain.ProviderConfig{
				{
					ID:             "ccusage",
					Command:        []string{"ccusage", "daily", "--json"},
					TTLSeconds:     180,
					TimeoutSeconds: 5,
				},
			},
		},
		Pace: domain.PaceSettings{
			HalfLifeMinutes: 10,
			WindowDays:      1,
		},
		Retention: domain.RetentionSettings{
			Days:             7,
			PruneProbability: 0.05,
		},
	}
}

// hydrateProviders floors the per-provider tunables. List items cannot
// inherit from the seeded defaults because a configured providers list
// replaces the default sequence wholesale.
func hydrateProviders(cfg domain.Config) domain.Config {
	for i := range cfg.Usage.Providers {
		if cfg.Usage.Providers[i].TTLSeconds <= 0 {
			cfg.Usage.Providers[i].TTLSeconds = 180
		}
		if cfg.Usage.Providers[i].TimeoutSeconds <= 0 {
			cfg.Usage.Providers[i].TimeoutSeconds = 5
		}
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
