// Package config loads the outfitctl settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"outfitmem/layout"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Target   TargetConfig   `toml:"target"`
	Wardrobe WardrobeConfig `toml:"wardrobe"`
	API      APIConfig      `toml:"api"`
}

type TargetConfig struct {
	ProcessName string `toml:"process_name"` // overrides the layout's process name when set
	Layout      string `toml:"layout"`       // path to a .toml/.yaml layout profile, empty for the built-in one
}

type WardrobeConfig struct {
	Path        string `toml:"path"`
	AutoBackup  bool   `toml:"auto_backup"`  // snapshot the live outfit before every write
	KeepBackups int    `toml:"keep_backups"` // 0 keeps everything
}

type APIConfig struct {
	Listen         string        `toml:"listen"`
	AllowedOrigins []string      `toml:"allowed_origins"`
	ReadTimeout    time.Duration `toml:"read_timeout"`
	WriteTimeout   time.Duration `toml:"write_timeout"`
}

// Load reads path over the defaults. Relative paths inside the file are
// resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	cfg.Target.Layout = relativeTo(dir, cfg.Target.Layout)
	cfg.Wardrobe.Path = relativeTo(dir, cfg.Wardrobe.Path)
	return cfg, nil
}

func relativeTo(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func Default() *Config {
	return &Config{
		Wardrobe: WardrobeConfig{
			Path:        "wardrobe.db",
			AutoBackup:  true,
			KeepBackups: 50,
		},
		API: APIConfig{
			Listen:         "127.0.0.1:8471",
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
		},
	}
}

// LoadLayout returns the layout profile the target section points at, with
// the process name override applied.
func (c *Config) LoadLayout() (*layout.Layout, error) {
	l := layout.Default()
	if c.Target.Layout != "" {
		var err error
		if l, err = layout.Load(c.Target.Layout); err != nil {
			return nil, err
		}
	}
	if c.Target.ProcessName != "" {
		l.ProcessName = c.Target.ProcessName
	}
	return l, nil
}
