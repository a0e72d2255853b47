package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"outfitmem/layout"

	"github.com/google/go-cmp/cmp"
)

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "outfitctl.toml", `
[target]
process_name = "GTA5_Enhanced.exe"

[wardrobe]
path = "data/wardrobe.db"
auto_backup = false

[api]
listen = "127.0.0.1:9000"
write_timeout = "1m"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.Target.ProcessName = "GTA5_Enhanced.exe"
	want.Wardrobe.Path = filepath.Join(dir, "data", "wardrobe.db")
	want.Wardrobe.AutoBackup = false
	want.API.Listen = "127.0.0.1:9000"
	want.API.WriteTimeout = time.Minute

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestLoadBadSyntax(t *testing.T) {
	path := write(t, t.TempDir(), "bad.toml", "[target\nprocess_name = 1")
	if _, err := Load(path); err == nil {
		t.Error("Load of malformed toml succeeded")
	}
}

func TestLoadLayout(t *testing.T) {
	cfg := Default()
	l, err := cfg.LoadLayout()
	if err != nil {
		t.Fatalf("LoadLayout: %v", err)
	}
	if diff := cmp.Diff(layout.Default(), l); diff != "" {
		t.Errorf("built-in layout (-want +got):\n%s", diff)
	}

	dir := t.TempDir()
	write(t, dir, "build.toml", "build = \"3095\"\ntexture_offset = 0x8A0\n")
	path := write(t, dir, "outfitctl.toml", "[target]\nlayout = \"build.toml\"\nprocess_name = \"other.exe\"\n")

	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	l, err = cfg.LoadLayout()
	if err != nil {
		t.Fatalf("LoadLayout: %v", err)
	}
	if l.Build != "3095" || l.TextureOffset != 0x8A0 || l.ProcessName != "other.exe" {
		t.Errorf("profile not applied: build=%q texture=%#x process=%q", l.Build, l.TextureOffset, l.ProcessName)
	}
}
