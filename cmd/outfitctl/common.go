package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"outfitmem/config"
	"outfitmem/process_blob"
	"outfitmem/session"
	"outfitmem/wardrobe"
)

// env holds what every live command needs; close releases it
type env struct {
	cfg   *config.Config
	sess  *session.Session
	store *wardrobe.Store
}

func (e *env) close() {
	if e.sess != nil {
		e.sess.Detach()
	}
	if e.store != nil {
		e.store.Close()
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func configFlag(fs *flag.FlagSet) *string {
	return fs.String("config", getEnv("OUTFITCTL_CONFIG", ""), "Path to outfitctl.toml")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newEnv builds a session from the config. With withStore the wardrobe
// database is opened too.
func newEnv(configPath string, withStore bool) (*env, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	l, err := cfg.LoadLayout()
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}
	opts := session.Options{
		AutoBackup:  cfg.Wardrobe.AutoBackup,
		KeepBackups: cfg.Wardrobe.KeepBackups,
	}
	if withStore && cfg.Wardrobe.Path != "" {
		if e.store, err = wardrobe.New(cfg.Wardrobe.Path); err != nil {
			return nil, err
		}
		opts.Store = e.store
	}

	e.sess = session.New(newOpener(), l, opts)
	return e, nil
}

// attach connects to the live target, or to a saved image when imageDir is set
func (e *env) attach(ctx context.Context, imageDir string) error {
	if imageDir == "" {
		return e.sess.Attach(ctx)
	}

	blob, err := process_blob.Load(imageDir)
	if err != nil {
		return fmt.Errorf("load image %s: %w", imageDir, err)
	}
	return e.sess.AttachProcess(ctx, blob)
}

func openLive(configPath string, withStore bool) (*env, error) {
	e, err := newEnv(configPath, withStore)
	if err != nil {
		return nil, err
	}
	if err := e.attach(context.Background(), ""); err != nil {
		e.close()
		return nil, err
	}
	return e, nil
}
