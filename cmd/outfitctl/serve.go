package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"outfitmem/api"
)

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := configFlag(fs)
	listenFlag := fs.String("listen", "", "Listen address (default from config)")
	attachFlag := fs.Bool("attach", false, "Attach before serving")
	fs.Parse(args)

	e, err := newEnv(*configPath, true)
	if err != nil {
		return err
	}
	defer e.close()

	listen := e.cfg.API.Listen
	if *listenFlag != "" {
		listen = *listenFlag
	}

	if *attachFlag {
		if err := e.sess.Attach(context.Background()); err != nil {
			fmt.Printf("Warning: %v\n", err)
		}
	}

	srv := &http.Server{
		Addr:         listen,
		Handler:      api.New(e.sess, e.cfg.API.AllowedOrigins),
		ReadTimeout:  e.cfg.API.ReadTimeout,
		WriteTimeout: e.cfg.API.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Printf("outfitctl API listening on http://%s\n", listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
