package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashishthanki/folio"
	"github.com/ashishthanki/folio/views"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr  string `short:"a" help:"Listen address, overrides server.addr"`
	Watch bool   `short:"w" help:"Re-import content when files change"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := folio.LoadConfig(root.Config)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}
	if s.Watch {
		cfg.Server.Watch = true
	}

	app := folio.New(cfg, views.Funcs(), folio.WithLogger(g.Logger))
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	g.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return <-errc
}
