// Command server runs the relaychat server.
//
// Usage:
//
//	server [-host h] [-port p] [-http-addr addr] [-log-level l] [port | host port]
//
// Every setting may also come from CHAT_* environment variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mama165/sdk-go/logs"
	"golang.org/x/sync/errgroup"

	"github.com/Tyrowin/relaychat/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := server.LoadConfig(flag.CommandLine, os.Args[1:], nil)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := server.NewHub(log, cfg.SessionConfig())
	listener, err := server.Listen(cfg.Address(), hub, log, cfg.MaxLineLength)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return listener.Serve(gctx)
	})

	if cfg.HTTPAddr != "" {
		httpServer := server.CreateServer(cfg.HTTPAddr, server.SetupRoutes(hub, log, cfg))
		g.Go(func() error {
			return server.StartServer(httpServer, log)
		})
		g.Go(func() error {
			<-gctx.Done()
			return server.ShutdownServer(httpServer, cfg.ShutdownTimeout, log)
		})
	}

	err = g.Wait()
	if shutdownErr := hub.Shutdown(cfg.ShutdownTimeout); shutdownErr != nil {
		log.Warn("Sessions still running at exit", "error", shutdownErr)
	}
	if err != nil {
		return err
	}
	log.Info("Server stopped cleanly")
	return nil
}
