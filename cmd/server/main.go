package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/limjoxin/redisx/internal/config"
	"github.com/limjoxin/redisx/internal/logger"
	"github.com/limjoxin/redisx/internal/server"
	"github.com/limjoxin/redisx/internal/store"
	"go.uber.org/zap"
)

// parseArgs layers redisx-server's small CLI surface over the config
// loaded from config.yaml/environment: --port/-p, --shards, --help/-?,
// and a single bare leading positional integer as a port shorthand.
// Returns ok=false if --help was requested (caller should exit 0).
func parseArgs(args []string, cfg *config.Config) (ok bool) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case (a == "--port" || a == "-p") && i+1 < len(args):
			i++
			cfg.Server.Port = args[i]
		case a == "--shards" && i+1 < len(args):
			i++
			if n, err := strconv.Atoi(args[i]); err == nil && n >= 1 {
				cfg.Storage.Shards = n
			}
		case a == "--help" || a == "-?":
			fmt.Println("Usage: redisx-server [--port N] [--shards N]")
			return false
		case i == 0 && isAllDigits(a):
			cfg.Server.Port = a
		}
	}
	return true
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		panic(err)
	}
	if !parseArgs(os.Args[1:], cfg) {
		return
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("redisx starting",
		zap.String("port", cfg.Server.Port),
		zap.Int("shards", cfg.Storage.Shards),
	)

	st, err := store.New(cfg.Storage.Shards)
	if err != nil {
		log.Error("cannot initialize store", zap.Error(err))
		return
	}

	engine := server.NewEngine(st, log)

	workers := runtime.NumCPU() - 1
	if workers < 1 {
		workers = 1
	}
	pool := server.NewPool(workers, log)
	defer pool.Close()

	address := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		log.Error("listener error", zap.Error(err))
		return
	}
	log.Info("listening", zap.String("address", address))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go server.RunSweeper(ctx, st, cfg.Sweep.Interval, log)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ctx, listener, engine, pool, log)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			log.Error("serve error", zap.Error(err))
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	select {
	case <-serveErr:
		log.Info("all connections closed gracefully")
	case <-shutdownCtx.Done():
		log.Warn("shutdown timed out, forcing exit", zap.Duration("timeout", 5*time.Second))
	}

	log.Info("redisx stopped")
}
