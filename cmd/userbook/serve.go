package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alfagnish/userbook/internal/config"
	"github.com/alfagnish/userbook/internal/events"
	grpcserver "github.com/alfagnish/userbook/internal/grpc"
	"github.com/alfagnish/userbook/internal/logging"
	"github.com/alfagnish/userbook/internal/server"
	"github.com/alfagnish/userbook/internal/users"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func serve(ctx context.Context, cfg *config.Config) error {
	log, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("config",
		zap.String("listen", cfg.ListenAddr),
		zap.String("users_file", cfg.UsersFile),
		zap.String("static_dir", cfg.StaticDir),
		zap.String("grpc", cfg.GRPCAddr),
	)

	// 1. Store and service. Nothing is loaded here; every request reads the file.
	svc := users.NewService(users.NewFileStore(cfg.UsersFile))

	// 2. Registration event fan-out for WebSocket subscribers.
	hub := events.NewHub()

	// 3. Set up the chi router with all handlers.
	handler, err := server.New(cfg, svc, hub, log)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      0, // WebSocket streams stay open
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Optional gRPC health endpoint.
	var (
		gs      *grpcserver.Server
		grpcLis net.Listener
	)
	if cfg.GRPCAddr != "" {
		grpcLis, err = net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		gs = grpcserver.NewServer(svc, log)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if gs != nil {
		g.Go(func() error {
			log.Info("grpc health listening", zap.String("addr", cfg.GRPCAddr))
			return gs.Serve(grpcLis)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if gs != nil {
			gs.Stop(shutdownCtx)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}
