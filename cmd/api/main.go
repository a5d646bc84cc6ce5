package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kyletbuzbee/Website-Templates-sub002/internal/config"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/container"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/logger"
)

const shutdownGrace = 30 * time.Second

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to wire services")
	}

	if err := serve(cfg, c); err != nil {
		logger.WithError(err).Error("Server stopped with error")
		c.Close()
		os.Exit(1)
	}
	c.Close()
}

func serve(cfg *config.Config, c *container.Container) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      c.Handler(),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"address": cfg.ServerAddress(),
			"root":    cfg.RootDir,
			"reports": cfg.ReportPath(),
			"publish": c.PublishEnabled(),
		}).Info("Asset API listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down asset API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Asset API stopped")
	return nil
}
