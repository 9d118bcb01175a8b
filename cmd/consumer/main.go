package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do"
	"github.com/shurlix/shurlix/internal/config"
	"github.com/shurlix/shurlix/internal/container"
	"github.com/shurlix/shurlix/internal/messaging"
	"go.uber.org/zap"
)

// Standalone verification-mail consumer. It shares the Redis stream consumer
// group with the web server, so mail processing can be scaled out or moved
// off the serving path entirely.
func main() {
	opts := &container.Options{
		Config:    getEnv("CONFIG_PATH", "config.toml"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if cfg.Redis.Addr == "" {
		fmt.Fprintln(os.Stderr, "the standalone consumer requires a [redis] section in the config")
		os.Exit(1)
	}

	injector := do.New()
	do.ProvideValue(injector, opts)
	do.ProvideValue(injector, cfg)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.MessagingPackage(injector)

	logger := do.MustInvoke[*zap.Logger](injector)
	group := do.MustInvoke[*messaging.ConsumerGroup](injector)

	ctx, cancel := context.WithCancel(context.Background())

	if err := group.Start(ctx); err != nil {
		logger.Fatal("failed to start consumer group", zap.Error(err))
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	cancel()

	if err := injector.Shutdown(); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return defaultValue
}
