package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/go-chi/chi/v5"
	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"github.com/shurlix/shurlix/internal/config"
	"github.com/shurlix/shurlix/internal/container"
	"github.com/shurlix/shurlix/internal/handlers"
	"github.com/shurlix/shurlix/internal/messaging"
	"go.uber.org/zap"
)

func registerPackages(injector *do.Injector, options *container.Options, cfg *config.Config) {
	do.ProvideValue(injector, options)
	do.ProvideValue(injector, cfg)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.StorePackage(injector)
	container.MessagingPackage(injector)
	container.RateLimitPackage(injector)
	container.ServicePackage(injector)
	container.CronPackage(injector)
	container.HTTPPackage(injector)
}

// stopFunc is installed by whichever server is currently running so the CLI
// stop hook can reach it.
type stopFunc struct {
	mu sync.Mutex
	fn func()
}

func (s *stopFunc) set(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = fn
}

func (s *stopFunc) call() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fn != nil {
		s.fn()
	}
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		var (
			stop     stopFunc
			stopping atomic.Bool
		)

		hooks.OnStart(func() {
			// The process alternates between two modes: while setup_done
			// is false it serves only the setup wizard, and once a valid
			// config has been written it restarts into the real app.
			for !stopping.Load() {
				cfg, err := config.Load(options.Config)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(1)
				}

				if !cfg.Setup.SetupDone {
					runSetup(options, cfg, &stop)

					continue
				}

				if errs := cfg.Validate(); len(errs) > 0 {
					for _, e := range errs {
						fmt.Fprintln(os.Stderr, "config: "+e)
					}

					os.Exit(1)
				}

				runApp(options, cfg, &stop)

				return
			}
		})

		hooks.OnStop(func() {
			stopping.Store(true)
			stop.call()
		})
	})

	cli.Run()
}

// runSetup serves the first-run wizard and blocks until a restart is
// triggered, either by a successful configuration write or explicitly.
func runSetup(options *container.Options, cfg *config.Config, stop *stopFunc) {
	logger := newLogger(options)
	defer func() { _ = logger.Sync() }()

	done := make(chan struct{})

	var once sync.Once

	restart := func() {
		once.Do(func() { close(done) })
	}

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Shurlix Setup", "1.0.0"))
	handlers.RegisterSetupRoutes(api, handlers.NewSetupHandler(cfg, options.Config, restart, logger))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", options.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop.set(restart)

	go func() {
		logger.Info("setup server starting", zap.Int("port", options.Port))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("setup server failed", zap.Error(err))
		}
	}()

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("setup server shutdown error", zap.Error(err))
	}

	logger.Info("setup server stopped, restarting")
}

// runApp assembles the full application and blocks until shutdown.
func runApp(options *container.Options, cfg *config.Config, stop *stopFunc) {
	injector := do.New()
	registerPackages(injector, options, cfg)

	logger := do.MustInvoke[*zap.Logger](injector)
	router := do.MustInvoke[*chi.Mux](injector)

	// Invoke API to trigger route registration
	_ = do.MustInvoke[huma.API](injector)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := container.EnsureBaseDomain(ctx, injector); err != nil {
		logger.Fatal("failed to register base domain", zap.Error(err))
	}

	consumers := do.MustInvoke[*messaging.ConsumerGroup](injector)
	if err := consumers.Start(ctx); err != nil {
		logger.Fatal("failed to start consumer group", zap.Error(err))
	}

	scheduler := do.MustInvoke[*cron.Cron](injector)
	scheduler.Start()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", options.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop.set(func() {
		logger.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", zap.Error(err))
		}

		scheduler.Stop()
		cancel()

		if err := injector.Shutdown(); err != nil {
			logger.Error("service shutdown error", zap.Error(err))
		}

		logger.Info("shutdown complete")
	})

	logger.Info("server starting", zap.Int("port", options.Port))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func newLogger(options *container.Options) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)

	if options.LogFormat == "json" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	return logger
}
