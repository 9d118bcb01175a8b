package container

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"github.com/shurlix/shurlix/internal/config"
	"github.com/shurlix/shurlix/internal/domains"
	"github.com/shurlix/shurlix/internal/handlers"
	"github.com/shurlix/shurlix/internal/health"
	"github.com/shurlix/shurlix/internal/links"
	"github.com/shurlix/shurlix/internal/mailer"
	"github.com/shurlix/shurlix/internal/messaging"
	"github.com/shurlix/shurlix/internal/middleware"
	"github.com/shurlix/shurlix/internal/ratelimit"
	"github.com/shurlix/shurlix/internal/store"
	"github.com/shurlix/shurlix/internal/users"
	"go.uber.org/zap"
)

// Options are the CLI flags.
type Options struct {
	Port      int    `default:"3000"        help:"Port to listen on"              short:"p"`
	Config    string `default:"config.toml" help:"Path to the configuration file" short:"c"`
	LogFormat string `default:"console"     help:"Log format: console or json"`
}

// Bus pairs the publisher and subscriber sides of the event bus. With Redis
// configured it is backed by Redis streams, otherwise by an in-process
// channel.
type Bus struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
}

func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		cfg := do.MustInvoke[*config.Config](i)

		pool, err := pgxpool.New(context.Background(), cfg.DB.URL)
		if err != nil {
			return nil, err
		}

		if err := store.Migrate(context.Background(), pool); err != nil {
			pool.Close()

			return nil, err
		}

		return pool, nil
	})
}

func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)

		return redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		}), nil
	})
}

func StorePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (users.Repository, error) {
		return store.NewPostgresUserStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (users.TokenRepository, error) {
		return store.NewPostgresTokenStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (domains.Repository, error) {
		return store.NewPostgresDomainStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (links.Repository, error) {
		return store.NewPostgresLinkStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})
}

func MessagingPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*Bus, error) {
		cfg := do.MustInvoke[*config.Config](i)
		wmLogger := watermill.NewStdLogger(false, false)

		if cfg.Redis.Addr == "" {
			channel := gochannel.NewGoChannel(gochannel.Config{}, wmLogger)

			return &Bus{Publisher: channel, Subscriber: channel}, nil
		}

		client := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{Client: client}, wmLogger)
		if err != nil {
			return nil, err
		}

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        client,
			ConsumerGroup: "shurlix",
		}, wmLogger)
		if err != nil {
			return nil, err
		}

		return &Bus{Publisher: publisher, Subscriber: subscriber}, nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		return messaging.NewPublisherGroup(do.MustInvoke[*Bus](i).Publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (*mailer.Mailer, error) {
		cfg := do.MustInvoke[*config.Config](i)

		return mailer.New(cfg.SMTP, cfg.App, do.MustInvoke[*zap.Logger](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		bus := do.MustInvoke[*Bus](i)
		logger := do.MustInvoke[*zap.Logger](i)

		group := messaging.NewConsumerGroup(bus.Subscriber, logger)
		group.Add(messaging.NewConsumer(
			bus.Subscriber,
			mailer.TopicVerification,
			do.MustInvoke[*mailer.Mailer](i).HandleVerification,
			logger,
		))

		return group, nil
	})
}

func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ratelimit.Limiter, error) {
		cfg := do.MustInvoke[*config.Config](i)

		if cfg.Redis.Addr == "" {
			return ratelimit.NewLimiter(ratelimit.NewMemoryStore()), nil
		}

		return ratelimit.NewLimiter(ratelimit.NewRedisStore(do.MustInvoke[*redis.Client](i))), nil
	})
}

func ServicePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*domains.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)

		baseHost, err := domains.NormalizeHost(cfg.App.BaseURL)
		if err != nil {
			return nil, err
		}

		return domains.NewService(do.MustInvoke[domains.Repository](i), baseHost), nil
	})

	do.Provide(injector, func(i *do.Injector) (*links.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)

		generate, err := links.NewSlugGenerator(cfg.App.ShortenedLinkLength)
		if err != nil {
			return nil, err
		}

		return links.NewService(
			do.MustInvoke[links.Repository](i),
			do.MustInvoke[domains.Repository](i),
			generate,
			cfg.App.AllowAnonymousShorten,
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*users.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)

		newToken, err := users.NewTokenGenerator()
		if err != nil {
			return nil, err
		}

		publishers := do.MustInvoke[*messaging.PublisherGroup](i)
		publish := messaging.NewPublishFunc[mailer.VerificationRequested](publishers.Publisher(), mailer.TopicVerification)

		return users.NewService(
			do.MustInvoke[users.Repository](i),
			do.MustInvoke[users.TokenRepository](i),
			users.ServiceConfig{
				MinPasswordStrength:     cfg.Security.MinPasswordStrength,
				AllowRegistering:        cfg.App.AllowRegistering,
				EnableEmailVerification: cfg.App.EnableEmailVerification,
				VerificationTTL:         cfg.App.EmailVerificationTTL.Duration,
			},
			publish,
			newToken,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

func CronPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*cron.Cron, error) {
		userService := do.MustInvoke[*users.Service](i)
		logger := do.MustInvoke[*zap.Logger](i)

		scheduler := cron.New()

		_, err := scheduler.AddFunc("@daily", func() {
			deleted, err := userService.SweepExpiredTokens(context.Background())
			if err != nil {
				logger.Error("failed to delete expired verification tokens", zap.Error(err))

				return
			}

			logger.Debug("deleted expired verification tokens", zap.Int64("count", deleted))
		})
		if err != nil {
			return nil, err
		}

		return scheduler, nil
	})
}

func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		cfg := do.MustInvoke[*config.Config](i)
		logger := do.MustInvoke[*zap.Logger](i)

		baseHost, err := domains.NormalizeHost(cfg.App.BaseURL)
		if err != nil {
			return nil, err
		}

		api := humachi.New(do.MustInvoke[*chi.Mux](i), huma.DefaultConfig("Shurlix", "1.0.0"))

		api.UseMiddleware(
			middleware.HostGuard(api, baseHost),
			middleware.Authenticate([]byte(cfg.Security.JWTSecret), do.MustInvoke[users.Repository](i)),
			middleware.RateLimiter(api, do.MustInvoke[*ratelimit.Limiter](i), logger),
		)

		handlers.RegisterRoutes(api, handlers.Handlers{
			Links:    handlers.NewLinkHandler(do.MustInvoke[*links.Service](i)),
			Users:    handlers.NewUserHandler(do.MustInvoke[*users.Service](i), do.MustInvoke[*links.Service](i), []byte(cfg.Security.JWTSecret), logger),
			Domains:  handlers.NewDomainHandler(do.MustInvoke[*domains.Service](i)),
			Redirect: handlers.NewRedirectHandler(do.MustInvoke[*links.Service](i), do.MustInvoke[domains.Repository](i)),
			Config:   handlers.NewConfigHandler(cfg),
		})

		var redisChecker health.Checker
		if cfg.Redis.Addr != "" {
			redisChecker = health.NewRedisChecker(do.MustInvoke[*redis.Client](i))
		}

		health.RegisterRoutes(api, health.NewHandler(
			health.NewPostgresChecker(do.MustInvoke[*pgxpool.Pool](i)),
			redisChecker,
		))

		return api, nil
	})
}

// EnsureBaseDomain registers the application's canonical host so redirects
// and the base-domain deletion guard always have a row to work against.
func EnsureBaseDomain(ctx context.Context, injector *do.Injector) error {
	cfg := do.MustInvoke[*config.Config](injector)

	host, err := domains.NormalizeHost(cfg.App.BaseURL)
	if err != nil {
		return err
	}

	domainStore := do.MustInvoke[domains.Repository](injector)

	if _, err := domainStore.GetByHost(ctx, host); err == nil {
		return nil
	} else if !errors.Is(err, domains.ErrNotFound) {
		return err
	}

	return domainStore.Create(ctx, &domains.Domain{Domain: host, Public: true})
}
