package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/ttl-shortener/internal/config"
	"github.com/serroba/ttl-shortener/internal/handlers"
	"github.com/serroba/ttl-shortener/internal/health"
	"github.com/serroba/ttl-shortener/internal/i18n"
	"github.com/serroba/ttl-shortener/internal/messaging"
	"github.com/serroba/ttl-shortener/internal/metrics"
	"github.com/serroba/ttl-shortener/internal/middleware"
	"github.com/serroba/ttl-shortener/internal/shortener"
	"github.com/serroba/ttl-shortener/internal/store"
	"github.com/serroba/ttl-shortener/internal/web"
	"go.uber.org/zap"
)

const (
	memoryCleanupInterval = time.Minute
	healthCheckTimeout    = 2 * time.Second
)

// RedisClient owns the Redis connection pool for the injector.
type RedisClient struct {
	*redis.Client
}

// Shutdown closes the connection pool.
func (c *RedisClient) Shutdown() error {
	return c.Close()
}

// LoggerPackage provides the application logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		level, err := zap.ParseAtomicLevel(opts.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}

		cfg := zap.NewDevelopmentConfig()
		if opts.LogFormat == "json" {
			cfg = zap.NewProductionConfig()
		}

		cfg.Level = level

		return cfg.Build()
	})
}

// RedisPackage provides the Redis client. It is only resolved by the redis backend.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*RedisClient, error) {
		opts := do.MustInvoke[*Options](i)

		return &RedisClient{Client: redis.NewClient(&redis.Options{
			Addr: opts.RedisAddr(),
		})}, nil
	})
}

// StorePackage provides the mapping store selected by Options.Store.
func StorePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Store, error) {
		return newStore(i)
	})
	do.Provide(injector, func(i *do.Injector) (health.Checker, error) {
		s := do.MustInvoke[shortener.Store](i)

		checker, ok := s.(health.Checker)
		if !ok {
			return nil, fmt.Errorf("store %T cannot be health checked", s)
		}

		return checker, nil
	})
}

func newStore(i *do.Injector) (shortener.Store, error) {
	opts := do.MustInvoke[*Options](i)

	switch opts.Store {
	case StoreMemory:
		return store.NewMemoryStore(memoryCleanupInterval), nil
	case StoreRedis:
		client := do.MustInvoke[*RedisClient](i)

		return store.NewRedisStore(client.Client), nil
	default:
		return nil, fmt.Errorf("unknown store %q", opts.Store)
	}
}

// MessagingPackage provides the repair event transport: Redis streams for the redis
// backend, an in-process channel for the memory backend.
func MessagingPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*gochannel.GoChannel, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		return gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, messaging.NewZapLogger(logger)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.Store == StoreMemory {
			return messaging.NewPublisherGroup(do.MustInvoke[*gochannel.GoChannel](i)), nil
		}

		client := do.MustInvoke[*RedisClient](i)

		publisher, err := messaging.NewRedisPublisher(client.Client, messaging.NewZapLogger(logger))
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[shortener.ReverseIndexRepair], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[shortener.ReverseIndexRepair](
			group.Publisher(), shortener.TopicReverseIndexRepair), nil
	})
}

// MetricsPackage provides the Prometheus registry and the outcome recorder.
func MetricsPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*prometheus.Registry, error) {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		return reg, nil
	})

	do.Provide(injector, func(i *do.Injector) (*metrics.Recorder, error) {
		return metrics.NewRecorder(do.MustInvoke[*prometheus.Registry](i)), nil
	})
}

// ShortenerPackage provides the shortening service and message translator.
func ShortenerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)

		generator, err := shortener.NewCodeGenerator(opts.CodeLength)
		if err != nil {
			return nil, err
		}

		return shortener.NewService(
			do.MustInvoke[shortener.Store](i),
			generator,
			do.MustInvoke[messaging.Publish[shortener.ReverseIndexRepair]](i),
			do.MustInvoke[*metrics.Recorder](i),
			do.MustInvoke[*zap.Logger](i),
			shortener.Config{
				BaseURL:     opts.BaseURL,
				TTL:         opts.TTL(),
				MaxAttempts: opts.MaxAttempts,
			},
		), nil
	})

	do.Provide(injector, func(_ *do.Injector) (*i18n.Translator, error) {
		return i18n.NewTranslator(), nil
	})
}

// HTTPPackage provides the router with every route registered and the huma API.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		recorder := do.MustInvoke[*metrics.Recorder](i)

		router := chi.NewMux()
		router.Use(chimiddleware.RequestID)
		router.Use(middleware.RequestLogger(logger, recorder))
		router.Use(chimiddleware.Recoverer)

		router.Handle("/metrics", recorder.Handler())

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		service := do.MustInvoke[*shortener.Service](i)
		translator := do.MustInvoke[*i18n.Translator](i)
		logger := do.MustInvoke[*zap.Logger](i)

		api := humachi.New(router, handlers.APIConfig())

		handlers.RegisterRoutes(api, handlers.NewURLHandler(service, translator, logger))
		health.RegisterRoutes(api, health.NewHandler(map[string]health.Checker{
			"store": do.MustInvoke[health.Checker](i),
		}, healthCheckTimeout))

		pages, err := web.NewPages(service, translator, logger)
		if err != nil {
			return nil, err
		}

		web.RegisterRoutes(router, pages)

		return api, nil
	})
}

// ConsumerGroupPackage provides the reverse index repair worker.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		service := do.MustInvoke[*shortener.Service](i)

		subscriber, err := newSubscriber(i, opts, logger)
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(
			subscriber,
			shortener.TopicReverseIndexRepair,
			service.RepairReverseIndex,
			logger,
		))

		return group, nil
	})
}

func newSubscriber(i *do.Injector, opts *Options, logger *zap.Logger) (message.Subscriber, error) {
	if opts.Store == StoreMemory {
		return do.MustInvoke[*gochannel.GoChannel](i), nil
	}

	client := do.MustInvoke[*RedisClient](i)

	return messaging.NewRedisSubscriber(client.Client, opts.ConsumerGroup, messaging.NewZapLogger(logger))
}

// StartRepairWorker starts the consumer group and returns it for shutdown.
func StartRepairWorker(ctx context.Context, injector *do.Injector) (*messaging.ConsumerGroup, error) {
	group, err := do.Invoke[*messaging.ConsumerGroup](injector)
	if err != nil {
		return nil, err
	}

	if err := group.Start(ctx); err != nil {
		return nil, err
	}

	return group, nil
}

// New applies the deployment environment to options, validates them and registers
// every package on a fresh injector.
func New(options *Options) (*do.Injector, error) {
	env, err := config.LoadEnv(options.EnvFile)
	if err != nil {
		return nil, err
	}

	if err = options.ApplyEnv(env); err != nil {
		return nil, err
	}

	if err = options.Validate(); err != nil {
		return nil, err
	}

	injector := do.New()
	do.ProvideValue(injector, options)
	LoggerPackage(injector)
	RedisPackage(injector)
	StorePackage(injector)
	MessagingPackage(injector)
	MetricsPackage(injector)
	ShortenerPackage(injector)
	HTTPPackage(injector)
	ConsumerGroupPackage(injector)

	return injector, nil
}
