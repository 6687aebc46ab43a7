package main

import (
	"context"
	"fmt"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/samber/do"
	"github.com/serroba/ttl-shortener/internal/container"
	"go.uber.org/zap"
)

// The repair worker reads reverse index repair events from Redis streams and rewrites
// missing url -> code entries.
func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		options.Store = container.StoreRedis

		injector, err := container.New(options)
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid configuration:", err)
			os.Exit(1)
		}

		logger := do.MustInvoke[*zap.Logger](injector)
		ctx, cancel := context.WithCancel(context.Background())

		hooks.OnStart(func() {
			if _, err := container.StartRepairWorker(ctx, injector); err != nil {
				logger.Fatal("failed to start consumer group", zap.Error(err))
			}

			logger.Info("repair worker running",
				zap.String("redis", options.RedisAddr()),
				zap.String("consumerGroup", options.ConsumerGroup),
			)

			<-ctx.Done()
		})

		hooks.OnStop(func() {
			logger.Info("shutting down")
			cancel()

			if err := injector.Shutdown(); err != nil {
				logger.Error("shutdown error", zap.Error(err))
			}

			logger.Info("shutdown complete")
		})
	})

	cli.Root().Use = "consumer"

	cli.Run()
}
