package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do"
	"github.com/serroba/shortkey/internal/container"
	"github.com/serroba/shortkey/internal/messaging"
	"go.uber.org/zap"
)

func main() {
	cfg, err := container.LoadConsumerConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, cfg.Options())
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.ReplicationPackage(injector)

	logger := do.MustInvoke[*zap.Logger](injector)
	router := do.MustInvoke[*messaging.Router](injector)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := router.Start(ctx); err != nil {
		logger.Fatal("failed to start event router", zap.Error(err))
	}

	logger.Info("replicating key bindings",
		zap.String("consumer_group", cfg.ConsumerGroup),
		zap.String("replica", cfg.ReplicaRedisAddr),
	)

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
