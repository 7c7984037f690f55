package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/recurring-server/api"
	"github.com/carson-networks/recurring-server/internal/config"
	"github.com/carson-networks/recurring-server/internal/logging"
	"github.com/carson-networks/recurring-server/internal/operator"
	"github.com/carson-networks/recurring-server/internal/recurring"
	"github.com/carson-networks/recurring-server/internal/service"
	"github.com/carson-networks/recurring-server/internal/storage"
	"github.com/carson-networks/recurring-server/internal/storage/kvstore"
)

type recurringStore interface {
	recurring.BulkWriter
	service.RuleStore
}

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logger.WithField("storeBackend", envConfig.StoreBackend).Info("recurring-server starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(envConfig)
	if err != nil {
		logger.WithError(err).Fatal("openStore")
		return
	}
	defer closeStore()

	dispatcher := recurring.NewBatchDispatcher(store, recurring.DispatcherConfig{
		Table:       envConfig.TransactionsTable,
		ChunkSize:   envConfig.ChunkSize,
		Concurrency: envConfig.DispatchConcurrency,
	}, logger)

	recurringService := service.NewRecurringService(
		recurring.NewRuleValidator(),
		store,
		dispatcher,
		logger,
		envConfig.MaterializeTimeout,
	)

	httpRest := api.Rest{
		Logger:  logger,
		Port:    envConfig.HTTPPort,
		Service: service.NewService(recurringService),
	}
	httpRest.Serve(ctx)
}

func openStore(envConfig *config.Config) (recurringStore, func(), error) {
	if envConfig.StoreBackend == config.StoreBackendRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     envConfig.RedisAddress,
			Password: envConfig.RedisPassword,
			DB:       envConfig.RedisDB,
		})
		return kvstore.NewStore(client), func() { _ = client.Close() }, nil
	}

	dbStorage, err := storage.NewStorage(envConfig)
	if err != nil {
		return nil, nil, err
	}

	delegator := operator.NewOperatorDelegator(dbStorage, envConfig.OperatorWorkers)
	delegator.Start()

	return operator.NewStore(delegator), func() {
		delegator.Stop()
		_ = dbStorage.Close()
	}, nil
}
