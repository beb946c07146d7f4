package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/BearBump/VesselBrief/config"
	"github.com/BearBump/VesselBrief/internal/broker/kafka"
	"github.com/BearBump/VesselBrief/internal/services/audit"
	"github.com/BearBump/VesselBrief/internal/storage/pgstore"
	"github.com/pkg/errors"
	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

type workerFactories struct {
	newStore    func(ctx context.Context, cfg *config.Config) (store auditStore, closeFn func(), err error)
	newConsumer func(cfg *config.Config) (c auditConsumer, closeFn func())
}

func defaultWorkerFactories() workerFactories {
	return workerFactories{
		newStore: func(ctx context.Context, cfg *config.Config) (auditStore, func(), error) {
			dsn := cfg.Database.DSN()
			if dsn == "" {
				return nil, nil, errors.New("database is not configured")
			}
			st, err := openPostgresWithRetry(ctx, dsn, 60*time.Second)
			if err != nil {
				return nil, nil, err
			}
			return st, st.Close, nil
		},
		newConsumer: func(cfg *config.Config) (auditConsumer, func()) {
			c := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ReportTopic, cfg.Kafka.ConsumerGroup)
			return c, func() { _ = c.Close() }
		},
	}
}

// RunBriefWorker supervises the audit consumer and the HTTP endpoints until ctx is done.
func RunBriefWorker(ctx context.Context, cfg *config.Config, f workerFactories, onListen func(addr string)) error {
	if len(cfg.Kafka.Brokers) == 0 {
		return errors.New("kafka brokers are not configured")
	}

	store, closeStore, err := f.newStore(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	if closeStore != nil {
		defer closeStore()
	}

	consumer, closeConsumer := f.newConsumer(cfg)
	if closeConsumer != nil {
		defer closeConsumer()
	}

	hook := (&sutureslog.Handler{Logger: slog.Default()}).MustHook()
	root := suture.New("brief-worker", suture.Spec{
		EventHook: hook,
		Timeout:   10 * time.Second,
	})
	root.Add(&consumerService{
		consumer: consumer,
		handler:  audit.NewHandler(store),
		topic:    cfg.Kafka.ReportTopic,
	})
	root.Add(&httpService{
		addr:     cfg.HTTP.WorkerAddr,
		handler:  newWorkerRouter(store),
		onListen: onListen,
	})

	return root.Serve(ctx)
}

func openPostgresWithRetry(ctx context.Context, connString string, wait time.Duration) (*pgstore.Storage, error) {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		attemptCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		st, err := pgstore.New(attemptCtx, connString)
		cancel()
		if err == nil {
			return st, nil
		}
		lastErr = err
		slog.Warn("postgres not ready, retrying", "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return nil, errors.Wrapf(lastErr, "postgres is not ready after %s", wait)
}
