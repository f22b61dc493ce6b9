package cmdutil

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/pgx-contrib/pgxtrace"

	"github.com/mpapenbr/bikechallenge/log"
	"github.com/mpapenbr/bikechallenge/pkg/config"
	"github.com/mpapenbr/bikechallenge/pkg/db/postgres"
	"github.com/mpapenbr/bikechallenge/pkg/storage"
	"github.com/mpapenbr/bikechallenge/pkg/utils"
)

func waitTimeout() time.Duration {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	return timeout
}

// WaitForDB blocks until the database port accepts connections.
func WaitForDB(ctx context.Context) error {
	return utils.WaitForTCP(ctx, utils.ExtractFromDBURL(config.DB), waitTimeout())
}

// ConnectDB waits for the database and returns a traced pool.
func ConnectDB(ctx context.Context) (*pgxpool.Pool, error) {
	if err := WaitForDB(ctx); err != nil {
		return nil, err
	}
	tracer := pgxtrace.CompositeQueryTracer{postgres.NewLogTracer(SQLLogger())}
	if config.EnableTelemetry {
		tracer = append(tracer, postgres.NewOtlpTracer())
	}
	return postgres.Connect(ctx, config.DB, postgres.WithTracer(tracer))
}

// StateStore returns a NATS backed store when a NATS url is configured and
// an in-memory store otherwise. The returned func releases the connection.
func StateStore(ctx context.Context) (storage.Store, func(), error) {
	if config.NatsURL == "" {
		return storage.NewMemoryStore(), func() {}, nil
	}
	if addr := utils.ExtractFromNatsURL(config.NatsURL); addr != "" {
		if err := utils.WaitForTCP(ctx, addr, waitTimeout()); err != nil {
			return nil, nil, err
		}
	}
	nc, err := nats.Connect(config.NatsURL)
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.NewNATSStore(ctx, nc, storage.DefaultBucket)
	if err != nil {
		nc.Close()
		return nil, nil, err
	}
	return store, nc.Close, nil
}
