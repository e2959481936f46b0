package db

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"chegoou/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the shared connection pool. Init must run before any service call.
var Pool *pgxpool.Pool

func Init(cfg config.DBConfig) error {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   cfg.Database,
	}
	pool, err := pgxpool.New(context.Background(), u.String())
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.Database, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping %s: %w", cfg.Database, err)
	}

	Pool = pool
	return nil
}

func Close() {
	if Pool != nil {
		Pool.Close()
	}
}
