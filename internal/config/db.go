package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DBConfig holds database connection parameters
type DBConfig struct {
	Host          string        `env:"HOST"`
	Port          string        `env:"PORT"`
	User          string        `env:"USER"`
	Password      string        `env:"PASSWORD"`
	Name          string        `env:"NAME"`
	SSLMode       string        `env:"SSLMODE" envDefault:"disable"`
	MaxRetries    int           `env:"CONNECT_RETRIES" envDefault:"5"`
	RetryInterval time.Duration `env:"CONNECT_RETRY_INTERVAL" envDefault:"5s"`
	QueryTimeout  time.Duration `env:"QUERY_TIMEOUT" envDefault:"5s"`
}

// DSN builds the libpq connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// ConnectDB establishes a connection to the PostgreSQL database
func ConnectDB(ctx context.Context, cfg DBConfig, log *slog.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error

	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.New(ctx, cfg.DSN())
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				log.Info("connected to PostgreSQL", "host", cfg.Host, "db", cfg.Name)
				return pool, nil
			}
			pool.Close()
		}
		log.Warn("failed to connect to database",
			"attempt", i+1, "max", maxRetries, "error", err, "retry_in", cfg.RetryInterval)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
}
