package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ConnectDB открывает пул соединений. При старте делает до retries попыток
// с паузой delay между ними, потом сдаётся.
func ConnectDB(ctx context.Context, dsn string, retries int, delay time.Duration, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse db dsn: %w", err)
	}
	poolCfg.MaxConns = 50
	poolCfg.MinConns = 2
	poolCfg.MaxConnIdleTime = 10 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 30 * time.Second

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		logger.Info("Attempting to connect to PostgreSQL...", zap.Int("attempt", attempt))

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				logger.Info("✅ Database connected",
					zap.String("host", poolCfg.ConnConfig.Host),
					zap.String("database", poolCfg.ConnConfig.Database))
				return pool, nil
			}
			pool.Close()
		}

		lastErr = err
		logger.Warn("Database connection attempt failed",
			zap.Int("retries_left", retries-attempt),
			zap.Error(err))

		if attempt == retries {
			break
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("connect to database after %d attempts: %w", retries, lastErr)
}
