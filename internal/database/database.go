package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kariemGerges/crashify-sub002/pkg/logger"
)

// Service owns the process-wide Postgres pool. It is constructed exactly
// once at startup and handed to every component that needs storage; nothing
// else opens connections.
type Service interface {
	Pool() *pgxpool.Pool
	Health() map[string]string
	Close()
}

type service struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context) (Service, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
			os.Getenv("DB_NAME"),
			os.Getenv("DB_SSLMODE"),
		)
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 15 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &service{pool: pool}, nil
}

func (s *service) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("database health check failed:", err)
		return map[string]string{
			"status": "down",
		}
	}

	stats := s.pool.Stat()
	return map[string]string{
		"status":            "up",
		"total_conns":       fmt.Sprintf("%d", stats.TotalConns()),
		"idle_conns":        fmt.Sprintf("%d", stats.IdleConns()),
		"acquired_conns":    fmt.Sprintf("%d", stats.AcquiredConns()),
		"max_conns":         fmt.Sprintf("%d", stats.MaxConns()),
		"new_conns_count":   fmt.Sprintf("%d", stats.NewConnsCount()),
		"empty_acquire_cnt": fmt.Sprintf("%d", stats.EmptyAcquireCount()),
	}
}

func (s *service) Close() {
	s.pool.Close()
}
