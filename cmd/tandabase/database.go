package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"

	"tandabase/shared/go/config"
)

// pingBackoff spaces out startup pings while Postgres comes up.
type pingBackoff struct {
	timeout time.Duration
	wait    time.Duration
	initial time.Duration
	max     time.Duration
}

func newPingBackoff(cfg config.DatabaseConfig) pingBackoff {
	return pingBackoff{
		timeout: 5 * time.Second,
		wait:    cfg.ConnectWait,
		initial: 500 * time.Millisecond,
		max:     5 * time.Second,
	}
}

func (b pingBackoff) next(current time.Duration) time.Duration {
	if current <= 0 {
		return b.initial
	}
	current *= 2
	if current > b.max {
		return b.max
	}
	return current
}

// openDatabase opens the pgx pool and pings until the database answers or
// ConnectWait elapses.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	policy := newPingBackoff(cfg)
	deadline := time.Now().Add(policy.wait)
	var (
		backoff time.Duration
		lastErr error
	)
	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, policy.timeout)
		lastErr = db.PingContext(pingCtx)
		cancel()
		if lastErr == nil {
			return db, nil
		}
		if ctx.Err() != nil || time.Now().After(deadline) {
			break
		}

		backoff = policy.next(backoff)
		log.Warn().Err(lastErr).Int("attempt", attempt).Dur("retry_in", backoff).Msg("database not ready")

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}

	_ = db.Close()
	return nil, fmt.Errorf("ping database: %w", lastErr)
}
