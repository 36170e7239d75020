package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/l3montree-dev/policyguard/monitoring"
	"github.com/l3montree-dev/policyguard/shared"
)

const advisoryLockPollInterval = 100 * time.Millisecond

// AdvisoryLocker implements shared.Locker with session level postgres advisory locks.
// Every held lock pins one pooled connection until it is released.
type AdvisoryLocker struct {
	pool         *pgxpool.Pool
	pollInterval time.Duration
}

func NewAdvisoryLocker(pool *pgxpool.Pool) *AdvisoryLocker {
	return &AdvisoryLocker{
		pool:         pool,
		pollInterval: advisoryLockPollInterval,
	}
}

func (l *AdvisoryLocker) Lock(ctx context.Context, key string, timeout time.Duration) (func(), error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, shared.ErrFailedToObtainLock
		}
		return nil, fmt.Errorf("could not acquire connection for lock %s: %w", key, err)
	}

	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()
	for {
		var acquired bool
		err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock(hashtextextended($1, 0))", key).Scan(&acquired)
		if err != nil {
			conn.Release()
			if ctx.Err() != nil {
				return nil, shared.ErrFailedToObtainLock
			}
			return nil, fmt.Errorf("could not try lock %s: %w", key, err)
		}
		if acquired {
			monitoring.LockWait.WithLabelValues(lockName(key)).Observe(time.Since(start).Seconds())
			return l.releaseFunc(conn, key), nil
		}

		select {
		case <-ctx.Done():
			conn.Release()
			monitoring.LockFailures.WithLabelValues(lockName(key)).Inc()
			return nil, shared.ErrFailedToObtainLock
		case <-ticker.C:
		}
	}
}

// lockName strips the resource id from a key like policy_violation_comment:<id>
func lockName(key string) string {
	name, _, _ := strings.Cut(key, ":")
	return name
}

func (l *AdvisoryLocker) releaseFunc(conn *pgxpool.Conn, key string) func() {
	released := false
	return func() {
		if released {
			return
		}
		released = true

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var unlocked bool
		if err := conn.QueryRow(ctx, "SELECT pg_advisory_unlock(hashtextextended($1, 0))", key).Scan(&unlocked); err != nil || !unlocked {
			// closing the session drops every advisory lock it holds
			slog.Warn("could not release advisory lock, closing connection", "key", key, "err", err)
			pgConn := conn.Hijack()
			if err := pgConn.Close(ctx); err != nil {
				slog.Error("could not close connection", "err", err)
			}
			return
		}
		conn.Release()
	}
}
