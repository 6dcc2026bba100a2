// Package distlock guards campaign sends across server instances. The
// preferred backend is Redis (SET NX with TTL); without Redis it degrades
// to PostgreSQL advisory locks, which every deployment has by definition.
package distlock

import (
	"context"
	"database/sql"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DistLock is a non-blocking, single-holder lock. Instances are not safe
// for concurrent use; each acquire attempt gets its own instance.
type DistLock interface {
	// Acquire tries to take the lock. Returns false when another holder
	// has it.
	Acquire(ctx context.Context) (bool, error)
	// Release gives the lock back if this instance still owns it.
	Release(ctx context.Context) error
}

// SendLeaseKey names the lock guarding one campaign's send attempt.
func SendLeaseKey(campaignID string) string {
	return "campaign:send:" + campaignID
}

// NewLock picks the best available backend: Redis when a client is
// configured, PostgreSQL advisory locks otherwise. The TTL only applies to
// the Redis backend; advisory locks release with the session, which covers
// the crash case the TTL exists for.
func NewLock(redisClient *redis.Client, db *sql.DB, key string, ttl time.Duration) DistLock {
	if redisClient != nil {
		return NewRedisLock(redisClient, key, ttl)
	}
	return NewPGAdvisoryLock(db, key)
}

// PGAdvisoryLock implements DistLock on pg_try_advisory_lock /
// pg_advisory_unlock. Session-scoped: a dropped connection releases it.
type PGAdvisoryLock struct {
	db     *sql.DB
	lockID int64
}

// NewPGAdvisoryLock derives a deterministic 64-bit lock id from the key,
// so every instance hashing the same campaign contends on the same lock.
func NewPGAdvisoryLock(db *sql.DB, key string) *PGAdvisoryLock {
	h := fnv.New64a()
	h.Write([]byte(key))
	return &PGAdvisoryLock{
		db:     db,
		lockID: int64(h.Sum64()),
	}
}

// Acquire is non-blocking: pg_try_advisory_lock returns immediately.
func (l *PGAdvisoryLock) Acquire(ctx context.Context) (bool, error) {
	var acquired bool
	err := l.db.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", l.lockID).Scan(&acquired)
	return acquired, err
}

// Release unlocks the advisory lock.
func (l *PGAdvisoryLock) Release(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", l.lockID)
	return err
}
