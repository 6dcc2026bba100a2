package distlock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisLockAcquireRelease(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	l1 := NewRedisLock(client, "campaign:send:abc", time.Minute)
	ok, err := l1.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if !ok {
		t.Fatal("expected first acquire to succeed")
	}

	l2 := NewRedisLock(client, "campaign:send:abc", time.Minute)
	ok, err = l2.Acquire(ctx)
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if ok {
		t.Fatal("expected second acquire to fail while held")
	}

	if err := l1.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}

	ok, err = l2.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	if !ok {
		t.Fatal("expected acquire to succeed after release")
	}
}

func TestRedisLockReleaseNotOwned(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	l1 := NewRedisLock(client, "campaign:send:xyz", time.Minute)
	if ok, _ := l1.Acquire(ctx); !ok {
		t.Fatal("acquire failed")
	}

	// A different instance must not release l1's lock.
	l2 := NewRedisLock(client, "campaign:send:xyz", time.Minute)
	if err := l2.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}

	l3 := NewRedisLock(client, "campaign:send:xyz", time.Minute)
	if ok, _ := l3.Acquire(ctx); ok {
		t.Fatal("lock should still be held by l1")
	}
}

func TestSendLeaseKey(t *testing.T) {
	if got := SendLeaseKey("camp-1"); got != "campaign:send:camp-1" {
		t.Fatalf("SendLeaseKey = %q", got)
	}
	if SendLeaseKey("camp-1") == SendLeaseKey("camp-2") {
		t.Fatal("distinct campaigns must not share a lease key")
	}
}

func TestNewLockPrefersRedis(t *testing.T) {
	client := newTestRedis(t)
	if _, ok := NewLock(client, nil, "k", time.Second).(*RedisLock); !ok {
		t.Fatal("expected RedisLock when redis client present")
	}
	if _, ok := NewLock(nil, nil, "k", time.Second).(*PGAdvisoryLock); !ok {
		t.Fatal("expected PGAdvisoryLock fallback")
	}
}
