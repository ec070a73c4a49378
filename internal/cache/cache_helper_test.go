package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestManager(t *testing.T) (*CacheManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheManager(client), mr
}

type payload struct {
	Name string `json:"name"`
}

func TestCacheHelper_SetGet(t *testing.T) {
	cm, mr := newTestManager(t)
	ctx := context.Background()

	if err := cm.Reference.Set(ctx, "k", payload{Name: "Interna"}, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !mr.Exists("elogbook:k") {
		t.Fatalf("expected prefixed key elogbook:k to exist")
	}

	var got payload
	if err := cm.Reference.Get(ctx, "k", &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Interna" {
		t.Errorf("Get() = %+v, want Name=Interna", got)
	}

	if err := cm.Reference.Get(ctx, "missing", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheHelper_NilClient(t *testing.T) {
	cm := NewCacheManager(nil)
	ctx := context.Background()

	if err := cm.Reference.Set(ctx, "k", payload{}, time.Minute); err != nil {
		t.Errorf("Set() on nil client error = %v, want nil", err)
	}
	var got payload
	if err := cm.Reference.Get(ctx, "k", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Get() error = %v, want ErrCacheNotAvailable", err)
	}
	if err := cm.HealthCheck(ctx); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("HealthCheck() error = %v, want ErrCacheNotAvailable", err)
	}
}

func TestCacheOrExecute(t *testing.T) {
	cm, _ := newTestManager(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (payload, error) {
		calls++
		return payload{Name: "Bedah"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := CacheOrExecute(ctx, cm.Reference, ElogbookInfoKey, time.Minute, fetch)
		if err != nil {
			t.Fatalf("CacheOrExecute() error = %v", err)
		}
		if got.Name != "Bedah" {
			t.Fatalf("CacheOrExecute() = %+v", got)
		}
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}

	InvalidateReferenceCache(ctx, cm)
	if _, err := CacheOrExecute(ctx, cm.Reference, ElogbookInfoKey, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("fetch called %d times after invalidation, want 2", calls)
	}
}

func TestCacheOrExecute_FetchError(t *testing.T) {
	cm, mr := newTestManager(t)
	wantErr := errors.New("db down")

	_, err := CacheOrExecute(context.Background(), cm.Reference, "k", time.Minute, func() (payload, error) {
		return payload{}, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("error = %v, want %v", err, wantErr)
	}
	if mr.Exists("elogbook:k") {
		t.Error("failed fetch must not populate the cache")
	}
}

func TestInvalidateUserCache(t *testing.T) {
	cm, mr := newTestManager(t)
	ctx := context.Background()

	_ = cm.User.Set(ctx, "list:1:10", []int{1}, time.Minute)
	_ = cm.User.Set(ctx, "list:2:10", []int{2}, time.Minute)
	_ = cm.User.Set(ctx, "other", 1, time.Minute)

	InvalidateUserCache(ctx, cm)

	if mr.Exists("user:list:1:10") || mr.Exists("user:list:2:10") {
		t.Error("user list keys should be invalidated")
	}
	if !mr.Exists("user:other") {
		t.Error("unrelated user key should survive")
	}
}

func TestInvalidateUserCache_DetailKeys(t *testing.T) {
	cm, mr := newTestManager(t)
	ctx := context.Background()

	_ = cm.Fast.Set(ctx, UserDetailKey(10), payload{Name: "budi"}, time.Minute)
	_ = cm.Fast.Set(ctx, UserDetailKey(11), payload{Name: "sari"}, time.Minute)

	InvalidateUserCache(ctx, cm, 10)

	if mr.Exists("fast:user:10") {
		t.Error("detail key of the changed user should be invalidated")
	}
	if !mr.Exists("fast:user:11") {
		t.Error("detail key of another user should survive")
	}
}
