package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/elogbook-service/internal/cache"
	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/utils"
)

func withRedis(t *testing.T, env *testEnv) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	env.deps.Cache = cache.NewCacheManager(client)
	return mr
}

func TestUserService_GetByIDCachedUntilRoleChange(t *testing.T) {
	env := newTestEnv()
	mr := withRedis(t, env)
	env.repo.addUser(10, "budi", models.RoleSupervisor)
	users := NewUserService(env.deps.Repo, env.deps.Cache, 0, env.deps.Logger)
	roles := newRoleTestService(env)
	ctx := context.Background()

	got, err := users.GetByID(ctx, 10)
	if err != nil || got.Roles != models.RoleSupervisor {
		t.Fatalf("GetByID() = %+v, %v", got, err)
	}
	if !mr.Exists("fast:user:10") {
		t.Fatal("user detail should be cached")
	}

	// a write that bypasses the service is hidden by the cache
	env.repo.state.users[10].Username = "budi2"
	if got, _ := users.GetByID(ctx, 10); got.Username != "budi" {
		t.Errorf("cached username = %q, want budi", got.Username)
	}

	if _, err := roles.UpdateUserRole(ctx, adminActor, &UpdateUserRoleRequest{Role: "student", ID: 10}); err != nil {
		t.Fatalf("UpdateUserRole() error = %v", err)
	}
	if mr.Exists("fast:user:10") {
		t.Error("role change should drop the cached detail")
	}

	got, err = users.GetByID(ctx, 10)
	if err != nil || got.Roles != models.RoleStudent {
		t.Errorf("GetByID() after role change = %+v, %v", got, err)
	}
}

func TestUserService_GetByIDUnknown(t *testing.T) {
	env := newTestEnv()
	mr := withRedis(t, env)
	users := NewUserService(env.deps.Repo, env.deps.Cache, 0, env.deps.Logger)

	if _, err := users.GetByID(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID() error = %v, want ErrNotFound", err)
	}
	if mr.Exists("fast:user:99") {
		t.Error("a missing user must not be cached")
	}
}

func TestServices_LogWithRequestLogger(t *testing.T) {
	env := newTestEnv()
	env.repo.addUser(10, "budi", models.RoleSupervisor)
	svc := newRoleTestService(env)

	var buf bytes.Buffer
	reqLogger := utils.NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil))).With("request_id", "req-7")
	ctx := utils.WithLogger(context.Background(), reqLogger)

	if _, err := svc.UpdateUserRole(ctx, adminActor, &UpdateUserRoleRequest{Role: "lecturer", ID: 10}); err != nil {
		t.Fatalf("UpdateUserRole() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"request_id":"req-7"`) || !strings.Contains(out, "User role updated") {
		t.Errorf("log output = %s", out)
	}
}
