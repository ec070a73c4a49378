package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/repositories"
)

func TestServiceManager_Lifecycle(t *testing.T) {
	env := newTestEnv()
	env.repo.addUser(10, "budi", models.RoleStudent)
	env.repo.addUser(11, "sari", models.RoleLecturer)
	sm := NewDefaultServiceManager(env.deps)
	ctx := context.Background()

	if err := sm.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck() before Initialize should fail")
	}
	if err := sm.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := sm.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	role := models.RoleLecturer
	list, err := sm.User().ListUsers(ctx, repositories.UserFilters{Role: &role})
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if list.Total != 1 || list.Users[0].Username != "sari" {
		t.Errorf("ListUsers() = %+v", list)
	}

	if _, err := sm.User().GetByID(ctx, 404); err == nil {
		t.Error("GetByID() for unknown user should fail")
	}

	if err := sm.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := sm.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck() after Shutdown should fail")
	}
}

func TestServiceManager_GetterPanicsBeforeInitialize(t *testing.T) {
	sm := NewDefaultServiceManager(newTestEnv().deps)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	sm.Role()
}

func TestServiceManagerConfig_Validate(t *testing.T) {
	cfg := DefaultServiceManagerConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	cfg.UserCacheTTL = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative TTL should be rejected")
	}
}
