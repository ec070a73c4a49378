package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/elogbook-service/internal/cache"
	"github.com/SAP-F-2025/elogbook-service/internal/events"
	"github.com/SAP-F-2025/elogbook-service/internal/repositories"
	"github.com/SAP-F-2025/elogbook-service/internal/utils"
	"github.com/SAP-F-2025/elogbook-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// Cache lifetime of user listings and reference data
	UserCacheTTL      time.Duration
	ReferenceCacheTTL time.Duration
}

// DefaultServiceManagerConfig mirrors the cache helper defaults
func DefaultServiceManagerConfig() ServiceManagerConfig {
	return ServiceManagerConfig{
		UserCacheTTL:      cache.UserCacheConfig.TTL,
		ReferenceCacheTTL: cache.ReferenceCacheConfig.TTL,
	}
}

// ServiceDeps bundles the collaborators shared by every service
type ServiceDeps struct {
	Repo      repositories.Repository
	Cache     *cache.CacheManager
	Publisher events.EventPublisher
	Logger    *slog.Logger
	Validator *validator.Validator
}

// requestLogger returns the request-scoped logger carried by ctx, so service
// log lines share the request_id of the HTTP request. fallback is used outside requests.
func requestLogger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	return utils.FromContext(ctx, utils.NewSlogLogger(fallback)).Slog()
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	deps   ServiceDeps
	config ServiceManagerConfig

	roleService      RoleService
	userService      UserService
	referenceService ReferenceService
	presenceService  PresenceService
	exportService    ExportService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(deps ServiceDeps, config ServiceManagerConfig) ServiceManager {
	if deps.Cache == nil {
		deps.Cache = cache.NewCacheManager(nil)
	}
	return &serviceManager{
		deps:   deps,
		config: config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(deps ServiceDeps) ServiceManager {
	return NewServiceManager(deps, DefaultServiceManagerConfig())
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := sm.config.Validate(); err != nil {
		return err
	}
	if sm.deps.Repo == nil || sm.deps.Publisher == nil || sm.deps.Logger == nil || sm.deps.Validator == nil {
		return fmt.Errorf("service manager: missing dependency")
	}

	sm.deps.Logger.Info("Initializing service manager")

	d := sm.deps
	sm.roleService = NewRoleService(d.Repo, d.Cache, d.Publisher, d.Logger, d.Validator)
	sm.userService = NewUserService(d.Repo, d.Cache, sm.config.UserCacheTTL, d.Logger)
	sm.referenceService = NewReferenceService(d.Repo, d.Cache, sm.config.ReferenceCacheTTL, d.Publisher, d.Logger, d.Validator)
	sm.presenceService = NewPresenceService(d.Repo, d.Publisher, d.Logger, d.Validator)
	sm.exportService = NewExportService(d.Repo, d.Logger)

	sm.initialized = true
	sm.deps.Logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Role() RoleService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.roleService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.userService
}

func (sm *serviceManager) Reference() ReferenceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.referenceService
}

func (sm *serviceManager) Presence() PresenceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.presenceService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.exportService
}

func (sm *serviceManager) mustBeInitialized() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.deps.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.deps.Logger.Info("Shutting down service manager")

	if err := sm.deps.Publisher.Close(); err != nil {
		sm.deps.Logger.Error("Failed to close event publisher", "error", err)
	}

	if repoManager, ok := sm.deps.Repo.(repositories.RepositoryManager); ok {
		if err := repoManager.Shutdown(ctx); err != nil {
			sm.deps.Logger.Error("Failed to shutdown repository manager", "error", err)
		}
	}

	sm.shutdown = true
	sm.deps.Logger.Info("Service manager shut down completed")

	return nil
}

// Validate validates the service manager configuration
func (config *ServiceManagerConfig) Validate() error {
	var errors []string

	if config.UserCacheTTL < 0 {
		errors = append(errors, "user cache TTL cannot be negative")
	}
	if config.ReferenceCacheTTL < 0 {
		errors = append(errors, "reference cache TTL cannot be negative")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}
	return nil
}
