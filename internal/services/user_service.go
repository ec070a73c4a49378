package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/elogbook-service/internal/cache"
	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/repositories"
)

type userService struct {
	repo     repositories.Repository
	cache    *cache.CacheManager
	cacheTTL time.Duration
	logger   *slog.Logger
}

func NewUserService(repo repositories.Repository, cacheManager *cache.CacheManager, cacheTTL time.Duration, logger *slog.Logger) UserService {
	if cacheTTL <= 0 {
		cacheTTL = cache.UserCacheConfig.TTL
	}
	return &userService{
		repo:     repo,
		cache:    cacheManager,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (s *userService) ListUsers(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error) {
	if filters.Limit <= 0 {
		filters.Limit = DefaultUserPageSize
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	role := ""
	if filters.Role != nil {
		role = string(*filters.Role)
	}
	key := fmt.Sprintf("list:%s:%s:%d:%d", filters.Query, role, filters.Limit, filters.Offset)

	return cache.CacheOrExecute(ctx, s.cache.User, key, s.cacheTTL, func() (*UserListResponse, error) {
		users, total, err := s.repo.User().List(ctx, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}

		summaries := make([]*models.UserSummary, len(users))
		for i, u := range users {
			summaries[i] = models.NewUserSummary(u)
		}

		requestLogger(ctx, s.logger).Debug("Users listed from database", "count", len(summaries), "total", total)
		return &UserListResponse{Users: summaries, Total: total}, nil
	})
}

// GetByID is cached briefly in the fast cache; role changes drop the entry
func (s *userService) GetByID(ctx context.Context, id uint) (*models.UserSummary, error) {
	return cache.CacheOrExecute(ctx, s.cache.Fast, cache.UserDetailKey(id), cache.FastCacheConfig.TTL, func() (*models.UserSummary, error) {
		user, err := s.repo.User().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		return models.NewUserSummary(user), nil
	})
}
