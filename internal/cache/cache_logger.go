package cache

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	ElogbookInfoKey = "info"
	UserListPattern = "list:*"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateReferenceCache drops the cached e-logbook reference data
func InvalidateReferenceCache(ctx context.Context, cm *CacheManager) {
	SafeDelete(ctx, cm.Reference, ElogbookInfoKey)
}

// UserDetailKey is the fast-cache key of one user
func UserDetailKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// InvalidateUserCache drops every cached user listing and the detail entries of userIDs
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userIDs ...uint) {
	SafeInvalidatePattern(ctx, cm.User, UserListPattern)
	if len(userIDs) == 0 {
		return
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = UserDetailKey(id)
	}
	SafeDelete(ctx, cm.Fast, keys...)
}
