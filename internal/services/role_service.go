package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/SAP-F-2025/elogbook-service/internal/cache"
	"github.com/SAP-F-2025/elogbook-service/internal/events"
	"github.com/SAP-F-2025/elogbook-service/internal/metrics"
	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/repositories"
	"github.com/SAP-F-2025/elogbook-service/internal/validator"
)

type roleService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewRoleService(repo repositories.Repository, cacheManager *cache.CacheManager, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) RoleService {
	return &roleService{
		repo:      repo,
		cache:     cacheManager,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// transitionOutcome is what the transaction hands back for logging and events
type transitionOutcome struct {
	fromRole       models.UserRole
	toRole         models.UserRole
	profileCreated bool
}

func (s *roleService) UpdateUserRole(ctx context.Context, actor models.Actor, req *UpdateUserRoleRequest) (*models.MessageResponse, error) {
	log := requestLogger(ctx, s.logger)
	log.Info("Updating user role", "actor_id", actor.ID, "target_id", req.ID, "requested_role", req.Role)

	outcome, err := s.updateUserRole(ctx, actor, req)
	metrics.RoleTransitionsTotal.WithLabelValues(transitionResult(err)).Inc()
	if err != nil {
		log.Warn("Role update rejected", "actor_id", actor.ID, "target_id", req.ID, "error", err)
		return nil, err
	}

	cache.InvalidateUserCache(ctx, s.cache, req.ID)

	event := events.NewEvent(events.EventUserRoleChanged, events.RoleChangedData{
		UserID:         req.ID,
		ActorID:        actor.ID,
		FromRole:       outcome.fromRole,
		ToRole:         outcome.toRole,
		ProfileCreated: outcome.profileCreated,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Error("Failed to publish role change event", "target_id", req.ID, "error", err)
	}

	log.Info("User role updated",
		"actor_id", actor.ID,
		"target_id", req.ID,
		"from_role", outcome.fromRole,
		"to_role", outcome.toRole,
		"profile_created", outcome.profileCreated)

	return &models.MessageResponse{Message: MsgRoleUpdated}, nil
}

// updateUserRole runs the guards in order; the first failing guard wins.
func (s *roleService) updateUserRole(ctx context.Context, actor models.Actor, req *UpdateUserRoleRequest) (*transitionOutcome, error) {
	requested := models.UserRole(req.Role)

	// Granting admin needs master, checked before anything else so the
	// response does not reveal whether the target exists.
	if requested == models.RoleAdmin && !actor.HasRole(models.RoleMaster) {
		return nil, ErrRoleEscalation
	}

	if errs := s.validator.GetBusinessValidator().ValidateRoleUpdate(req); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	var outcome *transitionOutcome
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		user, err := tx.User().GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to load user: %w", err)
		}

		if user.ID == actor.ID {
			return ErrSelfRoleChange
		}
		if user.Roles == models.RoleAdmin {
			return ErrTargetIsAdmin
		}
		if !requested.IsAssignable() {
			return ErrInvalidRole
		}

		previous := user.Roles
		if err := tx.User().UpdateRole(ctx, user.ID, requested); err != nil {
			return fmt.Errorf("failed to update role: %w", err)
		}

		created, err := s.provisionProfile(ctx, tx, user, previous, requested)
		if err != nil {
			return err
		}

		if err := s.recordTransition(ctx, tx, actor, user.ID, previous, requested, created); err != nil {
			return err
		}

		outcome = &transitionOutcome{fromRole: previous, toRole: requested, profileCreated: created}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return outcome, nil
}

// profileRepository maps a role to the store of its profile; nil when the role has none.
func profileRepository(repo repositories.Repository, role models.UserRole) repositories.ProfileRepository {
	if !role.HasProfile() {
		return nil
	}
	if role == models.RoleStudent {
		return repo.StudentProfile()
	}
	return repo.LecturerProfile()
}

// provisionProfile gets or creates the profile of the new role. Names are
// carried over from the profile of the previous role when there is one.
func (s *roleService) provisionProfile(ctx context.Context, tx repositories.Repository, user *models.User, previous, next models.UserRole) (bool, error) {
	target := profileRepository(tx, next)
	if target == nil {
		return false, nil
	}

	var prior *models.Profile
	if source := profileRepository(tx, previous); source != nil {
		p, err := source.GetByUserID(ctx, user.ID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return false, fmt.Errorf("failed to load %s profile: %w", previous, err)
		}
		prior = p
	}

	defaults := &models.Profile{
		UserID:    user.ID,
		FirstName: user.Username,
	}
	if prior != nil {
		if prior.FirstName != "" {
			defaults.FirstName = prior.FirstName
		}
		if prior.LastName != nil && *prior.LastName != "" {
			lastName := *prior.LastName
			defaults.LastName = &lastName
		}
	}

	_, created, err := target.FirstOrCreate(ctx, defaults)
	if err != nil {
		return false, fmt.Errorf("failed to provision %s profile: %w", next, err)
	}
	return created, nil
}

func (s *roleService) recordTransition(ctx context.Context, tx repositories.Repository, actor models.Actor, userID uint, from, to models.UserRole, profileCreated bool) error {
	details, err := json.Marshal(map[string]interface{}{
		"actor_roles":     actor.Roles,
		"profile_created": profileCreated,
	})
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}

	entry := &models.RoleChangeLog{
		UserID:   userID,
		ActorID:  actor.ID,
		FromRole: from,
		ToRole:   to,
		Details:  datatypes.JSON(details),
	}
	if err := tx.RoleChangeLog().Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to record role change: %w", err)
	}
	return nil
}

func (s *roleService) GetRoleHistory(ctx context.Context, userID uint) ([]*models.RoleChangeLog, error) {
	if _, err := s.repo.User().GetByID(ctx, userID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	history, err := s.repo.RoleChangeLog().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list role history: %w", err)
	}
	return history, nil
}

// transitionResult is the metrics label for a finished transition
func transitionResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrValidationFailed):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
