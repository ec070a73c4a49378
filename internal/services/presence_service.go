package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/elogbook-service/internal/events"
	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/repositories"
	"github.com/SAP-F-2025/elogbook-service/internal/validator"
)

type presenceService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewPresenceService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) PresenceService {
	return &presenceService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

func (s *presenceService) AssignStudentStation(ctx context.Context, req *AssignStationRequest) (*models.StudentStation, error) {
	requestLogger(ctx, s.logger).Info("Assigning student to station", "student_id", req.StudentID, "station_id", req.StationID)

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	if err := s.checkStudentAndStation(ctx, s.repo, req.StudentID, req.StationID); err != nil {
		return nil, err
	}

	enrolment, _, err := s.repo.StudentStation().FirstOrCreate(ctx, &models.StudentStation{
		UserID:    req.StudentID,
		StationID: req.StationID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign station: %w", err)
	}
	return enrolment, nil
}

func (s *presenceService) ListPresences(ctx context.Context) ([]*models.Presence, error) {
	presences, err := s.repo.Presence().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list presences: %w", err)
	}
	return presences, nil
}

// AddOrUpdatePresence creates the presence row of an enrolled student or
// overwrites its counters when it already exists.
func (s *presenceService) AddOrUpdatePresence(ctx context.Context, req *PresenceRequest) (*models.MessageResponse, error) {
	requestLogger(ctx, s.logger).Info("Saving presence", "student_id", req.StudentID, "station_id", req.StationID)

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	counts := repositories.PresenceCounts{
		Present: req.Present,
		Sick:    req.Sick,
		Excused: req.Excused,
		Absent:  req.Absent,
	}

	var created bool
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := s.checkStudentAndStation(ctx, tx, req.StudentID, req.StationID); err != nil {
			return err
		}

		if _, err := tx.StudentStation().Get(ctx, req.StudentID, req.StationID); err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrEnrolmentNotFound
			}
			return fmt.Errorf("failed to get enrolment: %w", err)
		}

		presence, isNew, err := tx.Presence().FirstOrCreate(ctx, &models.Presence{
			StudentID: req.StudentID,
			StationID: req.StationID,
			Present:   counts.Present,
			Sick:      counts.Sick,
			Excused:   counts.Excused,
			Absent:    counts.Absent,
		})
		if err != nil {
			return fmt.Errorf("failed to save presence: %w", err)
		}
		created = isNew

		if !isNew {
			if err := tx.Presence().UpdateCounts(ctx, presence.ID, counts); err != nil {
				return fmt.Errorf("failed to update presence: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := events.NewEvent(events.EventPresenceUpdated, events.PresenceUpdatedData{
		StudentID: req.StudentID,
		StationID: req.StationID,
		Present:   counts.Present,
		Sick:      counts.Sick,
		Excused:   counts.Excused,
		Absent:    counts.Absent,
		Created:   created,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		requestLogger(ctx, s.logger).Error("Failed to publish presence event", "student_id", req.StudentID, "error", err)
	}

	return &models.MessageResponse{Message: MsgPresenceSaved}, nil
}

func (s *presenceService) DeletePresence(ctx context.Context, req *DeletePresenceRequest) (*models.MessageResponse, error) {
	requestLogger(ctx, s.logger).Info("Deleting presence", "student_id", req.StudentID, "station_id", req.StationID)

	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	if err := s.checkStudentAndStation(ctx, s.repo, req.StudentID, req.StationID); err != nil {
		return nil, err
	}

	if err := s.repo.Presence().Delete(ctx, req.StudentID, req.StationID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPresenceNotFound
		}
		return nil, fmt.Errorf("failed to delete presence: %w", err)
	}

	return &models.MessageResponse{Message: MsgPresenceDeleted}, nil
}

// checkStudentAndStation requires a user holding the student role and an existing station
func (s *presenceService) checkStudentAndStation(ctx context.Context, repo repositories.Repository, studentID, stationID uint) error {
	isStudent, err := repo.User().ExistsWithRole(ctx, studentID, models.RoleStudent)
	if err != nil {
		return fmt.Errorf("failed to check student: %w", err)
	}
	if !isStudent {
		return ErrNotAStudent
	}

	if _, err := repo.Station().GetByID(ctx, stationID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrStationNotFound
		}
		return fmt.Errorf("failed to get station: %w", err)
	}
	return nil
}
