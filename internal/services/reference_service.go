package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/elogbook-service/internal/cache"
	"github.com/SAP-F-2025/elogbook-service/internal/events"
	"github.com/SAP-F-2025/elogbook-service/internal/metrics"
	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/repositories"
	"github.com/SAP-F-2025/elogbook-service/internal/validator"
)

type referenceService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	cacheTTL  time.Duration
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewReferenceService(repo repositories.Repository, cacheManager *cache.CacheManager, cacheTTL time.Duration, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) ReferenceService {
	if cacheTTL <= 0 {
		cacheTTL = cache.ReferenceCacheConfig.TTL
	}
	return &referenceService{
		repo:      repo,
		cache:     cacheManager,
		cacheTTL:  cacheTTL,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// referenceBinding ties a reference kind to its store and model
type referenceBinding[T any] struct {
	kind  models.ReferenceKind
	label string
	store repositories.ReferenceRepository[T]
	build func(name string, station uint) *T
	id    func(*T) uint
}

func (s *referenceService) Create(ctx context.Context, kind models.ReferenceKind, req *ReferenceRequest) (interface{}, error) {
	switch kind {
	case models.KindStation:
		return createReference(ctx, s, s.stations(), req)
	case models.KindDisease:
		return createReference(ctx, s, s.diseases(), req)
	case models.KindSkill:
		return createReference(ctx, s, s.skills(), req)
	case models.KindHospital:
		return createReference(ctx, s, s.hospitals(), req)
	case models.KindGuidance:
		return createReference(ctx, s, s.guidances(), req)
	default:
		return nil, fmt.Errorf("%w: unknown reference kind %q", ErrInvalidInput, kind)
	}
}

func (s *referenceService) Update(ctx context.Context, kind models.ReferenceKind, req *ReferenceRequest) (interface{}, error) {
	switch kind {
	case models.KindStation:
		return updateReference(ctx, s, s.stations(), req)
	case models.KindDisease:
		return updateReference(ctx, s, s.diseases(), req)
	case models.KindSkill:
		return updateReference(ctx, s, s.skills(), req)
	case models.KindHospital:
		return updateReference(ctx, s, s.hospitals(), req)
	case models.KindGuidance:
		return updateReference(ctx, s, s.guidances(), req)
	default:
		return nil, fmt.Errorf("%w: unknown reference kind %q", ErrInvalidInput, kind)
	}
}

func (s *referenceService) Delete(ctx context.Context, kind models.ReferenceKind, id uint) error {
	switch kind {
	case models.KindStation:
		return deleteReference(ctx, s, s.stations(), id)
	case models.KindDisease:
		return deleteReference(ctx, s, s.diseases(), id)
	case models.KindSkill:
		return deleteReference(ctx, s, s.skills(), id)
	case models.KindHospital:
		return deleteReference(ctx, s, s.hospitals(), id)
	case models.KindGuidance:
		return deleteReference(ctx, s, s.guidances(), id)
	default:
		return fmt.Errorf("%w: unknown reference kind %q", ErrInvalidInput, kind)
	}
}

// GetElogbookInfo returns every reference table, cached until the next mutation
func (s *referenceService) GetElogbookInfo(ctx context.Context) (*models.ElogbookInfo, error) {
	return cache.CacheOrExecute(ctx, s.cache.Reference, cache.ElogbookInfoKey, s.cacheTTL, func() (*models.ElogbookInfo, error) {
		var (
			info models.ElogbookInfo
			err  error
		)
		if info.Diseases, err = s.repo.Disease().List(ctx); err != nil {
			return nil, fmt.Errorf("failed to list diseases: %w", err)
		}
		if info.Skills, err = s.repo.Skill().List(ctx); err != nil {
			return nil, fmt.Errorf("failed to list skills: %w", err)
		}
		if info.Stations, err = s.repo.Station().List(ctx); err != nil {
			return nil, fmt.Errorf("failed to list stations: %w", err)
		}
		if info.Hospitals, err = s.repo.Hospital().List(ctx); err != nil {
			return nil, fmt.Errorf("failed to list hospitals: %w", err)
		}
		if info.Guidances, err = s.repo.Guidance().List(ctx); err != nil {
			return nil, fmt.Errorf("failed to list guidances: %w", err)
		}
		return &info, nil
	})
}

// ===== BINDINGS =====

func (s *referenceService) stations() referenceBinding[models.Station] {
	return referenceBinding[models.Station]{
		kind:  models.KindStation,
		label: "Station",
		store: s.repo.Station(),
		build: func(name string, _ uint) *models.Station { return &models.Station{Name: name} },
		id:    func(m *models.Station) uint { return m.ID },
	}
}

func (s *referenceService) diseases() referenceBinding[models.Disease] {
	return referenceBinding[models.Disease]{
		kind:  models.KindDisease,
		label: "Disease",
		store: s.repo.Disease(),
		build: func(name string, station uint) *models.Disease { return &models.Disease{Name: name, Station: station} },
		id:    func(m *models.Disease) uint { return m.ID },
	}
}

func (s *referenceService) skills() referenceBinding[models.Skill] {
	return referenceBinding[models.Skill]{
		kind:  models.KindSkill,
		label: "Skill",
		store: s.repo.Skill(),
		build: func(name string, station uint) *models.Skill { return &models.Skill{Name: name, Station: station} },
		id:    func(m *models.Skill) uint { return m.ID },
	}
}

func (s *referenceService) hospitals() referenceBinding[models.Hospital] {
	return referenceBinding[models.Hospital]{
		kind:  models.KindHospital,
		label: "Hospital",
		store: s.repo.Hospital(),
		build: func(name string, _ uint) *models.Hospital { return &models.Hospital{Name: name} },
		id:    func(m *models.Hospital) uint { return m.ID },
	}
}

func (s *referenceService) guidances() referenceBinding[models.Guidance] {
	return referenceBinding[models.Guidance]{
		kind:  models.KindGuidance,
		label: "Guidance",
		store: s.repo.Guidance(),
		build: func(name string, _ uint) *models.Guidance { return &models.Guidance{Name: name} },
		id:    func(m *models.Guidance) uint { return m.ID },
	}
}

// ===== OPERATIONS =====

func createReference[T any](ctx context.Context, s *referenceService, b referenceBinding[T], req *ReferenceRequest) (*T, error) {
	requestLogger(ctx, s.logger).Info("Creating reference record", "kind", b.kind, "name", req.Name)

	if errs := s.validator.GetBusinessValidator().ValidateReference(b.kind, req, false); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	name := strings.TrimSpace(req.Name)
	station, err := s.resolveStation(ctx, b.kind, req.Station)
	if err != nil {
		return nil, err
	}

	if err := checkUniqueName(ctx, b, name, req.Station, 0); err != nil {
		return nil, err
	}

	item := b.build(name, station)
	if err := b.store.Create(ctx, item); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, Conflictf("%s already exists", b.label)
		}
		return nil, fmt.Errorf("failed to create %s: %w", b.kind, err)
	}

	s.afterMutation(ctx, b.kind, b.id(item), events.ReferenceCreated)
	return item, nil
}

func updateReference[T any](ctx context.Context, s *referenceService, b referenceBinding[T], req *ReferenceRequest) (*T, error) {
	requestLogger(ctx, s.logger).Info("Updating reference record", "kind", b.kind, "id", req.ID)

	if errs := s.validator.GetBusinessValidator().ValidateReference(b.kind, req, true); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	if _, err := b.store.GetByID(ctx, req.ID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NotFoundf("%s does not exist", b.label)
		}
		return nil, fmt.Errorf("failed to get %s: %w", b.kind, err)
	}

	name := strings.TrimSpace(req.Name)
	station, err := s.resolveStation(ctx, b.kind, req.Station)
	if err != nil {
		return nil, err
	}

	if err := checkUniqueName(ctx, b, name, req.Station, req.ID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"name": name}
	if b.kind.Stationed() {
		updates["station_id"] = station
	}
	if err := b.store.Update(ctx, req.ID, updates); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NotFoundf("%s does not exist", b.label)
		}
		if repositories.IsDuplicateError(err) {
			return nil, Conflictf("%s already exists", b.label)
		}
		return nil, fmt.Errorf("failed to update %s: %w", b.kind, err)
	}

	updated, err := b.store.GetByID(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload %s: %w", b.kind, err)
	}

	s.afterMutation(ctx, b.kind, req.ID, events.ReferenceUpdated)
	return updated, nil
}

func deleteReference[T any](ctx context.Context, s *referenceService, b referenceBinding[T], id uint) error {
	requestLogger(ctx, s.logger).Info("Deleting reference record", "kind", b.kind, "id", id)

	if err := b.store.Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return NotFoundf("%s does not exist", b.label)
		}
		return fmt.Errorf("failed to delete %s: %w", b.kind, err)
	}

	s.afterMutation(ctx, b.kind, id, events.ReferenceDeleted)
	return nil
}

// checkUniqueName rejects a name already taken by another record of the kind.
// Station names may repeat; diseases and skills are unique per station.
func checkUniqueName[T any](ctx context.Context, b referenceBinding[T], name string, station *uint, excludeID uint) error {
	if b.kind == models.KindStation {
		return nil
	}
	exists, err := b.store.ExistsByName(ctx, name, station, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check %s name: %w", b.kind, err)
	}
	if exists {
		return Conflictf("%s already exists", b.label)
	}
	return nil
}

// resolveStation checks the station of diseases and skills; other kinds get 0
func (s *referenceService) resolveStation(ctx context.Context, kind models.ReferenceKind, station *uint) (uint, error) {
	if !kind.Stationed() || station == nil {
		return 0, nil
	}
	if _, err := s.repo.Station().GetByID(ctx, *station); err != nil {
		if repositories.IsNotFoundError(err) {
			return 0, ErrStationNotFound
		}
		return 0, fmt.Errorf("failed to get station: %w", err)
	}
	return *station, nil
}

func (s *referenceService) afterMutation(ctx context.Context, kind models.ReferenceKind, id uint, op events.ReferenceOp) {
	metrics.ReferenceMutationsTotal.WithLabelValues(string(kind), string(op)).Inc()
	cache.InvalidateReferenceCache(ctx, s.cache)

	event := events.NewEvent(events.EventReferenceChanged, events.ReferenceChangedData{Kind: kind, ID: id, Op: op})
	if err := s.publisher.Publish(ctx, event); err != nil {
		requestLogger(ctx, s.logger).Error("Failed to publish reference event", "kind", kind, "id", id, "error", err)
	}
}
