package services

import (
	"cmp"
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/SAP-F-2025/elogbook-service/internal/cache"
	"github.com/SAP-F-2025/elogbook-service/internal/events"
	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/repositories"
	"github.com/SAP-F-2025/elogbook-service/internal/validator"
)

// memState is the data behind stubRepository; it is cloned to emulate rollbacks.
type memState struct {
	nextID    uint
	users     map[uint]*models.User
	students  map[uint]*models.Profile // keyed by user id
	lecturers map[uint]*models.Profile
	logs      []*models.RoleChangeLog
	stations  map[uint]*models.Station
	diseases  map[uint]*models.Disease
	skills    map[uint]*models.Skill
	hospitals map[uint]*models.Hospital
	guidances map[uint]*models.Guidance
	enrolment map[[2]uint]*models.StudentStation
	presences map[[2]uint]*models.Presence
}

func newMemState() *memState {
	return &memState{
		nextID:    100,
		users:     map[uint]*models.User{},
		students:  map[uint]*models.Profile{},
		lecturers: map[uint]*models.Profile{},
		stations:  map[uint]*models.Station{},
		diseases:  map[uint]*models.Disease{},
		skills:    map[uint]*models.Skill{},
		hospitals: map[uint]*models.Hospital{},
		guidances: map[uint]*models.Guidance{},
		enrolment: map[[2]uint]*models.StudentStation{},
		presences: map[[2]uint]*models.Presence{},
	}
}

// clone copies maps and records so a failed transaction can be discarded
func (s *memState) clone() *memState {
	c := *s
	c.users = cloneValues(s.users)
	c.students = cloneValues(s.students)
	c.lecturers = cloneValues(s.lecturers)
	c.logs = append([]*models.RoleChangeLog(nil), s.logs...)
	c.stations = cloneValues(s.stations)
	c.diseases = cloneValues(s.diseases)
	c.skills = cloneValues(s.skills)
	c.hospitals = cloneValues(s.hospitals)
	c.guidances = cloneValues(s.guidances)
	c.enrolment = cloneValues(s.enrolment)
	c.presences = cloneValues(s.presences)
	return &c
}

func cloneValues[K comparable, V any](m map[K]*V) map[K]*V {
	out := make(map[K]*V, len(m))
	for k, v := range m {
		cp := *v
		out[k] = &cp
	}
	return out
}

func (s *memState) id() uint {
	s.nextID++
	return s.nextID
}

// stubRepository is an in-memory repositories.Repository
type stubRepository struct {
	state *memState

	// failures injected by tests
	failProfileCreate error
	failAudit         error
	failReferenceSave error
	inTx              bool
	txCount           int
}

func newStubRepository() *stubRepository {
	return &stubRepository{state: newMemState()}
}

func (r *stubRepository) addUser(id uint, username string, role models.UserRole) *models.User {
	u := &models.User{ID: id, Username: username, Email: username + "@example.com", Roles: role}
	r.state.users[id] = u
	return u
}

func (r *stubRepository) addStation(id uint, name string) {
	r.state.stations[id] = &models.Station{ID: id, Name: name}
}

func (r *stubRepository) User() repositories.UserRepository { return stubUsers{r} }
func (r *stubRepository) StudentProfile() repositories.ProfileRepository {
	return stubProfiles{r: r, table: func(s *memState) map[uint]*models.Profile { return s.students }}
}
func (r *stubRepository) LecturerProfile() repositories.ProfileRepository {
	return stubProfiles{r: r, table: func(s *memState) map[uint]*models.Profile { return s.lecturers }}
}
func (r *stubRepository) RoleChangeLog() repositories.RoleChangeLogRepository { return stubLogs{r} }

func (r *stubRepository) Station() repositories.ReferenceRepository[models.Station] {
	return &stubReference[models.Station]{r: r, table: func(s *memState) map[uint]*models.Station { return s.stations },
		name: func(m *models.Station) string { return m.Name }, id: func(m *models.Station) *uint { return &m.ID }}
}
func (r *stubRepository) Disease() repositories.ReferenceRepository[models.Disease] {
	return &stubReference[models.Disease]{r: r, table: func(s *memState) map[uint]*models.Disease { return s.diseases },
		name: func(m *models.Disease) string { return m.Name }, id: func(m *models.Disease) *uint { return &m.ID },
		station: func(m *models.Disease) *uint { return &m.Station }}
}
func (r *stubRepository) Skill() repositories.ReferenceRepository[models.Skill] {
	return &stubReference[models.Skill]{r: r, table: func(s *memState) map[uint]*models.Skill { return s.skills },
		name: func(m *models.Skill) string { return m.Name }, id: func(m *models.Skill) *uint { return &m.ID },
		station: func(m *models.Skill) *uint { return &m.Station }}
}
func (r *stubRepository) Hospital() repositories.ReferenceRepository[models.Hospital] {
	return &stubReference[models.Hospital]{r: r, table: func(s *memState) map[uint]*models.Hospital { return s.hospitals },
		name: func(m *models.Hospital) string { return m.Name }, id: func(m *models.Hospital) *uint { return &m.ID }}
}
func (r *stubRepository) Guidance() repositories.ReferenceRepository[models.Guidance] {
	return &stubReference[models.Guidance]{r: r, table: func(s *memState) map[uint]*models.Guidance { return s.guidances },
		name: func(m *models.Guidance) string { return m.Name }, id: func(m *models.Guidance) *uint { return &m.ID }}
}

func (r *stubRepository) StudentStation() repositories.StudentStationRepository {
	return stubEnrolments{r}
}
func (r *stubRepository) Presence() repositories.PresenceRepository { return stubPresences{r} }

func (r *stubRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	r.txCount++
	snapshot := r.state.clone()
	r.inTx = true
	err := fn(r)
	r.inTx = false
	if err != nil {
		r.state = snapshot
	}
	return err
}

func (r *stubRepository) Ping(ctx context.Context) error { return nil }
func (r *stubRepository) Close() error                   { return nil }

// ===== users =====

type stubUsers struct{ r *stubRepository }

func (u stubUsers) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if user, ok := u.r.state.users[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, repositories.ErrNotFound
}

func (u stubUsers) GetByIDForUpdate(ctx context.Context, id uint) (*models.User, error) {
	if !u.r.inTx {
		return nil, errors.New("row lock outside transaction")
	}
	return u.GetByID(ctx, id)
}

func (u stubUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range u.r.state.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (u stubUsers) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var out []*models.User
	for _, id := range sortedKeys(u.r.state.users) {
		user := u.r.state.users[id]
		if filters.Role != nil && user.Roles != *filters.Role {
			continue
		}
		if filters.Query != "" && !strings.Contains(user.Username, filters.Query) {
			continue
		}
		cp := *user
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (u stubUsers) UpdateRole(ctx context.Context, id uint, role models.UserRole) error {
	user, ok := u.r.state.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Roles = role
	return nil
}

func (u stubUsers) ExistsWithRole(ctx context.Context, id uint, role models.UserRole) (bool, error) {
	user, ok := u.r.state.users[id]
	return ok && user.Roles == role, nil
}

// ===== profiles =====

type stubProfiles struct {
	r     *stubRepository
	table func(*memState) map[uint]*models.Profile
}

func (p stubProfiles) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	if profile, ok := p.table(p.r.state)[userID]; ok {
		cp := *profile
		return &cp, nil
	}
	return nil, repositories.ErrNotFound
}

func (p stubProfiles) FirstOrCreate(ctx context.Context, defaults *models.Profile) (*models.Profile, bool, error) {
	if p.r.failProfileCreate != nil {
		return nil, false, p.r.failProfileCreate
	}
	table := p.table(p.r.state)
	if existing, ok := table[defaults.UserID]; ok {
		cp := *existing
		return &cp, false, nil
	}
	created := *defaults
	created.ID = p.r.state.id()
	table[defaults.UserID] = &created
	cp := created
	return &cp, true, nil
}

// ===== audit =====

type stubLogs struct{ r *stubRepository }

func (l stubLogs) Create(ctx context.Context, entry *models.RoleChangeLog) error {
	if l.r.failAudit != nil {
		return l.r.failAudit
	}
	entry.ID = l.r.state.id()
	l.r.state.logs = append(l.r.state.logs, entry)
	return nil
}

func (l stubLogs) ListByUser(ctx context.Context, userID uint) ([]*models.RoleChangeLog, error) {
	var out []*models.RoleChangeLog
	for _, entry := range l.r.state.logs {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out, nil
}

// ===== reference data =====

type stubReference[T any] struct {
	r       *stubRepository
	table   func(*memState) map[uint]*T
	name    func(*T) string
	id      func(*T) *uint
	station func(*T) *uint
}

func (s *stubReference[T]) Create(ctx context.Context, item *T) error {
	if s.r.failReferenceSave != nil {
		return s.r.failReferenceSave
	}
	id := s.r.state.id()
	*s.id(item) = id
	cp := *item
	s.table(s.r.state)[id] = &cp
	return nil
}

func (s *stubReference[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	if item, ok := s.table(s.r.state)[id]; ok {
		cp := *item
		return &cp, nil
	}
	return nil, repositories.ErrNotFound
}

func (s *stubReference[T]) List(ctx context.Context) ([]*T, error) {
	table := s.table(s.r.state)
	out := make([]*T, 0, len(table))
	for _, id := range sortedKeys(table) {
		cp := *table[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *stubReference[T]) ExistsByName(ctx context.Context, name string, stationID *uint, excludeID uint) (bool, error) {
	for id, item := range s.table(s.r.state) {
		if id == excludeID || s.name(item) != name {
			continue
		}
		if s.station != nil && stationID != nil && *s.station(item) != *stationID {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (s *stubReference[T]) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	item, ok := s.table(s.r.state)[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if s.r.failReferenceSave != nil {
		return s.r.failReferenceSave
	}
	// only name and station_id are ever updated
	if name, ok := updates["name"].(string); ok {
		switch v := any(item).(type) {
		case *models.Station:
			v.Name = name
		case *models.Disease:
			v.Name = name
		case *models.Skill:
			v.Name = name
		case *models.Hospital:
			v.Name = name
		case *models.Guidance:
			v.Name = name
		}
	}
	if station, ok := updates["station_id"].(uint); ok && s.station != nil {
		*s.station(item) = station
	}
	return nil
}

func (s *stubReference[T]) Delete(ctx context.Context, id uint) error {
	table := s.table(s.r.state)
	if _, ok := table[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(table, id)
	return nil
}

// ===== attendance =====

type stubEnrolments struct{ r *stubRepository }

func (e stubEnrolments) Get(ctx context.Context, studentID, stationID uint) (*models.StudentStation, error) {
	if row, ok := e.r.state.enrolment[[2]uint{studentID, stationID}]; ok {
		cp := *row
		return &cp, nil
	}
	return nil, repositories.ErrNotFound
}

func (e stubEnrolments) FirstOrCreate(ctx context.Context, enrolment *models.StudentStation) (*models.StudentStation, bool, error) {
	key := [2]uint{enrolment.UserID, enrolment.StationID}
	if row, ok := e.r.state.enrolment[key]; ok {
		cp := *row
		return &cp, false, nil
	}
	row := *enrolment
	row.ID = e.r.state.id()
	e.r.state.enrolment[key] = &row
	cp := row
	return &cp, true, nil
}

type stubPresences struct{ r *stubRepository }

func (p stubPresences) List(ctx context.Context) ([]*models.Presence, error) {
	var out []*models.Presence
	for _, row := range p.r.state.presences {
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (p stubPresences) FirstOrCreate(ctx context.Context, defaults *models.Presence) (*models.Presence, bool, error) {
	key := [2]uint{defaults.StudentID, defaults.StationID}
	if row, ok := p.r.state.presences[key]; ok {
		cp := *row
		return &cp, false, nil
	}
	row := *defaults
	row.ID = p.r.state.id()
	p.r.state.presences[key] = &row
	cp := row
	return &cp, true, nil
}

func (p stubPresences) UpdateCounts(ctx context.Context, id uint, counts repositories.PresenceCounts) error {
	for _, row := range p.r.state.presences {
		if row.ID == id {
			row.Present, row.Sick, row.Excused, row.Absent = counts.Present, counts.Sick, counts.Excused, counts.Absent
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (p stubPresences) Delete(ctx context.Context, studentID, stationID uint) error {
	key := [2]uint{studentID, stationID}
	if _, ok := p.r.state.presences[key]; !ok {
		return repositories.ErrNotFound
	}
	delete(p.r.state.presences, key)
	return nil
}

func (p stubPresences) Report(ctx context.Context) ([]*models.PresenceReportRow, error) {
	var out []*models.PresenceReportRow
	for _, key := range sortedPairKeys(p.r.state.presences) {
		row := p.r.state.presences[key]
		out = append(out, &models.PresenceReportRow{
			StudentID:   row.StudentID,
			Username:    p.r.state.users[row.StudentID].Username,
			StationID:   row.StationID,
			StationName: p.r.state.stations[row.StationID].Name,
			Present:     row.Present,
			Sick:        row.Sick,
			Excused:     row.Excused,
			Absent:      row.Absent,
		})
	}
	return out, nil
}

// ===== helpers =====

func sortedKeys[V any](m map[uint]V) []uint {
	return slices.Sorted(maps.Keys(m))
}

func sortedPairKeys[V any](m map[[2]uint]V) [][2]uint {
	keys := slices.Collect(maps.Keys(m))
	slices.SortFunc(keys, func(a, b [2]uint) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})
	return keys
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	repo      *stubRepository
	publisher *events.MockEventPublisher
	deps      ServiceDeps
}

func newTestEnv() *testEnv {
	repo := newStubRepository()
	logger := testLogger()
	publisher := events.NewMockEventPublisher(logger)
	return &testEnv{
		repo:      repo,
		publisher: publisher,
		deps: ServiceDeps{
			Repo:      repo,
			Cache:     cache.NewCacheManager(nil),
			Publisher: publisher,
			Logger:    logger,
			Validator: validator.New(),
		},
	}
}
