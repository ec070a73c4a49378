package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/elogbook-service/internal/cache"
	"github.com/SAP-F-2025/elogbook-service/internal/models"
	"github.com/SAP-F-2025/elogbook-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	// Repository instances
	user            repositories.UserRepository
	studentProfile  repositories.ProfileRepository
	lecturerProfile repositories.ProfileRepository
	roleChangeLog   repositories.RoleChangeLogRepository
	station         repositories.ReferenceRepository[models.Station]
	disease         repositories.ReferenceRepository[models.Disease]
	skill           repositories.ReferenceRepository[models.Skill]
	hospital        repositories.ReferenceRepository[models.Hospital]
	guidance        repositories.ReferenceRepository[models.Guidance]
	studentStation  repositories.StudentStationRepository
	presence        repositories.PresenceRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository creates a new repository with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	return newPostgreSQLRepository(config.DB, config.RedisClient, cache.NewCacheManager(config.RedisClient))
}

func newPostgreSQLRepository(db *gorm.DB, redisClient *redis.Client, cacheManager *cache.CacheManager) *PostgreSQLRepository {
	return &PostgreSQLRepository{
		db:              db,
		redisClient:     redisClient,
		cacheManager:    cacheManager,
		user:            NewUserPostgreSQL(db),
		studentProfile:  NewStudentProfilePostgreSQL(db),
		lecturerProfile: NewLecturerProfilePostgreSQL(db),
		roleChangeLog:   NewRoleChangeLogPostgreSQL(db),
		station:         NewStationPostgreSQL(db),
		disease:         NewDiseasePostgreSQL(db),
		skill:           NewSkillPostgreSQL(db),
		hospital:        NewHospitalPostgreSQL(db),
		guidance:        NewGuidancePostgreSQL(db),
		studentStation:  NewStudentStationPostgreSQL(db),
		presence:        NewPresencePostgreSQL(db),
	}
}

func (r *PostgreSQLRepository) User() repositories.UserRepository {
	return r.user
}

func (r *PostgreSQLRepository) StudentProfile() repositories.ProfileRepository {
	return r.studentProfile
}

func (r *PostgreSQLRepository) LecturerProfile() repositories.ProfileRepository {
	return r.lecturerProfile
}

func (r *PostgreSQLRepository) RoleChangeLog() repositories.RoleChangeLogRepository {
	return r.roleChangeLog
}

func (r *PostgreSQLRepository) Station() repositories.ReferenceRepository[models.Station] {
	return r.station
}

func (r *PostgreSQLRepository) Disease() repositories.ReferenceRepository[models.Disease] {
	return r.disease
}

func (r *PostgreSQLRepository) Skill() repositories.ReferenceRepository[models.Skill] {
	return r.skill
}

func (r *PostgreSQLRepository) Hospital() repositories.ReferenceRepository[models.Hospital] {
	return r.hospital
}

func (r *PostgreSQLRepository) Guidance() repositories.ReferenceRepository[models.Guidance] {
	return r.guidance
}

func (r *PostgreSQLRepository) StudentStation() repositories.StudentStationRepository {
	return r.studentStation
}

func (r *PostgreSQLRepository) Presence() repositories.PresenceRepository {
	return r.presence
}

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newPostgreSQLRepository(tx, r.redisClient, r.cacheManager))
	})
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize initializes all repositories and connections
func (rm *RepositoryManager) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if rm.config.RedisClient != nil {
		if _, err := rm.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("Redis connection failed: %w", err)
		}
	}

	rm.repo = NewPostgreSQLRepository(rm.config)

	return nil
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of all repository connections
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repository connections
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}

	return rm.repo.Close()
}
