package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"iptv-manager/internal/config"
	infraCache "iptv-manager/internal/infrastructure/cache"
	"iptv-manager/internal/infrastructure/database"
	"iptv-manager/internal/infrastructure/storage"
	"iptv-manager/pkg/cache"
	"iptv-manager/pkg/jwt"

	catalogHandler "iptv-manager/internal/domains/catalog/handler"
	catalogRepo "iptv-manager/internal/domains/catalog/repository"
	catalogService "iptv-manager/internal/domains/catalog/service"
	clientRepo "iptv-manager/internal/domains/client/repository"
	clientService "iptv-manager/internal/domains/client/service"
	importHandler "iptv-manager/internal/domains/clientimport/handler"
	importJob "iptv-manager/internal/domains/clientimport/job"
	"iptv-manager/internal/domains/clientimport/pipeline"
	"iptv-manager/internal/domains/clientimport/progress"
	importRepo "iptv-manager/internal/domains/clientimport/repository"
	importService "iptv-manager/internal/domains/clientimport/service"
)

// Container holds every long-lived dependency of the API and the worker.
// Construction order: config, infrastructure, repositories, services, handlers.
type Container struct {
	// ========================================
	// INFRASTRUCTURE
	// ========================================
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	Storage    *storage.MinIOStorage // nil when archiving is disabled or unreachable
	JWTManager *jwt.Manager

	// ========================================
	// REPOSITORIES
	// ========================================
	CatalogRepo   catalogRepo.RepositoryInterface
	ClientRepo    clientRepo.RepositoryInterface
	ImportJobRepo importRepo.JobRepository

	// ========================================
	// SERVICES
	// ========================================
	CatalogService catalogService.CatalogService
	ClientService  clientService.ClientService
	ImportService  importService.ImportService

	// ========================================
	// HANDLERS
	// ========================================
	CatalogHandler *catalogHandler.CatalogHandler
	ImportHandler  *importHandler.ImportHandler

	// Worker
	ExpireStaleImportsHandler *importJob.ExpireStaleJobsHandler
}

// NewContainer builds the dependency graph. A failing database is fatal;
// a failing MinIO only disables archiving.
func NewContainer() (*Container, error) {
	log.Info().Msg("Initializing DI container")

	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("Config loaded")

	if err := c.initDatabase(); err != nil {
		return nil, err
	}

	if err := c.initCache(); err != nil {
		return nil, err
	}

	c.initStorage()
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret)

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("DI container initialized")
	return c, nil
}

func (c *Container) initDatabase() error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Info().Msg("Database connected")
	return nil
}

// initCache connects Redis. The wizard keeps its progress there, so an
// unreachable Redis is fatal.
func (c *Container) initCache() error {
	redisCache := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)

	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
	}

	c.Cache = redisCache
	log.Info().Str("host", c.Config.Redis.Host).Msg("Redis connected")
	return nil
}

func (c *Container) initStorage() {
	if !c.Config.MinIO.Enabled {
		log.Info().Msg("MinIO archive disabled")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := storage.NewMinIOStorage(ctx, c.Config.MinIO)
	if err != nil {
		log.Warn().Err(err).Msg("MinIO unavailable, uploads will not be archived")
		return
	}

	c.Storage = s
	log.Info().Str("bucket", c.Config.MinIO.Bucket).Msg("MinIO connected")
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.CatalogRepo = catalogRepo.NewPostgresRepository(pool)
	c.ClientRepo = clientRepo.NewPostgresRepository()
	c.ImportJobRepo = importRepo.NewImportJobRepository(pool)
}

func (c *Container) initServices() {
	c.CatalogService = catalogService.NewCatalogService(c.CatalogRepo)
	c.ClientService = clientService.NewClientService(c.DB.Pool, c.ClientRepo)

	// A nil *MinIOStorage must not reach the service as a non-nil Archiver.
	var archive importService.Archiver
	if c.Storage != nil {
		archive = c.Storage
	}

	importCfg := c.Config.Import
	c.ImportService = importService.NewImportService(
		c.CatalogService,
		progress.NewStore(c.Cache, importCfg.SessionTTL),
		c.ClientService,
		c.ImportJobRepo,
		archive,
		importService.Options{
			Limits: pipeline.Limits{
				MaxRows:      importCfg.MaxRows,
				MaxFileBytes: importCfg.MaxFileBytes,
			},
			ForeignApplication: importCfg.ForeignApplication,
			StaleJobAfter:      importCfg.StaleJobAfter,
		},
	)
}

func (c *Container) initHandlers() {
	c.CatalogHandler = catalogHandler.NewCatalogHandler(c.CatalogService)
	c.ImportHandler = importHandler.NewImportHandler(c.ImportService)
	c.ExpireStaleImportsHandler = importJob.NewExpireStaleJobsHandler(c.ImportService)
}

// RedisClientOpt is the asynq connection for the worker and scheduler.
func (c *Container) RedisClientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
}

// Cleanup releases connections; call it on shutdown.
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.DB != nil {
		c.DB.Close()
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}
}
