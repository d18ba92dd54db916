package container

import (
	"vidtube/internal/config"
	"vidtube/internal/repository"
	"vidtube/internal/service"
	"vidtube/internal/service/auth"
	"vidtube/pkg/database"
	"vidtube/pkg/logger"
	"vidtube/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *logger.Logger
	RedisClient  *redis.Client
	Repositories *repository.Repositories
	Services     *service.Services
}

// New creates a new dependency injection container. The database-backed
// repositories and services are attached separately via WireServices once a
// connection pool exists.
func New(cfg *config.Config, logger *logger.Logger) (*Container, error) {
	// Initialize Redis client if Redis URL is configured
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, logger.Logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			logger.Info("Redis client initialized successfully")
		}
	} else {
		logger.Info("Redis URL not configured, proceeding without caching")
	}

	authService := auth.NewService(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
		logger,
	)

	return &Container{
		Config:      cfg,
		Logger:      logger,
		RedisClient: redisClient,
		Services:    &service.Services{Auth: authService},
	}, nil
}

// WireServices builds the repositories and application services on top of the
// database pool and object storage
func (c *Container) WireServices(db *database.PostgresDB, storage service.ObjectStorage) {
	repos := &repository.Repositories{
		User:         repository.NewUserRepository(db),
		Video:        repository.NewVideoRepository(db),
		Playlist:     repository.NewPlaylistRepository(db),
		Comment:      repository.NewCommentRepository(db),
		Like:         repository.NewLikeRepository(db),
		Subscription: repository.NewSubscriptionRepository(db),
		Tweet:        repository.NewTweetRepository(db),
	}
	c.Repositories = repos

	cacheService := c.GetCacheService()

	c.Services.User = service.NewUserService(repos.User, c.Services.Auth, storage, c.Logger)
	c.Services.Video = service.NewVideoService(repos.Video, repos.User, storage, c.Logger)
	c.Services.Playlist = service.NewPlaylistService(repos.Playlist, repos.Video, repos.User, c.Logger)
	c.Services.Comment = service.NewCommentService(repos.Comment, repos.Video, c.Logger)
	c.Services.Like = service.NewLikeService(repos.Like, repos.Video, repos.Comment, repos.Tweet, c.Logger)
	c.Services.Subscription = service.NewSubscriptionService(repos.Subscription, repos.User, cacheService, c.Logger)
	c.Services.Tweet = service.NewTweetService(repos.Tweet, repos.User, c.Logger)
}

// GetAuthService returns the auth service
func (c *Container) GetAuthService() service.AuthService {
	return c.Services.Auth
}

// GetServices returns the application services
func (c *Container) GetServices() *service.Services {
	return c.Services
}

// GetRepositories returns the repositories (nil until WireServices is called)
func (c *Container) GetRepositories() *repository.Repositories {
	return c.Repositories
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetRedisClient returns the Redis client (may be nil if not configured)
func (c *Container) GetRedisClient() *redis.Client {
	return c.RedisClient
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}

// GetCacheService returns a cache service instance (returns nil if Redis is not available)
func (c *Container) GetCacheService() *service.CacheService {
	if c.RedisClient == nil {
		return nil
	}
	return service.NewCacheService(c.RedisClient, c.Logger.Logger)
}
