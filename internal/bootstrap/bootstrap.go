// Package bootstrap wires configuration, infrastructure and the application
// layers together for the server.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/avcode/avcode-backend/internal/app/controllers"
	appMigrations "github.com/avcode/avcode-backend/internal/app/migrations"
	appRepos "github.com/avcode/avcode-backend/internal/app/repositories"
	appRoutes "github.com/avcode/avcode-backend/internal/app/routes"
	appServices "github.com/avcode/avcode-backend/internal/app/services"
	"github.com/avcode/avcode-backend/internal/config"
	"github.com/avcode/avcode-backend/internal/db"
	appMiddleware "github.com/avcode/avcode-backend/internal/middleware"
	pkgAuth "github.com/avcode/avcode-backend/internal/pkg/auth"
	"github.com/avcode/avcode-backend/internal/pkg/logger"
	"github.com/avcode/avcode-backend/internal/pkg/objectstore"
	"github.com/avcode/avcode-backend/internal/seed"
)

// Dependencies holds the wired application components.
type Dependencies struct {
	Services       *appServices.Services
	Controllers    *appControllers.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	ObjectStore    objectstore.Store
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// provisions seed data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(ctx, cfg, dbPool, lgr); err != nil {
		lgr.Warn().Err(err).Msg("Seed data provisioning finished with errors")
	}

	return dbPool, nil
}

// BuildDependencies constructs repositories, services, controllers and
// middleware over the shared pool and external collaborators.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := objectstore.NewGCSStore(ctx, objectstore.GCSConfig{
		Bucket:          cfg.Storage.Bucket,
		CredentialsFile: cfg.Storage.CredentialsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	lgr.Info().Str("bucket", cfg.Storage.Bucket).Msg("Object storage client initialized")

	jwtService := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenExpiration(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	verifier := pkgAuth.NewGoogleVerifier(cfg.Google.ClientID, cfg.Google.AllowedDomain)

	repos := appRepos.NewRepositories(dbPool)
	svc := appServices.NewServices(repos, jwtService, verifier, store, cfg.SignedURLTTL())

	return &Dependencies{
		Services:       svc,
		Controllers:    appControllers.NewControllers(svc),
		AuthMiddleware: appMiddleware.NewAuthMiddleware(jwtService),
		Repos:          repos,
		JWTService:     jwtService,
		ObjectStore:    store,
	}, nil
}

// SetupRouter builds the gin engine and registers all routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(lgr))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)
	lgr.Info().Msg("Routes registered")
	return router
}

// requestLogger logs each request with method, path, status and latency.
func requestLogger(lgr zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		lgr.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("clientIP", c.ClientIP()).
			Msg("Request handled")
	}
}
