package infrastructure

import (
	"time"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"medifind-server/intake-api/internal/config"
	"medifind-server/intake-api/internal/domain/analysis"
	"medifind-server/intake-api/internal/infrastructure/crontab"
	"medifind-server/intake-api/internal/infrastructure/database"
	"medifind-server/intake-api/internal/infrastructure/database/repository"
	"medifind-server/intake-api/internal/infrastructure/database/transaction"
	"medifind-server/intake-api/internal/infrastructure/inference"
	"medifind-server/intake-api/internal/infrastructure/logger"
)

// ProvideConfig loads and provides the application configuration
func ProvideConfig() (*config.Config, error) {
	return config.Load()
}

// ProvideLogger builds the process logger from configuration
func ProvideLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logger.New(cfg.LogLevel, cfg.LogFormat)
}

// ProvideDatabase provides a database connection
func ProvideDatabase(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	gormLevel := gormlogger.Silent
	if config.IsDev() {
		gormLevel = gormlogger.Warn
	}

	db, err := database.Connect(database.Config{
		DatabaseURL: cfg.DatabaseURL,
		WriteDSN:    cfg.DBPostgresqlWriteDSN,
		ReadDSN:     cfg.DBPostgresqlRead1DSN,
		MaxIdle:     10,
		MaxOpen:     25,
		MaxLifetime: 1 * time.Hour,
		LogLevel:    gormLevel,
	})
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		log.Info().Msg("Running database migrations...")
		if err := database.Migration(db, "intake_api."); err != nil {
			log.Error().Err(err).Msg("Failed to run database migrations")
			return nil, err
		}
		log.Info().Msg("Database migrations completed successfully")
	}

	return db, nil
}

// ProvideTransactionDatabase provides a transaction database wrapper
func ProvideTransactionDatabase(db *gorm.DB) *transaction.Database {
	return transaction.NewDatabase(db)
}

// ProvideAnalysisProvider wires the configured symptom analyzer behind the
// domain capability interface
func ProvideAnalysisProvider(cfg *config.Config) analysis.Provider {
	return inference.NewSymptomAnalyzer(cfg)
}

// Infrastructure holds all infrastructure dependencies
type Infrastructure struct {
	DB     *gorm.DB
	Logger zerolog.Logger
}

// NewInfrastructure creates a new infrastructure instance
func NewInfrastructure(db *gorm.DB, logger zerolog.Logger) *Infrastructure {
	return &Infrastructure{
		DB:     db,
		Logger: logger,
	}
}

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	// Config
	ProvideConfig,

	// Logger
	ProvideLogger,

	// Database
	ProvideDatabase,
	ProvideTransactionDatabase,

	// Repositories
	repository.RepositoryProvider,

	// Symptom analyzer
	ProvideAnalysisProvider,

	// Crontab for retention sweeps
	crontab.NewCrontab,

	// Infrastructure struct
	NewInfrastructure,
)
