package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/tree-api/internal/config"
	applog "github.com/yukikurage/tree-api/internal/logger"
)

var DB *gorm.DB

// Connect opens the configured database and stores it as the package default.
func Connect(cfg config.DatabaseConfig, log *slog.Logger) error {
	db, err := Open(cfg, log)
	if err != nil {
		return err
	}
	DB = db

	if log != nil {
		log.Info("database connection established",
			slog.String("driver", cfg.Driver),
			slog.String("host", cfg.Host),
			slog.String("name", cfg.Name),
		)
	}
	return nil
}

// Open creates a gorm handle for cfg without touching the package default.
// SQL logging goes through log, or slog.Default when log is nil.
func Open(cfg config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(cfg.LogLevel, log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}

	if cfg.Driver == "sqlite" && isMemoryPath(cfg.Path) {
		// every connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Name,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.Name,
			cfg.SSLMode,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = ":memory:"
		}
		// foreign keys are off by default in sqlite
		return sqlite.Open(path + "?_foreign_keys=on"), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func isMemoryPath(path string) bool {
	return path == "" || path == ":memory:"
}

func newGormLogger(level string, log *slog.Logger) logger.Interface {
	var lvl logger.LogLevel
	switch level {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	default:
		lvl = logger.Warn
	}

	if log == nil {
		log = slog.Default()
	}
	// failed statements are reported by the request that ran them
	sqlLog := slog.New(applog.CapLevel(log.Handler(), slog.LevelWarn)).With(slog.String("component", "gorm"))

	return logger.NewSlogLogger(sqlLog, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
	})
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
