package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/internal/core/datamodel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB bundles the ORM handle used by repositories with the raw handle used for pings and migrations.
type DB struct {
	Gorm *gorm.DB
	SQL  *sqlx.DB
}

func (d *DB) Close() error {
	if d == nil || d.SQL == nil {
		return nil
	}
	return d.SQL.Close()
}

func (d *DB) PingContext(ctx context.Context) error {
	return d.SQL.PingContext(ctx)
}

// Open connects with the configured driver and applies the pool settings.
func Open(cfg internal.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	gormCfg := &gorm.Config{
		Logger:                                   newGormLogger(logger, cfg.LogQueries),
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	var (
		gdb   *gorm.DB
		sqlDB *sqlx.DB
		err   error
	)

	switch cfg.Driver {
	case internal.DriverPostgres, "":
		sqlDB, err = sqlx.Connect("pgx", cfg.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres connection: %w", err)
		}
		gdb, err = gorm.Open(postgres.New(postgres.Config{Conn: sqlDB.DB}), gormCfg)
	case internal.DriverSQLite:
		gdb, err = gorm.Open(sqlite.Open(cfg.Source), gormCfg)
	case internal.DriverMySQL:
		gdb, err = gorm.Open(mysql.Open(cfg.Source), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	if sqlDB == nil {
		raw, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql handle: %w", err)
		}
		sqlDB = sqlx.NewDb(raw, cfg.Driver)
	}

	if cfg.Driver == internal.DriverSQLite {
		// one connection so an in-memory database is shared by every query
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Gorm: gdb, SQL: sqlDB}, nil
}

// AutoMigrate creates or updates every table from the gorm models.
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(datamodel.Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...interface{}) {
	w.logger.Debug(fmt.Sprintf(format, args...), "component", "gorm")
}

func newGormLogger(logger *slog.Logger, logQueries bool) gormlogger.Interface {
	if logger == nil {
		return gormlogger.Default.LogMode(gormlogger.Silent)
	}
	level := gormlogger.Warn
	if logQueries {
		level = gormlogger.Info
	}
	return gormlogger.New(slogWriter{logger: logger}, gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
