package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"liyu1981.xyz/water-intake-service/pkg/common"
	"liyu1981.xyz/water-intake-service/pkg/config"
	"liyu1981.xyz/water-intake-service/pkg/models"
)

// DB is the store handle. It is created once by the caller and passed to
// every component that needs it; each operation takes its own session from it.
type DB struct {
	Conn *gorm.DB
}

func Open(dialector gorm.Dialector) (*DB, error) {
	logger := common.GetLogger()

	conn, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

	if dialector.Name() == "sqlite" {
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		// sqlite has a single writer and pragmas are per connection
		sqlDB.SetMaxOpenConns(1)

		if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable sqlite foreign key support: %w", err)
		}

		if err := conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			return nil, fmt.Errorf("failed to set sqlite journal mode: %w", err)
		}
	}

	if err := conn.AutoMigrate(&models.User{}, &models.ConsumptionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed")

	return &DB{Conn: conn}, nil
}

// MustOpen is Open for tests and bootstrap code that cannot continue without a store.
func MustOpen(dialector gorm.Dialector) *DB {
	instance, err := Open(dialector)
	if err != nil {
		panic(err)
	}
	return instance
}

func (d *DB) WithContext(ctx context.Context) *gorm.DB {
	return d.Conn.WithContext(ctx)
}

// Transaction runs fn in a transaction scoped to a single unit of work.
func (d *DB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.Conn.WithContext(ctx).Transaction(fn)
}

func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.Conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *DB) Close() error {
	sqlDB, err := d.Conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func UseSqliteDialector(dbPath string) gorm.Dialector {
	if dbPath == "" {
		dbPath = "water.db"
	}
	return sqlite.Open(dbPath)
}

func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open("file::memory:?cache=shared")
}

// UseNamedMemorySqliteDialector gives an in-memory database private to name.
func UseNamedMemorySqliteDialector(name string) gorm.Dialector {
	return sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
}

func UsePostgresDialector(dsn string) gorm.Dialector {
	return postgres.Open(dsn)
}

// UseMySQLDialector expects parseTime=true in dsn so timestamps scan into time.Time.
func UseMySQLDialector(dsn string) gorm.Dialector {
	return mysql.Open(dsn)
}

func DialectorFor(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Type {
	case "file":
		return UseSqliteDialector(cfg.Path), nil
	case "memory":
		return UseMemorySqliteDialector(), nil
	case "postgres":
		return UsePostgresDialector(cfg.DSN), nil
	case "mysql":
		return UseMySQLDialector(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unknown IOT_DB_TYPE: %s", cfg.Type)
	}
}
