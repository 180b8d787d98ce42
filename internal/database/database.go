package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dsnakex/Biotech-Dashboard/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	// pure Go SQLite driver, registered as "sqlite"
	_ "modernc.org/sqlite"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

func newGormLogger() gormLogger.Interface {
	return gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// ConnectReturnGormDB opens PostgreSQL when DATABASE_URL is a postgres url,
// otherwise the SQLite file configured by SQLITE_DATABASE.
func ConnectReturnGormDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if !cfg.UsePostgres() {
		return OpenSQLite(SQLiteDSN(cfg.SQLITE_DATABASE))
	}

	db, err := gorm.Open(postgres.Open(cfg.DATABASE_URL), &gorm.Config{
		Logger:         newGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	idleTime, err := time.ParseDuration(cfg.MaxIdleTime)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_IDLE_TIME %q: %w", cfg.MaxIdleTime, err)
	}
	sqlDB.SetConnMaxIdleTime(idleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	return db, nil
}

// SQLiteDSN turns a file path into a DSN with foreign keys enforced.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
}

// SQLiteMemoryDSN names a private in-memory database shared by the connections of one pool.
func SQLiteMemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
}

// OpenSQLite opens a SQLite database with a single connection. SQLite allows
// one writer at a time.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{
		Logger:         newGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite %q: %w", dsn, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// Dialect returns DialectPostgres or DialectSQLite.
func Dialect(db *gorm.DB) string {
	return db.Dialector.Name()
}
