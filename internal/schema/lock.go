package schema

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// RunLocked runs fn while holding the migration lock identified by key.
// On PostgreSQL this is a session advisory lock held on a dedicated
// connection, so concurrent runners wait for each other. SQLite allows a
// single writer and needs no extra lock.
func RunLocked(ctx context.Context, db *gorm.DB, key int64, fn func(ctx context.Context) error) error {
	if db.Dialector.Name() != dialectPostgres {
		return fn(ctx)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection for migration lock: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock($1)", key); err != nil {
		return fmt.Errorf("acquire migration lock %d: %w", key, err)
	}
	defer conn.ExecContext(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1)", key)

	return fn(ctx)
}
