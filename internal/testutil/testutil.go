// Package testutil opens throwaway SQLite databases for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/database"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"github.com/dsnakex/Biotech-Dashboard/internal/schema"
	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func Logger() *zap.SugaredLogger {
	return util.NewLogger("test")
}

// NewSQLite returns an empty in-memory database closed when the test ends.
func NewSQLite(tb testing.TB) *gorm.DB {
	tb.Helper()

	db, err := database.OpenSQLite(database.SQLiteMemoryDSN(uuid.NewString()))
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}

	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// MigratedDB returns an in-memory database with every default step applied.
func MigratedDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	db := NewSQLite(tb)
	if _, err := schema.NewApplier(db, Logger()).Apply(context.Background(), schema.DefaultSteps()); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(tb testing.TB, db *gorm.DB, email string, role constant.UserRole) *model.User {
	tb.Helper()

	user := &model.User{
		Email:        email,
		PasswordHash: "not-a-real-hash",
		FullName:     "User " + email,
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		tb.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}
