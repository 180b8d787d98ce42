package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dsnakex/Biotech-Dashboard/internal/apperror"
	"github.com/dsnakex/Biotech-Dashboard/internal/auth"
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/database"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"gorm.io/gorm"
)

type UserRepository struct {
	*baseRepository
}

func (ur UserRepository) GetById(ctx context.Context, tx *gorm.DB, userId uint) (*model.User, error) {
	ur.logger.Debugf("Get user by id: %d \n", userId)

	db := ur.getDB(tx)
	var user model.User

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userId).First(&user).Error; err != nil {
		return nil, database.TranslateError(err)
	}

	return &user, nil
}

func (ur UserRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*model.User, error) {
	ur.logger.Debugf("Get user by email: %s \n", email)

	db := ur.getDB(tx)
	var user model.User

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.User{}).Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, database.TranslateError(err)
	}

	return &user, nil
}

// ListByRoles returns the users holding one of roles, ordered by email.
func (ur UserRepository) ListByRoles(ctx context.Context, tx *gorm.DB, roles []constant.UserRole) ([]model.User, error) {
	ur.logger.Debugf("List users with roles: %v \n", roles)

	db := ur.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var users []model.User
	if err := db.WithContext(ctx).Where("role IN ?", roles).Order("email asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *UserRepository) Create(ctx context.Context, tx *gorm.DB, newUser *model.User) error {
	ur.logger.Debugf("Create user with email: %s \n", newUser.Email)

	db := ur.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if newUser.Role == "" {
		newUser.Role = constant.UserRoleResearcher
	}

	if err := db.WithContext(ctx).Create(newUser).Error; err != nil {
		return database.TranslateError(err)
	}

	return nil
}

// CheckDupAndCreate creates the user unless the email is taken, in which
// case it returns an error wrapping ErrConflict.
func (ur *UserRepository) CheckDupAndCreate(ctx context.Context, tx *gorm.DB, newUser *model.User) error {
	ur.logger.Debugf("Get user and create user with email (Transaction): %s \n", newUser.Email)

	db := ur.getDB(tx)
	return ur.withTx(db, func(tx *gorm.DB) error {
		existingUser, err := ur.GetByEmail(ctx, tx, newUser.Email)
		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return err
		}

		if existingUser != nil {
			return fmt.Errorf("user with %s already exist: %w", existingUser.Email, apperror.ErrConflict)
		}

		return ur.Create(ctx, tx, newUser)
	})
}

// Register hashes the password and creates the account.
func (ur *UserRepository) Register(ctx context.Context, tx *gorm.DB, email, password, fullName string, role constant.UserRole) (*model.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(fullName),
		Role:         role,
	}
	if err := ur.CheckDupAndCreate(ctx, tx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user when email and password match, otherwise
// apperror.ErrInvalidCredentials. Unknown emails and wrong passwords are
// not distinguished.
func (ur UserRepository) Authenticate(ctx context.Context, tx *gorm.DB, email, password string) (*model.User, error) {
	ur.logger.Debugf("Authenticate user: %s \n", email)

	user, err := ur.GetByEmail(ctx, tx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the default administrator when no account uses email.
func (ur *UserRepository) EnsureAdmin(ctx context.Context, tx *gorm.DB, email, password string) (bool, error) {
	ur.logger.Debugf("Ensure default admin exists: %s \n", email)

	_, err := ur.Register(ctx, tx, email, password, "Administrator", constant.UserRoleAdmin)
	if errors.Is(err, apperror.ErrConflict) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
