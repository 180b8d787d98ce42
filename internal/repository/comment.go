package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dsnakex/Biotech-Dashboard/internal/apperror"
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/database"
	"github.com/dsnakex/Biotech-Dashboard/internal/hierarchy"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"gorm.io/gorm"
)

type CommentRepository struct {
	*baseRepository
}

type CommentPage struct {
	Comments  []model.Comment `json:"comments"`
	Total     int64           `json:"total"`
	Page      uint            `json:"page"`
	PageSize  uint            `json:"page_size"`
	TotalPage int             `json:"total_page"`
	// EntityExists is false when the annotated row is gone; its comments are still listed.
	EntityExists bool `json:"entity_exists"`
}

func (cr CommentRepository) withAuthor(db *gorm.DB) *gorm.DB {
	return db.Table("comments AS c").
		Select("c.*, u.full_name AS user_full_name").
		Joins("LEFT JOIN users u ON c.user_id = u.id")
}

// ListByEntity pages through the comments on one entity, oldest first.
func (cr CommentRepository) ListByEntity(ctx context.Context, tx *gorm.DB, entityType constant.CommentEntityType, entityID uint, page, pageSize uint) (*CommentPage, error) {
	cr.logger.Debugf("List comments of %s %d, page %d \n", entityType, entityID, page)

	ref, err := hierarchy.ParseEntityRef(entityType, entityID)
	if err != nil {
		return nil, err
	}

	exists := true
	if err := cr.graph.Resolve(ctx, tx, ref); err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		exists = false
	}

	page, pageSize = util.NormalizePage(page, pageSize)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var total int64
	if err := db.WithContext(ctx).Model(&model.Comment{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	comments := []model.Comment{}
	if err := cr.withAuthor(db.WithContext(ctx)).
		Where("c.entity_type = ? AND c.entity_id = ?", entityType, entityID).
		Order("c.created_at asc").Order("c.id asc").
		Offset(int((page - 1) * pageSize)).Limit(int(pageSize)).
		Scan(&comments).Error; err != nil {
		return nil, err
	}

	return &CommentPage{
		Comments:     comments,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
		TotalPage:    util.CalculateTotalPage(total, pageSize),
		EntityExists: exists,
	}, nil
}

func (cr CommentRepository) GetById(ctx context.Context, tx *gorm.DB, id uint) (*model.Comment, error) {
	cr.logger.Debugf("Get comment by id: %d \n", id)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var comments []model.Comment
	if err := cr.withAuthor(db.WithContext(ctx)).Where("c.id = ?", id).Limit(1).Scan(&comments).Error; err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, apperror.NotFound("comment", id)
	}
	return &comments[0], nil
}

// Create attaches a comment to any entity, existing or not.
func (cr CommentRepository) Create(ctx context.Context, tx *gorm.DB, entityType constant.CommentEntityType, entityID, userID uint, content string) (*model.Comment, error) {
	cr.logger.Debugf("Create comment on %s %d by user %d \n", entityType, entityID, userID)

	if !entityType.Valid() {
		return nil, fmt.Errorf("%w: unknown entity type %q", apperror.ErrInvalidInput, entityType)
	}

	comment, err := cr.graph.AttachComment(ctx, tx, entityType, entityID, userID, content)
	if err != nil {
		return nil, err
	}
	return cr.GetById(ctx, tx, comment.ID)
}

// Update changes the content. Only the author may edit a comment.
func (cr CommentRepository) Update(ctx context.Context, tx *gorm.DB, id, userID uint, content string) (*model.Comment, error) {
	cr.logger.Debugf("Update comment %d by user %d \n", id, userID)

	db := cr.getDB(tx)
	err := cr.withTx(db, func(tx *gorm.DB) error {
		comment, err := cr.GetById(ctx, tx, id)
		if err != nil {
			return err
		}
		if comment.UserID != userID {
			return fmt.Errorf("comment %d belongs to another user: %w", id, apperror.ErrForbidden)
		}

		ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()
		return tx.WithContext(ctx).Model(&model.Comment{BaseModel: model.BaseModel{ID: id}}).
			Select("content", "updated_at").
			Updates(&model.Comment{Content: content}).Error
	})
	if err != nil {
		return nil, err
	}
	return cr.GetById(ctx, tx, id)
}

// Delete removes a comment. Authors may delete their own comments; holders
// of the moderation permission may delete any.
func (cr CommentRepository) Delete(ctx context.Context, tx *gorm.DB, id, userID uint, role constant.UserRole) error {
	cr.logger.Debugf("Delete comment %d by user %d \n", id, userID)

	db := cr.getDB(tx)
	return cr.withTx(db, func(tx *gorm.DB) error {
		comment, err := cr.GetById(ctx, tx, id)
		if err != nil {
			return err
		}
		if comment.UserID != userID && !util.HasPermission(role, constant.CommentModerate) {
			return fmt.Errorf("comment %d belongs to another user: %w", id, apperror.ErrForbidden)
		}

		ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
		defer cancel()
		return database.TranslateError(tx.WithContext(ctx).Delete(&model.Comment{}, id).Error)
	})
}
