package hierarchy

import (
	"context"
	"fmt"
	"slices"

	"github.com/dsnakex/Biotech-Dashboard/internal/apperror"
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/database"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DeletionReport lists what a cascade removed and what it detached.
type DeletionReport struct {
	Deleted  map[Kind][]uint `json:"deleted"`
	Detached map[Kind][]uint `json:"detached"`
}

func newDeletionReport() *DeletionReport {
	return &DeletionReport{Deleted: map[Kind][]uint{}, Detached: map[Kind][]uint{}}
}

type Graph struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewGraph(db *gorm.DB, logger *zap.SugaredLogger) *Graph {
	return &Graph{db: db, logger: logger}
}

func (g *Graph) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return g.db
}

func (g *Graph) exists(db *gorm.DB, kind Kind, id uint) (bool, error) {
	if !kind.Valid() {
		return false, fmt.Errorf("unknown entity kind %q", kind)
	}

	var count int64
	if err := db.Table(kind.Table()).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ValidateParentExists fails with ErrNotFound when the parent that a new
// childKind row would reference does not exist. A zero parentID is accepted
// for optional (association) parents.
func (g *Graph) ValidateParentExists(ctx context.Context, tx *gorm.DB, childKind Kind, parentID uint) error {
	g.logger.Debugf("Graph validate parent of %s: %d", childKind, parentID)

	rel, ok := ParentOf(childKind)
	if !ok {
		return fmt.Errorf("%s has no parent kind", childKind)
	}

	if parentID == 0 {
		if rel.Type == Association {
			return nil
		}
		return apperror.NotFound(rel.Parent, parentID)
	}

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	found, err := g.exists(g.getDB(tx).WithContext(ctx), rel.Parent, parentID)
	if err != nil {
		return err
	}
	if !found {
		return apperror.NotFound(rel.Parent, parentID)
	}
	return nil
}

// CascadeDelete deletes a project, sub-project or category together with
// every row it owns, transitively. Rows that merely reference a deleted
// row through an association are detached, never deleted. Everything
// happens in one transaction, nested in tx when given.
func (g *Graph) CascadeDelete(ctx context.Context, tx *gorm.DB, kind Kind, id uint) (*DeletionReport, error) {
	g.logger.Debugf("Graph cascade delete %s: %d", kind, id)

	switch kind {
	case KindProject, KindSubProject, KindCategory:
	default:
		return nil, fmt.Errorf("cascade delete is not defined for %s", kind)
	}

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	report := newDeletionReport()
	err := g.getDB(tx).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := g.exists(tx, kind, id)
		if err != nil {
			return err
		}
		if !found {
			return apperror.NotFound(kind, id)
		}

		type level struct {
			kind Kind
			ids  []uint
		}

		// breadth first along ownership edges, parents before children
		levels := []level{{kind: kind, ids: []uint{id}}}
		for i := 0; i < len(levels); i++ {
			for _, rel := range ChildrenOf(levels[i].kind, Ownership) {
				var childIDs []uint
				if err := tx.Table(rel.Child.Table()).Where(rel.Column+" IN ?", levels[i].ids).Order("id").Pluck("id", &childIDs).Error; err != nil {
					return err
				}
				if len(childIDs) > 0 {
					levels = append(levels, level{kind: rel.Child, ids: childIDs})
				}
			}
		}

		for _, l := range levels {
			if err := g.detach(tx, l.kind, l.ids, report); err != nil {
				return err
			}
		}

		for _, l := range slices.Backward(levels) {
			if err := tx.Exec("DELETE FROM "+l.kind.Table()+" WHERE id IN ?", l.ids).Error; err != nil {
				return err
			}
			report.Deleted[l.kind] = append(report.Deleted[l.kind], l.ids...)
		}

		return nil
	})
	if err != nil {
		return nil, database.TranslateError(err)
	}

	for k, ids := range report.Deleted {
		slices.Sort(ids)
		report.Deleted[k] = ids
	}

	return report, nil
}

// DetachOnDelete clears category_id on every experiment that references the
// category and returns their ids. Call it in the transaction that deletes
// the category.
func (g *Graph) DetachOnDelete(ctx context.Context, tx *gorm.DB, categoryID uint) ([]uint, error) {
	g.logger.Debugf("Graph detach experiments of category: %d", categoryID)

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	report := newDeletionReport()
	if err := g.detach(g.getDB(tx).WithContext(ctx), KindCategory, []uint{categoryID}, report); err != nil {
		return nil, database.TranslateError(err)
	}
	return report.Detached[KindExperiment], nil
}

func (g *Graph) detach(db *gorm.DB, parent Kind, parentIDs []uint, report *DeletionReport) error {
	for _, rel := range ChildrenOf(parent, Association) {
		var childIDs []uint
		if err := db.Table(rel.Child.Table()).Where(rel.Column+" IN ?", parentIDs).Order("id").Pluck("id", &childIDs).Error; err != nil {
			return err
		}
		if len(childIDs) == 0 {
			continue
		}

		if err := db.Table(rel.Child.Table()).Where("id IN ?", childIDs).Update(rel.Column, nil).Error; err != nil {
			return err
		}
		report.Detached[rel.Child] = append(report.Detached[rel.Child], childIDs...)
	}
	return nil
}

// AttachComment stores a comment on any entity. The entity itself is not
// checked; only the author must exist.
func (g *Graph) AttachComment(ctx context.Context, tx *gorm.DB, entityType constant.CommentEntityType, entityID uint, userID uint, content string) (*model.Comment, error) {
	g.logger.Debugf("Graph attach comment to %s %d by user %d", entityType, entityID, userID)

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	db := g.getDB(tx).WithContext(ctx)

	found, err := g.exists(db, KindUser, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperror.NotFound(KindUser, userID)
	}

	comment := &model.Comment{
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
		Content:    content,
	}
	if err := db.Create(comment).Error; err != nil {
		return nil, database.TranslateError(err)
	}

	return comment, nil
}
