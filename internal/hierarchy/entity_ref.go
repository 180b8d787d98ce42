package hierarchy

import (
	"context"
	"fmt"

	"github.com/dsnakex/Biotech-Dashboard/internal/apperror"
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"gorm.io/gorm"
)

// EntityRef is a typed reference to a row that a comment can annotate.
// The concrete types are TaskRef, ExperimentRef, ProjectRef, SubProjectRef,
// CategoryRef and ResourceRef.
type EntityRef interface {
	Kind() Kind
	ID() uint
	entityRef()
}

type (
	TaskRef       uint
	ExperimentRef uint
	ProjectRef    uint
	SubProjectRef uint
	CategoryRef   uint
	ResourceRef   uint
)

func (r TaskRef) Kind() Kind       { return KindTask }
func (r ExperimentRef) Kind() Kind { return KindExperiment }
func (r ProjectRef) Kind() Kind    { return KindProject }
func (r SubProjectRef) Kind() Kind { return KindSubProject }
func (r CategoryRef) Kind() Kind   { return KindCategory }
func (r ResourceRef) Kind() Kind   { return KindResource }

func (r TaskRef) ID() uint       { return uint(r) }
func (r ExperimentRef) ID() uint { return uint(r) }
func (r ProjectRef) ID() uint    { return uint(r) }
func (r SubProjectRef) ID() uint { return uint(r) }
func (r CategoryRef) ID() uint   { return uint(r) }
func (r ResourceRef) ID() uint   { return uint(r) }

func (TaskRef) entityRef()       {}
func (ExperimentRef) entityRef() {}
func (ProjectRef) entityRef()    {}
func (SubProjectRef) entityRef() {}
func (CategoryRef) entityRef()   {}
func (ResourceRef) entityRef()   {}

// ParseEntityRef builds the reference named by a comment's entity_type and entity_id.
func ParseEntityRef(entityType constant.CommentEntityType, id uint) (EntityRef, error) {
	switch entityType {
	case constant.EntityTask:
		return TaskRef(id), nil
	case constant.EntityExperiment:
		return ExperimentRef(id), nil
	case constant.EntityProject:
		return ProjectRef(id), nil
	case constant.EntitySubProject:
		return SubProjectRef(id), nil
	case constant.EntityCategory:
		return CategoryRef(id), nil
	case constant.EntityResource:
		return ResourceRef(id), nil
	}
	return nil, fmt.Errorf("%w: unknown entity type %q", apperror.ErrInvalidInput, entityType)
}

// Resolve fails with ErrNotFound when the referenced row does not exist.
func (g *Graph) Resolve(ctx context.Context, tx *gorm.DB, ref EntityRef) error {
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	found, err := g.exists(g.getDB(tx).WithContext(ctx), ref.Kind(), ref.ID())
	if err != nil {
		return err
	}
	if !found {
		return apperror.NotFound(ref.Kind(), ref.ID())
	}
	return nil
}
