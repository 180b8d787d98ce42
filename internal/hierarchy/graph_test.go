package hierarchy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dsnakex/Biotech-Dashboard/internal/apperror"
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/database"
	"github.com/dsnakex/Biotech-Dashboard/internal/hierarchy"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"github.com/dsnakex/Biotech-Dashboard/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	graph *hierarchy.Graph
}

func newFixture(t *testing.T) fixture {
	db := testutil.MigratedDB(t)
	return fixture{db: db, graph: hierarchy.NewGraph(db, testutil.Logger())}
}

func (f fixture) project(t *testing.T, name string) *model.Project {
	t.Helper()
	p := &model.Project{Name: name}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f fixture) subProject(t *testing.T, projectID uint, name string) *model.SubProject {
	t.Helper()
	sp := &model.SubProject{ProjectID: projectID, Name: name}
	require.NoError(t, f.db.Create(sp).Error)
	return sp
}

func (f fixture) category(t *testing.T, subProjectID uint, name string) *model.Category {
	t.Helper()
	c := &model.Category{SubProjectID: subProjectID, Name: name, Color: constant.DefaultCategoryColor}
	require.NoError(t, f.db.Create(c).Error)
	return c
}

func (f fixture) experiment(t *testing.T, title string, categoryID *uint) *model.Experiment {
	t.Helper()
	e := &model.Experiment{
		Title:        title,
		ProtocolType: "PCR",
		Assignee:     "Dr. Martin",
		Status:       constant.ExperimentStatusProgress,
		Priority:     constant.PriorityHigh,
		Tags:         model.Tags{"oncology", "pcr"},
		Cost:         decimal.NewNullDecimal(decimal.RequireFromString("125.50")),
		Hypothesis:   "Gene X is over-expressed",
		CategoryID:   categoryID,
	}
	require.NoError(t, f.db.Create(e).Error)
	return e
}

func (f fixture) count(t *testing.T, table string, where string, args ...any) int64 {
	t.Helper()
	var n int64
	q := f.db.Table(table)
	if where != "" {
		q = q.Where(where, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func TestCascadeDeleteProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	doomed := f.project(t, "Cancer Study")
	spA := f.subProject(t, doomed.ID, "Cell Line A")
	spB := f.subProject(t, doomed.ID, "Cell Line B")
	catA1 := f.category(t, spA.ID, "Assays")
	catA2 := f.category(t, spA.ID, "Imaging")
	catB1 := f.category(t, spB.ID, "Sequencing")
	e1 := f.experiment(t, "PCR-001", &catA1.ID)
	e2 := f.experiment(t, "SEQ-001", &catB1.ID)

	kept := f.project(t, "Vaccine")
	keptSP := f.subProject(t, kept.ID, "Adjuvants")
	keptCat := f.category(t, keptSP.ID, "Stability")
	keptExp := f.experiment(t, "STAB-001", &keptCat.ID)

	report, err := f.graph.CascadeDelete(ctx, nil, hierarchy.KindProject, doomed.ID)
	require.NoError(t, err)

	assert.Equal(t, []uint{doomed.ID}, report.Deleted[hierarchy.KindProject])
	assert.ElementsMatch(t, []uint{spA.ID, spB.ID}, report.Deleted[hierarchy.KindSubProject])
	assert.ElementsMatch(t, []uint{catA1.ID, catA2.ID, catB1.ID}, report.Deleted[hierarchy.KindCategory])
	assert.ElementsMatch(t, []uint{e1.ID, e2.ID}, report.Detached[hierarchy.KindExperiment])
	assert.Empty(t, report.Deleted[hierarchy.KindExperiment])

	assert.Zero(t, f.count(t, "sub_projects", "project_id = ?", doomed.ID))
	assert.Zero(t, f.count(t, "categories", "sub_project_id IN ?", []uint{spA.ID, spB.ID}))
	assert.Equal(t, int64(3), f.count(t, "experiments", ""))
	assert.Equal(t, int64(2), f.count(t, "experiments", "category_id IS NULL"))

	var reloaded model.Experiment
	require.NoError(t, f.db.First(&reloaded, keptExp.ID).Error)
	require.NotNil(t, reloaded.CategoryID)
	assert.Equal(t, keptCat.ID, *reloaded.CategoryID)
	assert.Equal(t, int64(1), f.count(t, "sub_projects", "project_id = ?", kept.ID))
}

func TestCascadeDeleteSubProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p := f.project(t, "Cancer Study")
	sp := f.subProject(t, p.ID, "Cell Line A")
	sibling := f.subProject(t, p.ID, "Cell Line B")
	c := f.category(t, sp.ID, "Assays")
	f.category(t, sibling.ID, "Imaging")

	report, err := f.graph.CascadeDelete(ctx, nil, hierarchy.KindSubProject, sp.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{sp.ID}, report.Deleted[hierarchy.KindSubProject])
	assert.Equal(t, []uint{c.ID}, report.Deleted[hierarchy.KindCategory])
	assert.Empty(t, report.Deleted[hierarchy.KindProject])

	assert.Equal(t, int64(1), f.count(t, "projects", ""))
	assert.Equal(t, int64(1), f.count(t, "categories", "sub_project_id = ?", sibling.ID))
}

func TestCascadeDeleteErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.graph.CascadeDelete(ctx, nil, hierarchy.KindProject, 404)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.graph.CascadeDelete(ctx, nil, hierarchy.KindExperiment, 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperror.ErrNotFound)
}

func TestCascadeDeleteJoinsCallerTransaction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p := f.project(t, "Cancer Study")
	f.category(t, f.subProject(t, p.ID, "Cell Line A").ID, "Assays")

	abort := errors.New("abort")
	err := f.db.Transaction(func(tx *gorm.DB) error {
		if _, err := f.graph.CascadeDelete(ctx, tx, hierarchy.KindProject, p.ID); err != nil {
			return err
		}
		return abort
	})
	require.ErrorIs(t, err, abort)

	assert.Equal(t, int64(1), f.count(t, "projects", ""))
	assert.Equal(t, int64(1), f.count(t, "sub_projects", ""))
	assert.Equal(t, int64(1), f.count(t, "categories", ""))
}

func TestDeleteCategoryDetachesExperiments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sp := f.subProject(t, f.project(t, "Cancer Study").ID, "Cell Line A")
	c := f.category(t, sp.ID, "Assays")
	other := f.category(t, sp.ID, "Imaging")
	e := f.experiment(t, "PCR-001", &c.ID)
	untouched := f.experiment(t, "IMG-001", &other.ID)

	var before model.Experiment
	require.NoError(t, f.db.First(&before, e.ID).Error)

	report, err := f.graph.CascadeDelete(ctx, nil, hierarchy.KindCategory, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{e.ID}, report.Detached[hierarchy.KindExperiment])

	var after model.Experiment
	require.NoError(t, f.db.First(&after, e.ID).Error)
	assert.Nil(t, after.CategoryID)
	assert.Equal(t, before.Title, after.Title)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.Priority, after.Priority)
	assert.Equal(t, before.Tags, after.Tags)
	assert.Equal(t, before.Hypothesis, after.Hypothesis)
	assert.True(t, before.Cost.Decimal.Equal(after.Cost.Decimal))

	var stillLinked model.Experiment
	require.NoError(t, f.db.First(&stillLinked, untouched.ID).Error)
	require.NotNil(t, stillLinked.CategoryID)
	assert.Equal(t, other.ID, *stillLinked.CategoryID)
}

func TestDetachOnDeleteInCallerTransaction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	c := f.category(t, f.subProject(t, f.project(t, "P").ID, "S").ID, "C")
	e1 := f.experiment(t, "E1", &c.ID)
	e2 := f.experiment(t, "E2", &c.ID)
	f.experiment(t, "E3", nil)

	err := f.db.Transaction(func(tx *gorm.DB) error {
		detached, err := f.graph.DetachOnDelete(ctx, tx, c.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, []uint{e1.ID, e2.ID}, detached)
		return tx.Delete(&model.Category{}, c.ID).Error
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3), f.count(t, "experiments", "category_id IS NULL"))
}

// Scenario: Cancer Study / Cell Line A / Assays / PCR-001.
func TestCancerStudyScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	project := f.project(t, "Cancer Study")

	require.NoError(t, f.graph.ValidateParentExists(ctx, nil, hierarchy.KindSubProject, project.ID))
	subProject := f.subProject(t, project.ID, "Cell Line A")

	require.NoError(t, f.graph.ValidateParentExists(ctx, nil, hierarchy.KindCategory, subProject.ID))
	assays := f.category(t, subProject.ID, "Assays")
	assert.Equal(t, "#3b82f6", assays.Color)

	require.NoError(t, f.graph.ValidateParentExists(ctx, nil, hierarchy.KindExperiment, assays.ID))
	pcr := f.experiment(t, "PCR-001", &assays.ID)

	_, err := f.graph.CascadeDelete(ctx, nil, hierarchy.KindCategory, assays.ID)
	require.NoError(t, err)

	var reloaded model.Experiment
	require.NoError(t, f.db.Where("title = ?", "PCR-001").First(&reloaded).Error)
	assert.Equal(t, pcr.ID, reloaded.ID)
	assert.Nil(t, reloaded.CategoryID)
	assert.Equal(t, int64(1), f.count(t, "sub_projects", ""))
}

func TestValidateParentExists(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p := f.project(t, "P")
	sp := f.subProject(t, p.ID, "S")
	c := f.category(t, sp.ID, "C")

	tests := []struct {
		name     string
		child    hierarchy.Kind
		parentID uint
		wantErr  error
	}{
		{"sub-project under existing project", hierarchy.KindSubProject, p.ID, nil},
		{"sub-project under missing project", hierarchy.KindSubProject, 999, apperror.ErrNotFound},
		{"sub-project without project", hierarchy.KindSubProject, 0, apperror.ErrNotFound},
		{"category under existing sub-project", hierarchy.KindCategory, sp.ID, nil},
		{"category under missing sub-project", hierarchy.KindCategory, 999, apperror.ErrNotFound},
		{"experiment in existing category", hierarchy.KindExperiment, c.ID, nil},
		{"experiment in missing category", hierarchy.KindExperiment, 999, apperror.ErrNotFound},
		{"experiment without category", hierarchy.KindExperiment, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.graph.ValidateParentExists(ctx, nil, tt.child, tt.parentID)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	err := f.graph.ValidateParentExists(ctx, nil, hierarchy.KindProject, 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperror.ErrNotFound)
}

func TestAttachComment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, "alice@lab.test", constant.UserRoleResearcher)

	comment, err := f.graph.AttachComment(ctx, nil, constant.EntityExperiment, 424242, user.ID, "Looks promising")
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)
	assert.Equal(t, int64(1), f.count(t, "comments", "entity_type = ? AND entity_id = ?", "experiment", 424242))

	err = f.graph.Resolve(ctx, nil, hierarchy.ExperimentRef(424242))
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.graph.AttachComment(ctx, nil, constant.EntityTask, 1, 999, "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, int64(1), f.count(t, "comments", ""))
}

func TestDeletingUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	author := testutil.CreateUser(t, f.db, "bob@lab.test", constant.UserRoleManager)
	p := &model.Project{Name: "Cancer Study", CreatedBy: &author.ID}
	require.NoError(t, f.db.Create(p).Error)
	_, err := f.graph.AttachComment(ctx, nil, constant.EntityProject, p.ID, author.ID, "kick-off")
	require.NoError(t, err)

	require.NoError(t, f.db.Delete(&model.User{}, author.ID).Error)

	var reloaded model.Project
	require.NoError(t, f.db.First(&reloaded, p.ID).Error)
	assert.Nil(t, reloaded.CreatedBy)
	assert.Zero(t, f.count(t, "comments", ""))

	// a user with usage history cannot be removed
	user := testutil.CreateUser(t, f.db, "carol@lab.test", constant.UserRoleResearcher)
	resource := &model.Resource{Name: "Ethanol", Category: "Reagent", Unit: "mL", InitialStock: 10, CurrentStock: 10}
	require.NoError(t, f.db.Create(resource).Error)
	require.NoError(t, f.db.Create(&model.ResourceUsage{ResourceID: resource.ID, QuantityUsed: 1, Purpose: "wash", StockBefore: 10, StockAfter: 9, UsedBy: user.ID}).Error)

	err = f.db.Delete(&model.User{}, user.ID).Error
	require.Error(t, err)
	assert.ErrorIs(t, database.TranslateError(err), apperror.ErrIntegrityViolation)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	task := &model.Task{Title: "Order pipettes", Assignee: "Alice"}
	require.NoError(t, f.db.Create(task).Error)

	ref, err := hierarchy.ParseEntityRef(constant.EntityTask, task.ID)
	require.NoError(t, err)
	assert.Equal(t, hierarchy.TaskRef(task.ID), ref)
	assert.NoError(t, f.graph.Resolve(ctx, nil, ref))

	ref, err = hierarchy.ParseEntityRef(constant.EntityResource, 77)
	require.NoError(t, err)
	assert.ErrorIs(t, f.graph.Resolve(ctx, nil, ref), apperror.ErrNotFound)

	_, err = hierarchy.ParseEntityRef("invoice", 1)
	assert.Error(t, err)
}
