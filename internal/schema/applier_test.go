package schema

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/dsnakex/Biotech-Dashboard/internal/apperror"
	"github.com/dsnakex/Biotech-Dashboard/internal/database"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormschema "gorm.io/gorm/schema"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(database.SQLiteMemoryDSN(uuid.NewString()))
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestApplier(t *testing.T) (*Applier, *gorm.DB) {
	db := newTestDB(t)
	return NewApplier(db, util.NewLogger("test")), db
}

func stepByName(t *testing.T, name string) Step {
	t.Helper()
	for _, s := range DefaultSteps() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no step named %s", name)
	return Step{}
}

func statuses(results []StepResult) map[Status]int {
	out := map[Status]int{}
	for _, r := range results {
		out[r.Status]++
	}
	return out
}

// legacySchema is the v1 layout created by the first release, before the
// experiment detail columns existed.
const legacySchema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	full_name TEXT NOT NULL,
	role TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE experiments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	protocol_type TEXT NOT NULL,
	assignee TEXT NOT NULL,
	status TEXT NOT NULL,
	start_date DATE,
	end_date DATE,
	description TEXT,
	results TEXT,
	created_by INTEGER,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (created_by) REFERENCES users(id)
);`

func TestApplyDefaultStepsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	applier, db := newTestApplier(t)

	first, err := applier.Apply(ctx, DefaultSteps())
	require.NoError(t, err)
	require.Len(t, first, len(DefaultSteps()))
	assert.Equal(t, len(DefaultSteps()), statuses(first)[StatusApplied])

	before, err := Describe(ctx, db)
	require.NoError(t, err)

	second, err := applier.Apply(ctx, DefaultSteps())
	require.NoError(t, err)
	assert.Equal(t, len(DefaultSteps()), statuses(second)[StatusSkipped])

	after, err := Describe(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	history, err := applier.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, len(DefaultSteps()))
}

func TestApplyEveryStepTwice(t *testing.T) {
	ctx := context.Background()
	applier, db := newTestApplier(t)

	for _, step := range DefaultSteps() {
		results, err := applier.Apply(ctx, []Step{step})
		require.NoError(t, err, step.Name)
		require.Equal(t, StatusApplied, results[0].Status, step.Name)

		once, err := Describe(ctx, db)
		require.NoError(t, err)

		results, err = applier.Apply(ctx, []Step{step})
		require.NoError(t, err, step.Name)
		require.Equal(t, StatusSkipped, results[0].Status, step.Name)

		twice, err := Describe(ctx, db)
		require.NoError(t, err)
		require.Equal(t, once, twice, step.Name)
	}
}

func TestAddPriorityColumnTwice(t *testing.T) {
	ctx := context.Background()
	applier, db := newTestApplier(t)

	require.NoError(t, db.Exec(legacySchema).Error)
	require.NoError(t, db.Exec(`INSERT INTO experiments (title, protocol_type, assignee, status) VALUES ('PCR-000', 'PCR', 'Alice', 'done')`).Error)

	priority := stepByName(t, "010_add_experiments_priority")
	for i := 0; i < 2; i++ {
		_, err := applier.Apply(ctx, []Step{priority})
		require.NoError(t, err)
	}

	snapshot, err := Describe(ctx, db)
	require.NoError(t, err)

	experiments, ok := snapshot.Table("experiments")
	require.True(t, ok)

	count := 0
	for _, c := range experiments.Columns {
		if c.Name == "priority" {
			count++
			assert.Equal(t, "'medium'", c.Default)
		}
	}
	assert.Equal(t, 1, count)

	var existing string
	require.NoError(t, db.Raw(`SELECT priority FROM experiments WHERE title = 'PCR-000'`).Scan(&existing).Error)
	assert.Equal(t, "medium", existing)
}

func TestLegacyDatabaseUpgrade(t *testing.T) {
	ctx := context.Background()
	applier, db := newTestApplier(t)
	require.NoError(t, db.Exec(legacySchema).Error)

	results, err := applier.Apply(ctx, DefaultSteps())
	require.NoError(t, err)

	byName := map[string]Status{}
	for _, r := range results {
		byName[r.Name] = r.Status
	}
	assert.Equal(t, StatusSkipped, byName["001_create_users"])
	assert.Equal(t, StatusSkipped, byName["003_create_experiments"])
	assert.Equal(t, StatusApplied, byName["002_create_tasks"])
	assert.Equal(t, StatusApplied, byName["021_add_experiments_category_id"])
}

func TestOutOfOrderStepFails(t *testing.T) {
	ctx := context.Background()
	applier, db := newTestApplier(t)

	_, err := applier.Apply(ctx, []Step{
		stepByName(t, "001_create_users"),
		stepByName(t, "003_create_experiments"),
	})
	require.NoError(t, err)

	results, err := applier.Apply(ctx, []Step{stepByName(t, "021_add_experiments_category_id")})
	require.Error(t, err)
	assert.Empty(t, results)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	var migrationErr *apperror.MigrationError
	require.True(t, errors.As(err, &migrationErr))
	assert.Equal(t, "021_add_experiments_category_id", migrationErr.Step)

	snapshot, err := Describe(ctx, db)
	require.NoError(t, err)
	experiments, _ := snapshot.Table("experiments")
	_, hasColumn := experiments.Column("category_id")
	assert.False(t, hasColumn)
	assert.False(t, snapshot.HasTable("categories"))

	var recorded int64
	require.NoError(t, db.Model(&model.SchemaMigration{}).Where("name = ?", migrationErr.Step).Count(&recorded).Error)
	assert.Zero(t, recorded)
}

func TestTypeConflictHaltsRun(t *testing.T) {
	ctx := context.Background()
	applier, db := newTestApplier(t)
	require.NoError(t, db.Exec(legacySchema).Error)
	require.NoError(t, db.Exec(`ALTER TABLE experiments ADD COLUMN priority INTEGER`).Error)

	results, err := applier.Apply(ctx, []Step{
		stepByName(t, "010_add_experiments_priority"),
		stepByName(t, "011_add_experiments_tags"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Empty(t, results)

	snapshot, err := Describe(ctx, db)
	require.NoError(t, err)
	experiments, _ := snapshot.Table("experiments")
	_, hasTags := experiments.Column("tags")
	assert.False(t, hasTags, "steps after a conflict must not run")
}

func TestCreateTableConflict(t *testing.T) {
	ctx := context.Background()
	applier, db := newTestApplier(t)
	require.NoError(t, db.Exec(`CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, email TEXT)`).Error)

	_, err := applier.Apply(ctx, []Step{stepByName(t, "001_create_users")})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestIndexConflict(t *testing.T) {
	ctx := context.Background()
	applier, db := newTestApplier(t)

	_, err := applier.Apply(ctx, DefaultSteps()[:5])
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE INDEX idx_tasks_status ON tasks (priority)`).Error)

	_, err = applier.Apply(ctx, []Step{stepByName(t, "026_index_tasks_status")})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	sameName := CreateIndex("x", "users", Index{Name: "idx_tasks_status", Columns: []string{"email"}})
	_, err = applier.Apply(ctx, []Step{sameName})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestPlan(t *testing.T) {
	ctx := context.Background()
	applier, db := newTestApplier(t)

	plan, err := applier.Plan(ctx, DefaultSteps())
	require.NoError(t, err)
	assert.Equal(t, len(DefaultSteps()), statuses(plan)[StatusPending])

	// Plan must not touch the database.
	tables, err := db.Migrator().GetTables()
	require.NoError(t, err)
	assert.Empty(t, tables)

	blocked, err := applier.Plan(ctx, []Step{stepByName(t, "021_add_experiments_category_id")})
	require.NoError(t, err)
	assert.Equal(t, StatusBlocked, blocked[0].Status)
	assert.ErrorIs(t, blocked[0].Err, apperror.ErrNotFound)

	_, err = applier.Apply(ctx, DefaultSteps()[:6])
	require.NoError(t, err)

	plan, err = applier.Plan(ctx, DefaultSteps())
	require.NoError(t, err)
	assert.Equal(t, 6, statuses(plan)[StatusSkipped])
	assert.Equal(t, len(DefaultSteps())-6, statuses(plan)[StatusPending])

	require.NoError(t, db.Exec(`CREATE TABLE projects (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT)`).Error)
	plan, err = applier.Plan(ctx, DefaultSteps())
	require.NoError(t, err)
	assert.Equal(t, StatusConflict, plan[6].Status)
}

func TestDescribe(t *testing.T) {
	ctx := context.Background()
	applier, db := newTestApplier(t)

	_, err := applier.Apply(ctx, DefaultSteps())
	require.NoError(t, err)

	snapshot, err := Describe(ctx, db)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"categories", "comments", "experiments", "projects", "resource_usage",
		"resources", "schema_migrations", "sub_projects", "tasks", "users",
	}, snapshot.TableNames())

	comments, _ := snapshot.Table("comments")
	idx, ok := comments.Index("idx_comments_entity")
	require.True(t, ok)
	assert.Equal(t, []string{"entity_type", "entity_id"}, idx.Columns)

	users, _ := snapshot.Table("users")
	id, ok := users.Column("id")
	require.True(t, ok)
	assert.True(t, id.PrimaryKey)
	email, _ := users.Column("email")
	assert.False(t, email.Nullable)

	experiments, _ := snapshot.Table("experiments")
	cost, ok := experiments.Column("cost")
	require.True(t, ok)
	assert.Equal(t, "numeric", typeFamily(cost.Type))
}

// Every persisted model field must have a column once all steps ran.
func TestModelsMatchSchema(t *testing.T) {
	ctx := context.Background()
	applier, db := newTestApplier(t)

	_, err := applier.Apply(ctx, DefaultSteps())
	require.NoError(t, err)

	snapshot, err := Describe(ctx, db)
	require.NoError(t, err)

	models := []any{
		&model.User{}, &model.Project{}, &model.SubProject{}, &model.Category{},
		&model.Experiment{}, &model.Task{}, &model.Resource{}, &model.ResourceUsage{},
		&model.Comment{}, &model.SchemaMigration{},
	}

	cache := &sync.Map{}
	for _, m := range models {
		parsed, err := gormschema.Parse(m, cache, db.NamingStrategy)
		require.NoError(t, err)

		table, ok := snapshot.Table(parsed.Table)
		require.True(t, ok, "missing table %s", parsed.Table)

		for _, field := range parsed.Fields {
			if field.DBName == "" || !field.Creatable {
				continue
			}
			_, ok := table.Column(field.DBName)
			assert.True(t, ok, "missing column %s.%s", parsed.Table, field.DBName)
		}
	}
}

func TestForeignKeyActions(t *testing.T) {
	ctx := context.Background()
	applier, db := newTestApplier(t)

	_, err := applier.Apply(ctx, DefaultSteps())
	require.NoError(t, err)

	exec := func(stmt string, args ...any) {
		t.Helper()
		require.NoError(t, db.Exec(stmt, args...).Error)
	}
	count := func(table string) int64 {
		var n int64
		require.NoError(t, db.Table(table).Count(&n).Error)
		return n
	}

	exec(`INSERT INTO users (id, email, password_hash, full_name) VALUES (1, 'a@lab.test', 'x', 'A')`)
	exec(`INSERT INTO projects (id, name, created_by) VALUES (1, 'Cancer Study', 1)`)
	exec(`INSERT INTO sub_projects (id, project_id, name) VALUES (1, 1, 'Cell Line A')`)
	exec(`INSERT INTO categories (id, sub_project_id, name) VALUES (1, 1, 'Assays')`)
	exec(`INSERT INTO experiments (id, title, protocol_type, assignee, category_id) VALUES (1, 'PCR-001', 'PCR', 'A', 1)`)

	err = db.Exec(`INSERT INTO categories (sub_project_id, name) VALUES (99, 'Orphan')`).Error
	require.Error(t, err)
	assert.ErrorIs(t, database.TranslateError(err), apperror.ErrIntegrityViolation)

	exec(`DELETE FROM projects WHERE id = 1`)
	assert.Zero(t, count("sub_projects"))
	assert.Zero(t, count("categories"))
	assert.Equal(t, int64(1), count("experiments"))

	var categoryID sql.NullInt64
	require.NoError(t, db.Raw(`SELECT category_id FROM experiments WHERE id = 1`).Row().Scan(&categoryID))
	assert.False(t, categoryID.Valid)

	var color string
	exec(`INSERT INTO projects (id, name) VALUES (2, 'P')`)
	exec(`INSERT INTO sub_projects (id, project_id, name) VALUES (2, 2, 'S')`)
	exec(`INSERT INTO categories (id, sub_project_id, name) VALUES (2, 2, 'C')`)
	require.NoError(t, db.Raw(`SELECT color FROM categories WHERE id = 2`).Scan(&color).Error)
	assert.Equal(t, "#3b82f6", color)
}
