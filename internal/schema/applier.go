package schema

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dsnakex/Biotech-Dashboard/internal/apperror"
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Status string

const (
	// StatusApplied: the step changed the schema in this run.
	StatusApplied Status = "applied"
	// StatusSkipped: the schema already satisfied the step.
	StatusSkipped Status = "skipped"
	// StatusPending: Plan only, the step would be applied.
	StatusPending Status = "pending"
	// StatusConflict: the target exists with an incompatible definition.
	StatusConflict Status = "conflict"
	// StatusBlocked: a table the step depends on is missing.
	StatusBlocked Status = "blocked"
)

type StepResult struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	Err    error  `json:"-"`
}

// Bookkeeping is created before any other step so that runs can be recorded.
var Bookkeeping = CreateTable("000_create_schema_migrations", "schema_migrations",
	Column{Name: "name", Type: "VARCHAR(255)", PrimaryKey: true},
	Column{Name: "applied_at", Type: "TIMESTAMP", NotNull: true, Default: "CURRENT_TIMESTAMP"},
)

type Applier struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewApplier(db *gorm.DB, logger *zap.SugaredLogger) *Applier {
	return &Applier{db: db, logger: logger}
}

// Apply runs steps in order. A step whose target already exists with a
// compatible definition is skipped. The first failing step halts the run;
// its error is a *apperror.MigrationError wrapping ErrNotFound (missing
// dependency) or ErrConflict (incompatible structure).
func (a *Applier) Apply(ctx context.Context, steps []Step) ([]StepResult, error) {
	if err := ValidateSteps(steps); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constant.MIGRATION_TIMEOUT_DURATION)
	defer cancel()

	if !slices.ContainsFunc(steps, func(s Step) bool { return s.Table == Bookkeeping.Table && s.Kind == KindCreateTable }) {
		if _, err := a.applyStep(ctx, Bookkeeping); err != nil {
			return nil, err
		}
	}

	results := make([]StepResult, 0, len(steps))
	for _, step := range steps {
		status, err := a.applyStep(ctx, step)
		if err != nil {
			a.logger.Errorf("Migration step %s failed: %v", step.Name, err)
			return results, err
		}

		a.logger.Infof("Migration step %s: %s", step.Name, status)
		results = append(results, StepResult{Name: step.Name, Status: status})
	}

	return results, nil
}

func (a *Applier) applyStep(ctx context.Context, step Step) (Status, error) {
	snapshot, err := Describe(ctx, a.db)
	if err != nil {
		return "", &apperror.MigrationError{Step: step.Name, Err: err}
	}

	satisfied, err := evaluate(snapshot, step)
	if err != nil {
		return "", &apperror.MigrationError{Step: step.Name, Err: err}
	}

	if satisfied {
		if snapshot.HasTable(Bookkeeping.Table) {
			if err := record(a.db.WithContext(ctx), step.Name); err != nil {
				return "", &apperror.MigrationError{Step: step.Name, Err: err}
			}
		}
		return StatusSkipped, nil
	}

	ddl, err := RenderDDL(a.db.Dialector.Name(), step)
	if err != nil {
		return "", &apperror.MigrationError{Step: step.Name, Err: err}
	}

	a.logger.Debugf("Migration step %s: %s", step.Name, ddl)

	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(ddl).Error; err != nil {
			return err
		}

		after, err := Describe(ctx, tx)
		if err != nil {
			return err
		}
		ok, err := evaluate(after, step)
		if err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		if !ok {
			return fmt.Errorf("verify: %s %s not visible after apply", step.Kind, step.Table)
		}

		if after.HasTable(Bookkeeping.Table) {
			return record(tx, step.Name)
		}
		return nil
	})
	if err != nil {
		return "", &apperror.MigrationError{Step: step.Name, Err: err}
	}

	return StatusApplied, nil
}

// Plan reports what Apply would do without changing the database. Pending
// steps are simulated so that later steps see the tables they create.
func (a *Applier) Plan(ctx context.Context, steps []Step) ([]StepResult, error) {
	if err := ValidateSteps(steps); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	snapshot, err := Describe(ctx, a.db)
	if err != nil {
		return nil, err
	}

	results := make([]StepResult, 0, len(steps))
	for _, step := range steps {
		satisfied, err := evaluate(snapshot, step)
		switch {
		case errors.Is(err, apperror.ErrNotFound):
			results = append(results, StepResult{Name: step.Name, Status: StatusBlocked, Err: err})
		case err != nil:
			results = append(results, StepResult{Name: step.Name, Status: StatusConflict, Err: err})
		case satisfied:
			results = append(results, StepResult{Name: step.Name, Status: StatusSkipped})
		default:
			snapshot = simulate(snapshot, step)
			results = append(results, StepResult{Name: step.Name, Status: StatusPending})
		}
	}

	return results, nil
}

// History returns the recorded step names with the time they were first seen satisfied.
func (a *Applier) History(ctx context.Context) ([]model.SchemaMigration, error) {
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if !a.db.WithContext(ctx).Migrator().HasTable(Bookkeeping.Table) {
		return nil, nil
	}

	var history []model.SchemaMigration
	if err := a.db.WithContext(ctx).Order("name asc").Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

func record(db *gorm.DB, name string) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.SchemaMigration{Name: name, AppliedAt: time.Now().UTC()}).Error
}

// evaluate reports whether snapshot already satisfies step. It returns an
// error wrapping ErrNotFound when a dependency is missing and ErrConflict
// when the target exists but does not match the step.
func evaluate(snapshot Snapshot, step Step) (bool, error) {
	var missing []string
	for _, table := range step.Dependencies() {
		if !snapshot.HasTable(table) {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return false, fmt.Errorf("missing table %s: %w", strings.Join(missing, ", "), apperror.ErrNotFound)
	}

	table, exists := snapshot.Table(step.Table)

	switch step.Kind {
	case KindCreateTable:
		if !exists {
			return false, nil
		}
		for _, want := range step.Columns {
			got, ok := table.Column(want.Name)
			if !ok {
				return false, fmt.Errorf("table %s exists without column %s: %w", step.Table, want.Name, apperror.ErrConflict)
			}
			if !sameTypeFamily(got.Type, want.Type) {
				return false, fmt.Errorf("column %s.%s is %s, want %s: %w", step.Table, want.Name, got.Type, want.Type, apperror.ErrConflict)
			}
		}
		return true, nil

	case KindAddColumn:
		got, ok := table.Column(step.Column.Name)
		if !ok {
			return false, nil
		}
		if !sameTypeFamily(got.Type, step.Column.Type) {
			return false, fmt.Errorf("column %s.%s is %s, want %s: %w", step.Table, step.Column.Name, got.Type, step.Column.Type, apperror.ErrConflict)
		}
		return true, nil

	case KindCreateIndex:
		for _, c := range step.Index.Columns {
			if _, ok := table.Column(c); !ok {
				return false, fmt.Errorf("index %s needs missing column %s.%s: %w", step.Index.Name, step.Table, c, apperror.ErrNotFound)
			}
		}
		got, ok := table.Index(step.Index.Name)
		if !ok {
			// index names are global on postgres
			for _, other := range snapshot.Tables {
				if _, clash := other.Index(step.Index.Name); clash {
					return false, fmt.Errorf("index %s exists on table %s: %w", step.Index.Name, other.Name, apperror.ErrConflict)
				}
			}
			return false, nil
		}
		if !slices.Equal(got.Columns, step.Index.Columns) || got.Unique != step.Index.Unique {
			return false, fmt.Errorf("index %s covers (%s), want (%s): %w", step.Index.Name, strings.Join(got.Columns, ", "), strings.Join(step.Index.Columns, ", "), apperror.ErrConflict)
		}
		return true, nil
	}

	return false, fmt.Errorf("unknown kind %q", step.Kind)
}

// simulate returns a copy of snapshot with step applied.
func simulate(snapshot Snapshot, step Step) Snapshot {
	tables := make(map[string]TableInfo, len(snapshot.Tables)+1)
	for name, t := range snapshot.Tables {
		tables[name] = t
	}

	columnInfo := func(c Column) ColumnInfo {
		return ColumnInfo{Name: c.Name, Type: c.Type, Nullable: !c.NotNull && !c.PrimaryKey, Default: c.Default, PrimaryKey: c.PrimaryKey}
	}

	table := tables[step.Table]
	table.Name = step.Table
	switch step.Kind {
	case KindCreateTable:
		table.Columns = nil
		for _, c := range step.Columns {
			table.Columns = append(table.Columns, columnInfo(c))
		}
	case KindAddColumn:
		table.Columns = append(slices.Clone(table.Columns), columnInfo(step.Column))
	case KindCreateIndex:
		table.Indexes = append(slices.Clone(table.Indexes), IndexInfo{Name: step.Index.Name, Columns: step.Index.Columns, Unique: step.Index.Unique})
	}
	tables[step.Table] = table

	return Snapshot{Tables: tables}
}
