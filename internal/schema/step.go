package schema

import (
	"fmt"
	"regexp"
	"slices"
)

type Kind string

const (
	KindCreateTable Kind = "create-table"
	KindAddColumn   Kind = "add-column"
	KindCreateIndex Kind = "create-index"
)

// TypeSerial declares an auto-increment integer primary key.
const TypeSerial = "SERIAL"

// Actions for Reference.OnDelete. The empty value declares no action: the
// parent row cannot be deleted while it is referenced.
const (
	OnDeleteCascade = "CASCADE"
	OnDeleteSetNull = "SET NULL"
)

type Reference struct {
	Table    string
	Column   string
	OnDelete string
}

type Column struct {
	Name       string
	Type       string
	PrimaryKey bool
	NotNull    bool
	Unique     bool
	// Default is a SQL literal or expression, e.g. "'medium'" or "CURRENT_TIMESTAMP".
	Default    string
	References *Reference
}

type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// Step is one forward, idempotent schema change. Exactly one of Columns,
// Column or Index is used depending on Kind.
type Step struct {
	Name      string
	Kind      Kind
	Table     string
	Columns   []Column
	Column    Column
	Index     Index
	DependsOn []string
}

func CreateTable(name, table string, columns ...Column) Step {
	return Step{Name: name, Kind: KindCreateTable, Table: table, Columns: columns}
}

func AddColumn(name, table string, column Column) Step {
	return Step{Name: name, Kind: KindAddColumn, Table: table, Column: column}
}

func CreateIndex(name, table string, index Index) Step {
	return Step{Name: name, Kind: KindCreateIndex, Table: table, Index: index}
}

// After adds explicit table dependencies to the step.
func (s Step) After(tables ...string) Step {
	s.DependsOn = append(slices.Clone(s.DependsOn), tables...)
	return s
}

// Dependencies lists the tables that must exist before the step can run:
// the declared ones, the tables its columns reference and, for add-column
// and create-index, the target table itself.
func (s Step) Dependencies() []string {
	var deps []string
	add := func(table string) {
		if table != "" && !slices.Contains(deps, table) {
			deps = append(deps, table)
		}
	}

	for _, table := range s.DependsOn {
		add(table)
	}

	switch s.Kind {
	case KindCreateTable:
		for _, c := range s.Columns {
			if c.References != nil && c.References.Table != s.Table {
				add(c.References.Table)
			}
		}
	case KindAddColumn:
		add(s.Table)
		if s.Column.References != nil {
			add(s.Column.References.Table)
		}
	case KindCreateIndex:
		add(s.Table)
	}

	return deps
}

var (
	identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	columnType = regexp.MustCompile(`^[A-Za-z][A-Za-z ]*(\(\s*\d+\s*(,\s*\d+\s*)?\))?$`)
)

func validateColumn(c Column) error {
	if !identifier.MatchString(c.Name) {
		return fmt.Errorf("invalid column name %q", c.Name)
	}
	if !columnType.MatchString(c.Type) {
		return fmt.Errorf("column %s: invalid type %q", c.Name, c.Type)
	}
	if c.References != nil {
		if !identifier.MatchString(c.References.Table) || !identifier.MatchString(c.References.Column) {
			return fmt.Errorf("column %s: invalid reference %s(%s)", c.Name, c.References.Table, c.References.Column)
		}
		switch c.References.OnDelete {
		case "", OnDeleteCascade, OnDeleteSetNull:
		default:
			return fmt.Errorf("column %s: unsupported ON DELETE %q", c.Name, c.References.OnDelete)
		}
		if c.References.OnDelete == OnDeleteSetNull && c.NotNull {
			return fmt.Errorf("column %s: ON DELETE SET NULL on a NOT NULL column", c.Name)
		}
	}
	if c.Type == TypeSerial && !c.PrimaryKey {
		return fmt.Errorf("column %s: %s is only allowed on the primary key", c.Name, TypeSerial)
	}
	return nil
}

// Validate checks the step definition without touching the database.
func (s Step) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("step without a name")
	}
	if !identifier.MatchString(s.Table) {
		return fmt.Errorf("step %s: invalid table name %q", s.Name, s.Table)
	}
	for _, table := range s.DependsOn {
		if !identifier.MatchString(table) {
			return fmt.Errorf("step %s: invalid dependency %q", s.Name, table)
		}
	}

	switch s.Kind {
	case KindCreateTable:
		if len(s.Columns) == 0 {
			return fmt.Errorf("step %s: table %s has no columns", s.Name, s.Table)
		}
		seen := map[string]bool{}
		primaryKeys := 0
		for _, c := range s.Columns {
			if err := validateColumn(c); err != nil {
				return fmt.Errorf("step %s: %w", s.Name, err)
			}
			if seen[c.Name] {
				return fmt.Errorf("step %s: duplicate column %s", s.Name, c.Name)
			}
			seen[c.Name] = true
			if c.PrimaryKey {
				primaryKeys++
			}
		}
		if primaryKeys > 1 {
			return fmt.Errorf("step %s: composite primary keys are not supported", s.Name)
		}
	case KindAddColumn:
		if err := validateColumn(s.Column); err != nil {
			return fmt.Errorf("step %s: %w", s.Name, err)
		}
		// SQLite cannot add these to an existing table.
		if s.Column.PrimaryKey || s.Column.Unique {
			return fmt.Errorf("step %s: cannot add a primary key or unique column", s.Name)
		}
		if s.Column.NotNull && s.Column.Default == "" {
			return fmt.Errorf("step %s: NOT NULL column %s needs a default", s.Name, s.Column.Name)
		}
	case KindCreateIndex:
		if !identifier.MatchString(s.Index.Name) {
			return fmt.Errorf("step %s: invalid index name %q", s.Name, s.Index.Name)
		}
		if len(s.Index.Columns) == 0 {
			return fmt.Errorf("step %s: index %s has no columns", s.Name, s.Index.Name)
		}
		for _, c := range s.Index.Columns {
			if !identifier.MatchString(c) {
				return fmt.Errorf("step %s: invalid index column %q", s.Name, c)
			}
		}
	default:
		return fmt.Errorf("step %s: unknown kind %q", s.Name, s.Kind)
	}

	return nil
}

// ValidateSteps checks every step and rejects duplicate names.
func ValidateSteps(steps []Step) error {
	names := make(map[string]bool, len(steps))
	for _, s := range steps {
		if err := s.Validate(); err != nil {
			return err
		}
		if names[s.Name] {
			return fmt.Errorf("duplicate step name %q", s.Name)
		}
		names[s.Name] = true
	}
	return nil
}
