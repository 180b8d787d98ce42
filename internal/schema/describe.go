package schema

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sort"
	"strings"

	"gorm.io/gorm"
)

type ColumnInfo struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	Default    string `json:"default,omitempty"`
	PrimaryKey bool   `json:"primary_key,omitempty"`
}

type IndexInfo struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique,omitempty"`
}

type TableInfo struct {
	Name    string       `json:"name"`
	Columns []ColumnInfo `json:"columns"`
	Indexes []IndexInfo  `json:"indexes"`
}

func (t TableInfo) Column(name string) (ColumnInfo, bool) {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return ColumnInfo{}, false
}

func (t TableInfo) Index(name string) (IndexInfo, bool) {
	for _, idx := range t.Indexes {
		if strings.EqualFold(idx.Name, name) {
			return idx, true
		}
	}
	return IndexInfo{}, false
}

// Snapshot is the live structure of the database at one point in time.
type Snapshot struct {
	Tables map[string]TableInfo `json:"tables"`
}

func (s Snapshot) Table(name string) (TableInfo, bool) {
	t, ok := s.Tables[name]
	return t, ok
}

func (s Snapshot) HasTable(name string) bool {
	_, ok := s.Tables[name]
	return ok
}

// TableNames returns the table names in alphabetical order.
func (s Snapshot) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe reads tables, columns and indexes from the database behind db.
// Pass a transaction to see its uncommitted changes.
func Describe(ctx context.Context, db *gorm.DB) (Snapshot, error) {
	db = db.WithContext(ctx)
	dialect := db.Dialector.Name()
	migrator := db.Migrator()

	tables, err := migrator.GetTables()
	if err != nil {
		return Snapshot{}, fmt.Errorf("list tables: %w", err)
	}

	snapshot := Snapshot{Tables: make(map[string]TableInfo, len(tables))}
	for _, table := range tables {
		if strings.HasPrefix(table, "sqlite_") {
			continue
		}

		var columns []ColumnInfo
		switch dialect {
		case dialectSQLite:
			columns, err = describeSQLiteColumns(db, table)
		case dialectPostgres:
			columns, err = describePostgresColumns(db, table)
		default:
			err = fmt.Errorf("unsupported dialect %q", dialect)
		}
		if err != nil {
			return Snapshot{}, fmt.Errorf("describe columns of %s: %w", table, err)
		}

		indexes, err := migrator.GetIndexes(table)
		if err != nil {
			return Snapshot{}, fmt.Errorf("describe indexes of %s: %w", table, err)
		}

		info := TableInfo{Name: table, Columns: columns}
		for _, idx := range indexes {
			unique, _ := idx.Unique()
			primary, _ := idx.PrimaryKey()
			if primary {
				continue
			}
			info.Indexes = append(info.Indexes, IndexInfo{
				Name:    idx.Name(),
				Columns: slices.Clone(idx.Columns()),
				Unique:  unique,
			})
		}
		sort.Slice(info.Indexes, func(i, j int) bool { return info.Indexes[i].Name < info.Indexes[j].Name })

		snapshot.Tables[table] = info
	}

	return snapshot, nil
}

func describeSQLiteColumns(db *gorm.DB, table string) ([]ColumnInfo, error) {
	var rows []struct {
		Name      string
		Type      string
		Notnull   int
		DfltValue sql.NullString
		Pk        int
	}
	err := db.Raw(`SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`, table).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	columns := make([]ColumnInfo, 0, len(rows))
	for _, r := range rows {
		columns = append(columns, ColumnInfo{
			Name:       r.Name,
			Type:       r.Type,
			Nullable:   r.Notnull == 0 && r.Pk == 0,
			Default:    r.DfltValue.String,
			PrimaryKey: r.Pk > 0,
		})
	}
	return columns, nil
}

func describePostgresColumns(db *gorm.DB, table string) ([]ColumnInfo, error) {
	var rows []struct {
		ColumnName             string
		DataType               string
		IsNullable             string
		ColumnDefault          sql.NullString
		CharacterMaximumLength sql.NullInt64
		NumericPrecision       sql.NullInt64
		NumericScale           sql.NullInt64
	}
	err := db.Raw(`SELECT column_name, data_type, is_nullable, column_default,
		character_maximum_length, numeric_precision, numeric_scale
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = ?
		ORDER BY ordinal_position`, table).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var primaryKeys []string
	err = db.Raw(`SELECT a.attname FROM pg_index i
		JOIN pg_attribute a ON a.attrelid = i.indrelid AND a.attnum = ANY(i.indkey)
		WHERE i.indrelid = to_regclass(?) AND i.indisprimary`, table).Scan(&primaryKeys).Error
	if err != nil {
		return nil, err
	}

	columns := make([]ColumnInfo, 0, len(rows))
	for _, r := range rows {
		typ := r.DataType
		switch {
		case r.CharacterMaximumLength.Valid:
			typ = fmt.Sprintf("%s(%d)", typ, r.CharacterMaximumLength.Int64)
		case typ == "numeric" && r.NumericPrecision.Valid:
			typ = fmt.Sprintf("numeric(%d,%d)", r.NumericPrecision.Int64, r.NumericScale.Int64)
		}
		columns = append(columns, ColumnInfo{
			Name:       r.ColumnName,
			Type:       typ,
			Nullable:   r.IsNullable == "YES",
			Default:    r.ColumnDefault.String,
			PrimaryKey: slices.Contains(primaryKeys, r.ColumnName),
		})
	}
	return columns, nil
}

// typeFamily groups database types that are interchangeable for the
// purpose of deciding whether an existing column satisfies a step.
func typeFamily(typ string) string {
	t := strings.ToLower(strings.TrimSpace(typ))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}

	switch t {
	case "varchar", "character varying", "text", "char", "character", "citext", "clob":
		return "text"
	case "serial", "integer", "int", "int2", "int4", "int8", "bigint", "smallint", "bigserial":
		return "integer"
	case "numeric", "decimal":
		return "numeric"
	case "real", "float", "float4", "float8", "double", "double precision":
		return "real"
	case "date":
		return "date"
	case "timestamp", "timestamptz", "datetime",
		"timestamp without time zone", "timestamp with time zone":
		return "timestamp"
	case "boolean", "bool":
		return "boolean"
	}
	return t
}

func sameTypeFamily(a, b string) bool {
	return typeFamily(a) == typeFamily(b)
}
