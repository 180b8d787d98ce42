package schema

import (
	"fmt"
	"strings"
)

const (
	dialectPostgres = "postgres"
	dialectSQLite   = "sqlite"
)

func renderColumn(dialect string, c Column) string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte(' ')

	if c.Type == TypeSerial {
		if dialect == dialectSQLite {
			b.WriteString("INTEGER PRIMARY KEY AUTOINCREMENT")
		} else {
			b.WriteString("SERIAL PRIMARY KEY")
		}
		return b.String()
	}

	b.WriteString(c.Type)
	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	if c.NotNull {
		b.WriteString(" NOT NULL")
	}
	if c.Unique {
		b.WriteString(" UNIQUE")
	}
	if c.Default != "" {
		b.WriteString(" DEFAULT ")
		b.WriteString(c.Default)
	}
	if ref := c.References; ref != nil {
		fmt.Fprintf(&b, " REFERENCES %s(%s)", ref.Table, ref.Column)
		if ref.OnDelete != "" {
			b.WriteString(" ON DELETE ")
			b.WriteString(ref.OnDelete)
		}
	}
	return b.String()
}

// RenderDDL returns the statement that applies the step on dialect.
func RenderDDL(dialect string, s Step) (string, error) {
	if dialect != dialectPostgres && dialect != dialectSQLite {
		return "", fmt.Errorf("unsupported dialect %q", dialect)
	}

	switch s.Kind {
	case KindCreateTable:
		columns := make([]string, 0, len(s.Columns))
		for _, c := range s.Columns {
			columns = append(columns, "\t"+renderColumn(dialect, c))
		}
		return fmt.Sprintf("CREATE TABLE %s (\n%s\n)", s.Table, strings.Join(columns, ",\n")), nil
	case KindAddColumn:
		return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", s.Table, renderColumn(dialect, s.Column)), nil
	case KindCreateIndex:
		unique := ""
		if s.Index.Unique {
			unique = "UNIQUE "
		}
		return fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)", unique, s.Index.Name, s.Table, strings.Join(s.Index.Columns, ", ")), nil
	}

	return "", fmt.Errorf("step %s: unknown kind %q", s.Name, s.Kind)
}
