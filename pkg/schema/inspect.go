package schema

import (
	"context"
	"database/sql"
	"slices"

	"go.uber.org/zap"
	"liyu1981.xyz/home-controller-schema/pkg/common"
)

// Queryer runs a read query. *sql.DB, *sql.Tx, *sql.Conn and gorm.ConnPool
// all satisfy it.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const queryUserTables = `SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`

type TableState struct {
	Name    string `json:"name"`
	Present bool   `json:"present"`
	Rows    int64  `json:"rows"`
}

// Report is a snapshot of which controller tables exist in a database.
type Report struct {
	Tables []TableState `json:"tables"`
	// Foreign lists user tables that are not controller tables, such as
	// migration bookkeeping.
	Foreign []string `json:"foreign,omitempty"`
}

func (r *Report) Present() []string {
	return common.Mapper(
		common.Filter(r.Tables, func(t TableState) bool { return t.Present }),
		func(t TableState) string { return t.Name },
	)
}

func (r *Report) Missing() []string {
	return common.Mapper(
		common.Filter(r.Tables, func(t TableState) bool { return !t.Present }),
		func(t TableState) string { return t.Name },
	)
}

// Complete is true when every controller table exists.
func (r *Report) Complete() bool {
	return len(r.Missing()) == 0
}

// Empty is true when no controller table exists.
func (r *Report) Empty() bool {
	return len(r.Present()) == 0
}

// UserTables lists every non-internal table in the database, sorted by name.
func UserTables(ctx context.Context, q Queryer) ([]string, error) {
	rows, err := q.QueryContext(ctx, queryUserTables)
	if err != nil {
		return nil, &Error{Op: OpInspect, Err: err}
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &Error{Op: OpInspect, Err: err}
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Op: OpInspect, Err: err}
	}
	return names, nil
}

// Inspect reports which controller tables exist and how many rows each holds.
func Inspect(ctx context.Context, q Queryer) (*Report, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameSchema,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryInspect),
	)

	existing, err := UserTables(ctx, q)
	if err != nil {
		return nil, err
	}

	known := TableNames()
	report := &Report{
		Foreign: common.Filter(existing, func(name string) bool { return !slices.Contains(known, name) }),
	}

	for _, name := range known {
		state := TableState{Name: name, Present: slices.Contains(existing, name)}
		if state.Present {
			if state.Rows, err = countRows(ctx, q, name); err != nil {
				return nil, err
			}
		}
		report.Tables = append(report.Tables, state)
	}

	logger.Debug("Inspected schema",
		zap.Strings("present", report.Present()),
		zap.Strings("foreign", report.Foreign),
	)
	return report, nil
}

// name is always one of the controller tables, never caller input.
func countRows(ctx context.Context, q Queryer, name string) (int64, error) {
	rows, err := q.QueryContext(ctx, `SELECT count(*) FROM "`+name+`"`)
	if err != nil {
		return 0, &Error{Op: OpInspect, Table: name, Err: err}
	}
	defer rows.Close()

	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, &Error{Op: OpInspect, Table: name, Err: err}
		}
	}
	if err := rows.Err(); err != nil {
		return 0, &Error{Op: OpInspect, Table: name, Err: err}
	}
	return n, nil
}

type Column struct {
	Name    string
	Type    string
	NotNull bool
	PK      bool
	// Default is the declared default expression as written, nil if none.
	Default *string
}

// Columns returns the declared columns of table in declaration order.
func Columns(ctx context.Context, q Queryer, table string) ([]Column, error) {
	rows, err := q.QueryContext(ctx, `SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, &Error{Op: OpInspect, Table: table, Err: err}
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var (
			c       Column
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&c.Name, &c.Type, &notNull, &dflt, &pk); err != nil {
			return nil, &Error{Op: OpInspect, Table: table, Err: err}
		}
		c.NotNull = notNull != 0
		c.PK = pk != 0
		if dflt.Valid {
			c.Default = &dflt.String
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Op: OpInspect, Table: table, Err: err}
	}
	return cols, nil
}
