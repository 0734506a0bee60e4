package schema

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"liyu1981.xyz/home-controller-schema/pkg/common"
)

var dumpHeader = []string{
	"-- SQL DDL generated from SQLite database",
	"-- Using SELECT sql FROM sqlite_master",
	"-- Contains CREATE TABLE statements only (no DROP tables)",
}

// Dump writes the stored CREATE TABLE statement of every user table in the
// database to w, sorted by table name, after a comment header. It writes
// nothing and returns ErrNoTables when there is nothing to dump.
func Dump(ctx context.Context, q Queryer, w io.Writer) error {
	logger := common.GetLoggerWith(
		common.LoggerNameSchema,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryDump),
	)

	statements, err := storedDDL(ctx, q, OpDump)
	if err != nil {
		return err
	}
	if len(statements) == 0 {
		logger.Warn("No user tables found in database")
		return ErrNoTables
	}

	for _, line := range dumpHeader {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return &Error{Op: OpDump, Err: err}
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return &Error{Op: OpDump, Err: err}
	}

	for _, s := range statements {
		if _, err := fmt.Fprintf(w, "%s;\n\n", s.DDL); err != nil {
			return &Error{Op: OpDump, Table: s.Name, Err: err}
		}
	}

	logger.Info("Dumped schema", zap.Int("tables", len(statements)))
	return nil
}

// storedDDL reads the CREATE statement of every user table as sqlite keeps it.
func storedDDL(ctx context.Context, q Queryer, op Op) ([]Table, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT name, sql FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	defer rows.Close()

	var out []Table
	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.Name, &t.DDL); err != nil {
			return nil, &Error{Op: op, Err: err}
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	return out, nil
}
