package schema

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"liyu1981.xyz/home-controller-schema/pkg/common"
)

// Split writes one migration directory per user table of the database under
// root, each holding up.sql with the stored CREATE statement and down.sql
// dropping the table. It returns the tables written, or ErrNoTables without
// touching fs when the database has none.
func Split(ctx context.Context, q Queryer, fs afero.Fs, root string) ([]string, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameSchema,
		zap.String(common.LoggerFieldCategory, common.LoggerCategorySplit),
	)

	statements, err := storedDDL(ctx, q, OpSplit)
	if err != nil {
		return nil, err
	}
	if len(statements) == 0 {
		logger.Warn("No user tables found in database")
		return nil, ErrNoTables
	}

	if err := fs.MkdirAll(root, 0o755); err != nil {
		return nil, &Error{Op: OpSplit, Err: err}
	}

	written := make([]string, 0, len(statements))
	for _, t := range statements {
		dir := filepath.Join(root, t.Name)
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return written, &Error{Op: OpSplit, Table: t.Name, Err: err}
		}
		if err := afero.WriteFile(fs, filepath.Join(dir, "up.sql"), []byte(t.DDL+";\n"), 0o644); err != nil {
			return written, &Error{Op: OpSplit, Table: t.Name, Err: err}
		}
		if err := afero.WriteFile(fs, filepath.Join(dir, "down.sql"), []byte(t.DropDDL()+";\n"), 0o644); err != nil {
			return written, &Error{Op: OpSplit, Table: t.Name, Err: err}
		}
		written = append(written, t.Name)
	}

	logger.Info("Split schema", zap.String("root", root), zap.Int("tables", len(written)))
	return written, nil
}
