package schema

import (
	"context"
	"database/sql"

	"go.uber.org/zap"
	"liyu1981.xyz/home-controller-schema/pkg/common"
)

// Execer runs a statement. *sql.DB, *sql.Tx, *sql.Conn and gorm.ConnPool
// all satisfy it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Apply creates the controller tables in order. It stops at the first
// failing statement; tables created before it are left in place.
func Apply(ctx context.Context, conn Execer) error {
	logger := common.GetLoggerWith(
		common.LoggerNameSchema,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryApply),
	)

	for _, t := range tables {
		if _, err := conn.ExecContext(ctx, t.DDL); err != nil {
			logger.Error("Create table failed", zap.String("table", t.Name), zap.Error(err))
			return &Error{Op: OpApply, Table: t.Name, Err: err}
		}
		logger.Debug("Created table", zap.String("table", t.Name))
	}

	logger.Info("Schema applied", zap.Int("tables", len(tables)))
	return nil
}

// Revert drops the controller tables in reverse creation order. Missing
// tables are skipped, so it can run any number of times.
func Revert(ctx context.Context, conn Execer) error {
	logger := common.GetLoggerWith(
		common.LoggerNameSchema,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryRevert),
	)

	for i := len(tables) - 1; i >= 0; i-- {
		t := tables[i]
		if _, err := conn.ExecContext(ctx, t.DropDDL()); err != nil {
			logger.Error("Drop table failed", zap.String("table", t.Name), zap.Error(err))
			return &Error{Op: OpRevert, Table: t.Name, Err: err}
		}
		logger.Debug("Dropped table", zap.String("table", t.Name))
	}

	logger.Info("Schema reverted", zap.Int("tables", len(tables)))
	return nil
}
