package admin

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"liyu1981.xyz/home-controller-schema/pkg/common"
	"liyu1981.xyz/home-controller-schema/pkg/migrate"
	"liyu1981.xyz/home-controller-schema/pkg/schema"
)

func (a *Admin) runner() *migrate.Runner {
	return migrate.NewRunner(a.Db.Conn, migrate.Controller)
}

func versions(ms []migrate.Migration) []uint {
	return common.Mapper(ms, func(m migrate.Migration) uint { return m.Version })
}

func (a *Admin) status(ctx context.Context) (*migrate.SchemaStatus, error) {
	sqlDB, err := a.Db.SqlDB()
	if err != nil {
		return nil, err
	}

	migrations, err := a.runner().Status(ctx)
	if err != nil {
		return nil, err
	}

	report, err := schema.Inspect(ctx, sqlDB)
	if err != nil {
		return nil, err
	}

	return &migrate.SchemaStatus{Complete: report.Complete(), Report: report, Migrations: migrations}, nil
}

func (a *Admin) up(ctx context.Context) ([]uint, error) {
	logger := common.GetLoggerWith(common.LoggerNameAdmin, zap.String(common.LoggerFieldCategory, common.LoggerCategoryApply))

	ran, err := a.runner().Up(ctx)
	applied := versions(ran)
	if err != nil {
		logger.Error("Schema up failed", zap.Uints("applied", applied), zap.Error(err))
		return applied, err
	}

	logger.Info("Schema up", zap.Uints("applied", applied))
	return applied, nil
}

func (a *Admin) down(ctx context.Context, steps int) ([]uint, error) {
	logger := common.GetLoggerWith(common.LoggerNameAdmin, zap.String(common.LoggerFieldCategory, common.LoggerCategoryRevert))

	ran, err := a.runner().Down(ctx, steps)
	reverted := versions(ran)
	if err != nil {
		logger.Error("Schema down failed", zap.Uints("reverted", reverted), zap.Error(err))
		return reverted, err
	}

	logger.Info("Schema down", zap.Int("steps", steps), zap.Uints("reverted", reverted))
	return reverted, nil
}

func (a *Admin) ddl(ctx context.Context) (string, error) {
	sqlDB, err := a.Db.SqlDB()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := schema.Dump(ctx, sqlDB, &sb); err != nil && !errors.Is(err, schema.ErrNoTables) {
		return "", err
	}
	return sb.String(), nil
}

type ISchemaImpl struct {
	admin *Admin
}

func (is *ISchemaImpl) Status(ctx context.Context) (*migrate.SchemaStatus, error) {
	return is.admin.status(ctx)
}

func (is *ISchemaImpl) Up(ctx context.Context) ([]uint, error) {
	return is.admin.up(ctx)
}

func (is *ISchemaImpl) Down(ctx context.Context, steps int) ([]uint, error) {
	return is.admin.down(ctx, steps)
}

func (is *ISchemaImpl) DDL(ctx context.Context) (string, error) {
	return is.admin.ddl(ctx)
}

func (a *Admin) GetISchema() ISchema {
	return &ISchemaImpl{admin: a}
}
