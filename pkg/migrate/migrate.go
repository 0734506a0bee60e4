package migrate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/home-controller-schema/pkg/common"
	"liyu1981.xyz/home-controller-schema/pkg/models"
	"liyu1981.xyz/home-controller-schema/pkg/schema"
)

// Step runs one direction of a migration on the connection it is given.
type Step func(ctx context.Context, conn schema.Execer) error

type Migration struct {
	Version uint
	Name    string
	Up      Step
	Down    Step
}

// Controller is the migration list for the home controller database.
var Controller = []Migration{
	{Version: 1, Name: "create_controller_tables", Up: schema.Apply, Down: schema.Revert},
}

type Status struct {
	Version   uint       `json:"version"`
	Name      string     `json:"name"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
}

func (s Status) Applied() bool {
	return s.AppliedAt != nil
}

// SchemaStatus combines the table report with the migration history.
type SchemaStatus struct {
	Complete   bool           `json:"complete"`
	Report     *schema.Report `json:"report"`
	Migrations []Status       `json:"migrations"`
}

var ErrUnknownMigration = errors.New("applied migration is not in the migration list")

// Runner applies and reverts migrations, recording each in schema_migrations.
type Runner struct {
	Db         *gorm.DB
	Migrations []Migration
}

func NewRunner(conn *gorm.DB, migrations []Migration) *Runner {
	sorted := slices.Clone(migrations)
	slices.SortFunc(sorted, func(a, b Migration) int { return int(a.Version) - int(b.Version) })
	return &Runner{Db: conn, Migrations: sorted}
}

func (r *Runner) logger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameMigrate,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryMigrations),
	)
}

func (r *Runner) ensure(ctx context.Context) error {
	if err := r.Db.WithContext(ctx).AutoMigrate(&models.SchemaMigration{}); err != nil {
		return fmt.Errorf("failed to ensure migrations table: %w", err)
	}
	return nil
}

func (r *Runner) applied(ctx context.Context) ([]models.SchemaMigration, error) {
	var records []models.SchemaMigration
	if err := r.Db.WithContext(ctx).Order("version asc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	return records, nil
}

// Up applies every pending migration in version order. Each migration and
// its bookkeeping row commit together; the first failure stops the run.
func (r *Runner) Up(ctx context.Context) ([]Migration, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}

	records, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}
	done := map[uint]bool{}
	for _, rec := range records {
		done[rec.Version] = true
	}

	logger := r.logger()
	var ran []Migration
	for _, m := range r.Migrations {
		if done[m.Version] {
			continue
		}

		logger.Info("Applying migration", zap.Uint("version", m.Version), zap.String("name", m.Name))

		err := r.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Up(ctx, tx.Statement.ConnPool); err != nil {
				return err
			}
			return tx.Create(&models.SchemaMigration{
				Version:   m.Version,
				Name:      m.Name,
				AppliedAt: time.Now().UTC(),
			}).Error
		})
		if err != nil {
			logger.Error("Migration failed", zap.Uint("version", m.Version), zap.Error(err))
			return ran, fmt.Errorf("failed to apply migration %d %s: %w", m.Version, m.Name, err)
		}

		ran = append(ran, m)
	}

	logger.Info("Migrations up to date", zap.Int("applied", len(ran)))
	return ran, nil
}

// Down reverts the latest steps applied migrations, newest first.
// steps <= 0 reverts all of them.
func (r *Runner) Down(ctx context.Context, steps int) ([]Migration, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}

	records, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}
	slices.Reverse(records)
	if steps > 0 && steps < len(records) {
		records = records[:steps]
	}

	logger := r.logger()
	var ran []Migration
	for _, rec := range records {
		idx := slices.IndexFunc(r.Migrations, func(m Migration) bool { return m.Version == rec.Version })
		if idx < 0 {
			return ran, fmt.Errorf("%w: version %d", ErrUnknownMigration, rec.Version)
		}
		m := r.Migrations[idx]

		logger.Info("Reverting migration", zap.Uint("version", m.Version), zap.String("name", m.Name))

		err := r.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Down(ctx, tx.Statement.ConnPool); err != nil {
				return err
			}
			return tx.Delete(&models.SchemaMigration{}, m.Version).Error
		})
		if err != nil {
			logger.Error("Revert failed", zap.Uint("version", m.Version), zap.Error(err))
			return ran, fmt.Errorf("failed to revert migration %d %s: %w", m.Version, m.Name, err)
		}

		ran = append(ran, m)
	}

	return ran, nil
}

// Status lists every known migration with its applied time, if any.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	if err := r.ensure(ctx); err != nil {
		return nil, err
	}

	records, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}

	return common.Mapper(r.Migrations, func(m Migration) Status {
		s := Status{Version: m.Version, Name: m.Name}
		if i := slices.IndexFunc(records, func(rec models.SchemaMigration) bool { return rec.Version == m.Version }); i >= 0 {
			at := records[i].AppliedAt
			s.AppliedAt = &at
		}
		return s
	}), nil
}

// Version is the highest applied migration, or 0 when none is applied.
func (r *Runner) Version(ctx context.Context) (uint, error) {
	if err := r.ensure(ctx); err != nil {
		return 0, err
	}

	var version uint
	err := r.Db.WithContext(ctx).Model(&models.SchemaMigration{}).
		Select("COALESCE(MAX(version), 0)").Scan(&version).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}
