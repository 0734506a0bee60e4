package db

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"liyu1981.xyz/home-controller-schema/pkg/common"

	// registers the pure go "sqlite" database/sql driver
	_ "modernc.org/sqlite"
)

type DB struct {
	Conn *gorm.DB
}

var (
	instance *DB
	once     sync.Once
)

// Open connects with dialector. Each call returns a new handle.
func Open(dialector gorm.Dialector) (*DB, error) {
	logger := common.GetLogger()

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	// sqlite allows one writer; a single connection also keeps shared-cache
	// memory databases from reporting "database table is locked".
	sqlDB.SetMaxOpenConns(1)

	if err := conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to set sqlite journal mode: %w", err)
	}

	logger.Info("Connected to database with dialector", zap.String("dialector", dialector.Name()))

	return &DB{Conn: conn}, nil
}

// GetInstance returns the process wide handle, opening it on first use.
func GetInstance(dialector gorm.Dialector) *DB {
	once.Do(func() {
		var err error
		if instance, err = Open(dialector); err != nil {
			log.Fatal(err)
		}
	})
	return instance
}

func (d *DB) SqlDB() (*sql.DB, error) {
	return d.Conn.DB()
}

func (d *DB) Close() error {
	sqlDB, err := d.Conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// UseSqliteDialector opens dbPath with the cgo sqlite3 driver.
func UseSqliteDialector(dbPath string) gorm.Dialector {
	return sqlite.Open(dbPath)
}

// UsePureSqliteDialector opens dbPath with the pure go driver, for builds
// without cgo.
func UsePureSqliteDialector(dbPath string) gorm.Dialector {
	return &sqlite.Dialector{DriverName: "sqlite", DSN: dbPath}
}

// UseMemorySqliteDialector returns a fresh, uniquely named in-memory
// database, so separate handles never see each other's tables.
func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
}

func DialectorFromConfig(cfg common.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case common.DBTypeFile:
		return UseSqliteDialector(cfg.DBPath), nil
	case common.DBTypePure:
		return UsePureSqliteDialector(cfg.DBPath), nil
	case common.DBTypeMemory:
		return UseMemorySqliteDialector(), nil
	default:
		return nil, fmt.Errorf("unknown %s: %q", common.EnvKeyHCDBType, cfg.DBType)
	}
}
