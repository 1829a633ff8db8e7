package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"liyu1981.xyz/vigilant/pkg/common"
	"liyu1981.xyz/vigilant/pkg/models"
)

const DefaultDbPath = "vigilant.db"

type DB struct {
	Conn *gorm.DB
}

// Open connects, migrates the rigs/heartbeats schema and applies the sqlite
// pragmas. The caller owns the handle and must Close it.
func Open(dialector gorm.Dialector) (*DB, error) {
	log := common.GetLogger()

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	log.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}
	// sqlite allows one writer; transactions queue on this single connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	instance := &DB{Conn: conn}

	if err := instance.Conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		_ = instance.Close()
		return nil, fmt.Errorf("enable sqlite foreign key support: %w", err)
	}

	if err := instance.Conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
		_ = instance.Close()
		return nil, fmt.Errorf("set sqlite journal mode: %w", err)
	}

	if err := instance.Conn.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
		_ = instance.Close()
		return nil, fmt.Errorf("set sqlite busy timeout: %w", err)
	}

	if err := instance.Conn.AutoMigrate(&models.Rig{}, &models.Heartbeat{}); err != nil {
		_ = instance.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	log.Info("Database migration completed")

	return instance, nil
}

func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.Conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *DB) Close() error {
	sqlDB, err := d.Conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func UseSqliteDialector(dbPath string) gorm.Dialector {
	if dbPath == "" {
		dbPath = DefaultDbPath
	}
	return sqlite.Open(dbPath)
}

// UseMemorySqliteDialector returns a private in-memory database. Distinct
// names give distinct databases, which keeps tests isolated.
func UseMemorySqliteDialector(name string) gorm.Dialector {
	if name == "" {
		name = "vigilant"
	}
	return sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
}
