package db

import (
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"posts-api/config"
	"posts-api/internal/logger"
	"posts-api/models"
)

// OpenPostgres connects GORM to Postgres through the lib/pq driver and, when
// enabled, syncs the posts schema.
func OpenPostgres(cfg config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := gormlogger.Silent
	if cfg.LogQueries {
		logLevel = gormlogger.Info
	}

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		DriverName: "postgres",
		DSN:        cfg.DSN(),
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Name, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if cfg.AutoMigrate {
		if err := migratePosts(gdb); err != nil {
			sqlDB.Close()
			return nil, err
		}
		logger.Log.Info("posts schema synchronized")
	}
	return gdb, nil
}

// ClosePostgres closes the pool behind gdb.
func ClosePostgres(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func migratePosts(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&models.Post{}); err != nil {
		return fmt.Errorf("auto migrate posts: %w", err)
	}
	// GIN index backs the tags && ARRAY[...] overlap filter.
	if err := gdb.Exec(`CREATE INDEX IF NOT EXISTS idx_posts_tags ON posts USING GIN (tags)`).Error; err != nil {
		return fmt.Errorf("create tags index: %w", err)
	}
	return nil
}
