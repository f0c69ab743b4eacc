package db

import (
	"fmt"

	"github.com/linskybing/admission-portal/internal/config"
	"github.com/linskybing/admission-portal/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open connects to the database selected by config.DbDriver.
func Open() (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch config.DbDriver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			config.DbHost,
			config.DbPort,
			config.DbUser,
			config.DbPassword,
			config.DbName,
		)
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(config.DbPath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", config.DbDriver)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", config.DbDriver, err)
	}
	return gormDB, nil
}

func Init() error {
	gormDB, err := Open()
	if err != nil {
		return err
	}
	DB = gormDB
	log := logger.With("db")
	log.Info().Str("driver", config.DbDriver).Msg("Database connected")
	return nil
}

func InitWithGormDB(gormDB *gorm.DB) {
	DB = gormDB
}
