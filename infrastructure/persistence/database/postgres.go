package database

import (
	"fmt"
	"time"

	"github.com/anjaliconnect/api/infrastructure/config"
	"github.com/anjaliconnect/api/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var dbClient *gorm.DB

func InitDb(cfg *config.Config, log *logger.Logger) error {
	db, err := gorm.Open(postgres.Open(cfg.GetPostgresConnectionString()), &gorm.Config{
		Logger: logger.NewGormLogger(log.Log),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}

	sqlDb, err := db.DB()
	if err != nil {
		return fmt.Errorf("postgres handle: %w", err)
	}

	if err := sqlDb.Ping(); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}

	sqlDb.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	sqlDb.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	sqlDb.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)

	dbClient = db
	log.Info("Db connection established",
		zap.String("host", cfg.Postgres.Host),
		zap.String("db", cfg.Postgres.DbName),
	)
	return nil
}

func GetDb() *gorm.DB {
	return dbClient
}

func CloseDb() {
	if dbClient == nil {
		return
	}
	if sqlDb, err := dbClient.DB(); err == nil {
		_ = sqlDb.Close()
	}
}
