package db

import (
	"context"
	"fmt"
	"time"

	"interviewhub/internal/logger"
	"interviewhub/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to PostgreSQL. The handle is returned rather than stored in
// a package variable; main passes it down to the services.
func Open(dsn string, log *logger.Logger) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), Config())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info("Database connection established")
	return gdb, nil
}

// Config is shared by the postgres connection and the sqlite test databases.
// TranslateError maps unique violations to gorm.ErrDuplicatedKey on both.
func Config() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}
}

func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Experience{},
		&models.Round{},
		&models.CodingQuestion{},
		&models.PlatformLink{},
		&models.Vote{},
		&models.Comment{},
		&models.View{},
		&models.SiteVisit{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

// SeedCompanies inserts a starter set of companies into an empty table.
func SeedCompanies(ctx context.Context, gdb *gorm.DB, log *logger.Logger) error {
	var count int64
	if err := gdb.WithContext(ctx).Model(&models.Company{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count companies: %w", err)
	}
	if count > 0 {
		log.Debug("Companies already seeded, skipping", "count", count)
		return nil
	}

	companies := []models.Company{
		{Name: "Google", Website: "https://careers.google.com", Industry: "Technology"},
		{Name: "Microsoft", Website: "https://careers.microsoft.com", Industry: "Technology"},
		{Name: "Amazon", Website: "https://amazon.jobs", Industry: "E-commerce"},
		{Name: "Goldman Sachs", Website: "https://www.goldmansachs.com/careers", Industry: "Finance"},
		{Name: "TCS", Website: "https://www.tcs.com/careers", Industry: "IT Services"},
		{Name: "Infosys", Website: "https://www.infosys.com/careers", Industry: "IT Services"},
	}
	if err := gdb.WithContext(ctx).Create(&companies).Error; err != nil {
		return fmt.Errorf("seed companies: %w", err)
	}
	log.Info("Initial companies created", "count", len(companies))
	return nil
}

// Ping is used by the health endpoint.
func Ping(ctx context.Context, gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
