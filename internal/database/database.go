package database

import (
	"context"
	"fmt"
	"time"

	"userservice/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// tableOptions pins the schema to a 4-byte-safe charset with a case- and
// accent-insensitive collation, matching the original MySQL schema.
const tableOptions = "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_0900_ai_ci"

// Connect opens a pooled MySQL connection and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open mysql failed: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get mysql sql db failed: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping mysql failed: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the users and addresses tables, including the
// unique indexes, check constraints and the cascading foreign key.
func Migrate(db *gorm.DB) error {
	err := db.
		Set("gorm:table_options", tableOptions).
		AutoMigrate(&models.User{}, &models.Address{})
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
