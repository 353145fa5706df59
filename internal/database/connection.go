// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/artmarket-backend/internal/config"
	"github.com/javajoker/artmarket-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.TokenOwnership{},
		&models.RoleGrant{},
		&models.Account{},
		&models.LedgerEntry{},
		&models.Deposit{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)",

		// Asset registry indexes
		"CREATE INDEX IF NOT EXISTS idx_token_ownerships_owner ON token_ownerships(owner)",
		"CREATE INDEX IF NOT EXISTS idx_role_grants_identity ON role_grants(identity)",

		// Ledger indexes
		"CREATE INDEX IF NOT EXISTS idx_ledger_entries_from ON ledger_entries(from_identity)",
		"CREATE INDEX IF NOT EXISTS idx_ledger_entries_to ON ledger_entries(to_identity)",
		"CREATE INDEX IF NOT EXISTS idx_ledger_entries_kind_created ON ledger_entries(kind, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_deposits_user_status ON deposits(user_id, status)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}
