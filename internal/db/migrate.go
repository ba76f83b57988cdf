package db

import (
	"voucher_market/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
)

// Models lists every table in dependency order
func Models() []any {
	return []any{
		&domain.Identity{},
		&domain.Affiliate{},
		&domain.Member{},
		&domain.Vendor{},
		&domain.Admin{},
		&domain.Category{},
		&domain.Voucher{},
		&domain.Order{},
		&domain.OrderLine{},
		&domain.Commission{},
		&domain.Redemption{},
	}
}

// Open connects to MySQL with the settings shared by server and migrator
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

// AutoMigrate creates or updates tables, foreign keys and indexes
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Migrate performs automatic migration for the database schema
func Migrate(dsn string) {
	db, err := Open(dsn)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	logrus.Info("Migration completed.")
}
