package main

import (
	"voucher_market/internal/config" // Configuration
	"voucher_market/internal/db"     // Schema migration

	"github.com/sirupsen/logrus" // Logging library
)

// Main entry point for migration
func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())
}
