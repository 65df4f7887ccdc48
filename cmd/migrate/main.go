package main

import (
	"flag" // Command line flags

	"invest_ledger/internal/config" // Custom import path (Config)
	"invest_ledger/internal/db"     // Custom import path (Database)
	"invest_ledger/internal/store"  // Connection helpers

	"github.com/sirupsen/logrus"
)

// Main entry point for migration
func main() {
	promote := flag.String("promote", "", "username to grant the admin role after migrating")
	flag.Parse()

	cfg := config.LoadConfig() // Load configuration

	// Database Source Name (DSN) for MySQL connection
	dsn := store.DSN(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
	conn, err := store.Open(dsn, false)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	if err := db.Migrate(conn, *promote); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
}
