package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqliteSchema mirrors the postgres tables the migrations create.
var sqliteSchema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		name TEXT,
		email TEXT NOT NULL UNIQUE,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE accounts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		provider TEXT NOT NULL,
		provider_account_id TEXT NOT NULL,
		access_token TEXT,
		refresh_token TEXT,
		id_token TEXT,
		expires_at INTEGER,
		scope TEXT,
		token_type TEXT,
		stripe_customer_id TEXT UNIQUE,
		is_subscribed BOOLEAN NOT NULL DEFAULT FALSE,
		subscription_status TEXT,
		subscription_event_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (provider, provider_account_id)
	)`,
	`CREATE TABLE stripe_webhook_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		stripe_event_id TEXT NOT NULL UNIQUE,
		event_type TEXT NOT NULL,
		status TEXT DEFAULT 'pending',
		processed_at DATETIME,
		data TEXT NOT NULL,
		processing_attempts INTEGER DEFAULT 0,
		last_error TEXT,
		created_at DATETIME,
		stripe_created_at DATETIME
	)`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: opens a fresh database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range sqliteSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}
