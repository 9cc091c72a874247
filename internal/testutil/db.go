// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DatabaseDSNEnv names the variable holding the integration test database DSN.
const DatabaseDSNEnv = "TEST_DATABASE_DSN"

// SetupTestDB opens the PostgreSQL database named by TEST_DATABASE_DSN and
// auto-migrates the provided models. The test is skipped when the variable is unset.
func SetupTestDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()

	dsn := os.Getenv(DatabaseDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set, skipping integration test", DatabaseDSNEnv)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("Failed to migrate test database: %v", err)
		}
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
