package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-symptomcheck-be/internal/repository/implementation"
	"ai-symptomcheck-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	repo := implementation.NewDocChunkRepository(gormDB)

	// Verify Data Access (implies table and columns exist)
	t.Run("Check DocChunk Repository", func(t *testing.T) {
		tenant := os.Getenv("TENANT")
		if tenant == "" {
			tenant = "CA-ON"
		}
		count, err := repo.Count(context.Background(), tenant)
		assert.NoError(t, err)
		t.Logf("DocChunk count for %s: %d", tenant, count)
	})

	t.Run("Check Keyword Search", func(t *testing.T) {
		_, err := repo.SearchKeyword(context.Background(), "fever", 3, os.Getenv("TENANT"), "en")
		assert.NoError(t, err)
	})
}
