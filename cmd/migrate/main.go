package main

import (
	"log"
	"os"

	"ai-symptomcheck-be/internal/model"
	"ai-symptomcheck-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions (GORM AutoMigrate does not manage these)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	if err := db.AutoMigrate(&model.DocChunk{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: search indexes AutoMigrate cannot express
	log.Println("Step 3: Creating Search Indexes...")

	postMigrationSQL := []string{
		// ANN index for the vector provider
		`CREATE INDEX IF NOT EXISTS idx_doc_chunks_embedding
		 ON doc_chunks USING hnsw (embedding vector_cosine_ops);`,

		// GIN index for the keyword provider's full-text search
		`CREATE INDEX IF NOT EXISTS idx_doc_chunks_text_fts
		 ON doc_chunks USING gin (to_tsvector('english', text));`,

		// Tenant/lang filter applied by both providers
		`CREATE INDEX IF NOT EXISTS idx_doc_chunks_tenant_lang
		 ON doc_chunks (tenant, lang);`,

		// A doc id maps to exactly one chunk row per index position
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_doc_chunks_doc_id
		 ON doc_chunks (doc_id);`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
