package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ai-symptomcheck-be/internal/config"
	"ai-symptomcheck-be/internal/model"
	"ai-symptomcheck-be/internal/repository/contract"
	"ai-symptomcheck-be/internal/repository/implementation"
	"ai-symptomcheck-be/pkg/database"
	"ai-symptomcheck-be/pkg/embedding"
	"ai-symptomcheck-be/pkg/utils"

	"github.com/fatih/color"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

const (
	chunkSize    = 400
	chunkOverlap = 60
)

type seedDoc struct {
	docId  string
	title  string
	url    string
	source string
	text   string
}

// A starter Ontario health corpus. Real deployments ingest the full
// document sets through a separate pipeline; this gives a fresh database
// enough coverage for local development.
var seedDocs = []seedDoc{
	{
		docId:  "oha-flu",
		title:  "Influenza (Flu) Overview",
		url:    "https://www.ontario.ca/page/flu-facts",
		source: "ontario-health",
		text: "Influenza is a respiratory infection caused by the influenza virus. Common symptoms include sudden fever, cough, muscle aches, headache, and fatigue. Most people recover within 7 to 10 days. Adults with the flu should rest, drink fluids, and may use acetaminophen or ibuprofen for fever and aches. " +
			"See a health care provider if flu symptoms last more than 10 days, if fever persists beyond three days, or if you have shortness of breath, chest pain, or signs of dehydration. People over 65, pregnant people, young children, and those with chronic conditions are at higher risk of complications.",
	},
	{
		docId:  "oha-fever-child",
		title:  "Fever in Children",
		url:    "https://www.ontario.ca/page/fever-children",
		source: "ontario-health",
		text:   "A fever is a temperature of 38 degrees Celsius or higher. In babies under three months, any fever requires immediate medical assessment. For older children, fever itself is not dangerous; watch how the child behaves. Offer fluids, keep the room comfortable, and use acetaminophen or ibuprofen dosed by weight if the child is uncomfortable.",
	},
	{
		docId:  "cps-fever-infant",
		title:  "Fever in Infants Under 3 Months",
		url:    "https://caringforkids.cps.ca/handouts/health-conditions-and-treatments/fever_and_temperature_taking",
		source: "caring-for-kids",
		text:   "Babies younger than three months with a rectal temperature of 38 degrees Celsius or higher should be seen by a doctor right away, even if they seem well. Young infants can have serious bacterial infections with few other signs. Do not give fever medicine before the baby is assessed unless directed by a provider.",
	},
	{
		docId:  "oha-chest-pain",
		title:  "Chest Pain: When to Seek Help",
		url:    "https://www.ontario.ca/page/chest-pain",
		source: "ontario-health",
		text:   "Chest pain with shortness of breath, sweating, nausea, or pain spreading to the arm, neck, or jaw can be a sign of a heart attack. Call 911 immediately. Do not drive yourself to the hospital. While waiting, stop all activity and sit or lie down.",
	},
	{
		docId:  "oha-sore-throat",
		title:  "Sore Throat and Strep",
		url:    "https://www.ontario.ca/page/sore-throat",
		source: "ontario-health",
		text:   "Most sore throats are viral and resolve on their own within a week. Gargling warm salt water and over-the-counter pain relief can help. See a provider if the sore throat lasts more than a week, is accompanied by a fever over 38.3 degrees Celsius, or if swallowing becomes difficult.",
	},
	{
		docId:  "oha-headache",
		title:  "Headache Assessment",
		url:    "https://www.ontario.ca/page/headaches",
		source: "ontario-health",
		text:   "Tension headaches and migraines are the most common headache types and can usually be managed at home. Seek emergency care for a sudden severe headache unlike any before, headache with stiff neck and fever, headache after a head injury, or headache with confusion, weakness, or slurred speech.",
	},
	{
		docId:  "oha-gastro",
		title:  "Vomiting and Diarrhea in Adults",
		url:    "https://www.ontario.ca/page/gastroenteritis",
		source: "ontario-health",
		text:   "Gastroenteritis usually resolves within 48 hours. Sip clear fluids frequently to avoid dehydration. Seek medical care for blood in vomit or stool, signs of dehydration such as dizziness and reduced urination, severe abdominal pain, or symptoms lasting more than three days.",
	},
	{
		docId:  "telehealth-on",
		title:  "Health811 (Telehealth Ontario)",
		url:    "https://health811.ontario.ca",
		source: "ontario-health",
		text:   "Health811 connects Ontario residents with a registered nurse at 1-866-797-0000, free of charge, 24 hours a day, seven days a week. Call for advice on symptoms, medications, and whether to see a doctor, visit a walk-in clinic, or go to the emergency room.",
	},
}

func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	var embedder embedding.Provider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embedder = embedding.NewGeminiProvider(cfg.Ai.GoogleGeminiKey)
	} else {
		embedder = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	}

	repo := implementation.NewDocChunkRepository(db)
	ctx := context.Background()

	color.Cyan("🌱 Seeding %d documents (tenant=%s)\n", len(seedDocs), cfg.App.Tenant)

	created := 0
	for _, doc := range seedDocs {
		for i, part := range utils.SplitText(doc.text, chunkSize, chunkOverlap) {
			chunkID := fmt.Sprintf("%s#%d", doc.docId, i)

			vec, err := embedder.Embed(ctx, part, embedding.TaskRetrievalDocument)
			if err != nil {
				color.Red("embed %s failed: %v", chunkID, err)
				continue
			}

			chunk := &model.DocChunk{
				DocId:      chunkID,
				ChunkIndex: i,
				Title:      doc.title,
				Url:        doc.url,
				Source:     doc.source,
				Tenant:     cfg.App.Tenant,
				Lang:       cfg.App.Lang,
				Text:       part,
				Metadata:   datatypes.JSON([]byte(`{"seed":true}`)),
				Embedding:  pgvector.NewVector(vec),
			}
			if err := repo.Create(ctx, chunk); err != nil {
				if errors.Is(err, contract.ErrDuplicateChunk) {
					color.Yellow("skip %s (already seeded)", chunkID)
					continue
				}
				color.Red("create %s failed: %v", chunkID, err)
				continue
			}
			color.Green("created %s (%s)", chunkID, doc.source)
			created++

			// Be gentle with hosted embedding APIs.
			time.Sleep(100 * time.Millisecond)
		}
	}

	total, err := repo.Count(ctx, cfg.App.Tenant)
	if err != nil {
		log.Fatalf("Error: count failed: %v", err)
	}
	color.Cyan("\n✅ Done: %d new chunks, %d total for tenant %s", created, total, cfg.App.Tenant)
}
