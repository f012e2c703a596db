package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// DocChunk is one ingested evidence chunk. The same row backs both
// retrieval providers: the vector provider orders by embedding distance,
// the keyword provider by full-text rank over Text.
type DocChunk struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocId      string          `gorm:"type:text;not null;index"` // stable document identity, e.g. "oha-flu#3"
	ChunkIndex int             `gorm:"default:0"`
	Title      string          `gorm:"type:text;not null"`
	Url        string          `gorm:"type:text"`
	Source     string          `gorm:"type:text;not null;index"` // publishing source, used for diversity caps
	Tenant     string          `gorm:"type:text;not null;index"` // e.g. "CA-ON"
	Lang       string          `gorm:"type:text;not null;default:'en'"`
	Text       string          `gorm:"type:text;not null"`
	Metadata   datatypes.JSON  `gorm:"type:jsonb"`
	Embedding  pgvector.Vector `gorm:"type:vector(384)"` // bge-small-en-v1.5 dimension
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
}

func (DocChunk) TableName() string {
	return "doc_chunks"
}
