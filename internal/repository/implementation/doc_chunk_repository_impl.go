package implementation

import (
	"context"
	"errors"

	"ai-symptomcheck-be/internal/model"
	"ai-symptomcheck-be/internal/repository/contract"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

const uniqueViolationCode = "23505"

type DocChunkRepositoryImpl struct {
	db *gorm.DB
}

func NewDocChunkRepository(db *gorm.DB) contract.DocChunkRepository {
	return &DocChunkRepositoryImpl{db: db}
}

func (r *DocChunkRepositoryImpl) Create(ctx context.Context, chunk *model.DocChunk) error {
	err := r.db.WithContext(ctx).Create(chunk).Error

	// The unique index on doc_id makes re-ingestion idempotent.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return contract.ErrDuplicateChunk
	}
	return err
}

func (r *DocChunkRepositoryImpl) CreateBatch(ctx context.Context, chunks []*model.DocChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(chunks, 100).Error
}

func (r *DocChunkRepositoryImpl) Count(ctx context.Context, tenant string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.DocChunk{}).
		Where("tenant = ?", tenant).
		Count(&count).Error
	return count, err
}

type scoredChunkRow struct {
	model.DocChunk
	Score float64
}

func (r *DocChunkRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, limit int, tenant, lang string) ([]*contract.ScoredChunk, error) {
	queryVector := pgvector.NewVector(embedding)

	var rows []scoredChunkRow
	// Cosine distance in pgvector is 1 - cosine_similarity.
	err := r.db.WithContext(ctx).
		Model(&model.DocChunk{}).
		Select("doc_chunks.*, 1 - (embedding <=> ?) AS score", queryVector).
		Where("tenant = ? AND lang = ?", tenant, lang).
		Order(gorm.Expr("embedding <=> ?", queryVector)).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return toScoredChunks(rows), nil
}

func (r *DocChunkRepositoryImpl) SearchKeyword(ctx context.Context, query string, limit int, tenant, lang string) ([]*contract.ScoredChunk, error) {
	var rows []scoredChunkRow
	err := r.db.WithContext(ctx).
		Model(&model.DocChunk{}).
		Select("doc_chunks.*, ts_rank(to_tsvector('english', text), plainto_tsquery('english', ?)) AS score", query).
		Where("tenant = ? AND lang = ?", tenant, lang).
		Where("to_tsvector('english', text) @@ plainto_tsquery('english', ?)", query).
		Order("score DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return toScoredChunks(rows), nil
}

func toScoredChunks(rows []scoredChunkRow) []*contract.ScoredChunk {
	scored := make([]*contract.ScoredChunk, len(rows))
	for i := range rows {
		chunk := rows[i].DocChunk
		scored[i] = &contract.ScoredChunk{
			Chunk: &chunk,
			Score: rows[i].Score,
		}
	}
	return scored
}
