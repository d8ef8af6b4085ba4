package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"place-trainer/internal/domain"
)

// SampleRepository guarda el set de entrenamiento de cada versión del modelo.
type SampleRepository interface {
	SaveBatch(ctx context.Context, version int64, samples []domain.TrainingSample) error
	CountByVersion(ctx context.Context, version int64) (int, error)
	DeleteByVersion(ctx context.Context, version int64) error
}

type PgSampleRepository struct {
	pool *pgxpool.Pool
}

func NewPgSampleRepository(pool *pgxpool.Pool) *PgSampleRepository {
	return &PgSampleRepository{pool: pool}
}

func (r *PgSampleRepository) SaveBatch(ctx context.Context, version int64, samples []domain.TrainingSample) error {
	if len(samples) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, s := range samples {
		batch.Queue(`
			INSERT INTO training_samples (place_id, model_version, label, features, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, s.Source.ID, version, s.Label, pgvector.NewVector(s.Features.Float32s()), now)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PgSampleRepository) CountByVersion(ctx context.Context, version int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM training_samples WHERE model_version = $1`, version).Scan(&n)
	return n, err
}

func (r *PgSampleRepository) DeleteByVersion(ctx context.Context, version int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM training_samples WHERE model_version = $1`, version)
	return err
}
