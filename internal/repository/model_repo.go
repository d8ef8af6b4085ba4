package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"place-trainer/internal/domain"
)

// ModelRepository persiste la metadata compartida del modelo (ml_models).
// Get devuelve pgx.ErrNoRows si todavía no hubo entrenamiento.
type ModelRepository interface {
	Get(ctx context.Context, id string) (domain.ModelMetadata, error)
	Save(ctx context.Context, meta domain.ModelMetadata) error
}

type PgModelRepository struct {
	pool *pgxpool.Pool
}

func NewPgModelRepository(pool *pgxpool.Pool) *PgModelRepository {
	return &PgModelRepository{pool: pool}
}

func (r *PgModelRepository) Get(ctx context.Context, id string) (domain.ModelMetadata, error) {
	const query = `
		SELECT id, version, last_updated, total_places, training_data_size, status
		FROM ml_models
		WHERE id = $1
	`
	var m domain.ModelMetadata
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.Version,
		&m.LastUpdated,
		&m.TotalPlaces,
		&m.TrainingDataSize,
		&m.Status,
	)
	return m, err
}

// Save reemplaza el documento completo, igual que un set sin merge.
func (r *PgModelRepository) Save(ctx context.Context, meta domain.ModelMetadata) error {
	const query = `
		INSERT INTO ml_models (id, version, last_updated, total_places, training_data_size, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			version = EXCLUDED.version,
			last_updated = EXCLUDED.last_updated,
			total_places = EXCLUDED.total_places,
			training_data_size = EXCLUDED.training_data_size,
			status = EXCLUDED.status
	`
	_, err := r.pool.Exec(ctx, query,
		meta.ID,
		meta.Version,
		meta.LastUpdated,
		meta.TotalPlaces,
		meta.TrainingDataSize,
		meta.Status,
	)
	return err
}
