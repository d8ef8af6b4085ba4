package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"place-trainer/internal/domain"
)

// AppConfigRepository guarda la señal de recarga que leen las apps cliente.
type AppConfigRepository interface {
	SaveReloadSignal(ctx context.Context, id string, signal domain.ReloadSignal) error
	GetReloadSignal(ctx context.Context, id string) (domain.ReloadSignal, error)
}

type PgAppConfigRepository struct {
	pool *pgxpool.Pool
}

func NewPgAppConfigRepository(pool *pgxpool.Pool) *PgAppConfigRepository {
	return &PgAppConfigRepository{pool: pool}
}

func (r *PgAppConfigRepository) SaveReloadSignal(ctx context.Context, id string, signal domain.ReloadSignal) error {
	const query = `
		INSERT INTO app_config (id, should_reload, last_update, version)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			should_reload = EXCLUDED.should_reload,
			last_update = EXCLUDED.last_update,
			version = EXCLUDED.version
	`
	_, err := r.pool.Exec(ctx, query, id, signal.ShouldReload, signal.LastUpdate, signal.Version)
	return err
}

func (r *PgAppConfigRepository) GetReloadSignal(ctx context.Context, id string) (domain.ReloadSignal, error) {
	const query = `
		SELECT should_reload, last_update, version
		FROM app_config
		WHERE id = $1
	`
	var s domain.ReloadSignal
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ShouldReload, &s.LastUpdate, &s.Version)
	return s, err
}
