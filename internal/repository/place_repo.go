package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"place-trainer/internal/domain"
)

// ErrPlaceNotFound se devuelve cuando se actualiza un lugar inexistente.
var ErrPlaceNotFound = errors.New("place not found")

// PlaceRepository define el contrato de persistencia de pending_training_places.
type PlaceRepository interface {
	Create(ctx context.Context, place domain.PlaceRecord) error
	GetByID(ctx context.Context, id string) (domain.PlaceRecord, error)
	CountAll(ctx context.Context) (int, error)
	CountPending(ctx context.Context) (int, error)
	CountSummary(ctx context.Context) (total, pending int, err error)
	ListPending(ctx context.Context) ([]domain.PlaceRecord, error)
	MarkTrained(ctx context.Context, ids []string, trainedAt time.Time) error
	Verify(ctx context.Context, v domain.PlaceVerification) error
	ListUnverifiedAddedBefore(ctx context.Context, addedBefore int64, limit int) ([]domain.PlaceRecord, error)
	ApplyVerifications(ctx context.Context, vs []domain.PlaceVerification) error
}

// PgPlaceRepository implementa PlaceRepository usando pgxpool.
type PgPlaceRepository struct {
	pool *pgxpool.Pool
}

func NewPgPlaceRepository(pool *pgxpool.Pool) *PgPlaceRepository {
	return &PgPlaceRepository{pool: pool}
}

const placeColumns = `
	id, name, cost, duration, type, activities, caption, verified,
	COALESCE(verification_reason, ''), COALESCE(verified_by, ''), verified_at,
	trained, trained_at, added_at
`

func (r *PgPlaceRepository) Create(ctx context.Context, place domain.PlaceRecord) error {
	const query = `
		INSERT INTO pending_training_places (
			id, name, cost, duration, type, activities, caption, verified, trained, added_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	activities := place.Activities
	if activities == nil {
		activities = []string{}
	}
	_, err := r.pool.Exec(ctx, query,
		place.ID,
		place.Name,
		place.Cost,
		place.Duration,
		place.Type,
		activities,
		place.Caption,
		place.Verified,
		place.Trained,
		place.AddedAt,
	)
	return err
}

func (r *PgPlaceRepository) GetByID(ctx context.Context, id string) (domain.PlaceRecord, error) {
	query := `SELECT ` + placeColumns + ` FROM pending_training_places WHERE id = $1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return domain.PlaceRecord{}, err
	}
	defer rows.Close()

	places, err := scanPlaces(rows)
	if err != nil {
		return domain.PlaceRecord{}, err
	}
	if len(places) == 0 {
		return domain.PlaceRecord{}, pgx.ErrNoRows
	}
	return places[0], nil
}

func (r *PgPlaceRepository) CountAll(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM pending_training_places`).Scan(&n)
	return n, err
}

func (r *PgPlaceRepository) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM pending_training_places WHERE trained = false`).Scan(&n)
	return n, err
}

// CountSummary devuelve total y pendientes en una sola lectura consistente.
func (r *PgPlaceRepository) CountSummary(ctx context.Context) (total, pending int, err error) {
	const query = `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE trained = false)
		FROM pending_training_places
	`
	err = r.pool.QueryRow(ctx, query).Scan(&total, &pending)
	return total, pending, err
}

func (r *PgPlaceRepository) ListPending(ctx context.Context) ([]domain.PlaceRecord, error) {
	query := `SELECT ` + placeColumns + `
		FROM pending_training_places
		WHERE trained = false
		ORDER BY added_at, id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlaces(rows)
}

// MarkTrained marca todos los ids como entrenados en una sola transacción.
func (r *PgPlaceRepository) MarkTrained(ctx context.Context, ids []string, trainedAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(`UPDATE pending_training_places SET trained = true, trained_at = $2 WHERE id = $1`, id, trainedAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PgPlaceRepository) Verify(ctx context.Context, v domain.PlaceVerification) error {
	tag, err := r.pool.Exec(ctx, verifyQuery, v.PlaceID, v.Approved, v.Reason, v.VerifiedBy, v.VerifiedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlaceNotFound
	}
	return nil
}

// ListUnverifiedAddedBefore trae lugares con verified = false explícito (NULL no entra)
// agregados antes del corte.
func (r *PgPlaceRepository) ListUnverifiedAddedBefore(ctx context.Context, addedBefore int64, limit int) ([]domain.PlaceRecord, error) {
	if limit <= 0 {
		limit = 5
	}
	query := `SELECT ` + placeColumns + `
		FROM pending_training_places
		WHERE verified = false AND added_at <= $1
		ORDER BY added_at, id
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, addedBefore, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlaces(rows)
}

// ApplyVerifications escribe todas las decisiones de forma atómica.
func (r *PgPlaceRepository) ApplyVerifications(ctx context.Context, vs []domain.PlaceVerification) error {
	if len(vs) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, v := range vs {
		batch.Queue(verifyQuery, v.PlaceID, v.Approved, v.Reason, v.VerifiedBy, v.VerifiedAt)
	}
	results := tx.SendBatch(ctx, batch)
	for _, v := range vs {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return err
		}
		if tag.RowsAffected() == 0 {
			results.Close()
			return fmt.Errorf("%w: %s", ErrPlaceNotFound, v.PlaceID)
		}
	}
	if err := results.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const verifyQuery = `
	UPDATE pending_training_places
	SET verified = $2, verification_reason = $3, verified_by = $4, verified_at = $5
	WHERE id = $1
`

func scanPlaces(rows pgxRows) ([]domain.PlaceRecord, error) {
	var places []domain.PlaceRecord
	for rows.Next() {
		var p domain.PlaceRecord
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Cost,
			&p.Duration,
			&p.Type,
			&p.Activities,
			&p.Caption,
			&p.Verified,
			&p.VerificationReason,
			&p.VerifiedBy,
			&p.VerifiedAt,
			&p.Trained,
			&p.TrainedAt,
			&p.AddedAt,
		); err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return places, nil
}

// pgxRows es una interfaz mínima sobre pgx.Rows para simplificar tests.
type pgxRows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
	Close()
}
