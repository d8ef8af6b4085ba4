package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"place-trainer/internal/domain"
	"place-trainer/internal/repository"
)

// DefaultStatsRetrainThreshold marca cuándo las estadísticas sugieren reentrenar.
// Es independiente del umbral del disparo automático.
const DefaultStatsRetrainThreshold = 10

// ModelStats es la respuesta de getModelStats.
type ModelStats struct {
	TotalPlaces     int        `json:"totalPlaces"`
	PendingPlaces   int        `json:"pendingPlaces"`
	TrainedPlaces   int        `json:"trainedPlaces"`
	LastModelUpdate *time.Time `json:"lastModelUpdate"`
	ModelVersion    *int64     `json:"modelVersion"`
	NeedsRetraining bool       `json:"needsRetraining"`
}

// StatsService agrega conteos del store y metadata del modelo.
type StatsService struct {
	logger    *zap.Logger
	places    repository.PlaceRepository
	models    repository.ModelRepository
	threshold int
}

func NewStatsService(logger *zap.Logger, places repository.PlaceRepository, models repository.ModelRepository, threshold int) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if threshold <= 0 {
		threshold = DefaultStatsRetrainThreshold
	}
	return &StatsService{
		logger:    logger,
		places:    places,
		models:    models,
		threshold: threshold,
	}
}

func (s *StatsService) GetModelStats(ctx context.Context) (ModelStats, error) {
	total, pending, err := s.places.CountSummary(ctx)
	if err != nil {
		s.logger.Error("error getting model stats", zap.Error(err))
		return ModelStats{}, internalError("Failed to get stats", err)
	}
	meta, found, err := loadModelMetadata(ctx, s.models)
	if err != nil {
		s.logger.Error("error getting model stats", zap.Error(err))
		return ModelStats{}, internalError("Failed to get stats", err)
	}

	stats := ModelStats{
		TotalPlaces:     total,
		PendingPlaces:   pending,
		TrainedPlaces:   total - pending,
		NeedsRetraining: pending >= s.threshold,
	}
	if found {
		lastUpdated := meta.LastUpdated
		version := meta.Version
		stats.LastModelUpdate = &lastUpdated
		stats.ModelVersion = &version
	}
	return stats, nil
}

// loadModelMetadata distingue "sin modelo todavía" de un error del store.
func loadModelMetadata(ctx context.Context, models repository.ModelRepository) (domain.ModelMetadata, bool, error) {
	meta, err := models.Get(ctx, domain.ModelID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ModelMetadata{}, false, nil
		}
		return domain.ModelMetadata{}, false, err
	}
	return meta, true, nil
}
