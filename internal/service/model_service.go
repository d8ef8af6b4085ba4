package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"place-trainer/internal/repository"
)

const (
	defaultModelDownloadURL = "https://your-storage-bucket.googleapis.com/ml_models/travel_model.tflite"
	defaultModelSizeBytes   = 1024 * 1024
)

// ModelDownload describe dónde bajar el modelo. La URL es un placeholder, no está firmada.
type ModelDownload struct {
	DownloadURL string     `json:"downloadUrl"`
	Version     int64      `json:"version"`
	LastUpdated *time.Time `json:"lastUpdated"`
	Size        int64      `json:"size"`
}

// ModelService expone la metadata de descarga del modelo para las apps móviles.
type ModelService struct {
	logger      *zap.Logger
	models      repository.ModelRepository
	downloadURL string
	sizeBytes   int64
	now         func() time.Time
}

func NewModelService(logger *zap.Logger, models repository.ModelRepository, downloadURL string, sizeBytes int64) *ModelService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if downloadURL == "" {
		downloadURL = defaultModelDownloadURL
	}
	if sizeBytes <= 0 {
		sizeBytes = defaultModelSizeBytes
	}
	return &ModelService{
		logger:      logger,
		models:      models,
		downloadURL: downloadURL,
		sizeBytes:   sizeBytes,
		now:         time.Now,
	}
}

// GetDownloadInfo usa la versión del modelo si existe; si no, la hora actual.
func (s *ModelService) GetDownloadInfo(ctx context.Context) (ModelDownload, error) {
	meta, found, err := loadModelMetadata(ctx, s.models)
	if err != nil {
		s.logger.Error("error generating download url", zap.Error(err))
		return ModelDownload{}, internalError("Failed to generate URL", err)
	}

	out := ModelDownload{
		DownloadURL: s.downloadURL,
		Version:     s.now().UnixMilli(),
		Size:        s.sizeBytes,
	}
	if found {
		lastUpdated := meta.LastUpdated
		out.Version = meta.Version
		out.LastUpdated = &lastUpdated
	}
	return out, nil
}
