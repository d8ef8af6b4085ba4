package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"place-trainer/internal/domain"
	"place-trainer/internal/features"
	"place-trainer/internal/metrics"
	"place-trainer/internal/notify"
	"place-trainer/internal/repository"
	"place-trainer/internal/trainer"
)

const (
	// DefaultRetrainThreshold es el mínimo de pendientes para el disparo automático.
	DefaultRetrainThreshold = 1

	triggerAuto   = "auto"
	triggerManual = "manual"
)

// RetrainResult es la respuesta del reentrenamiento manual.
type RetrainResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RetrainService orquesta el ciclo: armar muestras, entrenar (stub),
// marcar procesados y avisar a los clientes.
type RetrainService struct {
	logger    *zap.Logger
	places    repository.PlaceRepository
	models    repository.ModelRepository
	trainer   trainer.Trainer
	notifier  notify.Notifier
	lease     RetrainLease
	threshold int
	now       func() time.Time
}

func NewRetrainService(
	logger *zap.Logger,
	places repository.PlaceRepository,
	models repository.ModelRepository,
	tr trainer.Trainer,
	notifier notify.Notifier,
	threshold int,
) *RetrainService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if threshold <= 0 {
		threshold = DefaultRetrainThreshold
	}
	return &RetrainService{
		logger:    logger,
		places:    places,
		models:    models,
		trainer:   tr,
		notifier:  notifier,
		threshold: threshold,
		now:       time.Now,
	}
}

// WithLease activa la reserva del lote antes de leer los pendientes.
func (s *RetrainService) WithLease(lease RetrainLease) *RetrainService {
	s.lease = lease
	return s
}

// OnPlaceCreated es el disparador automático. Nunca devuelve error: los fallos
// se loguean para que el listener no entre en bucle.
func (s *RetrainService) OnPlaceCreated(ctx context.Context, evt domain.PlaceCreatedEvent) {
	s.logger.Info("new place added", zap.String("place_id", evt.ID), zap.String("name", evt.Name))
	if err := s.checkAndRetrain(ctx); err != nil {
		metrics.RecordRetrain(triggerAuto, "error")
		s.logger.Error("check model retraining failed", zap.Error(err))
	}
}

func (s *RetrainService) checkAndRetrain(ctx context.Context) error {
	release, ok, err := s.acquireLease(ctx)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Info("retraining already in progress, skipping")
		metrics.RecordRetrain(triggerAuto, "skipped")
		return nil
	}
	defer release()

	pendingCount, err := s.places.CountPending(ctx)
	if err != nil {
		return fmt.Errorf("count pending places: %w", err)
	}
	s.logger.Info("total pending places", zap.Int("pending", pendingCount))

	if pendingCount < s.threshold {
		metrics.RecordRetrain(triggerAuto, "skipped")
		return nil
	}

	pending, err := s.places.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("list pending places: %w", err)
	}
	if len(pending) == 0 {
		metrics.RecordRetrain(triggerAuto, "skipped")
		return nil
	}

	s.logger.Info("triggering model retraining", zap.Int("pending", len(pending)))
	return s.retrain(ctx, triggerAuto, pending)
}

// ManualRetrain reentrena con todos los pendientes, sin umbral.
func (s *RetrainService) ManualRetrain(ctx context.Context) (RetrainResult, error) {
	s.logger.Info("manual retraining triggered")

	release, ok, err := s.acquireLease(ctx)
	if err != nil {
		s.logger.Error("manual retrain failed", zap.Error(err))
		return RetrainResult{}, internalError("Retraining failed", err)
	}
	if !ok {
		metrics.RecordRetrain(triggerManual, "skipped")
		return RetrainResult{Success: false, Message: "Retraining already in progress"}, nil
	}
	defer release()

	pending, err := s.places.ListPending(ctx)
	if err != nil {
		s.logger.Error("manual retrain failed", zap.Error(err))
		metrics.RecordRetrain(triggerManual, "error")
		return RetrainResult{}, internalError("Retraining failed", err)
	}
	if len(pending) == 0 {
		metrics.RecordRetrain(triggerManual, "skipped")
		return RetrainResult{Success: false, Message: "No pending places to train"}, nil
	}

	if err := s.retrain(ctx, triggerManual, pending); err != nil {
		s.logger.Error("manual retrain failed", zap.Error(err))
		metrics.RecordRetrain(triggerManual, "error")
		return RetrainResult{}, internalError("Retraining failed", err)
	}

	return RetrainResult{
		Success: true,
		Message: fmt.Sprintf("Model retrained with %d new places", len(pending)),
	}, nil
}

// retrain ejecuta el pipeline. Entrenamiento y marcado abortan con error;
// el aviso a clientes se loguea y se ignora.
func (s *RetrainService) retrain(ctx context.Context, trigger string, pending []domain.PlaceRecord) error {
	s.logger.Info("starting model retraining", zap.String("trigger", trigger))

	samples := features.BuildTrainingSet(s.logger, pending)
	s.logger.Info("prepared training samples", zap.Int("samples", len(samples)))

	version, err := s.train(ctx, samples)
	if err != nil {
		s.logger.Error("model retraining failed", zap.Error(err))
		return err
	}

	ids := make([]string, 0, len(pending))
	for _, p := range pending {
		ids = append(ids, p.ID)
	}
	if err := s.places.MarkTrained(ctx, ids, s.now().UTC()); err != nil {
		s.logger.Error("model retraining failed", zap.Error(err))
		return fmt.Errorf("mark places trained: %w", err)
	}
	s.logger.Info("marked places as trained", zap.Int("count", len(ids)))

	if s.notifier != nil {
		reloadVersion := s.now().UnixMilli()
		if reloadVersion < version {
			reloadVersion = version
		}
		if err := s.notifier.NotifyModelUpdated(ctx, reloadVersion); err != nil {
			s.logger.Error("error notifying clients", zap.Error(err))
		}
	}

	metrics.RecordTrainingBatch(len(pending), len(samples))
	metrics.RecordRetrain(trigger, "success")
	s.logger.Info("model retraining completed successfully", zap.Int64("version", version))
	return nil
}

// train corre el trainer y reescribe la metadata del modelo con una versión nueva.
func (s *RetrainService) train(ctx context.Context, samples []domain.TrainingSample) (int64, error) {
	version := s.nextVersion(ctx)

	start := time.Now()
	if err := s.trainer.Train(ctx, version, samples); err != nil {
		return 0, fmt.Errorf("train model: %w", err)
	}
	metrics.TrainingDuration.Observe(time.Since(start).Seconds())

	meta := domain.ModelMetadata{
		ID:               domain.ModelID,
		Version:          version,
		LastUpdated:      s.now().UTC(),
		TotalPlaces:      s.totalPlaces(ctx),
		TrainingDataSize: len(samples),
		Status:           domain.ModelStatusUpdated,
	}
	if err := s.models.Save(ctx, meta); err != nil {
		if derr := s.trainer.Discard(ctx, version); derr != nil {
			s.logger.Error("discard training output failed", zap.Int64("version", version), zap.Error(derr))
		}
		return 0, fmt.Errorf("save model metadata: %w", err)
	}
	return version, nil
}

// nextVersion usa el reloj en milisegundos y garantiza que supere la versión guardada.
func (s *RetrainService) nextVersion(ctx context.Context) int64 {
	version := s.now().UnixMilli()
	prev, err := s.models.Get(ctx, domain.ModelID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("read previous model version failed", zap.Error(err))
		}
		return version
	}
	if version <= prev.Version {
		version = prev.Version + 1
	}
	return version
}

func (s *RetrainService) totalPlaces(ctx context.Context) int {
	n, err := s.places.CountAll(ctx)
	if err != nil {
		s.logger.Error("error getting total places count", zap.Error(err))
		return 0
	}
	return n
}

func (s *RetrainService) acquireLease(ctx context.Context) (func(), bool, error) {
	if s.lease == nil {
		return func() {}, true, nil
	}
	release, ok, err := s.lease.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire retrain lease: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return release, true, nil
}
