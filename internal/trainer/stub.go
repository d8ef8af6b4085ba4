package trainer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"place-trainer/internal/domain"
	"place-trainer/internal/repository"
)

// StubTrainer no aprende nada: espera un tiempo fijo y guarda las muestras
// para que un pipeline real pueda consumirlas después.
// La espera no es cancelable.
type StubTrainer struct {
	logger  *zap.Logger
	samples repository.SampleRepository
	delay   time.Duration
	sleep   func(time.Duration)
}

func NewStubTrainer(logger *zap.Logger, samples repository.SampleRepository, delay time.Duration) *StubTrainer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if delay < 0 {
		delay = 0
	}
	return &StubTrainer{
		logger:  logger,
		samples: samples,
		delay:   delay,
		sleep:   time.Sleep,
	}
}

func (t *StubTrainer) Train(ctx context.Context, version int64, samples []domain.TrainingSample) error {
	t.logger.Info("simulating model training", zap.Int("samples", len(samples)), zap.Int64("version", version))
	t.sleep(t.delay)

	if t.samples != nil {
		if err := t.samples.SaveBatch(ctx, version, samples); err != nil {
			return err
		}
	}

	t.logger.Info("model training simulation completed", zap.Int64("version", version))
	return nil
}

func (t *StubTrainer) Discard(ctx context.Context, version int64) error {
	if t.samples == nil {
		return nil
	}
	t.logger.Warn("discarding unpublished training samples", zap.Int64("version", version))
	return t.samples.DeleteByVersion(ctx, version)
}
