package trainer

import (
	"context"

	"place-trainer/internal/domain"
)

// Trainer entrena (o simula entrenar) el modelo con un set de muestras.
// Discard descarta lo producido para una versión que no llegó a publicarse.
type Trainer interface {
	Train(ctx context.Context, version int64, samples []domain.TrainingSample) error
	Discard(ctx context.Context, version int64) error
}
