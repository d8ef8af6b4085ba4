package features

import (
	"fmt"

	"go.uber.org/zap"

	"place-trainer/internal/domain"
)

// BuildTrainingSet convierte los lugares pendientes en muestras de entrenamiento.
// Los rechazados explícitamente se saltan; un fallo en un registro se loguea y
// no corta el lote. El orden de entrada se conserva.
func BuildTrainingSet(logger *zap.Logger, places []domain.PlaceRecord) []domain.TrainingSample {
	if logger == nil {
		logger = zap.NewNop()
	}
	samples := make([]domain.TrainingSample, 0, len(places))
	for _, place := range places {
		if place.IsExcludedFromTraining() {
			continue
		}
		sample, err := toSample(place)
		if err != nil {
			logger.Error("error processing place", zap.String("place", place.Name), zap.Error(err))
			continue
		}
		samples = append(samples, sample)
	}
	return samples
}

// encodeFn es reemplazable en tests para forzar un fallo por registro.
var encodeFn = Encode

func toSample(place domain.PlaceRecord) (sample domain.TrainingSample, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("encode place %q: %v", place.ID, r)
		}
	}()
	return domain.TrainingSample{
		Features: encodeFn(place),
		Label:    LabelFor(place.Type),
		Source:   place,
	}, nil
}
