package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Métricas de reentrenamiento, verificación y endpoints callable.
var (
	RetrainRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "place_trainer_retrain_runs_total",
			Help: "Total de ciclos de reentrenamiento por disparador y resultado",
		},
		[]string{"trigger", "outcome"}, // trigger: "auto", "manual"; outcome: "success", "skipped", "error"
	)

	TrainingSamples = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "place_trainer_training_samples_total",
			Help: "Muestras de entrenamiento generadas",
		},
	)

	PlacesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "place_trainer_places_skipped_total",
			Help: "Lugares pendientes que no produjeron muestra (rechazados o con error)",
		},
	)

	PlacesMarkedTrained = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "place_trainer_places_marked_trained_total",
			Help: "Lugares marcados como procesados por un ciclo de reentrenamiento",
		},
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "place_trainer_training_duration_seconds",
			Help:    "Duración del paso de entrenamiento",
			Buckets: []float64{0.5, 1, 2, 3, 5, 10, 30},
		},
	)

	Verifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "place_trainer_verifications_total",
			Help: "Decisiones de verificación por origen y resultado",
		},
		[]string{"source", "decision"}, // source: "manual", "scheduled"; decision: "approved", "rejected"
	)

	CallableDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "place_trainer_callable_duration_seconds",
			Help:    "Latencia de los endpoints HTTP",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "status"},
	)
)

// RecordRetrain registra el resultado de un ciclo de reentrenamiento.
func RecordRetrain(trigger, outcome string) {
	RetrainRuns.WithLabelValues(trigger, outcome).Inc()
}

// RecordTrainingBatch registra cuántos pendientes se convirtieron en muestras.
func RecordTrainingBatch(pending, samples int) {
	TrainingSamples.Add(float64(samples))
	if skipped := pending - samples; skipped > 0 {
		PlacesSkipped.Add(float64(skipped))
	}
	PlacesMarkedTrained.Add(float64(pending))
}

// RecordVerification registra una decisión de verificación.
func RecordVerification(source string, approved bool) {
	decision := "rejected"
	if approved {
		decision = "approved"
	}
	Verifications.WithLabelValues(source, decision).Inc()
}

// RecordCallable registra la latencia de una request HTTP.
func RecordCallable(path string, status int, d time.Duration) {
	CallableDuration.WithLabelValues(path, strconv.Itoa(status)).Observe(d.Seconds())
}
