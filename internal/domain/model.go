package domain

import "time"

const (
	// ModelID identifica el documento de metadata del modelo compartido.
	ModelID = "travel_recommendation"
	// AppConfigModelID identifica la señal de recarga para los clientes.
	AppConfigModelID = "ml_model"

	ModelStatusUpdated = "updated"
)

// ModelMetadata es el registro compartido del modelo, escrito solo tras reentrenar.
type ModelMetadata struct {
	ID               string    `json:"id"`
	Version          int64     `json:"version"`
	LastUpdated      time.Time `json:"lastUpdated"`
	TotalPlaces      int       `json:"totalPlaces"`
	TrainingDataSize int       `json:"trainingDataSize"`
	Status           string    `json:"status"`
}

// ReloadSignal avisa a las apps cliente que deben recargar el modelo.
type ReloadSignal struct {
	ShouldReload bool      `json:"shouldReload"`
	LastUpdate   time.Time `json:"lastUpdate"`
	Version      int64     `json:"version"`
}

// TrainingSample es un par (features, label) listo para el clasificador.
type TrainingSample struct {
	Features FeatureVector `json:"features"`
	Label    int           `json:"label"`
	Source   PlaceRecord   `json:"placeData"`
}
