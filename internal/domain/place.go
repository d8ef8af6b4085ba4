package domain

import "time"

// Tipos de lugar conocidos por el modelo de recomendación.
const (
	PlaceTypeAdventure   = "adventure"
	PlaceTypeCultural    = "cultural"
	PlaceTypeRelaxation  = "relaxation"
	PlaceTypeFoodTourism = "food_tourism"
	PlaceTypeNature      = "nature"
	PlaceTypeUrban       = "urban"
	PlaceTypeBeach       = "beach"
	PlaceTypeMountain    = "mountain"
	PlaceTypeHistorical  = "historical"
	PlaceTypeWildlife    = "wildlife"
)

// PlaceRecord es un lugar pendiente enviado para entrenar el modelo.
// Cost y Duration son punteros para distinguir "ausente" de cero.
// Verified nil significa que nadie lo marcó; solo false explícito lo excluye.
type PlaceRecord struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Cost               *float64   `json:"cost,omitempty"`
	Duration           *float64   `json:"duration,omitempty"`
	Type               string     `json:"type,omitempty"`
	Activities         []string   `json:"activities,omitempty"`
	Caption            string     `json:"caption,omitempty"`
	Verified           *bool      `json:"verified,omitempty"`
	VerificationReason string     `json:"verificationReason,omitempty"`
	VerifiedBy         string     `json:"verifiedBy,omitempty"`
	VerifiedAt         *time.Time `json:"verifiedAt,omitempty"`
	Trained            bool       `json:"trained"`
	TrainedAt          *time.Time `json:"trainedAt,omitempty"`
	AddedAt            int64      `json:"addedAt"`
}

// IsExcludedFromTraining indica si el registro fue rechazado explícitamente.
func (p PlaceRecord) IsExcludedFromTraining() bool {
	return p.Verified != nil && !*p.Verified
}

// CostOr devuelve el costo o el valor por defecto si está ausente o es cero.
func (p PlaceRecord) CostOr(def float64) float64 {
	if p.Cost == nil || *p.Cost == 0 {
		return def
	}
	return *p.Cost
}

// DurationOr devuelve la duración o el valor por defecto si está ausente o es cero.
func (p PlaceRecord) DurationOr(def float64) float64 {
	if p.Duration == nil || *p.Duration == 0 {
		return def
	}
	return *p.Duration
}

// PlaceVerification describe una decisión de verificación sobre un lugar.
type PlaceVerification struct {
	PlaceID    string
	Approved   bool
	Reason     string
	VerifiedBy string
	VerifiedAt time.Time
}
