package domain

// PlaceCreatedEvent llega cuando se inserta un lugar pendiente.
type PlaceCreatedEvent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
