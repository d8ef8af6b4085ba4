package features

// LabelFor traduce un tipo de lugar a la clase del clasificador (0..9).
// Tipos desconocidos o vacíos caen en cultural.
func LabelFor(placeType string) int {
	if label, ok := labelByType[placeType]; ok {
		return label
	}
	return DefaultLabel
}

// InferPersonality deduce la personalidad de viajero asociada al tipo de lugar.
func InferPersonality(placeType string) string {
	if p, ok := personalityByType[placeType]; ok {
		return p
	}
	return DefaultPersonality
}
