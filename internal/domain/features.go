package domain

// Tamaños de cada bloque del vector de features. El orden es contrato de cable.
const (
	NumericFeatureCount     = 6
	ActivityFeatureCount    = 6
	SeasonFeatureCount      = 4
	PersonalityFeatureCount = 4
	AgeGroupFeatureCount    = 5

	FeatureVectorLen = NumericFeatureCount + ActivityFeatureCount + SeasonFeatureCount +
		PersonalityFeatureCount + AgeGroupFeatureCount
)

// FeatureVector es la entrada de largo fijo del clasificador (25 valores).
type FeatureVector [FeatureVectorLen]float64

// Float32s devuelve una copia del vector como []float32, el formato que usa pgvector.
func (v FeatureVector) Float32s() []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
