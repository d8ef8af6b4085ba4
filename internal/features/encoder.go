package features

import (
	"math"
	"strings"

	"place-trainer/internal/domain"
)

// Encode convierte un lugar en el vector de 25 features. Nunca falla:
// cada campo ausente tiene su valor por defecto.
func Encode(place domain.PlaceRecord) domain.FeatureVector {
	var v domain.FeatureVector
	i := 0
	put := func(vals ...float64) {
		for _, f := range vals {
			v[i] = f
			i++
		}
	}

	put(
		math.Log1p(place.CostOr(DefaultCost)),
		place.DurationOr(DefaultDuration),
		DefaultGroupSize,
		DefaultTravelFreq,
		DefaultLikedPosts,
		DefaultSharedPosts,
	)

	scores := ActivityScores(place.Activities, place.Caption)
	put(scores[:]...)

	season := oneHot(Seasons[:], DefaultSeason)
	put(season...)
	personality := oneHot(Personalities[:], InferPersonality(place.Type))
	put(personality...)
	age := oneHot(AgeGroups[:], DefaultAgeGroup)
	put(age...)

	return v
}

// ActivityScores puntúa cada categoría por la fracción de sus palabras clave
// presentes en actividades + caption. Una categoría sin coincidencias vale 0.5.
func ActivityScores(activities []string, caption string) [domain.ActivityFeatureCount]float64 {
	text := strings.ToLower(strings.Join(activities, " ") + " " + caption)

	var scores [domain.ActivityFeatureCount]float64
	for i, cat := range ActivityCategories {
		matched := 0
		for _, kw := range cat.Keywords {
			if strings.Contains(text, kw) {
				matched++
			}
		}
		score := float64(matched) / float64(len(cat.Keywords))
		if score == 0 {
			score = NeutralActivityScore
		}
		scores[i] = score
	}
	return scores
}

func oneHot(values []string, selected string) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if v == selected {
			out[i] = 1
		}
	}
	return out
}
