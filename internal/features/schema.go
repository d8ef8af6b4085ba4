package features

import "place-trainer/internal/domain"

// Valores fijos del bloque numérico. Los cuatro últimos representan señales
// sociales que los lugares no traen (group_size, travel_frequency, liked_posts, shared_posts).
const (
	DefaultCost          = 100.0
	DefaultDuration      = 1.0
	DefaultGroupSize     = 2.0
	DefaultTravelFreq    = 3.0
	DefaultLikedPosts    = 10.0
	DefaultSharedPosts   = 5.0
	NeutralActivityScore = 0.5

	DefaultSeason      = "summer"
	DefaultAgeGroup    = "adult"
	DefaultPersonality = "cultural"
	DefaultLabel       = 1
)

// ActivityCategory agrupa las palabras clave que puntúan una categoría.
type ActivityCategory struct {
	Name     string
	Keywords []string
}

// ActivityCategories en el orden en que se emiten en el vector.
var ActivityCategories = [domain.ActivityFeatureCount]ActivityCategory{
	{Name: "adventure", Keywords: []string{"hiking", "climbing", "trekking", "adventure", "explore"}},
	{Name: "cultural", Keywords: []string{"temple", "museum", "cultural", "heritage", "traditional"}},
	{Name: "relaxation", Keywords: []string{"relax", "peaceful", "calm", "spa", "quiet"}},
	{Name: "food", Keywords: []string{"food", "restaurant", "taste", "delicious", "cuisine"}},
	{Name: "nature", Keywords: []string{"nature", "forest", "park", "garden", "waterfall"}},
	{Name: "urban", Keywords: []string{"city", "urban", "shopping", "modern", "downtown"}},
}

var (
	Seasons       = [domain.SeasonFeatureCount]string{"spring", "summer", "autumn", "winter"}
	Personalities = [domain.PersonalityFeatureCount]string{"adventurous", "cultural", "relaxed", "social"}
	AgeGroups     = [domain.AgeGroupFeatureCount]string{"teen", "young_adult", "adult", "middle_aged", "senior"}
)

var personalityByType = map[string]string{
	domain.PlaceTypeAdventure:   "adventurous",
	domain.PlaceTypeCultural:    "cultural",
	domain.PlaceTypeRelaxation:  "relaxed",
	domain.PlaceTypeFoodTourism: "social",
	domain.PlaceTypeNature:      "adventurous",
	domain.PlaceTypeUrban:       "social",
	domain.PlaceTypeBeach:       "relaxed",
	domain.PlaceTypeMountain:    "adventurous",
	domain.PlaceTypeHistorical:  "cultural",
	domain.PlaceTypeWildlife:    "adventurous",
}

var labelByType = map[string]int{
	domain.PlaceTypeAdventure:   0,
	domain.PlaceTypeCultural:    1,
	domain.PlaceTypeRelaxation:  2,
	domain.PlaceTypeFoodTourism: 3,
	domain.PlaceTypeNature:      4,
	domain.PlaceTypeUrban:       5,
	domain.PlaceTypeBeach:       6,
	domain.PlaceTypeMountain:    7,
	domain.PlaceTypeHistorical:  8,
	domain.PlaceTypeWildlife:    9,
}
