package features

import (
	"math"
	"testing"

	"place-trainer/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func TestFeatureLayoutMatchesVectorLength(t *testing.T) {
	got := 0
	for _, n := range []int{6, len(ActivityCategories), len(Seasons), len(Personalities), len(AgeGroups)} {
		got += n
	}
	if got != 25 {
		t.Fatalf("expected 25 features, layout sums to %d (FeatureVectorLen=%d)", got, domain.FeatureVectorLen)
	}
	if got != domain.FeatureVectorLen {
		t.Fatalf("expected 25 features, layout sums to %d (FeatureVectorLen=%d)", got, domain.FeatureVectorLen)
	}
	for _, cat := range ActivityCategories {
		if len(cat.Keywords) != 5 {
			t.Fatalf("category %s expected 5 keywords, got %d", cat.Name, len(cat.Keywords))
		}
	}
}

func TestEncode_EmptyRecordUsesDefaults(t *testing.T) {
	v := Encode(domain.PlaceRecord{})

	want := domain.FeatureVector{
		math.Log1p(100), 1, 2, 3, 10, 5,
		0.5, 0.5, 0.5, 0.5, 0.5, 0.5,
		0, 1, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0, 0,
	}
	if v != want {
		t.Fatalf("unexpected vector\n got=%v\nwant=%v", v, want)
	}
}

func TestEncode_ZeroCostAndDurationFallBack(t *testing.T) {
	v := Encode(domain.PlaceRecord{Cost: floatPtr(0), Duration: floatPtr(0)})
	if v[0] != math.Log1p(100) {
		t.Fatalf("expected log1p(100) for zero cost, got %v", v[0])
	}
	if v[1] != 1 {
		t.Fatalf("expected duration 1 for zero duration, got %v", v[1])
	}
}

func TestEncode_NumericBlock(t *testing.T) {
	v := Encode(domain.PlaceRecord{Cost: floatPtr(50), Duration: floatPtr(3)})
	if v[0] != math.Log1p(50) {
		t.Fatalf("expected log1p(50), got %v", v[0])
	}
	if v[1] != 3 {
		t.Fatalf("expected duration 3, got %v", v[1])
	}
	if v[2] != 2 || v[3] != 3 || v[4] != 10 || v[5] != 5 {
		t.Fatalf("unexpected placeholder constants: %v", v[2:6])
	}
}

func TestEncode_PersonalityBlock(t *testing.T) {
	tests := []struct {
		placeType string
		hot       int
	}{
		{"adventure", 0},
		{"nature", 0},
		{"mountain", 0},
		{"wildlife", 0},
		{"cultural", 1},
		{"historical", 1},
		{"relaxation", 2},
		{"beach", 2},
		{"food_tourism", 3},
		{"urban", 3},
		{"space_station", 1},
		{"", 1},
	}

	for _, tt := range tests {
		t.Run(tt.placeType, func(t *testing.T) {
			v := Encode(domain.PlaceRecord{Type: tt.placeType})
			block := v[16:20]
			for i, f := range block {
				want := 0.0
				if i == tt.hot {
					want = 1
				}
				if f != want {
					t.Fatalf("type %q: expected one-hot at %d, got %v", tt.placeType, tt.hot, block)
				}
			}
		})
	}
}

func TestEncode_IsDeterministic(t *testing.T) {
	place := domain.PlaceRecord{
		Name:       "Sigiriya",
		Cost:       floatPtr(30),
		Duration:   floatPtr(4),
		Type:       "historical",
		Activities: []string{"Climbing", "Heritage walk"},
		Caption:    "Ancient rock fortress with a museum",
	}
	first := Encode(place)
	for i := 0; i < 5; i++ {
		if got := Encode(place); got != first {
			t.Fatalf("encode not deterministic: %v vs %v", got, first)
		}
	}
	if place.Activities[0] != "Climbing" {
		t.Fatalf("encode mutated input activities: %v", place.Activities)
	}
}

func TestActivityScores(t *testing.T) {
	tests := []struct {
		name       string
		activities []string
		caption    string
		want       [6]float64
	}{
		{
			name: "nothing matches falls back to neutral",
			want: [6]float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
		},
		{
			name:       "case insensitive across activities and caption",
			activities: []string{"HIKING", "Trekking"},
			caption:    "Explore the Forest and a hidden Waterfall",
			want:       [6]float64{0.6, 0.5, 0.5, 0.5, 0.4, 0.5},
		},
		{
			name:    "substring matches count",
			caption: "spa in a parking lot downtown",
			want:    [6]float64{0.5, 0.5, 0.2, 0.5, 0.2, 0.2},
		},
		{
			name:       "full category match",
			activities: []string{"food", "restaurant", "taste"},
			caption:    "delicious cuisine",
			want:       [6]float64{0.5, 0.5, 0.5, 1, 0.5, 0.5},
		},
		{
			name:       "activities joined with spaces",
			activities: []string{"calm", "quiet"},
			want:       [6]float64{0.5, 0.5, 0.4, 0.5, 0.5, 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ActivityScores(tt.activities, tt.caption)
			for i := range got {
				if math.Abs(got[i]-tt.want[i]) > 1e-12 {
					t.Fatalf("category %s: expected %v, got %v (all=%v)", ActivityCategories[i].Name, tt.want[i], got[i], got)
				}
			}
		})
	}
}
