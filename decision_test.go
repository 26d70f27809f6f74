package mrtopo

import (
	"testing"
)

func TestRecommendHighway(t *testing.T) {
	indices := PavementIndices{PCI: 95, RQI: 90, RDI: 95, SRI: 85}
	recommendations := Recommend(indices, ROAD_HIGHWAY, TRAFFIC_LIGHT, "Asphalt Aging", "light", nil)
	if len(recommendations) != 5 {
		t.Errorf("Expected 5 top scoring techniques, but got %d", len(recommendations))
	}
	if len(recommendations) == 0 {
		return
	}
	if recommendations[0].Technique != "Fog Sealing" {
		t.Errorf("Cheapest technique must come first, but got '%s'", recommendations[0].Technique)
	}
	for i := 1; i < len(recommendations); i++ {
		if recommendations[i].Cost < recommendations[i-1].Cost {
			t.Errorf("Recommendations must be ranked by cost ascending")
		}
	}
	for _, recommendation := range recommendations {
		sum := recommendation.Scores[0] + recommendation.Scores[1] + recommendation.Scores[2]
		if sum != 3 {
			t.Errorf("Technique '%s' must carry full score, but got %v", recommendation.Technique, recommendation.Scores)
		}
	}
}

func TestRecommendHeavyTrafficPenalty(t *testing.T) {
	indices := PavementIndices{PCI: 95, RQI: 90, RDI: 95, SRI: 85}
	recommendations := Recommend(indices, ROAD_HIGHWAY, TRAFFIC_HEAVY, "Asphalt Aging", "light", nil)
	for _, recommendation := range recommendations {
		if recommendation.Technique == "Fog Sealing" {
			t.Errorf("Fog sealing must be penalized off the top group under heavy traffic")
		}
	}
	if len(recommendations) == 0 || recommendations[0].Technique != "Micro-Surfacing" {
		t.Errorf("Micro-surfacing must lead under heavy traffic, but got %v", recommendations)
	}
}

func TestRecommendFourthClassPenalties(t *testing.T) {
	indices := PavementIndices{PCI: 85, RQI: 80, RDI: 85, SRI: 80}

	recommendations := Recommend(indices, ROAD_FOURTH_CLASS, TRAFFIC_LIGHT, "Pavement Abrasion", "moderate", nil)
	if len(recommendations) == 0 || recommendations[0].Technique != "Slurry Sealing" {
		t.Errorf("Slurry sealing must lead on light traffic, but got %v", recommendations)
	}

	// Heavy traffic knocks out both cheap sealings
	recommendations = Recommend(indices, ROAD_FOURTH_CLASS, TRAFFIC_HEAVY, "Pavement Abrasion", "moderate", nil)
	if len(recommendations) == 0 || recommendations[0].Technique != "Composite Sealing" {
		t.Errorf("Composite sealing must lead on heavy traffic, but got %v", recommendations)
	}
	for _, recommendation := range recommendations {
		if recommendation.Technique == "Slurry Sealing" || recommendation.Technique == "Stone-Fiber Sealing" {
			t.Errorf("Technique '%s' must be penalized off the top group", recommendation.Technique)
		}
	}
}

func TestRecommendFallback(t *testing.T) {
	indices := PavementIndices{PCI: 50, RQI: 40, RDI: 45, SRI: 50}
	recommendations := Recommend(indices, ROAD_HIGHWAY, TRAFFIC_MODERATE, "Structural Damage", "severe", nil)
	if len(recommendations) != 1 {
		t.Errorf("Expected single fallback recommendation, but got %d", len(recommendations))
		return
	}
	if recommendations[0].Technique != "Structural Rehabilitation" {
		t.Errorf("Fallback must be structural rehabilitation, but got '%s'", recommendations[0].Technique)
	}
	if recommendations[0].Cost != 75.0 {
		t.Errorf("Fallback cost must be 75, but got %f", recommendations[0].Cost)
	}
}

func TestPreprocessingLookup(t *testing.T) {
	table := PreprocessingTable{
		{"Asphalt Aging", "light", "Fog Sealing"}:      PREPROCESSING_NOT_REQUIRED,
		{"Asphalt Aging", "light", "Micro-Surfacing"}:  PREPROCESSING_OPTIONAL,
		{"Asphalt Aging", "severe", "Micro-Surfacing"}: PREPROCESSING_REQUIRED,
	}
	if need := table.Need("Asphalt Aging", "light", "Fog Sealing"); need != PREPROCESSING_NOT_REQUIRED {
		t.Errorf("Expected no preprocessing, but got '%s'", need)
	}
	if need := table.Need("Asphalt Aging", "light", "Micro-Surfacing"); need != PREPROCESSING_OPTIONAL {
		t.Errorf("Expected optional preprocessing, but got '%s'", need)
	}
	// Unknown combination defaults to required
	if need := table.Need("Pavement Seepage", "severe", "Overlay"); need != PREPROCESSING_REQUIRED {
		t.Errorf("Unknown combination must require preprocessing, but got '%s'", need)
	}

	indices := PavementIndices{PCI: 95, RQI: 90, RDI: 95, SRI: 85}
	recommendations := Recommend(indices, ROAD_HIGHWAY, TRAFFIC_LIGHT, "Asphalt Aging", "light", table)
	if len(recommendations) == 0 {
		t.Fatalf("Expected recommendations")
	}
	if recommendations[0].Preprocessing != "No preprocessing required" {
		t.Errorf("Expected preprocessing note attached, but got '%s'", recommendations[0].Preprocessing)
	}
}
