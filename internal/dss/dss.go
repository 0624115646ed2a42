// Package dss is the decision support system. It recommends centrally
// sponsored schemes for a village from the assets detected around it.
package dss

import (
	"time"

	"github.com/google/uuid"
)

// Recommended scheme identifiers.
const (
	SchemeJalJeevanMission = "JAL_JEEVAN_MISSION"
	SchemePMKisan          = "PM_KISAN"
	SchemeMGNREGA          = "MGNREGA"
)

// Recommendation rule parameters.
const (
	BasePriority       = 0.5
	WaterPriorityBoost = 0.2
	MinimumWaterBodies = 2
)

// Recommendation is the scheme advice stored for a village.
type Recommendation struct {
	ID                    uuid.UUID         `json:"id"`
	VillageID             uuid.UUID         `json:"village_id"`
	RecommendedSchemes    []string          `json:"recommended_schemes"`
	PriorityScore         float64           `json:"priority_score"`
	Reasoning             map[string]string `json:"reasoning"`
	WaterIndex            *float64          `json:"water_index"`
	AgriculturalPotential *float64          `json:"agricultural_potential"`
	ForestDependency      *float64          `json:"forest_dependency"`
	CreatedAt             time.Time         `json:"created_at"`
}

// Advice is the derived part of a recommendation.
type Advice struct {
	Schemes               []string
	PriorityScore         float64
	Reasoning             map[string]string
	WaterIndex            float64
	AgriculturalPotential float64
}

// Recommend derives scheme advice from a village's water body and
// agricultural land counts. Villages with fewer than two water bodies get
// Jal Jeevan Mission at raised priority, any agricultural land adds
// PM-KISAN, and MGNREGA is always recommended.
func Recommend(waterBodies, agricultural int) Advice {
	a := Advice{
		Schemes:               make([]string, 0, 3),
		PriorityScore:         BasePriority,
		Reasoning:             make(map[string]string, 3),
		WaterIndex:            assetIndex(waterBodies),
		AgriculturalPotential: assetIndex(agricultural),
	}

	if waterBodies < MinimumWaterBodies {
		a.Schemes = append(a.Schemes, SchemeJalJeevanMission)
		a.PriorityScore += WaterPriorityBoost
		a.Reasoning["water"] = "Low water body count detected"
	}

	if agricultural > 0 {
		a.Schemes = append(a.Schemes, SchemePMKisan)
		a.Reasoning["agriculture"] = "Agricultural land detected"
	}

	a.Schemes = append(a.Schemes, SchemeMGNREGA)
	a.Reasoning["employment"] = "Employment generation needed"

	return a
}

// assetIndex is 0.1 per detected asset.
func assetIndex(n int) float64 {
	return float64(n) / 10
}

func newRecommendation(id, villageID uuid.UUID, a Advice, now time.Time) Recommendation {
	water := a.WaterIndex
	agri := a.AgriculturalPotential
	return Recommendation{
		ID:                    id,
		VillageID:             villageID,
		RecommendedSchemes:    a.Schemes,
		PriorityScore:         a.PriorityScore,
		Reasoning:             a.Reasoning,
		WaterIndex:            &water,
		AgriculturalPotential: &agri,
		CreatedAt:             now,
	}
}
