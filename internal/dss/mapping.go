package dss

import (
	"encoding/json"
	"fmt"

	"github.com/fra-atlas/atlas/pkg/query"
	"github.com/fra-atlas/atlas/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "dss_recommendations", "dr").
	Project("id", "ID").
	Project("village_id", "VillageID").
	Project("recommended_schemes", "RecommendedSchemes").
	Project("priority_score", "PriorityScore").
	Project("reasoning", "Reasoning").
	Project("water_index", "WaterIndex").
	Project("agricultural_potential", "AgriculturalPotential").
	Project("forest_dependency", "ForestDependency").
	Project("created_at", "CreatedAt")

func scanRecommendation(s repository.Scanner) (Recommendation, error) {
	var (
		rec       Recommendation
		schemes   []byte
		reasoning []byte
	)

	err := s.Scan(
		&rec.ID,
		&rec.VillageID,
		&schemes,
		&rec.PriorityScore,
		&reasoning,
		&rec.WaterIndex,
		&rec.AgriculturalPotential,
		&rec.ForestDependency,
		&rec.CreatedAt,
	)
	if err != nil {
		return rec, err
	}

	if err := json.Unmarshal(schemes, &rec.RecommendedSchemes); err != nil {
		return rec, fmt.Errorf("decode recommended_schemes: %w", err)
	}
	if err := json.Unmarshal(reasoning, &rec.Reasoning); err != nil {
		return rec, fmt.Errorf("decode reasoning: %w", err)
	}
	return rec, nil
}
