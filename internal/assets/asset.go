// Package assets records land assets detected in satellite imagery for a
// village. Asset counts feed the decision support recommendations.
package assets

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies a detected asset.
type Type string

const (
	TypeAgriculturalLand Type = "agricultural_land"
	TypeForestCover      Type = "forest_cover"
	TypeWaterBody        Type = "water_body"
	TypeHomestead        Type = "homestead"
)

// Types returns every asset type.
func Types() []Type {
	return []Type{TypeAgriculturalLand, TypeForestCover, TypeWaterBody, TypeHomestead}
}

// Asset is a land feature detected for a village.
type Asset struct {
	ID                 uuid.UUID  `json:"id"`
	VillageID          uuid.UUID  `json:"village_id"`
	AssetType          Type       `json:"asset_type"`
	Latitude           float64    `json:"latitude"`
	Longitude          float64    `json:"longitude"`
	AreaHectares       float64    `json:"area_hectares"`
	ConfidenceScore    float64    `json:"confidence_score"`
	DetectedAt         time.Time  `json:"detected_at"`
	SatelliteImageDate *time.Time `json:"satellite_image_date"`
}

// CreateCommand carries a detected asset. The village comes from the path.
type CreateCommand struct {
	AssetType          Type       `json:"asset_type"`
	Latitude           float64    `json:"latitude"`
	Longitude          float64    `json:"longitude"`
	AreaHectares       float64    `json:"area_hectares"`
	ConfidenceScore    float64    `json:"confidence_score"`
	SatelliteImageDate *time.Time `json:"satellite_image_date,omitempty"`
}

// Counts is the number of assets of each type in a village.
type Counts map[Type]int
