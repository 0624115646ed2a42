package assets

import (
	"github.com/fra-atlas/atlas/pkg/query"
	"github.com/fra-atlas/atlas/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "satellite_assets", "sa").
	Project("id", "ID").
	Project("village_id", "VillageID").
	Project("asset_type", "AssetType").
	Project("latitude", "Latitude").
	Project("longitude", "Longitude").
	Project("area_hectares", "AreaHectares").
	Project("confidence_score", "ConfidenceScore").
	Project("detected_at", "DetectedAt").
	Project("satellite_image_date", "SatelliteImageDate")

var defaultSort = query.SortField{Field: "DetectedAt", Descending: true}

func scanAsset(s repository.Scanner) (Asset, error) {
	var a Asset
	err := s.Scan(
		&a.ID,
		&a.VillageID,
		&a.AssetType,
		&a.Latitude,
		&a.Longitude,
		&a.AreaHectares,
		&a.ConfidenceScore,
		&a.DetectedAt,
		&a.SatelliteImageDate,
	)
	return a, err
}
