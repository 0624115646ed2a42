// Package satellite serves land verification reports for a coordinate.
// No imagery source is connected: every report carries the same fixed
// classification and is flagged as a stub.
package satellite

import "github.com/fra-atlas/atlas/pkg/extract"

// Default coordinates used when a request omits them.
const (
	DefaultLatitude  = extract.PlaceholderLatitude
	DefaultLongitude = extract.PlaceholderLongitude
)

// AnalyzeCommand is a coordinate to analyze. Missing values use the defaults.
type AnalyzeCommand struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// LandClassification is the percentage of area in each land class.
type LandClassification struct {
	DenseForest  float64 `json:"dense_forest"`
	OpenForest   float64 `json:"open_forest"`
	ScrubLand    float64 `json:"scrub_land"`
	Agricultural float64 `json:"agricultural"`
}

// ChangeDetection summarizes land cover change.
type ChangeDetection struct {
	DeforestationRisk    string `json:"deforestation_risk"`
	EncroachmentDetected bool   `json:"encroachment_detected"`
	LastUpdated          string `json:"last_updated"`
}

// Report is a fixed analysis for the requested coordinates.
type Report struct {
	Stub               bool               `json:"stub"`
	Success            bool               `json:"success"`
	Coordinates        [2]float64         `json:"coordinates"`
	LandType           string             `json:"land_type"`
	VegetationIndex    float64            `json:"vegetation_index"`
	ForestCover        float64            `json:"forest_cover"`
	LandClassification LandClassification `json:"land_classification"`
	ChangeDetection    ChangeDetection    `json:"change_detection"`
	Recommendations    []string           `json:"recommendations"`
}

// Analyze returns the fixed report for the command's coordinates.
// Coordinates are echoed as [latitude, longitude].
func Analyze(cmd AnalyzeCommand) Report {
	lat, lon := DefaultLatitude, DefaultLongitude
	if cmd.Latitude != nil {
		lat = *cmd.Latitude
	}
	if cmd.Longitude != nil {
		lon = *cmd.Longitude
	}

	return Report{
		Stub:            true,
		Success:         true,
		Coordinates:     [2]float64{lat, lon},
		LandType:        "forest_land",
		VegetationIndex: 0.75,
		ForestCover:     85.2,
		LandClassification: LandClassification{
			DenseForest:  60.5,
			OpenForest:   24.7,
			ScrubLand:    10.3,
			Agricultural: 4.5,
		},
		ChangeDetection: ChangeDetection{
			DeforestationRisk: "low",
			LastUpdated:       "2024-09-15",
		},
		Recommendations: []string{
			"Land suitable for forest rights claim",
			"No significant encroachment detected",
			"Regular monitoring recommended",
		},
	}
}
