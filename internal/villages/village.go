// Package villages implements the village registry: the administrative
// units that forest rights claims, detected assets, and scheme enrolments
// are attached to, plus their GeoJSON rendering for map clients.
package villages

import (
	"time"

	"github.com/google/uuid"
)

// Village is a revenue or forest village with its location and census figures.
type Village struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	State            string    `json:"state"`
	District         string    `json:"district"`
	Tehsil           string    `json:"tehsil"`
	VillageCode      string    `json:"village_code"`
	TotalArea        float64   `json:"total_area"`
	ForestArea       float64   `json:"forest_area"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Population       int       `json:"population"`
	TribalPopulation int       `json:"tribal_population"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreateCommand carries the data needed to register a village.
type CreateCommand struct {
	Name             string  `json:"name"`
	State            string  `json:"state"`
	District         string  `json:"district"`
	Tehsil           string  `json:"tehsil"`
	VillageCode      string  `json:"village_code"`
	TotalArea        float64 `json:"total_area"`
	ForestArea       float64 `json:"forest_area"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Population       int     `json:"population"`
	TribalPopulation int     `json:"tribal_population"`
}

// FeatureCollection is a GeoJSON FeatureCollection of village points.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a GeoJSON Feature.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Point          `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Point is a GeoJSON Point. Coordinates are [longitude, latitude].
type Point struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// NewFeatureCollection renders villages as GeoJSON point features.
func NewFeatureCollection(villages []Village) FeatureCollection {
	fc := FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]Feature, 0, len(villages)),
	}

	for _, v := range villages {
		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Geometry: Point{
				Type:        "Point",
				Coordinates: [2]float64{v.Longitude, v.Latitude},
			},
			Properties: map[string]any{
				"id":                v.ID,
				"name":              v.Name,
				"state":             v.State,
				"district":          v.District,
				"tehsil":            v.Tehsil,
				"village_code":      v.VillageCode,
				"population":        v.Population,
				"tribal_population": v.TribalPopulation,
				"total_area":        v.TotalArea,
				"forest_area":       v.ForestArea,
			},
		})
	}

	return fc
}
