package villages

import (
	"net/url"

	"github.com/fra-atlas/atlas/pkg/query"
	"github.com/fra-atlas/atlas/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "villages", "v").
	Project("id", "ID").
	Project("name", "Name").
	Project("state", "State").
	Project("district", "District").
	Project("tehsil", "Tehsil").
	Project("village_code", "VillageCode").
	Project("total_area", "TotalArea").
	Project("forest_area", "ForestArea").
	Project("latitude", "Latitude").
	Project("longitude", "Longitude").
	Project("population", "Population").
	Project("tribal_population", "TribalPopulation").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "Name"}

// Filters contains optional filtering criteria for village queries.
// Nil fields are ignored. All filters use case-insensitive exact matching.
type Filters struct {
	State    *string `json:"state,omitempty"`
	District *string `json:"district,omitempty"`
	Tehsil   *string `json:"tehsil,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEqualsFold("State", f.State).
		WhereEqualsFold("District", f.District).
		WhereEqualsFold("Tehsil", f.Tehsil)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("state"); s != "" {
		f.State = &s
	}

	if d := values.Get("district"); d != "" {
		f.District = &d
	}

	if t := values.Get("tehsil"); t != "" {
		f.Tehsil = &t
	}

	return f
}

func scanVillage(s repository.Scanner) (Village, error) {
	var v Village
	err := s.Scan(
		&v.ID,
		&v.Name,
		&v.State,
		&v.District,
		&v.Tehsil,
		&v.VillageCode,
		&v.TotalArea,
		&v.ForestArea,
		&v.Latitude,
		&v.Longitude,
		&v.Population,
		&v.TribalPopulation,
		&v.CreatedAt,
	)
	return v, err
}
