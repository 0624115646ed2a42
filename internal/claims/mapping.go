package claims

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/fra-atlas/atlas/pkg/query"
	"github.com/fra-atlas/atlas/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "forest_claims", "c").
	Project("id", "ID").
	Project("claim_type", "ClaimType").
	Project("claim_number", "ClaimNumber").
	Project("village_id", "VillageID").
	Project("village_name", "VillageName").
	Project("beneficiary_name", "BeneficiaryName").
	Project("beneficiary_father_name", "BeneficiaryFatherName").
	Project("tribe_name", "TribeName").
	Project("area_claimed", "AreaClaimed").
	Project("status", "Status").
	Project("submitted_date", "SubmittedDate").
	Project("last_updated", "LastUpdated").
	Project("assigned_officer", "AssignedOfficer").
	Project("verification_status", "VerificationStatus").
	Project("field_verification_date", "FieldVerificationDate").
	Project("granted_date", "GrantedDate").
	Project("linked_schemes", "LinkedSchemes").
	Project("survey_number", "SurveyNumber").
	Project("patta_number", "PattaNumber").
	Project("granted_area", "GrantedArea")

var defaultSort = query.SortField{
	Field:      "SubmittedDate",
	Descending: true,
}

// Filters contains optional filtering criteria for claim queries.
// Nil fields are ignored. All filters use exact matching.
type Filters struct {
	Status    *string    `json:"status,omitempty"`
	VillageID *uuid.UUID `json:"village_id,omitempty"`
	ClaimType *string    `json:"claim_type,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("VillageID", f.VillageID).
		WhereEquals("ClaimType", f.ClaimType)
}

// Matches reports whether c satisfies every set filter.
func (f Filters) Matches(c Claim) bool {
	if f.Status != nil && string(c.Status) != *f.Status {
		return false
	}
	if f.VillageID != nil && c.VillageID != *f.VillageID {
		return false
	}
	if f.ClaimType != nil && string(c.ClaimType) != *f.ClaimType {
		return false
	}
	return true
}

// FiltersFromQuery extracts filter values from URL query parameters.
// An unparseable village_id is ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if v := values.Get("village_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.VillageID = &id
		}
	}

	if ct := values.Get("claim_type"); ct != "" {
		f.ClaimType = &ct
	}

	return f
}

func scanClaim(s repository.Scanner) (Claim, error) {
	var (
		c       Claim
		schemes []byte
	)
	err := s.Scan(
		&c.ID,
		&c.ClaimType,
		&c.ClaimNumber,
		&c.VillageID,
		&c.VillageName,
		&c.BeneficiaryName,
		&c.BeneficiaryFatherName,
		&c.TribeName,
		&c.AreaClaimed,
		&c.Status,
		&c.SubmittedDate,
		&c.LastUpdated,
		&c.AssignedOfficer,
		&c.VerificationStatus,
		&c.FieldVerificationDate,
		&c.GrantedDate,
		&schemes,
		&c.SurveyNumber,
		&c.PattaNumber,
		&c.GrantedArea,
	)
	if err != nil {
		return c, err
	}

	c.LinkedSchemes = []string{}
	if len(schemes) > 0 {
		if err := json.Unmarshal(schemes, &c.LinkedSchemes); err != nil {
			return c, fmt.Errorf("decode linked_schemes: %w", err)
		}
	}
	return c, nil
}

func scanStatusChange(s repository.Scanner) (StatusChange, error) {
	var sc StatusChange
	err := s.Scan(
		&sc.ID,
		&sc.ClaimID,
		&sc.OldStatus,
		&sc.NewStatus,
		&sc.ChangedBy,
		&sc.Notes,
		&sc.ChangedAt,
	)
	return sc, err
}

// schemesParam encodes linked schemes for a jsonb parameter. Nil stays NULL.
func schemesParam(schemes []string) (any, error) {
	if schemes == nil {
		return nil, nil
	}
	b, err := json.Marshal(schemes)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
