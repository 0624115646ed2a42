package schemes

import (
	"github.com/fra-atlas/atlas/pkg/query"
	"github.com/fra-atlas/atlas/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "scheme_enrolments", "se").
	Project("id", "ID").
	Project("scheme_name", "SchemeName").
	Project("beneficiary_id", "BeneficiaryID").
	Project("village_id", "VillageID").
	Project("benefit_amount", "BenefitAmount").
	Project("status", "Status").
	Project("start_date", "StartDate").
	Project("end_date", "EndDate")

var defaultSort = query.SortField{Field: "StartDate", Descending: true}

func scanEnrolment(s repository.Scanner) (Enrolment, error) {
	var e Enrolment
	err := s.Scan(
		&e.ID,
		&e.SchemeName,
		&e.BeneficiaryID,
		&e.VillageID,
		&e.BenefitAmount,
		&e.Status,
		&e.StartDate,
		&e.EndDate,
	)
	return e, err
}
