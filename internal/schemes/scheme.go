// Package schemes tracks beneficiary enrolments in centrally sponsored
// schemes (PM-KISAN, MGNREGA, Jal Jeevan Mission) by village.
package schemes

import (
	"time"

	"github.com/google/uuid"
)

// Status is an enrolment state.
type Status string

const (
	StatusActive    Status = "active"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Enrolment links a beneficiary in a village to a scheme.
type Enrolment struct {
	ID            uuid.UUID  `json:"id"`
	SchemeName    string     `json:"scheme_name"`
	BeneficiaryID string     `json:"beneficiary_id"`
	VillageID     uuid.UUID  `json:"village_id"`
	BenefitAmount float64    `json:"benefit_amount"`
	Status        Status     `json:"status"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
}

// CreateCommand carries a new enrolment. The village comes from the path.
// Status defaults to pending and StartDate to the current time.
type CreateCommand struct {
	SchemeName    string     `json:"scheme_name"`
	BeneficiaryID string     `json:"beneficiary_id"`
	BenefitAmount float64    `json:"benefit_amount"`
	Status        *Status    `json:"status,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
}

func newEnrolment(id, villageID uuid.UUID, cmd CreateCommand, now time.Time) Enrolment {
	e := Enrolment{
		ID:            id,
		SchemeName:    cmd.SchemeName,
		BeneficiaryID: cmd.BeneficiaryID,
		VillageID:     villageID,
		BenefitAmount: cmd.BenefitAmount,
		Status:        StatusPending,
		StartDate:     now,
		EndDate:       cmd.EndDate,
	}
	if cmd.Status != nil {
		e.Status = *cmd.Status
	}
	if cmd.StartDate != nil {
		e.StartDate = cmd.StartDate.UTC()
	}
	return e
}
