// Package claims implements the forest rights claim domain: claim registration,
// partial updates, the status workflow with its audit log, and state-level
// progress reporting. It ships a PostgreSQL store and an in-memory store
// behind the same System interface.
package claims

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type is the category of rights claimed under the Forest Rights Act.
type Type string

const (
	TypeIFR Type = "IFR"
	TypeCR  Type = "CR"
	TypeCFR Type = "CFR"
)

// Status is a claim's position in the adjudication workflow.
type Status string

const (
	StatusPending     Status = "pending"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusDisputed    Status = "disputed"
	StatusVerified    Status = "verified"
	StatusUnderReview Status = "under_review"
)

// Statuses lists every valid claim status.
func Statuses() []Status {
	return []Status{
		StatusPending,
		StatusApproved,
		StatusRejected,
		StatusDisputed,
		StatusVerified,
		StatusUnderReview,
	}
}

// ParseStatus validates s against Statuses.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Statuses(), st) {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// Field verification progress recorded on a claim.
const (
	VerificationNotStarted = "not_started"
	VerificationCompleted  = "completed"
)

// SystemActor is recorded as the author of status changes that name no officer.
const SystemActor = "system"

// Claim is a registered forest rights claim.
type Claim struct {
	ID                    uuid.UUID  `json:"id"`
	ClaimType             Type       `json:"claim_type"`
	ClaimNumber           string     `json:"claim_number"`
	VillageID             uuid.UUID  `json:"village_id"`
	VillageName           string     `json:"village_name"`
	BeneficiaryName       string     `json:"beneficiary_name"`
	BeneficiaryFatherName string     `json:"beneficiary_father_name"`
	TribeName             *string    `json:"tribe_name"`
	AreaClaimed           float64    `json:"area_claimed"`
	Status                Status     `json:"status"`
	SubmittedDate         time.Time  `json:"submitted_date"`
	LastUpdated           time.Time  `json:"last_updated"`
	AssignedOfficer       *string    `json:"assigned_officer"`
	VerificationStatus    string     `json:"verification_status"`
	FieldVerificationDate *time.Time `json:"field_verification_date"`
	GrantedDate           *time.Time `json:"granted_date"`
	LinkedSchemes         []string   `json:"linked_schemes"`
	SurveyNumber          *string    `json:"survey_number"`
	PattaNumber           *string    `json:"patta_number"`
	GrantedArea           *float64   `json:"granted_area"`
}

// CreateCommand carries the data needed to register a new claim.
type CreateCommand struct {
	ClaimType             Type      `json:"claim_type"`
	VillageID             uuid.UUID `json:"village_id"`
	VillageName           string    `json:"village_name"`
	BeneficiaryName       string    `json:"beneficiary_name"`
	BeneficiaryFatherName string    `json:"beneficiary_father_name"`
	TribeName             *string   `json:"tribe_name,omitempty"`
	AreaClaimed           float64   `json:"area_claimed"`
	SurveyNumber          *string   `json:"survey_number,omitempty"`
}

// UpdateCommand applies a partial update. Nil fields are left unchanged.
type UpdateCommand struct {
	AssignedOfficer *string  `json:"assigned_officer,omitempty"`
	LinkedSchemes   []string `json:"linked_schemes,omitempty"`
	SurveyNumber    *string  `json:"survey_number,omitempty"`
	PattaNumber     *string  `json:"patta_number,omitempty"`
	GrantedArea     *float64 `json:"granted_area,omitempty"`
}

// StatusCommand moves a claim to a new status.
type StatusCommand struct {
	Status  Status  `json:"status"`
	Notes   *string `json:"notes,omitempty"`
	Officer *string `json:"officer,omitempty"`
}

// StatusChange is one entry of a claim's status audit log.
type StatusChange struct {
	ID        uuid.UUID `json:"id"`
	ClaimID   uuid.UUID `json:"claim_id"`
	OldStatus Status    `json:"old_status"`
	NewStatus Status    `json:"new_status"`
	ChangedBy string    `json:"changed_by"`
	Notes     *string   `json:"notes"`
	ChangedAt time.Time `json:"changed_at"`
}

// History is a claim's status log, newest first.
type History struct {
	ClaimID uuid.UUID      `json:"claim_id"`
	History []StatusChange `json:"history"`
}

// Progress summarizes claim adjudication for one state.
type Progress struct {
	State              string         `json:"state"`
	TotalClaims        int            `json:"total_claims"`
	ApprovedClaims     int            `json:"approved_claims"`
	PendingClaims      int            `json:"pending_claims"`
	ProgressPercentage float64        `json:"progress_percentage"`
	StatusBreakdown    map[Status]int `json:"status_breakdown"`
}

// newClaim builds the initial record for cmd.
func newClaim(cmd CreateCommand, now time.Time) Claim {
	id := uuid.New()
	return Claim{
		ID:                    id,
		ClaimType:             cmd.ClaimType,
		ClaimNumber:           claimNumber(cmd.ClaimType, now, id),
		VillageID:             cmd.VillageID,
		VillageName:           cmd.VillageName,
		BeneficiaryName:       cmd.BeneficiaryName,
		BeneficiaryFatherName: cmd.BeneficiaryFatherName,
		TribeName:             cmd.TribeName,
		AreaClaimed:           cmd.AreaClaimed,
		Status:                StatusPending,
		SubmittedDate:         now,
		LastUpdated:           now,
		VerificationStatus:    VerificationNotStarted,
		LinkedSchemes:         []string{},
		SurveyNumber:          cmd.SurveyNumber,
	}
}

// claimNumber renders <TYPE>-<yyyymmdd>-<6 hex> from the claim's own ID.
func claimNumber(t Type, now time.Time, id uuid.UUID) string {
	return fmt.Sprintf("%s-%s-%X", t, now.Format("20060102"), id[:3])
}

// applyUpdate merges the non-nil fields of cmd into c.
func applyUpdate(c *Claim, cmd UpdateCommand, now time.Time) {
	if cmd.AssignedOfficer != nil {
		c.AssignedOfficer = cmd.AssignedOfficer
	}
	if cmd.LinkedSchemes != nil {
		c.LinkedSchemes = slices.Clone(cmd.LinkedSchemes)
	}
	if cmd.SurveyNumber != nil {
		c.SurveyNumber = cmd.SurveyNumber
	}
	if cmd.PattaNumber != nil {
		c.PattaNumber = cmd.PattaNumber
	}
	if cmd.GrantedArea != nil {
		c.GrantedArea = cmd.GrantedArea
	}
	c.LastUpdated = now
}

// applyStatus moves c to cmd.Status, stamps the status-specific dates, and
// returns the log entry recording the change.
func applyStatus(c *Claim, cmd StatusCommand, now time.Time) StatusChange {
	change := StatusChange{
		ID:        uuid.New(),
		ClaimID:   c.ID,
		OldStatus: c.Status,
		NewStatus: cmd.Status,
		ChangedBy: SystemActor,
		Notes:     cmd.Notes,
		ChangedAt: now,
	}

	if cmd.Officer != nil && *cmd.Officer != "" {
		c.AssignedOfficer = cmd.Officer
		change.ChangedBy = *cmd.Officer
	}

	switch cmd.Status {
	case StatusApproved:
		c.GrantedDate = &now
	case StatusVerified:
		c.FieldVerificationDate = &now
		c.VerificationStatus = VerificationCompleted
	}

	c.Status = cmd.Status
	c.LastUpdated = now
	return change
}

// newProgress derives the state summary from per-status counts.
func newProgress(state string, counts map[Status]int) Progress {
	p := Progress{
		State:           state,
		StatusBreakdown: counts,
		ApprovedClaims:  counts[StatusApproved],
		PendingClaims:   counts[StatusPending],
	}
	for _, n := range counts {
		p.TotalClaims += n
	}
	if p.TotalClaims > 0 {
		p.ProgressPercentage = float64(p.ApprovedClaims) / float64(p.TotalClaims) * 100
	}
	return p
}
