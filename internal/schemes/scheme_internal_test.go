package schemes

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewEnrolment(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	village := uuid.New()

	e := newEnrolment(uuid.New(), village, CreateCommand{SchemeName: "PM_KISAN", BeneficiaryID: "B-1"}, now)
	if e.Status != StatusPending {
		t.Errorf("Status = %q, want pending", e.Status)
	}
	if !e.StartDate.Equal(now) {
		t.Errorf("StartDate = %v, want %v", e.StartDate, now)
	}
	if e.VillageID != village {
		t.Errorf("VillageID = %s", e.VillageID)
	}

	active := StatusActive
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	e = newEnrolment(uuid.New(), village, CreateCommand{SchemeName: "MGNREGA", BeneficiaryID: "B-2", Status: &active, StartDate: &start}, now)
	if e.Status != StatusActive {
		t.Errorf("Status = %q, want active", e.Status)
	}
	if e.StartDate.Location() != time.UTC || !e.StartDate.Equal(start) {
		t.Errorf("StartDate = %v, want %v in UTC", e.StartDate, start)
	}
}
