package claims_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fra-atlas/atlas/internal/claims"
	"github.com/fra-atlas/atlas/pkg/pagination"
)

func newMemory() claims.System {
	return claims.NewMemory(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func createCmd(village string, t claims.Type) claims.CreateCommand {
	return claims.CreateCommand{
		ClaimType:             t,
		VillageID:             uuid.New(),
		VillageName:           village,
		BeneficiaryName:       "Sita Munda",
		BeneficiaryFatherName: "Ram Munda",
		AreaClaimed:           1.75,
	}
}

func ptr[T any](v T) *T { return &v }

func TestMemoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	sys := newMemory()

	created, err := sys.Create(ctx, createCmd("Kalahandi Odisha", claims.TypeIFR))
	require.NoError(t, err)
	assert.Equal(t, claims.StatusPending, created.Status)
	assert.Regexp(t, `^IFR-\d{8}-[0-9A-F]{6}$`, created.ClaimNumber)

	found, err := sys.Find(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ClaimNumber, found.ClaimNumber)

	_, err = sys.Find(ctx, uuid.New())
	assert.ErrorIs(t, err, claims.ErrNotFound)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	sys := newMemory()

	created, err := sys.Create(ctx, createCmd("Bastar", claims.TypeCR))
	require.NoError(t, err)

	_, err = sys.Update(ctx, created.ID, claims.UpdateCommand{LinkedSchemes: []string{"MGNREGA"}})
	require.NoError(t, err)

	first, err := sys.Find(ctx, created.ID)
	require.NoError(t, err)
	first.LinkedSchemes[0] = "mutated"

	second, err := sys.Find(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"MGNREGA"}, second.LinkedSchemes)
}

func TestMemoryList(t *testing.T) {
	ctx := context.Background()
	sys := newMemory()

	a, err := sys.Create(ctx, createCmd("Mandla", claims.TypeIFR))
	require.NoError(t, err)
	_, err = sys.Create(ctx, createCmd("Dindori", claims.TypeCFR))
	require.NoError(t, err)
	_, err = sys.Create(ctx, createCmd("Mandla East", claims.TypeCR))
	require.NoError(t, err)

	_, err = sys.SetStatus(ctx, a.ID, claims.StatusCommand{Status: claims.StatusApproved})
	require.NoError(t, err)

	tests := []struct {
		name    string
		page    pagination.PageRequest
		filters claims.Filters
		want    int
	}{
		{"all", pagination.PageRequest{}, claims.Filters{}, 3},
		{"status filter", pagination.PageRequest{}, claims.Filters{Status: ptr("approved")}, 1},
		{"type filter", pagination.PageRequest{}, claims.Filters{ClaimType: ptr("CFR")}, 1},
		{"village filter", pagination.PageRequest{}, claims.Filters{VillageID: &a.VillageID}, 1},
		{"search village name", pagination.PageRequest{Search: ptr("mandla")}, claims.Filters{}, 2},
		{"no match", pagination.PageRequest{Search: ptr("nowhere")}, claims.Filters{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := sys.List(ctx, tt.page, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Total)
			assert.Len(t, result.Data, tt.want)
		})
	}

	t.Run("page size", func(t *testing.T) {
		result, err := sys.List(ctx, pagination.PageRequest{Page: 2, PageSize: 2}, claims.Filters{})
		require.NoError(t, err)
		assert.Equal(t, 3, result.Total)
		assert.Equal(t, 2, result.TotalPages)
		assert.Len(t, result.Data, 1)
	})
}

func TestMemoryUpdate(t *testing.T) {
	ctx := context.Background()
	sys := newMemory()

	created, err := sys.Create(ctx, createCmd("Gadchiroli", claims.TypeIFR))
	require.NoError(t, err)

	updated, err := sys.Update(ctx, created.ID, claims.UpdateCommand{
		AssignedOfficer: ptr("SDLC Officer"),
		GrantedArea:     ptr(1.5),
	})
	require.NoError(t, err)
	assert.Equal(t, "SDLC Officer", *updated.AssignedOfficer)
	assert.Equal(t, 1.5, *updated.GrantedArea)
	assert.Nil(t, updated.PattaNumber)

	_, err = sys.Update(ctx, uuid.New(), claims.UpdateCommand{})
	assert.ErrorIs(t, err, claims.ErrNotFound)
}

func TestMemoryStatusHistory(t *testing.T) {
	ctx := context.Background()
	sys := newMemory()

	created, err := sys.Create(ctx, createCmd("Koraput", claims.TypeIFR))
	require.NoError(t, err)

	_, err = sys.SetStatus(ctx, created.ID, claims.StatusCommand{Status: claims.StatusUnderReview})
	require.NoError(t, err)

	verified, err := sys.SetStatus(ctx, created.ID, claims.StatusCommand{
		Status:  claims.StatusVerified,
		Officer: ptr("Forest Ranger"),
		Notes:   ptr("site visit done"),
	})
	require.NoError(t, err)
	assert.Equal(t, claims.VerificationCompleted, verified.VerificationStatus)
	assert.NotNil(t, verified.FieldVerificationDate)
	assert.Equal(t, "Forest Ranger", *verified.AssignedOfficer)

	history, err := sys.History(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history.History, 2)

	latest := history.History[0]
	assert.Equal(t, claims.StatusUnderReview, latest.OldStatus)
	assert.Equal(t, claims.StatusVerified, latest.NewStatus)
	assert.Equal(t, "Forest Ranger", latest.ChangedBy)
	assert.Equal(t, "site visit done", *latest.Notes)

	first := history.History[1]
	assert.Equal(t, claims.StatusPending, first.OldStatus)
	assert.Equal(t, claims.SystemActor, first.ChangedBy)

	_, err = sys.History(ctx, uuid.New())
	assert.ErrorIs(t, err, claims.ErrNotFound)

	_, err = sys.SetStatus(ctx, uuid.New(), claims.StatusCommand{Status: claims.StatusApproved})
	assert.ErrorIs(t, err, claims.ErrNotFound)
}

func TestMemoryProgress(t *testing.T) {
	ctx := context.Background()
	sys := newMemory()

	for i := range 4 {
		c, err := sys.Create(ctx, createCmd("Rayagada, Odisha", claims.TypeIFR))
		require.NoError(t, err)
		if i == 0 {
			_, err = sys.SetStatus(ctx, c.ID, claims.StatusCommand{Status: claims.StatusApproved})
			require.NoError(t, err)
		}
	}
	_, err := sys.Create(ctx, createCmd("Dantewada, Chhattisgarh", claims.TypeIFR))
	require.NoError(t, err)

	p, err := sys.Progress(ctx, "odisha")
	require.NoError(t, err)
	assert.Equal(t, "odisha", p.State)
	assert.Equal(t, 4, p.TotalClaims)
	assert.Equal(t, 1, p.ApprovedClaims)
	assert.Equal(t, 3, p.PendingClaims)
	assert.InDelta(t, 25.0, p.ProgressPercentage, 1e-9)

	none, err := sys.Progress(ctx, "Kerala")
	require.NoError(t, err)
	assert.Zero(t, none.TotalClaims)
}

func TestMemoryConcurrentStatusChanges(t *testing.T) {
	ctx := context.Background()
	sys := newMemory()

	created, err := sys.Create(ctx, createCmd("Nabarangpur", claims.TypeIFR))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			_, _ = sys.SetStatus(ctx, created.ID, claims.StatusCommand{Status: claims.StatusUnderReview})
		})
	}
	wg.Wait()

	history, err := sys.History(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, history.History, 20)
}
