package claims

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fra-atlas/atlas/pkg/pagination"
)

type memory struct {
	mu         sync.RWMutex
	claims     map[uuid.UUID]Claim
	log        map[uuid.UUID][]StatusChange
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// NewMemory creates an in-process claim store implementing the System interface.
// Village references are not checked and state progress matches on village name.
func NewMemory(logger *slog.Logger, pagination pagination.Config) System {
	return &memory{
		claims:     make(map[uuid.UUID]Claim),
		log:        make(map[uuid.UUID][]StatusChange),
		logger:     logger.With("system", "claims", "store", "memory"),
		pagination: pagination,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (m *memory) Handler() *Handler {
	return NewHandler(m, m.logger, m.pagination)
}

func (m *memory) List(
	_ context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Claim], error) {
	page.Normalize(m.pagination)

	m.mu.RLock()
	matched := make([]Claim, 0, len(m.claims))
	for _, c := range m.claims {
		if filters.Matches(c) && matchesSearch(c, page.Search) {
			matched = append(matched, clone(c))
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(matched, func(a, b Claim) int {
		if c := b.SubmittedDate.Compare(a.SubmittedDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ClaimNumber, b.ClaimNumber)
	})

	result := pagination.Slice(matched, page)
	return &result, nil
}

func (m *memory) Find(_ context.Context, id uuid.UUID) (*Claim, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.claims[id]
	if !ok {
		return nil, ErrNotFound
	}
	c = clone(c)
	return &c, nil
}

func (m *memory) Create(_ context.Context, cmd CreateCommand) (*Claim, error) {
	c := newClaim(cmd, m.now())

	m.mu.Lock()
	for _, existing := range m.claims {
		if existing.ClaimNumber == c.ClaimNumber {
			m.mu.Unlock()
			return nil, ErrDuplicate
		}
	}
	m.claims[c.ID] = c
	m.mu.Unlock()

	m.logger.Info("claim created", "id", c.ID, "claim_number", c.ClaimNumber)
	c = clone(c)
	return &c, nil
}

func (m *memory) Update(_ context.Context, id uuid.UUID, cmd UpdateCommand) (*Claim, error) {
	m.mu.Lock()
	c, ok := m.claims[id]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	applyUpdate(&c, cmd, m.now())
	m.claims[id] = c
	m.mu.Unlock()

	m.logger.Info("claim updated", "id", id)
	c = clone(c)
	return &c, nil
}

func (m *memory) SetStatus(_ context.Context, id uuid.UUID, cmd StatusCommand) (*Claim, error) {
	m.mu.Lock()
	c, ok := m.claims[id]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	change := applyStatus(&c, cmd, m.now())
	m.claims[id] = c
	m.log[id] = append(m.log[id], change)
	m.mu.Unlock()

	m.logger.Info(
		"claim status changed",
		"id", id,
		"old_status", change.OldStatus,
		"new_status", change.NewStatus,
		"changed_by", change.ChangedBy,
	)
	c = clone(c)
	return &c, nil
}

func (m *memory) History(_ context.Context, id uuid.UUID) (*History, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.claims[id]; !ok {
		return nil, ErrNotFound
	}

	entries := m.log[id]
	history := make([]StatusChange, len(entries))
	for i, e := range entries {
		history[len(entries)-1-i] = e
	}

	return &History{ClaimID: id, History: history}, nil
}

func (m *memory) Progress(_ context.Context, state string) (*Progress, error) {
	needle := strings.ToLower(state)
	counts := make(map[Status]int)

	m.mu.RLock()
	for _, c := range m.claims {
		if strings.Contains(strings.ToLower(c.VillageName), needle) {
			counts[c.Status]++
		}
	}
	m.mu.RUnlock()

	p := newProgress(state, counts)
	return &p, nil
}

func matchesSearch(c Claim, search *string) bool {
	if search == nil || *search == "" {
		return true
	}
	needle := strings.ToLower(*search)
	for _, field := range []string{c.BeneficiaryName, c.ClaimNumber, c.VillageName} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func clone(c Claim) Claim {
	c.LinkedSchemes = slices.Clone(c.LinkedSchemes)
	if c.LinkedSchemes == nil {
		c.LinkedSchemes = []string{}
	}
	return c
}
