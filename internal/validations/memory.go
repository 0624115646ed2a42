package validations

import (
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
	items      map[uuid.UUID]Validation
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// NewMemory creates an in-process validation store implementing the System interface.
func NewMemory(logger *slog.Logger, pagination pagination.Config) System {
	return &memory{
		items:      make(map[uuid.UUID]Validation),
		logger:     logger.With("system", "validations", "store", "memory"),
		pagination: pagination,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (m *memory) Handler(maxUploadSize int64) *Handler {
	return NewHandler(m, m.logger, m.pagination, maxUploadSize)
}

func (m *memory) List(
	_ context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Validation], error) {
	page.Normalize(m.pagination)

	m.mu.RLock()
	matched := make([]Validation, 0, len(m.items))
	for _, v := range m.items {
		if filters.Matches(v) && matchesSearch(v, page.Search) {
			matched = append(matched, clone(v))
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(matched, func(a, b Validation) int {
		if c := b.ValidatedAt.Compare(a.ValidatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.DatasetName, b.DatasetName)
	})

	result := pagination.Slice(matched, page)
	return &result, nil
}

func (m *memory) Find(_ context.Context, id uuid.UUID) (*Validation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	v = clone(v)
	return &v, nil
}

func (m *memory) Create(_ context.Context, cmd CreateCommand) (*Validation, error) {
	v, err := assess(cmd, m.now())
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.items[v.ID] = v
	m.mu.Unlock()

	m.logger.Info(
		"dataset validated",
		"id", v.ID,
		"dataset", v.DatasetName,
		"confidence_score", v.ConfidenceScore,
		"requires_manual_review", v.RequiresManualReview,
	)
	v = clone(v)
	return &v, nil
}

func (m *memory) Review(_ context.Context, id uuid.UUID, cmd ReviewCommand) (*Validation, error) {
	m.mu.Lock()
	v, ok := m.items[id]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	applyReview(&v, cmd, m.now())
	m.items[id] = v
	m.mu.Unlock()

	m.logger.Info("validation reviewed", "id", id, "status", v.ValidationStatus)
	v = clone(v)
	return &v, nil
}

func matchesSearch(v Validation, search *string) bool {
	if search == nil || *search == "" {
		return true
	}
	needle := strings.ToLower(*search)
	return strings.Contains(strings.ToLower(v.DatasetName), needle) ||
		strings.Contains(strings.ToLower(v.DatasetType), needle)
}

func clone(v Validation) Validation {
	v.IssuesFound = slices.Clone(v.IssuesFound)
	return v
}
