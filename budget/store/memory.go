// Package store provides in-memory implementations of the engine's boundary
// interfaces, for tests and development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/budget-engine/budget"
)

// =============================================================================
// MEMORY - In-memory implementation of every boundary interface
// =============================================================================

// Memory implements budget.BudgetStore, budget.LedgerPoster,
// budget.AccountDirectory, budget.SuccessorLookup, and budget.AuditLog.
type Memory struct {
	mu          sync.RWMutex
	budgets     map[budget.BudgetID]budget.Budget
	postings    []budget.Posting
	idempotency map[string]bool
	accounts    map[budget.AccountID]budget.AccountRef
	events      []budget.Event
}

func NewMemory() *Memory {
	return &Memory{
		budgets:     make(map[budget.BudgetID]budget.Budget),
		idempotency: make(map[string]bool),
		accounts:    make(map[budget.AccountID]budget.AccountRef),
	}
}

// Compile-time interface checks.
var (
	_ budget.BudgetStore      = (*Memory)(nil)
	_ budget.LedgerPoster     = (*Memory)(nil)
	_ budget.AccountDirectory = (*Memory)(nil)
	_ budget.SuccessorLookup  = (*Memory)(nil)
	_ budget.AuditLog         = (*Memory)(nil)
)

// =============================================================================
// BUDGET STORE
// =============================================================================

func (m *Memory) Get(_ context.Context, id budget.BudgetID) (*budget.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.budgets[id]
	if !ok {
		return nil, budget.ErrBudgetNotFound
	}
	c := b.Clone()
	return &c, nil
}

func (m *Memory) Create(_ context.Context, b budget.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.budgets[b.ID]; exists {
		return budget.ErrConcurrentModification
	}
	// Mirror the store-level uniqueness constraint on
	// (original_budget_id, start_date).
	if b.OriginalBudgetID != "" {
		for _, other := range m.budgets {
			if other.OriginalBudgetID == b.OriginalBudgetID && other.StartDate.Equal(b.StartDate) {
				return budget.ErrConcurrentModification
			}
		}
	}
	b.Version = 1
	m.budgets[b.ID] = b.Clone()
	return nil
}

func (m *Memory) Save(_ context.Context, b budget.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.budgets[b.ID]
	if !ok {
		return budget.ErrBudgetNotFound
	}
	if stored.Version != b.Version {
		return budget.ErrConcurrentModification
	}
	next := b.Clone()
	next.Version = stored.Version + 1
	m.budgets[b.ID] = next
	return nil
}

func (m *Memory) List(_ context.Context, organizationID string) ([]budget.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []budget.Budget
	for _, b := range m.budgets {
		if organizationID == "" || b.OrganizationID == organizationID {
			result = append(result, b.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *Memory) ListRecurringParents(_ context.Context) ([]budget.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []budget.Budget
	for _, b := range m.budgets {
		if b.IsRecurringParent {
			result = append(result, b.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) LatestInChain(_ context.Context, rootID budget.BudgetID) (*budget.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	root, ok := m.budgets[rootID]
	if !ok {
		return nil, budget.ErrBudgetNotFound
	}
	latest := root
	for _, b := range m.budgets {
		if b.OriginalBudgetID == rootID && b.StartDate.After(latest.StartDate) {
			latest = b
		}
	}
	c := latest.Clone()
	return &c, nil
}

// =============================================================================
// LEDGER POSTER
// =============================================================================

func (m *Memory) PostTransaction(_ context.Context, postings []budget.Posting, idempotencyKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idempotencyKey != "" && m.idempotency[idempotencyKey] {
		return budget.ErrDuplicateIdempotencyKey
	}
	m.postings = append(m.postings, postings...)
	if idempotencyKey != "" {
		m.idempotency[idempotencyKey] = true
	}
	return nil
}

// ApplyFunding holds the lock across the key check, the version-checked
// snapshot save, and the posting append, so the whole funding application
// is one atomic unit.
func (m *Memory) ApplyFunding(_ context.Context, b budget.Budget, postings []budget.Posting, idempotencyKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idempotencyKey != "" && m.idempotency[idempotencyKey] {
		return budget.ErrDuplicateIdempotencyKey
	}
	stored, ok := m.budgets[b.ID]
	if !ok {
		return budget.ErrBudgetNotFound
	}
	if stored.Version != b.Version {
		return budget.ErrConcurrentModification
	}

	next := b.Clone()
	next.Version = stored.Version + 1
	m.budgets[b.ID] = next
	m.postings = append(m.postings, postings...)
	if idempotencyKey != "" {
		m.idempotency[idempotencyKey] = true
	}
	return nil
}

func (m *Memory) HasPosted(_ context.Context, idempotencyKey string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.idempotency[idempotencyKey], nil
}

// PostingsForBudget returns all postings recorded for a budget, in order.
// An empty budget ID returns everything.
func (m *Memory) PostingsForBudget(_ context.Context, budgetID budget.BudgetID) ([]budget.Posting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []budget.Posting
	for _, p := range m.postings {
		if budgetID == "" || p.BudgetID == budgetID {
			result = append(result, p)
		}
	}
	return result, nil
}

// =============================================================================
// ACCOUNT DIRECTORY
// =============================================================================

func (m *Memory) LookupAccount(_ context.Context, id budget.AccountID) (*budget.AccountRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ref, ok := m.accounts[id]
	if !ok {
		return nil, budget.ErrAccountNotFound
	}
	return &ref, nil
}

// SaveAccount registers or updates an account in the directory.
func (m *Memory) SaveAccount(_ context.Context, ref budget.AccountRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[ref.ID] = ref
	return nil
}

// ListAccounts returns the full account directory, ordered by ID.
func (m *Memory) ListAccounts(_ context.Context) ([]budget.AccountRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []budget.AccountRef
	for _, ref := range m.accounts {
		result = append(result, ref)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// =============================================================================
// SUCCESSOR LOOKUP
// =============================================================================

func (m *Memory) FindSuccessor(_ context.Context, originalBudgetID budget.BudgetID, periodStart budget.Date) (*budget.BudgetID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, b := range m.budgets {
		if b.OriginalBudgetID == originalBudgetID && b.StartDate.Equal(periodStart) {
			id := b.ID
			return &id, nil
		}
	}
	return nil, nil
}

// =============================================================================
// AUDIT LOG
// =============================================================================

func (m *Memory) AppendEvents(_ context.Context, events []budget.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

// Events returns all recorded audit events.
func (m *Memory) Events() []budget.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]budget.Event, len(m.events))
	copy(result, m.events)
	return result
}
