/*
store.go - Boundary interfaces between the engine and its collaborators

PURPOSE:
  The engine is a library: it performs no I/O itself. These interfaces
  describe what it consumes (ledger posting, account lookup, successor
  existence checks, snapshot persistence) so that SQLite, in-memory, or any
  other implementation can be plugged in.

SERIALIZATION CONTRACT:
  BudgetStore.Save performs an optimistic version check: saving a snapshot
  whose Version no longer matches the stored row fails with
  ErrConcurrentModification, and the caller re-invokes the engine against
  the fresh snapshot. Vote sets are never merged blindly - quorum evaluation
  depends on the current votes.

POSTING CONTRACT:
  PostTransaction applies a balanced posting set atomically (all-or-nothing)
  under an idempotency key. A repeated key fails with
  ErrDuplicateIdempotencyKey so network retries cannot double-apply.

FUNDING CONTRACT:
  ApplyFunding combines the snapshot save and the posting pair into one
  atomic unit. The key reservation, the version-checked budget update, and
  the posting inserts either all land or none do: a retry that loses the
  race sees ErrDuplicateIdempotencyKey with the budget row untouched, so
  the available amount can never be credited twice for one key.

IMPLEMENTATIONS:
  - store/sqlite: production store
  - budget/store: in-memory store for tests and dev

SEE ALSO:
  - service.go: The only engine-side consumer of these interfaces
*/
package budget

import "context"

// =============================================================================
// BUDGET STORE - Snapshot persistence with optimistic concurrency
// =============================================================================

type BudgetStore interface {
	// Get returns the current snapshot, or ErrBudgetNotFound.
	Get(ctx context.Context, id BudgetID) (*Budget, error)

	// Create persists a brand-new budget at version 1.
	Create(ctx context.Context, b Budget) error

	// Save persists an updated snapshot, checking that the stored version
	// still matches b.Version. On success the stored version is b.Version+1.
	// Fails with ErrConcurrentModification on a stale snapshot.
	Save(ctx context.Context, b Budget) error

	// List returns all budgets for an organization, newest first.
	List(ctx context.Context, organizationID string) ([]Budget, error)

	// ListRecurringParents returns the root budgets that define recurrence
	// rules, across all organizations. Used by the sweep.
	ListRecurringParents(ctx context.Context) ([]Budget, error)

	// LatestInChain returns the most recent instance (by start date) of the
	// recurrence chain rooted at the given budget, including the root itself.
	LatestInChain(ctx context.Context, rootID BudgetID) (*Budget, error)
}

// =============================================================================
// LEDGER POSTER - Atomic application of balanced posting sets
// =============================================================================

type LedgerPoster interface {
	// PostTransaction applies the posting set atomically under the given
	// idempotency key. Fails with ErrDuplicateIdempotencyKey if the key was
	// already applied.
	PostTransaction(ctx context.Context, postings []Posting, idempotencyKey string) error

	// ApplyFunding persists the funded snapshot and its balanced posting
	// set as one atomic unit under the idempotency key. Fails with
	// ErrDuplicateIdempotencyKey when the key was already applied and with
	// ErrConcurrentModification on a stale snapshot; in both cases nothing
	// is written.
	ApplyFunding(ctx context.Context, b Budget, postings []Posting, idempotencyKey string) error

	// HasPosted reports whether an idempotency key was already applied.
	HasPosted(ctx context.Context, idempotencyKey string) (bool, error)
}

// =============================================================================
// ACCOUNT DIRECTORY - Existence/active validation for referenced accounts
// =============================================================================

type AccountDirectory interface {
	// LookupAccount returns the account, or ErrAccountNotFound.
	LookupAccount(ctx context.Context, id AccountID) (*AccountRef, error)
}

// =============================================================================
// SUCCESSOR LOOKUP - Recurrence idempotency check
// =============================================================================

type SuccessorLookup interface {
	// FindSuccessor returns the ID of an existing successor of the given
	// root starting at periodStart, or nil if none exists.
	FindSuccessor(ctx context.Context, originalBudgetID BudgetID, periodStart Date) (*BudgetID, error)
}

// =============================================================================
// AUDIT LOG - Append-only record of engine events
// =============================================================================

type AuditLog interface {
	// AppendEvents records engine events. Append-only.
	AppendEvents(ctx context.Context, events []Event) error
}

// NopAuditLog discards events. Used when auditing is disabled.
type NopAuditLog struct{}

func (NopAuditLog) AppendEvents(ctx context.Context, events []Event) error { return nil }
