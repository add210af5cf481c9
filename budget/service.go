/*
service.go - Orchestration: snapshots in, snapshots out, conflicts retried

PURPOSE:
  Binds the pure engine functions to the boundary interfaces. Every
  operation follows the same shape:

    1. Load the current snapshot
    2. Apply the pure engine function
    3. Save with an optimistic version check
    4. On conflict, reload and re-apply (bounded retries)

  Re-applying against the fresh snapshot (rather than merging) is the whole
  point: quorum evaluation depends on the current vote set, and the funding
  ceiling depends on the current available amount.

IDEMPOTENT FUNDING:
  Fund short-circuits when the idempotency key was already applied: the
  caller gets the current snapshot back and the available amount is not
  credited twice, giving at-most-once effective application under
  at-least-once delivery. The HasPosted check is only a fast path - the
  real guarantee is ApplyFunding, which reserves the key, saves the
  snapshot, and writes the posting pair in one atomic store unit, so a
  retry that slips past the check before the first application commits
  still cannot credit a second time.

RECURRENCE:
  AdvanceRecurrence walks a chain to its latest instance, asks
  NextOccurrence for the following period, and treats an already-existing
  successor as a silent no-op success (nothing to do).

SEE ALSO:
  - lifecycle.go, funding.go, recurrence.go: The pure functions
  - store.go: The interfaces this service consumes
*/
package budget

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// maxConflictRetries bounds optimistic-concurrency re-application. Conflicts
// beyond this surface ErrConcurrentModification to the caller.
const maxConflictRetries = 3

// Service orchestrates engine operations against the boundary interfaces.
type Service struct {
	Budgets    BudgetStore
	Ledger     LedgerPoster
	Accounts   AccountDirectory
	Successors SuccessorLookup
	Audit      AuditLog

	// Now is the clock, overridable in tests.
	Now func() time.Time
}

// NewService wires a service with a real clock and a no-op audit log unless
// one is provided.
func NewService(budgets BudgetStore, ledger LedgerPoster, accounts AccountDirectory, successors SuccessorLookup, audit AuditLog) *Service {
	if audit == nil {
		audit = NopAuditLog{}
	}
	return &Service{
		Budgets:    budgets,
		Ledger:     ledger,
		Accounts:   accounts,
		Successors: successors,
		Audit:      audit,
		Now:        time.Now,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// =============================================================================
// CREATION
// =============================================================================

// Create validates and persists a new budget.
func (s *Service) Create(ctx context.Context, in NewBudgetInput) (*Budget, error) {
	b, err := NewBudget(in, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.Budgets.Create(ctx, b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Get returns the current snapshot.
func (s *Service) Get(ctx context.Context, id BudgetID) (*Budget, error) {
	return s.Budgets.Get(ctx, id)
}

// =============================================================================
// LIFECYCLE OPERATIONS (load -> apply -> save, retry on conflict)
// =============================================================================

// applyWithRetry runs the load/apply/save loop. The engine function is
// re-invoked against the latest snapshot after each conflict.
func (s *Service) applyWithRetry(
	ctx context.Context,
	id BudgetID,
	apply func(Budget) (Budget, []Event, error),
) (*Budget, error) {
	var lastErr error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		current, err := s.Budgets.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		next, events, err := apply(*current)
		if err != nil {
			return nil, err
		}

		// Engine functions record every state change as at least one event,
		// so an empty event set means the snapshot is unchanged and the save
		// is skipped (e.g. an idempotent re-vote).
		if len(events) == 0 {
			return current, nil
		}

		next.Version = current.Version
		if err := s.Budgets.Save(ctx, next); err != nil {
			if IsRetryable(err) {
				lastErr = err
				continue
			}
			return nil, err
		}
		next.Version = current.Version + 1

		if err := s.Audit.AppendEvents(ctx, events); err != nil {
			return nil, fmt.Errorf("failed to record audit events: %w", err)
		}
		return &next, nil
	}
	return nil, lastErr
}

// RecordApproval records one approver's yes-vote.
func (s *Service) RecordApproval(ctx context.Context, id BudgetID, approverID ApproverID) (*Budget, error) {
	return s.applyWithRetry(ctx, id, func(b Budget) (Budget, []Event, error) {
		return RecordApproval(b, approverID, s.now())
	})
}

// Reject vetoes a pending budget.
func (s *Service) Reject(ctx context.Context, id BudgetID, approverID ApproverID, reason string) (*Budget, error) {
	return s.applyWithRetry(ctx, id, func(b Budget) (Budget, []Event, error) {
		return Reject(b, approverID, reason, s.now())
	})
}

// Archive soft-deletes a budget.
func (s *Service) Archive(ctx context.Context, id BudgetID, actorID string) (*Budget, error) {
	return s.applyWithRetry(ctx, id, func(b Budget) (Budget, []Event, error) {
		return Archive(b, actorID, s.now())
	})
}

// RecordSpend applies an externally originated debit against the budget's
// available balance.
func (s *Service) RecordSpend(ctx context.Context, id BudgetID, amount Money, reference string) (*Budget, error) {
	return s.applyWithRetry(ctx, id, func(b Budget) (Budget, []Event, error) {
		next, err := b.WithSpend(amount, s.now())
		if err != nil {
			return b, nil, err
		}
		ev := newEvent(EventBudgetSpent, b.ID, "", s.now())
		ev.Amount = &amount
		ev.Detail = reference
		return next, []Event{ev}, nil
	})
}

// =============================================================================
// FUNDING
// =============================================================================

// Fund applies a funding transaction: validates both accounts, short-circuits
// duplicate idempotency keys, applies the pure Fund, saves the snapshot, and
// hands the balanced posting pair to the ledger poster.
func (s *Service) Fund(ctx context.Context, id BudgetID, amount Money, sourceAccountID, targetEquityAccountID AccountID, idempotencyKey string) (*Budget, error) {
	if idempotencyKey == "" {
		return nil, fmt.Errorf("%w: idempotency key is required for funding", ErrInvalidAmount)
	}

	for _, accountID := range []AccountID{sourceAccountID, targetEquityAccountID} {
		ref, err := s.Accounts.LookupAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if !ref.Active {
			return nil, fmt.Errorf("%w: %s", ErrAccountInactive, accountID)
		}
	}

	// Retry fast path: a duplicate funding request returns the current
	// snapshot without crediting again.
	posted, err := s.Ledger.HasPosted(ctx, idempotencyKey)
	if err != nil {
		return nil, err
	}
	if posted {
		return s.Budgets.Get(ctx, id)
	}

	var lastErr error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		current, err := s.Budgets.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		now := s.now()
		next, postings, err := Fund(*current, amount, sourceAccountID, targetEquityAccountID, now)
		if err != nil {
			return nil, err
		}

		// Snapshot save and posting pair land as one atomic unit. A
		// duplicate key means a concurrent retry of this request already
		// applied it; nothing was written here, so the stored state is the
		// single application.
		next.Version = current.Version
		if err := s.Ledger.ApplyFunding(ctx, next, postings, idempotencyKey); err != nil {
			if errors.Is(err, ErrDuplicateIdempotencyKey) {
				return s.Budgets.Get(ctx, id)
			}
			if IsRetryable(err) {
				lastErr = err
				continue
			}
			return nil, err
		}
		next.Version = current.Version + 1

		ev := newEvent(EventBudgetFunded, current.ID, "", now)
		ev.Amount = &amount
		ev.Detail = idempotencyKey
		if err := s.Audit.AppendEvents(ctx, []Event{ev}); err != nil {
			return nil, fmt.Errorf("failed to record audit events: %w", err)
		}
		return &next, nil
	}
	return nil, lastErr
}

// =============================================================================
// RECURRENCE
// =============================================================================

// AdvanceRecurrence spawns the next period's instance for the recurrence
// chain rooted at rootID, if due. Returns (nil, nil) when there is nothing
// to do: the chain is exhausted, the period has not ended, or the successor
// already exists (duplicate-successor hits are silent no-ops).
func (s *Service) AdvanceRecurrence(ctx context.Context, rootID BudgetID, asOf Date) (*Budget, error) {
	root, err := s.Budgets.Get(ctx, rootID)
	if err != nil {
		return nil, err
	}

	// The newest instance in the chain defines the current period.
	latest, err := s.Budgets.LatestInChain(ctx, rootID)
	if err != nil {
		return nil, err
	}

	successor, err := NextOccurrence(*latest, asOf, s.now())
	if err != nil {
		return nil, err
	}
	if successor == nil {
		return nil, nil
	}

	existing, err := s.Successors.FindSuccessor(ctx, rootID, successor.StartDate)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, nil // already spawned for this period
	}

	if err := s.Budgets.Create(ctx, *successor); err != nil {
		if errors.Is(err, ErrConcurrentModification) {
			// A concurrent tick created it first; uniqueness on
			// (original_budget_id, start_date) makes this a no-op.
			return nil, nil
		}
		return nil, err
	}

	ev := newEvent(EventSuccessorCreated, root.ID, "", s.now())
	ev.Detail = string(successor.ID)
	if err := s.Audit.AppendEvents(ctx, []Event{ev}); err != nil {
		return nil, fmt.Errorf("failed to record audit events: %w", err)
	}
	return successor, nil
}
