/*
errors.go - Centralized error types for the budget engine

PURPOSE:
  All error kinds in one place for consistency and discoverability. Every
  engine operation returns either a new Budget snapshot or one of these
  errors - never a partial mutation.

ERROR CATEGORIES:
  1. Lifecycle errors - operation not legal for the current status
  2. Validation errors - business rule and invariant breaches
  3. Boundary errors - store conflicts, idempotency hits, missing records

USAGE:
  The HTTP facade classifies errors with errors.Is and the helpers below:

    if budget.IsClientError(err) {
        // 4xx
    }

SEE ALSO:
  - lifecycle.go, funding.go, recurrence.go: Where these are raised
  - api/handlers.go: Status-code mapping
*/
package budget

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidState is returned when an operation is not legal for the
	// budget's current status (e.g. voting on an archived budget).
	ErrInvalidState = errors.New("operation not valid for current budget status")

	// ErrUnknownApprover is returned when the acting approver is not in the
	// budget's approver set.
	ErrUnknownApprover = errors.New("approver not assigned to budget")

	// ErrUnconfiguredApprovers is returned when quorum is evaluated against
	// an empty approver set. Quorum fails closed.
	ErrUnconfiguredApprovers = errors.New("budget has no approvers configured")

	// ErrInvalidAmount is returned for non-positive funding or spend amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvariantViolation is returned when an operation would break
	// available <= total or produce a negative amount.
	ErrInvariantViolation = errors.New("amount reconciliation invariant violated")

	// ErrInvalidPeriod is returned when a budget period is malformed
	// (end not after start).
	ErrInvalidPeriod = errors.New("invalid period: end must be after start")

	// ErrInvalidApprovalPolicy is returned when RequiredApprovals is out of
	// bounds for the approver set.
	ErrInvalidApprovalPolicy = errors.New("required approvals out of bounds for approver set")

	// ErrInvalidRecurrence is returned for a malformed recurrence rule.
	ErrInvalidRecurrence = errors.New("invalid recurrence configuration")

	// ErrConcurrentModification is returned when optimistic locking detects
	// a conflict on save. Callers retry against the fresh snapshot.
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// ErrDuplicateIdempotencyKey is returned when a posting set with the
	// same idempotency key was already applied. Expected under retries.
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

	// ErrBudgetNotFound is returned when a referenced budget doesn't exist.
	ErrBudgetNotFound = errors.New("budget not found")

	// ErrAccountNotFound is returned when a referenced ledger account
	// doesn't exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountInactive is returned when a funding call references a
	// deactivated account.
	ErrAccountInactive = errors.New("account is inactive")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidStateError reports which operation was attempted in which status.
type InvalidStateError struct {
	BudgetID  BudgetID
	Status    Status
	Operation string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s budget %s in status %q", e.Operation, e.BudgetID, e.Status)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// InvariantViolationError reports the amounts that failed reconciliation.
type InvariantViolationError struct {
	Total     Money
	Available Money
	Detail    string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: total %s, available %s: %s",
		e.Total, e.Available, e.Detail)
}

func (e *InvariantViolationError) Unwrap() error { return ErrInvariantViolation }

// UnknownApproverError reports which identity was not in the approver set.
type UnknownApproverError struct {
	BudgetID   BudgetID
	ApproverID ApproverID
}

func (e *UnknownApproverError) Error() string {
	return fmt.Sprintf("approver %s is not assigned to budget %s", e.ApproverID, e.BudgetID)
}

func (e *UnknownApproverError) Unwrap() error { return ErrUnknownApprover }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if the error might succeed when re-applied
// against a fresh snapshot.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

// IsClientError returns true if the error is due to invalid client input or
// a business-rule breach (HTTP 4xx territory).
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrUnknownApprover) ||
		errors.Is(err, ErrUnconfiguredApprovers) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvariantViolation) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidApprovalPolicy) ||
		errors.Is(err, ErrInvalidRecurrence) ||
		errors.Is(err, ErrAccountInactive)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBudgetNotFound) ||
		errors.Is(err, ErrAccountNotFound)
}
