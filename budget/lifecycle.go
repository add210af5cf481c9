/*
lifecycle.go - Budget state machine

PURPOSE:
  Orchestrates creation, approval voting, rejection, and archival.

STATE MACHINE:
  pending is initial. approved and rejected are reachable only from pending.
  archived is reachable from pending, approved, or rejected - archival is a
  universal terminal transition modeling soft delete. Nothing leaves
  archived or rejected inside this engine; re-opening a rejected budget is
  an explicit external re-submission that builds a new vote set.

VOTING:
  RecordApproval sets one approver's vote and delegates to EvaluateQuorum to
  decide whether the budget becomes approved. Voting twice is a no-op, not
  an error. A single rejection vote by any listed approver is a full veto
  regardless of the approval requirement: the financial risk of an
  under-reviewed rejection is lower than of an under-reviewed approval.

SNAPSHOTS:
  Every operation takes a Budget by value and returns a new snapshot plus
  the events it produced. Persistence and event dispatch belong to the
  caller (see service.go).

SEE ALSO:
  - quorum.go: Policy evaluation
  - funding.go: Funding against a live budget
  - service.go: Load/retry/persist orchestration
*/
package budget

import (
	"fmt"
	"time"
)

// =============================================================================
// CREATION
// =============================================================================

// NewBudgetInput carries everything needed to create a budget. The caller
// decides the initial funding condition: AvailableAmount may equal
// TotalAmount (pre-funded) or be zero (funding required before use).
type NewBudgetInput struct {
	ID             BudgetID
	OrganizationID string
	BranchID       string
	Name           string

	TotalAmount     Money
	AvailableAmount Money

	StartDate Date
	EndDate   Date

	ApprovalRequirement ApprovalRequirement
	RequiredApprovals   int
	ApproverIDs         []ApproverID

	BudgetedAccountID AccountID

	RecurrenceType     RecurrenceType
	RecurrenceInterval int
	RecurrenceEndDate  *Date

	Policies []PolicyDocument
}

// NewBudget validates the input and returns a pending budget snapshot.
// Approver identities are deduplicated here, preserving first-seen order;
// downstream quorum evaluation assumes uniqueness.
func NewBudget(in NewBudgetInput, now time.Time) (Budget, error) {
	if !in.EndDate.After(in.StartDate) {
		return Budget{}, ErrInvalidPeriod
	}
	if _, err := Reconcile(in.TotalAmount, in.AvailableAmount); err != nil {
		return Budget{}, err
	}

	var approvers []Approver
	seen := make(map[ApproverID]bool)
	for _, id := range in.ApproverIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		approvers = append(approvers, Approver{ApproverID: id})
	}

	required := in.RequiredApprovals
	switch in.ApprovalRequirement {
	case RequireAtLeast:
		if required < 1 || required > len(approvers) {
			return Budget{}, fmt.Errorf("%w: need 1..%d, got %d",
				ErrInvalidApprovalPolicy, len(approvers), required)
		}
	case RequireOne, RequireAll:
		required = 0
	default:
		return Budget{}, fmt.Errorf("%w: unknown requirement %q",
			ErrInvalidApprovalPolicy, in.ApprovalRequirement)
	}

	recurrence := in.RecurrenceType
	interval := in.RecurrenceInterval
	if recurrence == "" {
		recurrence = RecurrenceNone
	}
	switch recurrence {
	case RecurrenceNone:
		interval = 0
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceQuarterly, RecurrenceAnnually:
		if interval < 1 {
			return Budget{}, fmt.Errorf("%w: interval must be positive", ErrInvalidRecurrence)
		}
	default:
		return Budget{}, fmt.Errorf("%w: unknown type %q", ErrInvalidRecurrence, recurrence)
	}

	id := in.ID
	if id == "" {
		id = NewBudgetID()
	}

	b := Budget{
		ID:                  id,
		OrganizationID:      in.OrganizationID,
		BranchID:            in.BranchID,
		Name:                in.Name,
		TotalAmount:         in.TotalAmount,
		AvailableAmount:     in.AvailableAmount,
		StartDate:           in.StartDate,
		EndDate:             in.EndDate,
		Status:              StatusPending,
		ApprovalRequirement: in.ApprovalRequirement,
		RequiredApprovals:   required,
		Approvers:           approvers,
		BudgetedAccountID:   in.BudgetedAccountID,
		RecurrenceType:      recurrence,
		RecurrenceInterval:  interval,
		IsRecurringParent:   recurrence != RecurrenceNone,
		Policies:            clonePolicies(in.Policies),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if in.RecurrenceEndDate != nil {
		d := *in.RecurrenceEndDate
		b.RecurrenceEndDate = &d
	}
	return b, nil
}

// =============================================================================
// APPROVAL VOTING
// =============================================================================

// RecordApproval records a yes-vote by the given approver and evaluates
// whether the budget's quorum is now satisfied. Idempotent per approver:
// re-voting returns the unchanged snapshot with no events.
func RecordApproval(b Budget, approverID ApproverID, now time.Time) (Budget, []Event, error) {
	if b.Status != StatusPending {
		return b, nil, &InvalidStateError{BudgetID: b.ID, Status: b.Status, Operation: "approve"}
	}
	if !b.HasApprover(approverID) {
		return b, nil, &UnknownApproverError{BudgetID: b.ID, ApproverID: approverID}
	}

	next := b.Clone()
	for i := range next.Approvers {
		if next.Approvers[i].ApproverID != approverID {
			continue
		}
		if next.Approvers[i].Approved {
			// Already voted: no-op, unchanged snapshot.
			return b, nil, nil
		}
		next.Approvers[i].Approved = true
	}
	next.UpdatedAt = now

	events := []Event{newEvent(EventApprovalRecorded, b.ID, string(approverID), now)}

	satisfied, err := EvaluateQuorum(next.ApprovalRequirement, next.RequiredApprovals, next.Approvers)
	if err != nil {
		return b, nil, err
	}
	if satisfied {
		next.Status = StatusApproved
		events = append(events, newEvent(EventBudgetApproved, b.ID, string(approverID), now))
	}

	return next, events, nil
}

// Reject moves a pending budget to rejected. Any listed approver may reject;
// one rejection vote is a full veto regardless of the approval requirement.
func Reject(b Budget, approverID ApproverID, reason string, now time.Time) (Budget, []Event, error) {
	if b.Status != StatusPending {
		return b, nil, &InvalidStateError{BudgetID: b.ID, Status: b.Status, Operation: "reject"}
	}
	if !b.HasApprover(approverID) {
		return b, nil, &UnknownApproverError{BudgetID: b.ID, ApproverID: approverID}
	}

	next := b.Clone()
	next.Status = StatusRejected
	next.RejectionReason = reason
	next.UpdatedAt = now

	ev := newEvent(EventBudgetRejected, b.ID, string(approverID), now)
	ev.Detail = reason
	return next, []Event{ev}, nil
}

// =============================================================================
// ARCHIVAL
// =============================================================================

// Archive moves the budget to its terminal archived status. Archival is an
// administrative action: it needs no quorum and is legal from any status
// except archived itself. Funds are untouched; historical budgets are
// retained, never deleted.
func Archive(b Budget, actorID string, now time.Time) (Budget, []Event, error) {
	if b.Status == StatusArchived {
		return b, nil, &InvalidStateError{BudgetID: b.ID, Status: b.Status, Operation: "archive"}
	}

	next := b.Clone()
	next.Status = StatusArchived
	next.UpdatedAt = now

	return next, []Event{newEvent(EventBudgetArchived, b.ID, actorID, now)}, nil
}

// =============================================================================
// SPEND - Externally originated debits
// =============================================================================

// WithSpend applies a debit that the owning ledger subsystem originated
// against this budget's available balance. The engine does not originate
// spend; it only enforces the reconciliation invariant and terminal-state
// closure on the way through.
func (b Budget) WithSpend(amount Money, now time.Time) (Budget, error) {
	if !amount.IsPositive() {
		return b, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	if b.Status.Terminal() {
		return b, &InvalidStateError{BudgetID: b.ID, Status: b.Status, Operation: "spend against"}
	}

	newAvailable := b.AvailableAmount.Sub(amount)
	if _, err := Reconcile(b.TotalAmount, newAvailable); err != nil {
		return b, err
	}

	next := b.Clone()
	next.AvailableAmount = newAvailable
	next.UpdatedAt = now
	return next, nil
}
