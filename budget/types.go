/*
Package budget provides the budget lifecycle engine.

PURPOSE:
  This package contains the domain types and algorithms for managing a
  spending budget end to end: how it moves through states (pending ->
  approved/rejected -> archived), how a required number of approvers reach
  consensus, how funding transactions move money into a budget without
  breaking accounting identities, and how recurring budgets spawn successor
  instances.

KEY CONCEPTS IN THIS FILE (types.go):
  - Budget: The central entity, an immutable snapshot mutated only by
    engine operations returning new snapshots
  - Approver: One voter on a budget, unique by ApproverID
  - Posting: One half of a balanced double-entry ledger movement
  - Event: What an engine operation did (for audit and callers)

DESIGN PRINCIPLES:
  1. Immutability: Operations take a Budget by value and return a new one
  2. Precision: Uses decimal.Decimal via Money - no floating-point drift
  3. Derivation: SpentAmount is computed, never stored
  4. Context-free: No ambient state; actor and org identifiers are explicit
     parameters

SEE ALSO:
  - money.go: Money arithmetic and the total = spent + available identity
  - lifecycle.go: State machine operations
  - quorum.go: Approval policy evaluation
  - funding.go: Funding transactions and postings
  - recurrence.go: Successor generation for recurring budgets
*/
package budget

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type BudgetID string
type AccountID string
type ApproverID string

// NewBudgetID returns a fresh random budget identifier.
func NewBudgetID() BudgetID { return BudgetID(uuid.NewString()) }

// =============================================================================
// STATUS - Lifecycle states
// =============================================================================

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusArchived Status = "archived"
)

// Terminal reports whether no engine operation may mutate a budget in this
// status. Rejected budgets are terminal to the engine; re-opening one is an
// explicit external re-submission that constructs a new vote set.
func (s Status) Terminal() bool {
	return s == StatusArchived || s == StatusRejected
}

// =============================================================================
// APPROVAL POLICY
// =============================================================================

type ApprovalRequirement string

const (
	// RequireOne is satisfied by any single approval vote.
	RequireOne ApprovalRequirement = "one"

	// RequireAtLeast is satisfied once RequiredApprovals votes are recorded.
	RequireAtLeast ApprovalRequirement = "at_least"

	// RequireAll is satisfied only when every approver has voted yes.
	RequireAll ApprovalRequirement = "all"
)

// Approver is one voter on a budget. The engine only needs the identity and
// the vote; display metadata stays outside.
type Approver struct {
	ApproverID ApproverID
	Approved   bool
}

// =============================================================================
// RECURRENCE
// =============================================================================

type RecurrenceType string

const (
	RecurrenceNone      RecurrenceType = "none"
	RecurrenceDaily     RecurrenceType = "daily"
	RecurrenceWeekly    RecurrenceType = "weekly"
	RecurrenceMonthly   RecurrenceType = "monthly"
	RecurrenceQuarterly RecurrenceType = "quarterly"
	RecurrenceAnnually  RecurrenceType = "annually"
)

// =============================================================================
// POLICY DOCUMENT - Informational attachment, never mutated by the engine
// =============================================================================

type PolicyDocument struct {
	Name   string
	Status string
}

// =============================================================================
// BUDGET - The central entity
// =============================================================================

// Budget is a bounded spending allocation against an account, with approval
// and funding lifecycle. Engine operations take a snapshot by value and
// return a new snapshot; the caller persists it.
type Budget struct {
	ID             BudgetID
	OrganizationID string
	BranchID       string
	Name           string

	// Financial. SpentAmount is derived, never stored.
	TotalAmount     Money
	AvailableAmount Money

	// Period. Both immutable after creation, EndDate strictly after StartDate.
	StartDate Date
	EndDate   Date

	Status Status

	// Approval policy. RequiredApprovals is meaningful only for
	// RequireAtLeast and must not exceed the number of approvers.
	ApprovalRequirement ApprovalRequirement
	RequiredApprovals   int
	Approvers           []Approver

	// Why a rejected budget was rejected, set by Reject.
	RejectionReason string

	// Account whose balance this budget tracks spend against.
	BudgetedAccountID AccountID

	// Recurrence. OriginalBudgetID is empty for a root budget and set for
	// every generated successor. IsRecurringParent is true only for the root
	// that defines the rule.
	RecurrenceType     RecurrenceType
	RecurrenceInterval int
	RecurrenceEndDate  *Date
	OriginalBudgetID   BudgetID
	IsRecurringParent  bool

	Policies []PolicyDocument

	// Version is the optimistic-concurrency token checked by stores on save.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SpentAmount is always derived from the accounting identity
// total = spent + available.
func (b Budget) SpentAmount() Money {
	return b.TotalAmount.Sub(b.AvailableAmount)
}

// ApprovalCount returns how many approvers have voted yes.
func (b Budget) ApprovalCount() int {
	n := 0
	for _, a := range b.Approvers {
		if a.Approved {
			n++
		}
	}
	return n
}

// HasApprover reports whether the given identity is in the approver set.
func (b Budget) HasApprover(id ApproverID) bool {
	for _, a := range b.Approvers {
		if a.ApproverID == id {
			return true
		}
	}
	return false
}

// cloneApprovers copies the vote set so snapshot mutations never alias.
func cloneApprovers(in []Approver) []Approver {
	if in == nil {
		return nil
	}
	out := make([]Approver, len(in))
	copy(out, in)
	return out
}

// clonePolicies copies the attached policy documents.
func clonePolicies(in []PolicyDocument) []PolicyDocument {
	if in == nil {
		return nil
	}
	out := make([]PolicyDocument, len(in))
	copy(out, in)
	return out
}

// Clone returns a deep copy of the budget snapshot.
func (b Budget) Clone() Budget {
	c := b
	c.Approvers = cloneApprovers(b.Approvers)
	c.Policies = clonePolicies(b.Policies)
	if b.RecurrenceEndDate != nil {
		d := *b.RecurrenceEndDate
		c.RecurrenceEndDate = &d
	}
	return c
}

// =============================================================================
// POSTING - One half of a balanced double-entry movement
// =============================================================================

type PostingSide string

const (
	Debit  PostingSide = "debit"
	Credit PostingSide = "credit"
)

// Posting records a debit or credit of Amount against AccountID. The engine
// emits postings; an external bookkeeping subsystem persists them.
type Posting struct {
	ID          string
	AccountID   AccountID
	Side        PostingSide
	Amount      Money
	BudgetID    BudgetID
	Description string
	CreatedAt   time.Time
}

// Balanced reports whether the posting set debits and credits the same total.
func Balanced(postings []Posting) bool {
	debits := Zero()
	credits := Zero()
	for _, p := range postings {
		switch p.Side {
		case Debit:
			debits = debits.Add(p.Amount)
		case Credit:
			credits = credits.Add(p.Amount)
		}
	}
	return debits.Equal(credits)
}

// =============================================================================
// ACCOUNT REF - What the engine needs to know about an external account
// =============================================================================

// AccountRef is the engine's view of a ledger account. The chart of accounts
// itself lives outside this engine.
type AccountRef struct {
	ID     AccountID
	Name   string
	Type   string // e.g. "cash", "bank", "equity"
	Active bool
}

// =============================================================================
// EVENT - What an engine operation did
// =============================================================================

type EventType string

const (
	EventApprovalRecorded EventType = "approval_recorded"
	EventBudgetApproved   EventType = "budget_approved"
	EventBudgetRejected   EventType = "budget_rejected"
	EventBudgetArchived   EventType = "budget_archived"
	EventBudgetFunded     EventType = "budget_funded"
	EventBudgetSpent      EventType = "budget_spent"
	EventSuccessorCreated EventType = "successor_created"
)

// Event describes a state change produced by an engine operation. Events are
// returned to the caller and recorded in the audit log; the engine never
// dispatches them itself.
type Event struct {
	ID       string
	Type     EventType
	BudgetID BudgetID
	ActorID  string
	Amount   *Money
	Detail   string
	At       time.Time
}

func newEvent(t EventType, budgetID BudgetID, actorID string, at time.Time) Event {
	return Event{
		ID:       uuid.NewString(),
		Type:     t,
		BudgetID: budgetID,
		ActorID:  actorID,
		At:       at,
	}
}
