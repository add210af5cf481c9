/*
recurrence.go - Successor generation for recurring budgets

PURPOSE:
  Given a root budget whose recurrence rule is active and whose current
  period has ended, build the next period's budget instance.

PERIOD MATH:
  One period-unit is RecurrenceInterval x the base duration of the
  recurrence type (daily/weekly/monthly/quarterly/annually). The successor
  starts one period-unit after the root's start date and preserves the
  root period's day span:

    root    2024-01-01 .. 2024-01-31, monthly x1
    next    2024-02-01 .. 2024-03-02   (31-day span preserved)

  Month and year advancement clamps to the end of shorter months: a chain
  starting Jan 31 continues Feb 29 (leap) or Feb 28, and advances from the
  clamped day thereafter. Each instance's start is advanced, not the
  root's, so the chain never skips a month.

SUCCESSOR STATE:
  Successors always start pending and unfunded - they never inherit the
  parent's funded or approved state. Votes reset; amounts, policy, approver
  list, and budgeted account carry over. OriginalBudgetID links back to the
  root and IsRecurringParent is false, so a successor never spawns its own
  chain.

IDEMPOTENCY:
  NextOccurrence is pure and cannot guarantee global exclusivity. The
  caller checks for an existing successor via SuccessorLookup, and the
  store backs that check with a uniqueness constraint on
  (original_budget_id, start_date). See service.go.
*/
package budget

import (
	"fmt"
	"time"
)

// advancePeriod moves a date forward by one period-unit.
func advancePeriod(d Date, t RecurrenceType, interval int) (Date, error) {
	if interval < 1 {
		return Date{}, fmt.Errorf("%w: interval must be positive", ErrInvalidRecurrence)
	}
	switch t {
	case RecurrenceDaily:
		return d.AddDays(interval), nil
	case RecurrenceWeekly:
		return d.AddDays(7 * interval), nil
	case RecurrenceMonthly:
		return d.AddMonths(interval), nil
	case RecurrenceQuarterly:
		return d.AddMonths(3 * interval), nil
	case RecurrenceAnnually:
		return d.AddYears(interval), nil
	default:
		return Date{}, fmt.Errorf("%w: unknown type %q", ErrInvalidRecurrence, t)
	}
}

// NextOccurrence computes the successor for the immediately-following period
// of a recurring root budget, or nil when there is nothing to spawn:
// the root does not recur, its period has not ended yet, or the next start
// would exceed the recurrence end date. Pure - the caller is responsible for
// the successor-exists check and for persistence.
func NextOccurrence(root Budget, asOf Date, now time.Time) (*Budget, error) {
	if root.RecurrenceType == RecurrenceNone {
		return nil, nil
	}
	if root.Status == StatusArchived {
		// Archiving an instance stops its chain from advancing.
		return nil, nil
	}
	if asOf.Before(root.EndDate) {
		return nil, nil
	}

	nextStart, err := advancePeriod(root.StartDate, root.RecurrenceType, root.RecurrenceInterval)
	if err != nil {
		return nil, err
	}
	if root.RecurrenceEndDate != nil && nextStart.After(*root.RecurrenceEndDate) {
		return nil, nil
	}

	span := DaysBetween(root.StartDate, root.EndDate)
	nextEnd := nextStart.AddDays(span)

	// Votes reset on every successor.
	approvers := make([]Approver, len(root.Approvers))
	for i, a := range root.Approvers {
		approvers[i] = Approver{ApproverID: a.ApproverID}
	}

	successor := Budget{
		ID:                  NewBudgetID(),
		OrganizationID:      root.OrganizationID,
		BranchID:            root.BranchID,
		Name:                root.Name,
		TotalAmount:         root.TotalAmount,
		AvailableAmount:     Zero(), // successors always start unfunded
		StartDate:           nextStart,
		EndDate:             nextEnd,
		Status:              StatusPending,
		ApprovalRequirement: root.ApprovalRequirement,
		RequiredApprovals:   root.RequiredApprovals,
		Approvers:           approvers,
		BudgetedAccountID:   root.BudgetedAccountID,
		RecurrenceType:      root.RecurrenceType,
		RecurrenceInterval:  root.RecurrenceInterval,
		OriginalBudgetID:    rootID(root),
		IsRecurringParent:   false,
		Policies:            clonePolicies(root.Policies),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if root.RecurrenceEndDate != nil {
		d := *root.RecurrenceEndDate
		successor.RecurrenceEndDate = &d
	}
	return &successor, nil
}

// rootID resolves the chain root: successors link to the original root, not
// to each other.
func rootID(b Budget) BudgetID {
	if b.OriginalBudgetID != "" {
		return b.OriginalBudgetID
	}
	return b.ID
}
