/*
funding.go - Funding transactions and double-entry postings

PURPOSE:
  Apply a funding transaction that moves an amount from a cash/bank account
  into a budget's available balance, producing the balanced posting pair an
  external bookkeeping subsystem must persist.

CEILING:
  A budget can never be funded beyond its allocated total. Raising the total
  is a separate, explicitly audited operation outside this engine; Fund
  fails with an invariant violation instead of silently growing the budget.

REJECTED BUDGETS:
  Funding a rejected-but-not-archived budget is permitted - money can be
  reserved before a final decision. Only archived budgets refuse funding.

POSTINGS:
  Fund emits exactly two postings: a debit of the amount on the source
  cash/bank account and a credit on the budget-funding equity account. The
  engine never writes them; Service hands them to the LedgerPoster as one
  atomic unit under the caller's idempotency key.

SEE ALSO:
  - money.go: Reconcile, the ceiling check
  - service.go: Account validation, idempotency, persistence
*/
package budget

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Fund applies a funding transaction to the budget snapshot and returns the
// updated snapshot plus the balanced posting pair. Pure: account existence,
// idempotency, and persistence are Service concerns.
func Fund(b Budget, amount Money, sourceAccountID, targetEquityAccountID AccountID, now time.Time) (Budget, []Posting, error) {
	if !amount.IsPositive() {
		return b, nil, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	if b.Status == StatusArchived {
		return b, nil, &InvalidStateError{BudgetID: b.ID, Status: b.Status, Operation: "fund"}
	}

	newAvailable := b.AvailableAmount.Add(amount)
	if _, err := Reconcile(b.TotalAmount, newAvailable); err != nil {
		return b, nil, err
	}

	next := b.Clone()
	next.AvailableAmount = newAvailable
	next.UpdatedAt = now

	postings := []Posting{
		{
			ID:          uuid.NewString(),
			AccountID:   sourceAccountID,
			Side:        Debit,
			Amount:      amount,
			BudgetID:    b.ID,
			Description: fmt.Sprintf("funding for budget %s", b.ID),
			CreatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			AccountID:   targetEquityAccountID,
			Side:        Credit,
			Amount:      amount,
			BudgetID:    b.ID,
			Description: fmt.Sprintf("funding equity for budget %s", b.ID),
			CreatedAt:   now,
		},
	}

	return next, postings, nil
}
