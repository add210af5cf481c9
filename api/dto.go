/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/budget-engine/budget"
)

// =============================================================================
// BUDGET TYPES
// =============================================================================

// BudgetDTO represents a budget in API responses. SpentAmount is derived by
// the engine; clients build their progress bars from these three amounts.
type BudgetDTO struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	BranchID       string `json:"branch_id,omitempty"`
	Name           string `json:"name,omitempty"`

	TotalAmount     string `json:"total_amount"`
	AvailableAmount string `json:"available_amount"`
	SpentAmount     string `json:"spent_amount"`

	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`

	ApprovalRequirement string        `json:"approval_requirement"`
	RequiredApprovals   int           `json:"required_approvals,omitempty"`
	Approvers           []ApproverDTO `json:"approvers"`
	RejectionReason     string        `json:"rejection_reason,omitempty"`

	BudgetedAccountID string `json:"budgeted_account_id,omitempty"`

	RecurrenceType     string  `json:"recurrence_type"`
	RecurrenceInterval int     `json:"recurrence_interval,omitempty"`
	RecurrenceEndDate  *string `json:"recurrence_end_date,omitempty"`
	OriginalBudgetID   string  `json:"original_budget_id,omitempty"`
	IsRecurringParent  bool    `json:"is_recurring_parent"`

	Policies []PolicyDTO `json:"policies,omitempty"`

	Version   int64  `json:"version"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ApproverDTO is one voter and their current vote.
type ApproverDTO struct {
	ApproverID string `json:"approver_id"`
	Approved   bool   `json:"approved"`
}

// PolicyDTO is an informational policy attachment.
type PolicyDTO struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// CreateBudgetRequest is the request to create a budget.
type CreateBudgetRequest struct {
	ID             string `json:"id,omitempty"`
	OrganizationID string `json:"organization_id"`
	BranchID       string `json:"branch_id,omitempty"`
	Name           string `json:"name,omitempty"`

	TotalAmount     string `json:"total_amount"`
	AvailableAmount string `json:"available_amount"`

	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	ApprovalRequirement string   `json:"approval_requirement"`
	RequiredApprovals   int      `json:"required_approvals,omitempty"`
	ApproverIDs         []string `json:"approver_ids"`

	BudgetedAccountID string `json:"budgeted_account_id,omitempty"`

	RecurrenceType     string  `json:"recurrence_type,omitempty"`
	RecurrenceInterval int     `json:"recurrence_interval,omitempty"`
	RecurrenceEndDate  *string `json:"recurrence_end_date,omitempty"`

	Policies []PolicyDTO `json:"policies,omitempty"`
}

// ApproveRequest carries one approver's yes-vote.
type ApproveRequest struct {
	ApproverID string `json:"approver_id"`
}

// RejectRequest carries a veto.
type RejectRequest struct {
	ApproverID string `json:"approver_id"`
	Reason     string `json:"reason,omitempty"`
}

// FundRequest is the request to fund a budget from a cash/bank account.
type FundRequest struct {
	Amount                       string `json:"amount"`
	CashOrBankAccountID          string `json:"cash_or_bank_account_id"`
	BudgetFundingEquityAccountID string `json:"budget_funding_equity_account_id"`
	IdempotencyKey               string `json:"idempotency_key"`
}

// SpendRequest records an externally originated debit.
type SpendRequest struct {
	Amount    string `json:"amount"`
	Reference string `json:"reference,omitempty"`
}

// AdvanceRequest triggers a recurrence advance for one chain.
type AdvanceRequest struct {
	AsOf string `json:"as_of,omitempty"` // ISO date, defaults to today
}

// =============================================================================
// POSTINGS AND ACCOUNTS
// =============================================================================

// PostingDTO is one half of a balanced double-entry movement.
type PostingDTO struct {
	ID          string `json:"id"`
	AccountID   string `json:"account_id"`
	Side        string `json:"side"`
	Amount      string `json:"amount"`
	BudgetID    string `json:"budget_id"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// AccountDTO is an account directory entry.
type AccountDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	Active bool   `json:"active"`
}

// SweepResultDTO summarizes one recurrence sweep run.
type SweepResultDTO struct {
	Spawned int      `json:"spawned"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toBudgetDTO(b budget.Budget) BudgetDTO {
	approvers := make([]ApproverDTO, len(b.Approvers))
	for i, a := range b.Approvers {
		approvers[i] = ApproverDTO{ApproverID: string(a.ApproverID), Approved: a.Approved}
	}

	var policies []PolicyDTO
	for _, p := range b.Policies {
		policies = append(policies, PolicyDTO{Name: p.Name, Status: p.Status})
	}

	dto := BudgetDTO{
		ID:                  string(b.ID),
		OrganizationID:      b.OrganizationID,
		BranchID:            b.BranchID,
		Name:                b.Name,
		TotalAmount:         b.TotalAmount.String(),
		AvailableAmount:     b.AvailableAmount.String(),
		SpentAmount:         b.SpentAmount().String(),
		StartDate:           b.StartDate.String(),
		EndDate:             b.EndDate.String(),
		Status:              string(b.Status),
		ApprovalRequirement: string(b.ApprovalRequirement),
		RequiredApprovals:   b.RequiredApprovals,
		Approvers:           approvers,
		RejectionReason:     b.RejectionReason,
		BudgetedAccountID:   string(b.BudgetedAccountID),
		RecurrenceType:      string(b.RecurrenceType),
		RecurrenceInterval:  b.RecurrenceInterval,
		OriginalBudgetID:    string(b.OriginalBudgetID),
		IsRecurringParent:   b.IsRecurringParent,
		Policies:            policies,
		Version:             b.Version,
		CreatedAt:           b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           b.UpdatedAt.Format(time.RFC3339),
	}
	if b.RecurrenceEndDate != nil {
		s := b.RecurrenceEndDate.String()
		dto.RecurrenceEndDate = &s
	}
	return dto
}

func toBudgetDTOs(budgets []budget.Budget) []BudgetDTO {
	dtos := make([]BudgetDTO, len(budgets))
	for i, b := range budgets {
		dtos[i] = toBudgetDTO(b)
	}
	return dtos
}

func toPostingDTOs(postings []budget.Posting) []PostingDTO {
	dtos := make([]PostingDTO, len(postings))
	for i, p := range postings {
		dtos[i] = PostingDTO{
			ID:          p.ID,
			AccountID:   string(p.AccountID),
			Side:        string(p.Side),
			Amount:      p.Amount.String(),
			BudgetID:    string(p.BudgetID),
			Description: p.Description,
			CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		}
	}
	return dtos
}
