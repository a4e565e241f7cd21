package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cghidalgos/presupuesto/internal/budget"
	"github.com/cghidalgos/presupuesto/internal/household"
)

type rowResponse struct {
	GroupKey           string            `json:"group_key"`
	Name               string            `json:"name"`
	AreaName           string            `json:"area_name"`
	Budgeted           decimal.Decimal   `json:"budgeted"`
	Actual             decimal.Decimal   `json:"actual"`
	Remaining          decimal.Decimal   `json:"remaining"`
	Excess             decimal.Decimal   `json:"excess"`
	Status             budget.Status     `json:"status"`
	SourceConceptCount int               `json:"source_concept_count"`
	Expenses           []expenseResponse `json:"expenses"`
}

type totalsResponse struct {
	Budgeted  decimal.Decimal `json:"budgeted"`
	Actual    decimal.Decimal `json:"actual"`
	Remaining decimal.Decimal `json:"remaining"`
	Excess    decimal.Decimal `json:"excess"`
}

type contributionResponse struct {
	UserID   uuid.UUID       `json:"user_id"`
	Name     string          `json:"name"`
	Percent  decimal.Decimal `json:"percent"`
	Expected decimal.Decimal `json:"expected"`
	Paid     decimal.Decimal `json:"paid"`
	Balance  decimal.Decimal `json:"balance"`
}

type reportResponse struct {
	Period        string                 `json:"period"`
	Rows          []rowResponse          `json:"rows"`
	Totals        totalsResponse         `json:"totals"`
	StatusCounts  budget.StatusCounts    `json:"status_counts"`
	Contributions []contributionResponse `json:"contributions"`
}

type expenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	ConceptID   uuid.UUID       `json:"concept_id"`
	ConceptName string          `json:"concept_name,omitempty"`
	UserID      uuid.UUID       `json:"user_id"`
	UserName    string          `json:"user_name,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	SpentAt     time.Time       `json:"spent_at"`
}

func toExpenseList(expenses []*household.Expense) []expenseResponse {
	resp := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = expenseResponse{
			ID:          e.ID,
			ConceptID:   e.ConceptID,
			ConceptName: e.ConceptName,
			UserID:      e.UserID,
			UserName:    e.UserName,
			Amount:      e.Amount,
			SpentAt:     e.SpentAt,
		}
	}

	return resp
}

func toContributionList(contributions []budget.Contribution) []contributionResponse {
	resp := make([]contributionResponse, len(contributions))
	for i, c := range contributions {
		resp[i] = contributionResponse(c)
	}

	return resp
}

func toReportResponse(r *budget.Report) reportResponse {
	rows := make([]rowResponse, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = rowResponse{
			GroupKey:           row.GroupKey,
			Name:               row.Name,
			AreaName:           row.AreaName,
			Budgeted:           row.Budgeted,
			Actual:             row.Actual,
			Remaining:          row.Remaining,
			Excess:             row.Excess,
			Status:             row.Status,
			SourceConceptCount: row.SourceConceptCount,
			Expenses:           toExpenseList(row.Expenses),
		}
	}

	return reportResponse{
		Period:        r.Period.String(),
		Rows:          rows,
		Totals:        totalsResponse(r.Totals),
		StatusCounts:  r.StatusCounts,
		Contributions: toContributionList(r.Contributions),
	}
}

type dashboardConcept struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	AreaName   string          `json:"area_name"`
	BaseBudget decimal.Decimal `json:"base_budget"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	Remaining  decimal.Decimal `json:"remaining"`
}

type dashboardResponse struct {
	TotalBudgeted  decimal.Decimal        `json:"total_budgeted"`
	TotalSpent     decimal.Decimal        `json:"total_spent"`
	TotalRemaining decimal.Decimal        `json:"total_remaining"`
	Concepts       []dashboardConcept     `json:"concepts"`
	Contributions  []contributionResponse `json:"contributions"`
	Recent         []expenseResponse      `json:"recent"`
}

func toDashboardResponse(d *budget.Dashboard) dashboardResponse {
	concepts := make([]dashboardConcept, len(d.Concepts))
	for i, c := range d.Concepts {
		concepts[i] = dashboardConcept{
			ID:         c.ID,
			Name:       c.Name,
			AreaName:   c.AreaName(),
			BaseBudget: c.BaseBudget,
			TotalSpent: c.TotalSpent(),
			Remaining:  c.Remaining(),
		}
	}

	return dashboardResponse{
		TotalBudgeted:  d.TotalBudgeted,
		TotalSpent:     d.TotalSpent,
		TotalRemaining: d.TotalRemaining,
		Concepts:       concepts,
		Contributions:  toContributionList(d.Contributions),
		Recent:         toExpenseList(d.Recent),
	}
}

type suggestionResponse struct {
	ConceptID       uuid.UUID       `json:"concept_id"`
	Name            string          `json:"name"`
	AreaName        string          `json:"area_name"`
	PriorBudget     decimal.Decimal `json:"prior_budget"`
	PriorSpent      decimal.Decimal `json:"prior_spent"`
	SuggestedBudget decimal.Decimal `json:"suggested_budget"`
}

type suggestionsResponse struct {
	Target      string               `json:"target"`
	Suggestions []suggestionResponse `json:"suggestions"`
}

func toSuggestionList(suggestions []budget.Suggestion) []suggestionResponse {
	resp := make([]suggestionResponse, len(suggestions))
	for i, s := range suggestions {
		resp[i] = suggestionResponse(s)
	}

	return resp
}

type overrideResponse struct {
	ID        uuid.UUID       `json:"id"`
	ConceptID uuid.UUID       `json:"concept_id"`
	Period    string          `json:"period"`
	Amount    decimal.Decimal `json:"amount"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toOverrideResponse(o *budget.Override) overrideResponse {
	return overrideResponse{
		ID:        o.ID,
		ConceptID: o.ConceptID,
		Period:    o.Period.String(),
		Amount:    o.Amount,
		UpdatedAt: o.UpdatedAt,
	}
}

func toOverrideList(overrides []*budget.Override) []overrideResponse {
	resp := make([]overrideResponse, len(overrides))
	for i, o := range overrides {
		resp[i] = toOverrideResponse(o)
	}

	return resp
}
