package budget

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cghidalgos/presupuesto/internal/budget"
	"github.com/cghidalgos/presupuesto/internal/household"
	"github.com/cghidalgos/presupuesto/internal/http/respond"
)

type Handler struct {
	svc *budget.Service
}

func NewHandler(svc *budget.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ReportRoutes(r chi.Router) {
	r.Get("/{year}/{month}", h.report)
}

func (h *Handler) DashboardRoutes(r chi.Router) {
	r.Get("/", h.dashboard)
}

func (h *Handler) SuggestionRoutes(r chi.Router) {
	r.Get("/", h.suggestions)
	r.Post("/commit", h.commitSuggestions)
}

func (h *Handler) OverrideRoutes(r chi.Router) {
	r.Put("/{conceptId}/{year}/{month}", h.setOverride)
}

// ShareRoutes is mounted under /users.
func (h *Handler) ShareRoutes(r chi.Router) {
	r.Put("/shares", h.updateShares)
}

// PeriodParam reads the {year} and {month} URL parameters.
func PeriodParam(r *http.Request) (budget.Period, error) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return budget.Period{}, household.Invalid("year", "%q is not a number", chi.URLParam(r, "year"))
	}

	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		return budget.Period{}, household.Invalid("month", "%q is not a number", chi.URLParam(r, "month"))
	}

	return budget.NewPeriod(year, month)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	p, err := PeriodParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	report, err := h.svc.Report(r.Context(), p)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toReportResponse(report))
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDashboardResponse(d))
}

func (h *Handler) suggestions(w http.ResponseWriter, r *http.Request) {
	target := h.svc.NextPeriod()

	if s := r.URL.Query().Get("target"); s != "" {
		p, err := budget.ParsePeriod(s)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		target = p
	}

	suggestions, err := h.svc.Suggestions(r.Context(), target)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, suggestionsResponse{
		Target:      target.String(),
		Suggestions: toSuggestionList(suggestions),
	})
}

type commitRequest struct {
	Target string        `json:"target"`
	Values []commitValue `json:"values"`
}

// commitValue carries either a number or a string. A missing value keeps
// the suggestion.
type commitValue struct {
	ConceptID uuid.UUID       `json:"concept_id"`
	Value     *respond.Number `json:"value"`
}

func (h *Handler) commitSuggestions(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	target := h.svc.NextPeriod()

	if req.Target != "" {
		p, err := budget.ParsePeriod(req.Target)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		target = p
	}

	sub := budget.BatchOverrideSubmission{Target: target}

	for _, v := range req.Values {
		entry := budget.OverrideEntry{ConceptID: v.ConceptID}
		if v.Value != nil {
			entry.Value = new(v.Value.String())
		}

		sub.Entries = append(sub.Entries, entry)
	}

	written, err := h.svc.CommitSuggestions(r.Context(), sub)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toOverrideList(written))
}

type overrideRequest struct {
	Amount respond.Number `json:"amount"`
}

func (h *Handler) setOverride(w http.ResponseWriter, r *http.Request) {
	conceptID, err := uuid.Parse(chi.URLParam(r, "conceptId"))
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid concept id")
		return
	}

	p, err := PeriodParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req overrideRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	amount, err := budget.ParseAmount("amount", req.Amount.String())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	o, err := h.svc.SetOverride(r.Context(), conceptID, p, amount)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toOverrideResponse(o))
}

type sharesRequest struct {
	Shares []shareValue `json:"shares"`
}

type shareValue struct {
	UserID  uuid.UUID      `json:"user_id"`
	Percent respond.Number `json:"percent"`
}

func (h *Handler) updateShares(w http.ResponseWriter, r *http.Request) {
	var req sharesRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	sub := budget.BatchShareSubmission{Entries: make([]budget.ShareEntry, len(req.Shares))}
	for i, s := range req.Shares {
		sub.Entries[i] = budget.ShareEntry{UserID: s.UserID, Percent: s.Percent.String()}
	}

	if err := h.svc.UpdateShares(r.Context(), sub); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
