package household

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cghidalgos/presupuesto/internal/auth"
	"github.com/cghidalgos/presupuesto/internal/budget"
	"github.com/cghidalgos/presupuesto/internal/household"
	"github.com/cghidalgos/presupuesto/internal/http/respond"
)

const defaultExpenseLimit = 30

type Handler struct {
	svc *household.Service
}

func NewHandler(svc *household.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) UserRoutes(r chi.Router) {
	r.Get("/", h.listUsers)
}

func (h *Handler) AreaRoutes(r chi.Router) {
	r.Get("/", h.listAreas)
	r.Post("/", h.createArea)
}

func (h *Handler) ConceptRoutes(r chi.Router) {
	r.Get("/", h.listConcepts)
	r.Post("/", h.createConcept)
	r.Delete("/{id}", h.deleteConcept)
}

func (h *Handler) ExpenseRoutes(r chi.Router) {
	r.Get("/", h.listExpenses)
	r.Post("/", h.recordExpense)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toUserList(users))
}

func (h *Handler) listAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.svc.ListAreas(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]areaResponse, len(areas))
	for i, a := range areas {
		resp[i] = toAreaResponse(a)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type createAreaRequest struct {
	Name string `json:"name"`
}

func (h *Handler) createArea(w http.ResponseWriter, r *http.Request) {
	var req createAreaRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	area, err := h.svc.CreateArea(r.Context(), req.Name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toAreaResponse(area))
}

func (h *Handler) listConcepts(w http.ResponseWriter, r *http.Request) {
	concepts, err := h.svc.ListConcepts(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]conceptResponse, len(concepts))
	for i, c := range concepts {
		resp[i] = toConceptResponse(c)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type createConceptRequest struct {
	AreaID     uuid.UUID      `json:"area_id"`
	Name       string         `json:"name"`
	BaseBudget respond.Number `json:"base_budget"`
}

func (h *Handler) createConcept(w http.ResponseWriter, r *http.Request) {
	var req createConceptRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	base, err := budget.ParseAmount("base_budget", req.BaseBudget.String())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	concept, err := h.svc.CreateConcept(r.Context(), household.CreateConceptParams{
		AreaID:     req.AreaID,
		Name:       req.Name,
		BaseBudget: base,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toConceptResponse(concept))
}

func (h *Handler) deleteConcept(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Message(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.DeleteConcept(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	filter := household.ExpenseFilter{Limit: defaultExpenseLimit}

	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			respond.Message(w, http.StatusBadRequest, "invalid limit")
			return
		}

		filter.Limit = n
	}

	if s := r.URL.Query().Get("period"); s != "" {
		p, err := budget.ParsePeriod(s)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		filter.StartDate = new(p.Start())
		filter.EndDate = new(p.End())
	}

	expenses, err := h.svc.ListExpenses(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toExpenseList(expenses))
}

type recordExpenseRequest struct {
	ConceptID uuid.UUID      `json:"concept_id"`
	Amount    respond.Number `json:"amount"`
	SpentAt   *time.Time     `json:"spent_at,omitempty"`
}

func (h *Handler) recordExpense(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserID(r.Context())
	if !ok {
		respond.Message(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req recordExpenseRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	amount, err := budget.ParseAmount("amount", req.Amount.String())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	expense, err := h.svc.RecordExpense(r.Context(), actor, household.RecordExpenseParams{
		ConceptID: req.ConceptID,
		Amount:    amount,
		SpentAt:   req.SpentAt,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toExpenseResponse(expense))
}
