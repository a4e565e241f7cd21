package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cghidalgos/presupuesto/internal/budget"
	"github.com/cghidalgos/presupuesto/internal/household"
	"github.com/cghidalgos/presupuesto/internal/http/respond"
	"github.com/cghidalgos/presupuesto/internal/importer"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/budget", h.importBudget)
}

type appliedResponse struct {
	ConceptID uuid.UUID       `json:"concept_id"`
	Name      string          `json:"name"`
	AreaName  string          `json:"area_name"`
	Amount    decimal.Decimal `json:"amount"`
}

type importResponse struct {
	Period   string            `json:"period"`
	Imported int               `json:"imported"`
	Applied  []appliedResponse `json:"applied"`
}

func (h *Handler) importBudget(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Error(w, r, household.Invalid("body", "failed to parse form: %v", err))
		return
	}

	period := r.FormValue("period")
	if period == "" {
		respond.Error(w, r, household.Invalid("period", "is required"))
		return
	}

	target, err := budget.ParsePeriod(period)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, r, household.Invalid("file", "is required"))
		return
	}
	defer file.Close()

	result, err := h.importSvc.Import(r.Context(), target, file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := importResponse{
		Period:   result.Period.String(),
		Imported: len(result.Applied),
		Applied:  make([]appliedResponse, len(result.Applied)),
	}
	for i, a := range result.Applied {
		resp.Applied[i] = appliedResponse(a)
	}

	respond.JSON(w, http.StatusCreated, resp)
}
