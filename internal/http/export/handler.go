package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cghidalgos/presupuesto/internal/export"
	httpbudget "github.com/cghidalgos/presupuesto/internal/http/budget"
	"github.com/cghidalgos/presupuesto/internal/http/respond"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes is mounted next to the report routes under /reports.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/{year}/{month}/export.csv", h.csv)
	r.Get("/{year}/{month}/export.zip", h.archive)
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	p, err := httpbudget.PeriodParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	lines, _, err := h.svc.Export(r.Context(), p)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, lines); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"presupuesto_%s.csv\"", p))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "period", p.String(), "error", err)
	}
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	p, err := httpbudget.PeriodParam(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	_, report, err := h.svc.Export(r.Context(), p)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.svc.WriteArchive(&buf, report); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"presupuesto_%s.zip\"", p))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write archive", "period", p.String(), "error", err)
	}
}
