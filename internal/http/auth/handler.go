package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cghidalgos/presupuesto/internal/auth"
	"github.com/cghidalgos/presupuesto/internal/budget"
	"github.com/cghidalgos/presupuesto/internal/http/respond"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
}

type registerRequest struct {
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	SharePercent respond.Number `json:"share_percent"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	UserID       uuid.UUID       `json:"user_id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	SharePercent decimal.Decimal `json:"share_percent"`
	Token        string          `json:"token"`
	ExpiresAt    time.Time       `json:"expires_at"`
}

func toSessionResponse(s *auth.Session) sessionResponse {
	return sessionResponse{
		UserID:       s.User.ID,
		Name:         s.User.Name,
		Email:        s.User.Email,
		SharePercent: s.User.SharePercent(),
		Token:        s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	share := decimal.Zero

	if req.SharePercent != "" {
		var err error

		share, err = budget.ParseAmount("share_percent", req.SharePercent.String())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
	}

	session, err := h.svc.Register(r.Context(), auth.RegisterParams{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		SharePercent: share,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toSessionResponse(session))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	session, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respond.Message(w, http.StatusUnauthorized, err.Error())
			return
		}

		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, toSessionResponse(session))
}
