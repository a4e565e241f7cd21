package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cghidalgos/presupuesto/internal/auth"
	authHandler "github.com/cghidalgos/presupuesto/internal/http/auth"
	budgetHandler "github.com/cghidalgos/presupuesto/internal/http/budget"
	"github.com/cghidalgos/presupuesto/internal/http/export"
	householdHandler "github.com/cghidalgos/presupuesto/internal/http/household"
	"github.com/cghidalgos/presupuesto/internal/http/importcsv"
)

type Handlers struct {
	Auth      *authHandler.Handler
	Household *householdHandler.Handler
	Budget    *budgetHandler.Handler
	Export    *export.Handler
	Import    *importcsv.Handler
}

func New(h Handlers, issuer *auth.Issuer, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Auth.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(issuer))

			r.Route("/imports", h.Import.Routes)

			r.Route("/reports", func(r chi.Router) {
				h.Budget.ReportRoutes(r)
				h.Export.Routes(r)
			})

			r.Route("/dashboard", h.Budget.DashboardRoutes)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))

				r.Route("/users", func(r chi.Router) {
					h.Household.UserRoutes(r)
					h.Budget.ShareRoutes(r)
				})

				r.Route("/areas", h.Household.AreaRoutes)
				r.Route("/concepts", h.Household.ConceptRoutes)
				r.Route("/expenses", h.Household.ExpenseRoutes)
				r.Route("/suggestions", h.Budget.SuggestionRoutes)
				r.Route("/overrides", h.Budget.OverrideRoutes)
			})
		})
	})

	return router
}
