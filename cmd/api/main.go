package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/cghidalgos/presupuesto/internal/auth"
	"github.com/cghidalgos/presupuesto/internal/budget"
	budgetStore "github.com/cghidalgos/presupuesto/internal/budget/store"
	"github.com/cghidalgos/presupuesto/internal/config"
	"github.com/cghidalgos/presupuesto/internal/database"
	"github.com/cghidalgos/presupuesto/internal/export"
	"github.com/cghidalgos/presupuesto/internal/household"
	householdStore "github.com/cghidalgos/presupuesto/internal/household/store"
	presupuestoHttp "github.com/cghidalgos/presupuesto/internal/http"
	authHandler "github.com/cghidalgos/presupuesto/internal/http/auth"
	budgetHandler "github.com/cghidalgos/presupuesto/internal/http/budget"
	exportHandler "github.com/cghidalgos/presupuesto/internal/http/export"
	householdHandler "github.com/cghidalgos/presupuesto/internal/http/household"
	importHandler "github.com/cghidalgos/presupuesto/internal/http/importcsv"
	"github.com/cghidalgos/presupuesto/internal/importer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), cfg.DB.MaxOpenConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.DB.Migrate {
		if err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	issuer := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	var (
		householdService = household.NewService(householdStore.New(db))
		budgetService    = budget.NewService(budgetStore.New(db))
		authService      = auth.NewService(householdService, issuer)
		exportService    = export.NewService(budgetService)
		importService    = importer.NewService(householdService, budgetService)
	)

	router := presupuestoHttp.New(presupuestoHttp.Handlers{
		Auth:      authHandler.NewHandler(authService),
		Household: householdHandler.NewHandler(householdService),
		Budget:    budgetHandler.NewHandler(budgetService),
		Export:    exportHandler.NewHandler(exportService),
		Import:    importHandler.NewHandler(importService),
	}, issuer, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
