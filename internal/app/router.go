package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/invoicer-app/invoicer/internal/invoicing"
	"github.com/invoicer-app/invoicer/internal/masterdata/clients"
	"github.com/invoicer-app/invoicer/internal/masterdata/companies"
	"github.com/invoicer-app/invoicer/internal/masterdata/items"
	"github.com/invoicer-app/invoicer/internal/masterdata/stylesheets"
	"github.com/invoicer-app/invoicer/internal/masterdata/terms"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	InvoicingHandler   *invoicing.Handler
	CompaniesHandler   *companies.Handler
	ClientsHandler     *clients.Handler
	TermsHandler       *terms.Handler
	ItemsHandler       *items.Handler
	StylesheetsHandler *stylesheets.Handler
}

// NewRouter constructs the chi.Router with invoicer defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.InvoicingHandler != nil {
		params.InvoicingHandler.MountRoutes(r)
	}
	r.Route("/masterdata", func(r chi.Router) {
		if params.CompaniesHandler != nil {
			r.Route("/companies", params.CompaniesHandler.MountRoutes)
		}
		if params.ClientsHandler != nil {
			r.Route("/clients", params.ClientsHandler.MountRoutes)
		}
		if params.TermsHandler != nil {
			r.Route("/terms", params.TermsHandler.MountRoutes)
		}
		if params.ItemsHandler != nil {
			r.Route("/items", params.ItemsHandler.MountRoutes)
		}
		if params.StylesheetsHandler != nil {
			params.StylesheetsHandler.MountRoutes(r)
		}
	})

	return r
}
