package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/invoicer-app/invoicer/internal/app"
	"github.com/invoicer-app/invoicer/internal/invoicing"
	"github.com/invoicer-app/invoicer/internal/masterdata/clients"
	"github.com/invoicer-app/invoicer/internal/masterdata/companies"
	"github.com/invoicer-app/invoicer/internal/masterdata/items"
	"github.com/invoicer-app/invoicer/internal/masterdata/stylesheets"
	"github.com/invoicer-app/invoicer/internal/masterdata/terms"
	"github.com/invoicer-app/invoicer/internal/platform/cache"
	"github.com/invoicer-app/invoicer/internal/platform/db"
)

func main() {
	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// The stylesheet cache is an optimization; run without it.
		logger.Warn("connect redis", slog.Any("error", err))
		redisClient = nil
	}

	stylesheetService := stylesheets.NewService(stylesheets.NewRepository(pool), redisClient, cfg.UploadDir)
	invoicingService := invoicing.NewService(invoicing.NewRepository(pool))

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		InvoicingHandler:   invoicing.NewHandler(logger, invoicingService, stylesheetService, cfg.InvoicesPerPage),
		CompaniesHandler:   companies.NewHandler(logger, companies.NewService(companies.NewRepository(pool))),
		ClientsHandler:     clients.NewHandler(logger, clients.NewService(clients.NewRepository(pool))),
		TermsHandler:       terms.NewHandler(logger, terms.NewService(terms.NewRepository(pool))),
		ItemsHandler:       items.NewHandler(logger, items.NewService(items.NewRepository(pool))),
		StylesheetsHandler: stylesheets.NewHandler(logger, stylesheetService),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
