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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/segmentio/kafka-go"

	"newsroom/internal/assets"
	"newsroom/internal/config"
	"newsroom/internal/download"
	"newsroom/internal/elasticsearch"
	"newsroom/internal/entitle"
	"newsroom/internal/feeds"
	"newsroom/internal/logger"
	"newsroom/internal/postgres"
)

func main() {
	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	db, err := postgres.Connect(cfg.PostgresDSN)
	if err != nil {
		log.Error("connect postgres", slog.Any("err", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.Migrate(context.Background(), db); err != nil {
		log.Error("migrate postgres", slog.Any("err", err))
		os.Exit(1)
	}

	companies := postgres.NewCompanyStore(db)
	users := postgres.NewUserStore(db)
	products := postgres.NewProductStore(db)
	history := postgres.NewHistoryStore(db)

	resolver := entitle.NewResolver(companies, products, cfg.EntitlementCacheTTL, log)
	serializer := feeds.NewSerializer(feeds.Config{
		SiteName:          cfg.SiteName,
		CopyrightHolder:   cfg.CopyrightHolder,
		BaseURL:           cfg.BaseURL,
		AllowedRenditions: cfg.AllowedRenditions,
	}, assets.NewResolver(cfg.BaseURL), log)

	orchestrator := download.New(esClient, resolver, serializer, history, cfg.EmbedProductFiltering, log)

	publisher := &kafka.Writer{
		Addr:     kafka.TCP(cfg.KafkaBrokers...),
		Topic:    cfg.KafkaTopic,
		Balancer: &kafka.Hash{},
	}
	defer publisher.Close()

	srv := &server{
		log:          log,
		cfg:          cfg,
		es:           esClient,
		companies:    companies,
		users:        users,
		products:     products,
		history:      history,
		resolver:     resolver,
		serializer:   serializer,
		orchestrator: orchestrator,
		blobs:        assets.NewStore(cfg.AssetsDir),
		publisher:    publisher,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(srv.withAuth)

		r.Get("/news/syndicate", srv.handleSyndicate)
		r.Get("/news/syndicate/{formatter}", srv.handleSyndicateLegacy)
		r.Get("/download/{ids}", srv.handleDownload)
		r.Get("/history/{itemID}", srv.handleItemHistory)
		r.Get("/assets/{mediaID}", srv.handleGetAsset)
		r.Post("/assets/{mediaID}", srv.handleSaveAsset)
		r.Post("/push", srv.handlePush)

		r.Get("/companies", srv.handleListCompanies)
		r.Post("/companies", srv.handleCreateCompany)
		r.Get("/companies/{id}", srv.handleGetCompany)
		r.Patch("/companies/{id}", srv.handleUpdateCompany)
		r.Delete("/companies/{id}", srv.handleDeleteCompany)

		r.Post("/products", srv.handleCreateProduct)

		r.Get("/users", srv.handleListUsers)
		r.Post("/users", srv.handleCreateUser)
		r.Get("/users/{id}", srv.handleGetUser)
		r.Patch("/users/{id}", srv.handleUpdateUser)
		r.Delete("/users/{id}", srv.handleDeleteUser)
	})

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}
