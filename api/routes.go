package api

import (
	"fmt"

	"github.com/gorilla/mux"

	"github.com/garnizeh/riskmap/internal/analytics"
	"github.com/garnizeh/riskmap/internal/config"
	"github.com/garnizeh/riskmap/internal/db"
	"github.com/garnizeh/riskmap/internal/generator"
	"github.com/garnizeh/riskmap/internal/importer"
	"github.com/garnizeh/riskmap/internal/recommend"
	"github.com/garnizeh/riskmap/internal/repository/sqlite"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, conn *db.DB) (*mux.Router, error) {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository and engines
	repo := sqlite.New(conn, logger)
	gen := generator.New(repo, logger, generator.WithWindowDays(cfg.Generator.WindowDays))
	rc := importer.New(repo, repo, repo, logger)
	engine := analytics.New(repo, cfg.Analytics, logger)
	rec := recommend.New(cfg.Recommendations)

	// Create handlers
	systemHandler := NewSystemHandler(conn)
	authHandler := NewAuthHandler(cfg.AdminPasswordHash, cfg.JWTSecret, cfg.TokenDuration)
	generateHandler, err := NewGenerateHandler(gen, cfg.Generator)
	if err != nil {
		return nil, fmt.Errorf("generate handler: %w", err)
	}
	importHandler := NewImportHandler(rc, repo)
	recordsHandler := NewRecordsHandler(repo)
	analyticsHandler := NewAnalyticsHandler(engine, rec)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/token", authHandler.Token).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Dataset population
	apiV1.HandleFunc("/generate", generateHandler.Generate).Methods("POST")
	apiV1.HandleFunc("/import/employees", importHandler.ImportEmployees).Methods("POST")
	apiV1.HandleFunc("/import/events", importHandler.ImportEvents).Methods("POST")
	apiV1.HandleFunc("/imports", importHandler.ListImports).Methods("GET")
	apiV1.HandleFunc("/templates/{name}", importHandler.Template).Methods("GET")
	apiV1.HandleFunc("/employees", recordsHandler.CreateEmployee).Methods("POST")
	apiV1.HandleFunc("/employees", recordsHandler.ListEmployees).Methods("GET")
	apiV1.HandleFunc("/events", recordsHandler.CreateEvent).Methods("POST")
	apiV1.HandleFunc("/reset", recordsHandler.Reset).Methods("POST")

	// Analysis
	apiV1.HandleFunc("/summary", analyticsHandler.Summary).Methods("GET")
	apiV1.HandleFunc("/views/{view}", analyticsHandler.View).Methods("GET")
	apiV1.HandleFunc("/report", analyticsHandler.Report).Methods("GET")
	apiV1.HandleFunc("/recommendations", analyticsHandler.Recommendations).Methods("GET")

	return r, nil
}
