package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/boardprep/backend/internal/advisor"
	"github.com/boardprep/backend/internal/attempts"
	"github.com/boardprep/backend/internal/auth"
	"github.com/boardprep/backend/internal/config"
	"github.com/boardprep/backend/internal/database"
	"github.com/boardprep/backend/internal/mastery"
	"github.com/boardprep/backend/internal/middleware"
	"github.com/boardprep/backend/internal/progression"
	"github.com/boardprep/backend/internal/risk"
	"github.com/boardprep/backend/internal/scorer"
)

func main() {
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Curriculum calendar and progression gate
	calendar := progression.Calendar{
		StartDate: cfg.ProgramStart,
		WeekCount: cfg.WeekCount,
		ExamDate:  cfg.ExamDate,
	}
	gate := progression.Gate{
		Calendar:       calendar,
		RetakeWeek:     cfg.RetakeWeek,
		RetakeTestType: cfg.RetakeTestType,
	}

	// Mastery updater: remote ML scorer with local BKT failover when
	// configured, plain local BKT otherwise.
	params := mastery.DefaultParams()
	local := scorer.NewLocal(params.Update)
	var updater scorer.MasteryUpdater = local
	if cfg.ScorerURL != "" {
		updater = scorer.NewFailover(scorer.NewRemote(cfg.ScorerURL, cfg.ScorerTimeout), local)
		log.Printf("Mastery scoring via remote scorer at %s with local failover", cfg.ScorerURL)
	}

	// Stores and services
	masteryService := mastery.NewService(mastery.NewStore(db), updater)
	attemptStore := attempts.NewStore(db)
	attemptService := attempts.NewService(attemptStore, gate, masteryService)

	thresholds := risk.DefaultThresholds()
	thresholds.PassingScore = cfg.PassingScore
	riskService := risk.NewService(attemptStore, risk.NewStore(db), thresholds, calendar)

	advisorService := advisor.NewService(attemptStore, advisor.NewClient(), calendar)

	// Handlers
	authHandler := auth.NewHandler(db)
	attemptHandler := attempts.NewHandler(attemptService)
	masteryHandler := mastery.NewHandler(masteryService)
	riskHandler := risk.NewHandler(riskService)
	advisorHandler := advisor.NewHandler(advisorService)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentStudent).Methods("GET")
	attemptHandler.RegisterRoutes(protected)
	masteryHandler.RegisterRoutes(protected)
	riskHandler.RegisterRoutes(protected)
	advisorHandler.RegisterRoutes(protected)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	log.Printf("Server starting on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
