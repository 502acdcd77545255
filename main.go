package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/rowan-dale/facesysbackend/config"
	"github.com/rowan-dale/facesysbackend/database"
	"github.com/rowan-dale/facesysbackend/handlers"
	"github.com/rowan-dale/facesysbackend/media"
	"github.com/rowan-dale/facesysbackend/repository"
	"github.com/rowan-dale/facesysbackend/services"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg := config.Load()

	storagePaths := []string{cfg.MugshotDir(), cfg.SuspectDir(), filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to run database migrations: %v", err)
	}

	faceCascade := media.NewCascadeDetector(cfg.FaceCascadePath)
	defer faceCascade.Close()
	if !faceCascade.Enabled {
		log.Fatalf("FATAL: Face cascade at %s did not load; recognition cannot run", cfg.FaceCascadePath)
	}

	eyeCascade := media.NewCascadeDetector(cfg.EyeCascadePath)
	defer eyeCascade.Close()
	if !eyeCascade.Enabled {
		log.Printf("Warning: eye cascade unavailable, quality scoring degrades")
	}

	encoder := media.NewFaceEncoder(faceCascade, eyeCascade)

	criminalRepo := repository.NewCriminalRepository(db)
	mugshotRepo := repository.NewMugshotRepository(db)
	suspectRepo := repository.NewSuspectRepository(db)
	matchRepo := repository.NewMatchRepository(db)

	limits := media.ImageLimits{
		MaxBytes:  cfg.MaxImageSizeBytes,
		MinWidth:  cfg.MinImageWidth,
		MinHeight: cfg.MinImageHeight,
	}
	recognitionService := services.NewRecognitionService(
		mugshotRepo, suspectRepo, matchRepo, encoder,
		float32(cfg.MatchThresholdPercent), limits,
	)

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Match threshold: %.1f%%, batch workers: %d, batch timeout: %s",
		cfg.MatchThresholdPercent, cfg.BatchWorkers, cfg.BatchTimeout())

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	criminalHandler := &handlers.CriminalHandler{Repo: criminalRepo}
	mugshotHandler := &handlers.MugshotHandler{
		Criminals:  criminalRepo,
		Mugshots:   mugshotRepo,
		Encoder:    encoder,
		Limits:     limits,
		StorageDir: cfg.MugshotDir(),
	}
	recognitionHandler := &handlers.RecognitionHandler{
		Service:    recognitionService,
		SuspectDir: cfg.SuspectDir(),
	}
	matchHandler := &handlers.MatchHandler{Matches: matchRepo, Suspects: suspectRepo}
	batchHandler := handlers.NewBatchHandler(recognitionService, cfg.BatchWorkers, cfg.BatchTimeout(), cfg.BatchMaxImages)

	r.Route("/api", func(r chi.Router) {
		r.Route("/criminals", func(r chi.Router) {
			r.Post("/", criminalHandler.CreateCriminal)
			r.Get("/", criminalHandler.ListCriminals)
			r.Route("/{criminal_id}", func(r chi.Router) {
				r.Get("/", criminalHandler.GetCriminal)
				r.Put("/", criminalHandler.UpdateCriminal)
				r.Delete("/", criminalHandler.DeleteCriminal)
				r.Route("/mugshots", func(r chi.Router) {
					r.Post("/", mugshotHandler.UploadMugshot)
					r.Get("/", mugshotHandler.ListMugshots)
				})
			})
		})

		r.Route("/mugshots", func(r chi.Router) {
			r.Delete("/{mugshot_id}", mugshotHandler.DeleteMugshot)
		})

		r.Route("/recognition", func(r chi.Router) {
			r.Post("/", recognitionHandler.Recognize)
		})

		r.Route("/suspects", func(r chi.Router) {
			r.Get("/", matchHandler.ListSuspects)
			r.Get("/{suspect_id}", matchHandler.GetSuspect)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", matchHandler.SearchMatches)
		})

		r.Route("/batch", func(r chi.Router) {
			r.Post("/", batchHandler.StartBatch)
			r.Route("/{batch_id}", func(r chi.Router) {
				r.Get("/", batchHandler.GetBatch)
				r.Post("/cancel", batchHandler.CancelBatch)
			})
		})
	})

	serverAddr := ":" + cfg.Port
	fmt.Printf("Server starting on http://localhost:%s\n", cfg.Port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
