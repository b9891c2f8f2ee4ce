package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/trackmyhealth/healthtrack/internal/cache"
	"github.com/trackmyhealth/healthtrack/internal/config"
	"github.com/trackmyhealth/healthtrack/internal/database"
	"github.com/trackmyhealth/healthtrack/internal/handlers"
	"github.com/trackmyhealth/healthtrack/internal/middleware"
	"github.com/trackmyhealth/healthtrack/internal/models"
	"github.com/trackmyhealth/healthtrack/internal/repository"
	"github.com/trackmyhealth/healthtrack/internal/services"
	"github.com/trackmyhealth/healthtrack/pkg/logger"
)

func main() {
	seed := flag.Bool("seed", false, "run the idempotent seed step and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting Track My Health API")

	// Connect to database
	db, err := database.Connect(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		LogLevel: cfg.Database.LogLevel,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close(db)

	if *seed {
		if err := database.Seed(db, os.Getenv("ADMIN_USERNAME"), os.Getenv("ADMIN_PASSWORD")); err != nil {
			log.Fatal().Err(err).Msg("Seeding failed")
		}
		log.Info().Msg("Seeding complete")
		return
	}

	// Initialize cache
	var cacheImpl cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Type == "redis" {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		cacheImpl, err = cache.NewRedisCache(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Msg("Redis cache initialized")
	} else {
		cacheImpl = cache.NewMemoryCache()
		log.Info().Msg("Memory cache initialized")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	recordRepo := repository.NewHealthRecordRepository(db)

	// Initialize services
	authService := services.NewAuthService(
		db, userRepo, profileRepo, cacheImpl,
		cfg.Auth.JWTSecret, cfg.Auth.TokenTTL,
		cfg.Auth.MaxLoginAttempts, cfg.Auth.LockoutWindow,
	)
	appointmentService := services.NewAppointmentService(appointmentRepo, profileRepo)
	recordService := services.NewRecordService(recordRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	recordHandler := handlers.NewRecordHandler(recordService)
	adminHandler := handlers.NewAdminHandler(authService)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints (no authentication required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(authService))

			r.Get("/hospitals", appointmentHandler.Hospitals)

			r.With(middleware.RequireRole(models.RolePatient)).
				Post("/appointments", appointmentHandler.Book)
			r.Get("/appointments", appointmentHandler.List)
			r.Patch("/appointments/{id}/status", appointmentHandler.Transition)

			r.With(middleware.RequireRole(models.RolePatient)).
				Post("/records", recordHandler.Add)
			r.With(middleware.RequireRole(models.RolePatient)).
				Get("/records", recordHandler.List)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Get("/users", adminHandler.ListUsers)
				r.Delete("/users/{id}", adminHandler.DeleteUser)
				r.Post("/users/{username}/reset-password", adminHandler.ResetPassword)
			})
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
