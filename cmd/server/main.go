package main

import (
	"log"
	"net/http"

	_ "crimetracker/docs" // swagger docs

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"crimetracker/internal/auth"
	"crimetracker/internal/config"
	"crimetracker/internal/db"
	"crimetracker/internal/handler"
	"crimetracker/internal/model"
	"crimetracker/internal/notify"
	"crimetracker/internal/repository"
	"crimetracker/internal/router"
	"crimetracker/internal/service"
	"crimetracker/internal/session"
)

// @title Crime Tracker API
// @version 1.0
// @description Crime incident reporting API with session authentication and role-scoped access.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		// Serving requests against a broken configuration is worse than not
		// starting at all.
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Report{},
		&model.Session{},
		&model.PasswordResetToken{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	reportRepo := repository.NewReportRepository(gormDB)
	resetTokenRepo := repository.NewResetTokenRepository(gormDB)

	// Select the session store backend
	var sessions session.Store
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		sessions = session.NewRedisStore(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	case config.SessionBackendMemory:
		log.Println("using in-memory session store: sessions are lost on restart")
		sessions = session.NewMemoryStore()
	case config.SessionBackendDatabase:
		sessions = session.NewGormStore(gormDB)
	default:
		log.Fatalf("unknown SESSION_BACKEND %q", cfg.SessionBackend)
	}

	resetTokens := auth.NewResetTokenService(cfg.ResetTokenSecret, cfg.ResetTokenTTL, resetTokenRepo)
	mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword, cfg.AdminEmail)

	// Initialize services
	authService := service.NewAuthService(userRepo, sessions, cfg.SessionTTL, resetTokens)
	reportService := service.NewReportService(reportRepo, mailer)
	userService := service.NewUserService(userRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, mailer, cfg)
	reportHandler := handler.NewReportHandler(reportService)
	userHandler := handler.NewUserHandler(userService)

	// Register routes
	router.Register(e, cfg, sessions, userRepo, authHandler, reportHandler, userHandler)

	if cfg.ReturnResetToken {
		log.Println("WARNING: RETURN_RESET_TOKEN is enabled, reset tokens are echoed in API responses")
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
