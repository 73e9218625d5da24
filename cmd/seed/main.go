package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"crimetracker/internal/config"
	"crimetracker/internal/db"
	"crimetracker/internal/model"
	"crimetracker/internal/repository"
)

// Default credentials for local development; override via environment.
const (
	defaultAdminUsername    = "admin"
	defaultAdminEmail       = "admin@crimetracker.local"
	defaultAdminPassword    = "changeme123"
	defaultReporterUsername = "demo-reporter"
	defaultReporterEmail    = "reporter@crimetracker.local"
	defaultReporterPassword = "reporter123"
)

type seedUser struct {
	username string
	email    string
	password string
	role     string
}

func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Report{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	reportRepo := repository.NewReportRepository(gormDB)
	ctx := context.Background()

	users := []seedUser{
		{defaultAdminUsername, defaultAdminEmail, defaultAdminPassword, model.RoleAdmin},
		{defaultReporterUsername, defaultReporterEmail, defaultReporterPassword, model.RoleReporter},
	}

	created := 0
	var reporter *model.User
	for _, su := range users {
		user, wasCreated, err := ensureUser(ctx, userRepo, su)
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", su.username, err)
		}
		if wasCreated {
			created++
		}
		if su.role == model.RoleReporter {
			reporter = user
		}
	}
	log.Printf("Seeded users: %d created", created)

	seededReports, err := seedReports(ctx, reportRepo, reporter)
	if err != nil {
		log.Fatalf("Failed to seed reports: %v", err)
	}
	log.Printf("Seeded reports: %d created", seededReports)

	log.Println("Seed completed successfully!")
	log.Printf("  - Admin login: %s / %s", defaultAdminUsername, defaultAdminPassword)
	log.Printf("  - Reporter login: %s / %s", defaultReporterUsername, defaultReporterPassword)
}

// ensureUser creates the user unless the username already exists.
func ensureUser(ctx context.Context, repo repository.UserRepository, su seedUser) (*model.User, bool, error) {
	existing, err := repo.FindByUsername(ctx, su.username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(su.password), 10)
	if err != nil {
		return nil, false, err
	}

	user := &model.User{
		Username:     su.username,
		Email:        su.email,
		PasswordHash: string(hashed),
		Role:         su.role,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// seedReports inserts demo reports for the reporter if none exist yet.
func seedReports(ctx context.Context, repo repository.ReportRepository, reporter *model.User) (int, error) {
	if reporter == nil {
		return 0, nil
	}

	existing, err := repo.List(ctx, repository.ReportFilter{ReporterID: reporter.ID})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	demo := []model.Report{
		{
			Title:       "Broken streetlight exploited for break-ins",
			Description: "Two car break-ins reported near the unlit corner of 5th and Main.",
			Category:    "theft",
			Location:    "5th and Main",
			Status:      model.StatusPending,
			ReporterID:  reporter.ID,
		},
		{
			Title:       "Graffiti on community center wall",
			Description: "Large tags appeared overnight on the east-facing wall.",
			Category:    "vandalism",
			Location:    "Community center, Elm St",
			Status:      model.StatusPending,
			ReporterID:  reporter.ID,
		},
	}

	created := 0
	for i := range demo {
		if err := repo.Create(ctx, &demo[i]); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
