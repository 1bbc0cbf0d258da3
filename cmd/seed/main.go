// Command seed provisions admin records and a starter lawyer directory.
// Admin emails come from positional arguments or the ADMIN_EMAILS
// environment variable (comma separated).
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/admin"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/config"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/database"
	"github.com/ramakrishnanyadav/legalaid-backend/internal/lawyer"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.Migrate(cfg.DatabaseURL); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	admins := adminEmails()
	if len(admins) == 0 {
		slog.Warn("no admin emails given; seeding lawyers only")
	}

	adminRepo := admin.NewRepository(db.Pool())
	for _, email := range admins {
		if err := adminRepo.Create(ctx, email); err != nil {
			slog.Error("failed to seed admin record", "email", email, "error", err)
			os.Exit(1)
		}
		slog.Info("admin record seeded", "email", email)
	}

	lawyerRepo := lawyer.NewRepository(db.Pool())
	for _, l := range sampleLawyers() {
		if err := lawyerRepo.Create(ctx, &l); err != nil {
			slog.Error("failed to seed lawyer", "name", l.Name, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("lawyer directory seeded", "count", len(sampleLawyers()))
}

func adminEmails() []string {
	raw := os.Args[1:]
	if len(raw) == 0 {
		raw = strings.Split(os.Getenv("ADMIN_EMAILS"), ",")
	}
	emails := make([]string, 0, len(raw))
	for _, e := range raw {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			emails = append(emails, e)
		}
	}
	return emails
}

func sampleLawyers() []lawyer.Lawyer {
	return []lawyer.Lawyer{
		{
			Name:           "Priya Sharma",
			Specialization: "family",
			ExperienceYrs:  12,
			Location:       "Mumbai",
			Rating:         4.8,
			ContactEmail:   "priya.sharma@example.com",
		},
		{
			Name:           "Arjun Mehta",
			Specialization: "criminal",
			ExperienceYrs:  9,
			Location:       "Delhi",
			Rating:         4.6,
			ContactEmail:   "arjun.mehta@example.com",
		},
		{
			Name:           "Kavitha Nair",
			Specialization: "property",
			ExperienceYrs:  15,
			Location:       "Bengaluru",
			Rating:         4.9,
			ContactEmail:   "kavitha.nair@example.com",
		},
		{
			Name:           "Rohit Verma",
			Specialization: "consumer",
			ExperienceYrs:  6,
			Location:       "Pune",
			Rating:         4.3,
			ContactEmail:   "rohit.verma@example.com",
		},
	}
}
