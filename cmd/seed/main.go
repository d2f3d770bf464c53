// Package main provides a tool to seed the database with demo data.
//
// This creates a demo account with jobs, experiences, and a pool of resume
// bullets wired to the experiences, for exercising the list and stats
// endpoints against something other than an empty database.
//
// Usage:
//
//	DB_PATH=~/JobTrail/jobtrail.db go run ./cmd/seed
//	go run ./cmd/seed --email you@example.com --password hunter22222
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jobtrailapp/jobtrail-server/internal/auth"
	"github.com/jobtrailapp/jobtrail-server/internal/domain"
	"github.com/jobtrailapp/jobtrail-server/internal/store/sqlite"
)

var (
	email    = flag.String("email", "demo@jobtrail.app", "Email for the seeded account")
	password = flag.String("password", "DemoPassword123!", "Password for the seeded account")
)

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/JobTrail/jobtrail.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	s, err := sqlite.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &domain.User{Email: *email, PasswordHash: hash}
	if err := s.CreateUser(ctx, user); err != nil {
		log.Fatalf("Failed to create user (already seeded?): %v", err)
	}
	fmt.Printf("Created user %s (id=%d)\n", user.Email, user.ID)

	// Jobs the user is applying to.
	jobs := []*domain.Job{
		{UserID: user.ID, CompanyName: "Initech", Description: "Backend engineer, payments team"},
		{UserID: user.ID, CompanyName: "Globex", Description: "Platform engineer, infra"},
		{UserID: user.ID, CompanyName: "Hooli", Description: "Senior engineer, compression"},
	}
	for _, job := range jobs {
		if err := s.CreateJob(ctx, job); err != nil {
			log.Fatalf("Failed to create job: %v", err)
		}
	}
	fmt.Printf("Created %d jobs\n", len(jobs))

	// Past and current work experiences.
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	firstEnd := date(2021, time.June, 30)

	experiences := []*domain.Experience{
		{
			UserID:      user.ID,
			CompanyName: "Acme Corp",
			JobTitle:    "Software Engineer",
			StartDate:   date(2018, time.September, 1),
			EndDate:     &firstEnd,
		},
		{
			UserID:      user.ID,
			CompanyName: "Umbrella Inc",
			JobTitle:    "Senior Software Engineer",
			StartDate:   date(2021, time.July, 15),
			IsCurrent:   true,
		},
	}
	for _, exp := range experiences {
		if err := s.CreateExperience(ctx, exp); err != nil {
			log.Fatalf("Failed to create experience: %v", err)
		}
	}
	fmt.Printf("Created %d experiences\n", len(experiences))

	// A pool of reusable bullets.
	texts := []string{
		"Designed and shipped a payments reconciliation service handling 2M transactions/day",
		"Cut p99 API latency from 800ms to 120ms by adding request-level caching",
		"Led migration of the monolith's auth layer to a standalone service",
		"Mentored four junior engineers through their first production launches",
		"Built CI pipeline that reduced deploy time from 40 minutes to 8",
	}
	bullets := make([]*domain.Bullet, 0, len(texts))
	for _, text := range texts {
		b := &domain.Bullet{UserID: user.ID, Text: text}
		if err := s.CreateBullet(ctx, b); err != nil {
			log.Fatalf("Failed to create bullet: %v", err)
		}
		bullets = append(bullets, b)
	}
	fmt.Printf("Created %d bullets\n", len(bullets))

	// Wire bullets to experiences: first three to the old role, last three
	// to the current one, sharing the middle bullet between both.
	links := []struct {
		exp    *domain.Experience
		bullet *domain.Bullet
	}{
		{experiences[0], bullets[0]},
		{experiences[0], bullets[1]},
		{experiences[0], bullets[2]},
		{experiences[1], bullets[2]},
		{experiences[1], bullets[3]},
		{experiences[1], bullets[4]},
	}
	for _, l := range links {
		if _, err := s.AssociateBullet(ctx, user.ID, l.exp.ID, l.bullet.ID); err != nil {
			log.Fatalf("Failed to associate bullet %d with experience %d: %v", l.bullet.ID, l.exp.ID, err)
		}
	}
	fmt.Printf("Created %d associations\n", len(links))

	stats, err := s.GetAssociationStats(ctx, user.ID)
	if err != nil {
		log.Fatalf("Failed to read stats: %v", err)
	}
	fmt.Printf("\nSeed complete: %d experiences, %d bullets in use, %d links, avg %.1f bullets/experience\n",
		stats.TotalExperiences, stats.TotalBulletsUsed, stats.TotalAssociations, stats.AvgBulletsPerExperience)
	fmt.Printf("Login with %s / %s\n", *email, *password)
}
