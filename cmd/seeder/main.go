package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/emarket/emarket-api/internal/platform/migrations"
	platformpostgres "github.com/emarket/emarket-api/internal/platform/postgres"
)

// Seeds the database with demo catalog data and a demo user session, printing
// the bearer token to use against authorized routes.
func main() {
	ctx := context.Background()
	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}
	db, err := platformpostgres.Connect(ctx, dsn)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to unwrap postgres connection: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()

	if err := migrations.Run(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	token, err := migrations.Seed(db, sessionTTL())
	if err != nil {
		log.Fatalf("failed to seed database: %v", err)
	}
	fmt.Printf("seeded demo data; bearer token: %s\n", token)
}

func sessionTTL() time.Duration {
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL_HOURS")); raw != "" {
		if hours, err := strconv.Atoi(raw); err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
	}
	return 24 * time.Hour
}
