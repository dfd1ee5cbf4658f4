package main

import (
	"context"
	"log"

	"github.com/reviewrelay/backend/internal/infrastructure/clients/postgres"
	"github.com/reviewrelay/backend/pkg/config"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS businesses (
		id UUID PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		public_review_url TEXT,
		industry TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (owner_id)
	)`,

	`CREATE TABLE IF NOT EXISTS customers (
		id UUID PRIMARY KEY,
		business_id UUID NOT NULL REFERENCES businesses (id),
		name TEXT,
		phone TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (business_id, phone)
	)`,

	`CREATE TABLE IF NOT EXISTS review_requests (
		id UUID PRIMARY KEY,
		business_id UUID NOT NULL REFERENCES businesses (id),
		customer_id UUID NOT NULL REFERENCES customers (id),
		status TEXT NOT NULL CHECK (status IN ('sent', 'delivered', 'read', 'completed', 'failed')),
		sent_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_review_requests_business ON review_requests (business_id, sent_at DESC)`,

	`CREATE TABLE IF NOT EXISTS rating_events (
		id UUID PRIMARY KEY,
		review_request_id UUID REFERENCES review_requests (id),
		stars INT NOT NULL CHECK (stars BETWEEN 1 AND 5),
		redirected BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rating_events_request ON rating_events (review_request_id)`,

	`CREATE TABLE IF NOT EXISTS feedback (
		id UUID PRIMARY KEY,
		rating_event_id UUID NOT NULL REFERENCES rating_events (id),
		message TEXT NOT NULL,
		contact TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (rating_event_id)
	)`,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()
	for _, stmt := range statements {
		if _, err := pgClient.DB().ExecContext(ctx, stmt); err != nil {
			log.Fatalf("Migration failed: %v\nstatement: %s", err, stmt)
		}
	}

	log.Println("Schema is up to date")
}
