package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// Common skills so the onboarding picker has suggestions before the first
// generation populates the catalog.
var starterSkills = []string{
	"Python", "JavaScript", "TypeScript", "Go", "Java", "SQL",
	"React", "Node.js", "Docker", "Kubernetes", "AWS", "PostgreSQL",
	"Git", "Linux", "REST APIs", "GraphQL", "Machine Learning",
	"Data Analysis", "Communication", "Project Management",
}

func main() {
	fmt.Println("seeding skill catalog...")

	err := godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use system environment variables.")
	}

	DSN := os.Getenv("DB_DSN")

	pool, err := pgxpool.New(context.Background(), DSN)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	for _, name := range starterSkills {
		_, err = pool.Exec(context.Background(), `
			INSERT INTO skill_catalog (name) VALUES ($1)
			ON CONFLICT (name) DO NOTHING
		`, name)
		if err != nil {
			log.Fatalf("cannot add skill '%s': %v", name, err)
		}
	}

	fmt.Printf("seeded %d catalog skills successfully!\n", len(starterSkills))
}
