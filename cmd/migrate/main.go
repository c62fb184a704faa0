package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/immocore/immocore/internal/store/postgres"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Standalone migration runner. Takes the connection string as the first
// argument or falls back to DATABASE_URL.
func main() {
	ctx := context.Background()

	connStr := os.Getenv("DATABASE_URL")
	if len(os.Args) > 1 {
		connStr = os.Args[1]
	}
	if connStr == "" {
		log.Fatal("connection string required: pass as argument or set DATABASE_URL")
	}

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping: %v", err)
	}

	fmt.Println("✓ Connected to database")

	if _, err := db.ExecContext(ctx, postgres.InitialSchema); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	fmt.Println("✓ Schema applied")
}
