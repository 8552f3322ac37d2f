package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("========================================")
	fmt.Println("   Reset Database for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("⚠️  WARNING: This will DELETE ALL USER DATA!")
	fmt.Println()
	fmt.Println("This will:")
	fmt.Println("  - Delete all payments")
	fmt.Println("  - Delete all invoices")
	fmt.Println("  - Delete all clients")
	fmt.Println("  - Delete all users")
	fmt.Println("  - Reset the invoice number sequence")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	godotenv.Load()

	host := getenv("DB_HOST", "localhost")
	port := getenv("DB_PORT", "5432")
	user := getenv("DB_USER", "postgres")
	password := os.Getenv("DB_PASSWORD")
	name := getenv("DB_NAME", "invoicely_db")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, password, host, port, name)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Delete in dependency order; FKs cascade but explicit order keeps
	// the output readable
	statements := []struct {
		label string
		sql   string
	}{
		{"payments", "DELETE FROM payments"},
		{"invoices", "DELETE FROM invoices"},
		{"clients", "DELETE FROM clients"},
		{"users", "DELETE FROM users"},
		{"invoice sequence", "ALTER SEQUENCE invoice_number_seq RESTART WITH 1"},
	}

	for _, stmt := range statements {
		tag, err := pool.Exec(ctx, stmt.sql)
		if err != nil {
			log.Fatalf("Failed on %s: %v", stmt.label, err)
		}
		fmt.Printf("  ✓ %s (%d rows)\n", stmt.label, tag.RowsAffected())
	}

	fmt.Println()
	fmt.Println("Database reset complete.")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
