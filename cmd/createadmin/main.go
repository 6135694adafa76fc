package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tierraquerida/tq-admin/internal/auth"
	"github.com/tierraquerida/tq-admin/internal/db"
	"github.com/tierraquerida/tq-admin/internal/repository"
)

// main creates a panel admin account. Run it once per operator; the
// password is hashed before it touches the database.
func main() {
	email := flag.String("email", "", "Admin email address")
	password := flag.String("password", "", "Password (generated when omitted)")
	role := flag.String("role", "admin", "Account role")
	dbPath := flag.String("db", os.Getenv("DB_PATH"), "SQLite database path")
	flag.Parse()

	*email = strings.TrimSpace(strings.ToLower(*email))
	if *email == "" {
		log.Fatal("--email is required")
	}

	generated := false
	if *password == "" {
		p, err := auth.GeneratePassword()
		if err != nil {
			log.Fatalf("Error generating password: %v", err)
		}
		*password = p
		generated = true
	}
	if err := auth.ValidateStrong(*password); err != nil {
		log.Fatalf("Weak password: %v", err)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Error hashing password: %v", err)
	}

	database := db.NewSQLite(*dbPath)
	if err := database.InitDB(); err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer database.Close()

	repo := repository.NewAdminRepository(database)
	id, err := repo.CreateAdmin(context.Background(), *email, hash, *role)
	if err != nil {
		log.Fatalf("Error creating admin: %v", err)
	}

	log.Printf("Admin %s created with id %d", *email, id)
	if generated {
		log.Printf("Generated password: %s", *password)
	}
}
