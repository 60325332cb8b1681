package main

import (
	"database/sql"
	"log"
	"os"

	"fitmind/internal/config"
	"fitmind/migrations"

	_ "github.com/lib/pq"
)

// Применяет (up, по умолчанию) или откатывает (down) схему БД
func main() {
	cfg := config.LoadDatabase()

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		version, err := migrations.Up(db)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Migration up successful, version %d", version)
	case "down":
		if err := migrations.Down(db); err != nil {
			log.Fatal(err)
		}
		log.Println("Migration down successful")
	default:
		log.Fatalf("unknown command %q, use up or down", cmd)
	}
}
