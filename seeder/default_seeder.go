package seeder

import (
	"log"

	"github.com/jmoiron/sqlx"
)

func RunSeeder(db *sqlx.DB) {
	log.Println("Starting seeder...")

	quickResponsesSeeder(db)

	log.Println("Seeding completed successfully")
}
