package seeder

import (
	"log"

	"github.com/jmoiron/sqlx"
)

type quickResponseSeed struct {
	Category string
	Title    string
	Message  string
}

var defaultQuickResponses = []quickResponseSeed{
	{"greeting", "Welcome", "Hello! Thank you for contacting the SRC support desk. How can I help you today?"},
	{"greeting", "Back shortly", "Thanks for your patience, I will be with you in just a moment."},
	{"general", "Checking", "Let me look into that for you right away."},
	{"general", "Escalation", "I am escalating this to the responsible department and will follow up with you."},
	{"finance", "Budget request", "Budget requests are reviewed weekly. Please make sure your department form is submitted before Friday."},
	{"academics", "Resit info", "Resit registration closes two weeks before the examination period. You can register from your student portal."},
	{"closing", "Anything else", "Is there anything else I can help you with today?"},
	{"closing", "Goodbye", "Thank you for contacting SRC support. Have a great day!"},
}

func quickResponsesSeeder(db *sqlx.DB) {
	var count int
	err := db.Get(&count, "SELECT COUNT(*) FROM quick_responses")
	if err != nil {
		log.Fatalf("Failed to check quick_responses table: %v", err)
	}

	if count > 0 {
		log.Println("Quick responses already seeded.")
		return
	}

	for _, qr := range defaultQuickResponses {
		_, err := db.Exec(
			"INSERT INTO quick_responses (category, title, message) VALUES ($1, $2, $3)",
			qr.Category, qr.Title, qr.Message,
		)
		if err != nil {
			log.Fatalf("Failed to insert quick response %q: %v", qr.Title, err)
		}
	}

	log.Printf("Seeded %d quick responses successfully.", len(defaultQuickResponses))
}
