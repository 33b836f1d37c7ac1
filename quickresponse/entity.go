package quickresponse

import "time"

type QuickResponse struct {
	ID        int       `db:"id" json:"id"`
	Category  string    `db:"category" json:"category"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
