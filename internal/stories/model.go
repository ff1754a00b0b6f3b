package stories

import "time"

// Story is an anonymized success story shared by a user. Stories stay
// hidden from the public feed until an admin approves them.
type Story struct {
	StoryID   string    `json:"story_id"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}
