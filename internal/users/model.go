package users

import "time"

// Roles a user account can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the profile associated with a session. Anonymous users get a
// synthetic email under the anonymous.saathi domain and carry
// IsAnonymous so downstream policy (booking) can reject them.
type User struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Picture     *string   `json:"picture"`
	Role        string    `json:"role"`
	IsAnonymous bool      `json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
}
