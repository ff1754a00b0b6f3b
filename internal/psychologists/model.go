package psychologists

import "time"

// Psychologist is a listed practitioner. New profiles start unapproved
// and stay out of public listings until an admin approves them.
type Psychologist struct {
	PsychologistID  string    `json:"psychologist_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Credentials     string    `json:"credentials"`
	Specialization  []string  `json:"specialization"`
	YearsExperience int       `json:"years_experience"`
	Pricing         int       `json:"pricing"`
	Rating          float64   `json:"rating"`
	Bio             string    `json:"bio"`
	Picture         *string   `json:"picture"`
	Approved        bool      `json:"approved"`
	CreatedAt       time.Time `json:"created_at"`
}
