package models

import "time"

// Lawyer is read-only reference data for conventions and payments
type Lawyer struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Specialized bool      `json:"specialized"` // holds the military-damage specialization
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// FullName returns the lawyer's display name with the bar title
func (l *Lawyer) FullName() string {
	return "Maître " + l.FirstName + " " + l.LastName
}
