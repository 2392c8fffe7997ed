package models

import "time"

// Case represents a military incident record grouping affected service members
type Case struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Location     string     `json:"location"`
	IncidentDate *time.Time `json:"incident_date,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Archived     bool       `json:"archived"`
	Caseworker   string     `json:"caseworker"` // account name of the owning redacteur
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
