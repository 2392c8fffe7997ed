package models

import "time"

// ServiceMember represents a service member injured or killed in the
// circumstances described by a Case
type ServiceMember struct {
	ID             string    `json:"id"`
	CaseID         string    `json:"case_id"`
	Rank           string    `json:"rank"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Unit           string    `json:"unit"`
	Region         string    `json:"region"`
	Department     string    `json:"department"`
	Circumstance   string    `json:"circumstance"` // SERVICE, ATTACK, ACCIDENT, OTHER
	Injury         string    `json:"injury"`
	IncapacityDays int       `json:"incapacity_days"`
	Deceased       bool      `json:"deceased"`
	Archived       bool      `json:"archived"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Circumstance constants
const (
	CircumstanceService  = "SERVICE"
	CircumstanceAttack   = "ATTACK"
	CircumstanceAccident = "ACCIDENT"
	CircumstanceOther    = "OTHER"
)

// FullName returns "Rank FirstName LastName" with empty parts skipped
func (m *ServiceMember) FullName() string {
	name := m.FirstName + " " + m.LastName
	if m.Rank != "" {
		return m.Rank + " " + name
	}
	return name
}
