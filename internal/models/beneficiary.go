package models

import "time"

// Beneficiary represents a person (the member or a next-of-kin) entitled to
// compensation under a Case.
//
// Qualifier rules: a deceased member's beneficiaries are next-of-kin
// (SPOUSE, CHILD or PARENT); a living member has at most one beneficiary
// with qualifier SELF. Enforcement happens in the CRUD layer, the report
// side only reads.
type Beneficiary struct {
	ID             string       `json:"id"`
	MemberID       string       `json:"member_id"`
	FirstName      string       `json:"first_name"`
	LastName       string       `json:"last_name"`
	Qualifier      string       `json:"qualifier"` // SELF, SPOUSE, CHILD, PARENT, OTHER
	DecisionNumber string       `json:"decision_number,omitempty"`
	DecisionDate   *time.Time   `json:"decision_date,omitempty"`
	Archived       bool         `json:"archived"`
	Lawyers        []Lawyer     `json:"lawyers,omitempty"`
	Conventions    []Convention `json:"conventions,omitempty"`
	Payments       []Payment    `json:"payments,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Qualifier constants
const (
	QualifierSelf   = "SELF"
	QualifierSpouse = "SPOUSE"
	QualifierChild  = "CHILD"
	QualifierParent = "PARENT"
	QualifierOther  = "OTHER"
)

// FullName returns the beneficiary's display name
func (b *Beneficiary) FullName() string {
	return b.FirstName + " " + b.LastName
}
