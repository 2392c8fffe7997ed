package models

import "time"

// Convention represents a fee agreement between a beneficiary and a lawyer.
//
// The three dates are expected non-decreasing (sent to lawyer, then to the
// beneficiary, then validated) but out-of-order records exist in the wild
// and are tolerated. The synthesis builder logs them without rejecting.
type Convention struct {
	ID                string     `json:"id"`
	BeneficiaryID     string     `json:"beneficiary_id"`
	Amount            float64    `json:"amount"`
	ResultPercent     float64    `json:"result_percent"`
	SentToLawyer      *time.Time `json:"sent_to_lawyer,omitempty"`
	SentToBeneficiary *time.Time `json:"sent_to_beneficiary,omitempty"`
	Validated         *time.Time `json:"validated,omitempty"`
	LawyerID          string     `json:"lawyer_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}
