package models

import (
	"fmt"
	"regexp"
	"time"
)

// Payment represents a disbursement record tied to a beneficiary
type Payment struct {
	ID                 string     `json:"id"`
	BeneficiaryID      string     `json:"beneficiary_id"`
	Type               string     `json:"type"` // PROVISION, BALANCE, FEES, OTHER
	Amount             float64    `json:"amount"`
	Date               *time.Time `json:"date,omitempty"`
	RecipientName      string     `json:"recipient_name"`
	RecipientQualifier string     `json:"recipient_qualifier"`
	RecipientAddress   string     `json:"recipient_address,omitempty"`
	IBAN               string     `json:"iban,omitempty"`
	BIC                string     `json:"bic,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Payment type constants
const (
	PaymentTypeProvision = "PROVISION"
	PaymentTypeBalance   = "BALANCE"
	PaymentTypeFees      = "FEES"
	PaymentTypeOther     = "OTHER"
)

var (
	ibanPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{11,30}$`)
	bicPattern  = regexp.MustCompile(`^[A-Z]{6}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
)

// ValidateBankFields checks IBAN and BIC formats. Empty fields are
// accepted, bank coordinates are optional on a payment.
func (p *Payment) ValidateBankFields() error {
	if p.IBAN != "" && !ibanPattern.MatchString(p.IBAN) {
		return fmt.Errorf("invalid IBAN format: %s", p.IBAN)
	}
	if p.BIC != "" && !bicPattern.MatchString(p.BIC) {
		return fmt.Errorf("invalid BIC format: %s", p.BIC)
	}
	return nil
}
