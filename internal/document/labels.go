package document

import "github.com/mlevasseur/dossiers-militaires/internal/models"

// LabelMapper converts stored enum values to the French wording used on
// generated documents
type LabelMapper struct{}

// NewLabelMapper creates a new LabelMapper
func NewLabelMapper() *LabelMapper {
	return &LabelMapper{}
}

// QualifierLabel returns the document wording for a beneficiary qualifier
func (m *LabelMapper) QualifierLabel(qualifier string) string {
	labels := map[string]string{
		models.QualifierSelf:   "Lui-même",
		models.QualifierSpouse: "Conjoint(e)",
		models.QualifierChild:  "Enfant",
		models.QualifierParent: "Parent",
		models.QualifierOther:  "Autre ayant droit",
	}

	if label, ok := labels[qualifier]; ok {
		return label
	}
	return "Autre ayant droit"
}

// CircumstanceLabel returns the document wording for an injury circumstance
func (m *LabelMapper) CircumstanceLabel(circumstance string) string {
	labels := map[string]string{
		models.CircumstanceService:  "En service",
		models.CircumstanceAttack:   "Attentat",
		models.CircumstanceAccident: "Accident",
		models.CircumstanceOther:    "Autre circonstance",
	}

	if label, ok := labels[circumstance]; ok {
		return label
	}
	return "Autre circonstance"
}

// PaymentTypeLabel returns the document wording for a payment type
func (m *LabelMapper) PaymentTypeLabel(paymentType string) string {
	labels := map[string]string{
		models.PaymentTypeProvision: "Provision",
		models.PaymentTypeBalance:   "Solde",
		models.PaymentTypeFees:      "Honoraires",
		models.PaymentTypeOther:     "Autre versement",
	}

	if label, ok := labels[paymentType]; ok {
		return label
	}
	return "Autre versement"
}
