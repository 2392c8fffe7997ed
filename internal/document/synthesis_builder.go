package document

import (
	"fmt"

	"github.com/mlevasseur/dossiers-militaires/internal/models"
	"go.uber.org/zap"
)

// Lawyer fallback when a convention or payment references a lawyer the
// beneficiary's own list does not contain
const missingLawyer = "Avocat non renseigné"

// SynthesisBuilder shapes a fully-populated case tree into a Synthesis.
// Inputs are read-only snapshots, the builder never mutates them and never
// touches the store, the caller hands it already-joined records.
type SynthesisBuilder struct {
	labels *LabelMapper
	logger *zap.Logger
}

// NewSynthesisBuilder creates a new SynthesisBuilder
func NewSynthesisBuilder(labels *LabelMapper, logger *zap.Logger) *SynthesisBuilder {
	return &SynthesisBuilder{
		labels: labels,
		logger: logger,
	}
}

// BuildCaseSynthesis builds the three-level report model for one case.
// beneficiariesByMember maps a member ID to its beneficiaries, each
// populated with conventions, payments and lawyers.
func (b *SynthesisBuilder) BuildCaseSynthesis(
	c *models.Case,
	members []*models.ServiceMember,
	beneficiariesByMember map[string][]*models.Beneficiary,
) (*Synthesis, error) {
	if c == nil {
		return nil, ErrNilCase
	}

	b.logger.Debug("Building case synthesis",
		zap.String("case_id", c.ID),
		zap.Int("member_count", len(members)))

	synthesis := &Synthesis{
		CaseID:       c.ID,
		Title:        c.Title,
		Location:     c.Location,
		IncidentDate: FormatDate(c.IncidentDate),
		Notes:        c.Notes,
		Caseworker:   c.Caseworker,
		MemberCount:  len(members),
		Members:      make([]MemberSection, 0, len(members)),
	}

	for _, member := range members {
		section := b.buildMemberSection(member, beneficiariesByMember[member.ID])
		synthesis.ConventionTotal += section.ConventionTotal
		synthesis.PaymentTotal += section.PaymentTotal
		synthesis.Members = append(synthesis.Members, section)
	}

	// Templates iterate the member list, an empty collection would make
	// the engine's loop regions fail, so an empty case still renders one
	// "Néant" row.
	if len(synthesis.Members) == 0 {
		synthesis.Members = append(synthesis.Members, placeholderMember())
	}

	synthesis.ConventionsShown = FormatAmount(synthesis.ConventionTotal, false)
	synthesis.PaymentsShown = FormatAmount(synthesis.PaymentTotal, false)

	b.logger.Debug("Case synthesis complete",
		zap.String("case_id", c.ID),
		zap.Float64("convention_total", synthesis.ConventionTotal),
		zap.Float64("payment_total", synthesis.PaymentTotal))

	return synthesis, nil
}

func (b *SynthesisBuilder) buildMemberSection(member *models.ServiceMember, beneficiaries []*models.Beneficiary) MemberSection {
	section := MemberSection{
		Name:             member.FullName(),
		Unit:             member.Unit,
		Region:           member.Region,
		Department:       member.Department,
		Circumstance:     b.labels.CircumstanceLabel(member.Circumstance),
		Injury:           member.Injury,
		IncapacityDays:   fmt.Sprintf("%d", member.IncapacityDays),
		Deceased:         "Non",
		BeneficiaryCount: len(beneficiaries),
		Beneficiaries:    make([]BeneficiarySection, 0, len(beneficiaries)),
	}
	if member.Deceased {
		section.Deceased = "Oui"
	}

	for _, beneficiary := range beneficiaries {
		sub := b.buildBeneficiarySection(beneficiary)
		section.ConventionTotal += sub.ConventionTotal
		section.PaymentTotal += sub.PaymentTotal
		section.Beneficiaries = append(section.Beneficiaries, sub)
	}

	section.ConventionsShown = FormatAmount(section.ConventionTotal, false)
	section.PaymentsShown = FormatAmount(section.PaymentTotal, false)
	return section
}

func (b *SynthesisBuilder) buildBeneficiarySection(beneficiary *models.Beneficiary) BeneficiarySection {
	section := BeneficiarySection{
		Name:           beneficiary.FullName(),
		Qualifier:      b.labels.QualifierLabel(beneficiary.Qualifier),
		DecisionNumber: beneficiary.DecisionNumber,
		DecisionDate:   FormatDate(beneficiary.DecisionDate),
		Conventions:    make([]ConventionLine, 0, len(beneficiary.Conventions)),
		Payments:       make([]PaymentLine, 0, len(beneficiary.Payments)),
	}
	if section.DecisionNumber == "" {
		section.DecisionNumber = NoneEntry
	}

	for i := range beneficiary.Conventions {
		convention := &beneficiary.Conventions[i]
		b.warnOutOfOrderDates(beneficiary.ID, convention)
		section.Conventions = append(section.Conventions, ConventionLine{
			Amount:            FormatAmount(convention.Amount, false),
			AmountWords:       AmountInWords(int64(convention.Amount)),
			ResultPercent:     FormatPercent(convention.ResultPercent),
			SentToLawyer:      FormatDate(convention.SentToLawyer),
			SentToBeneficiary: FormatDate(convention.SentToBeneficiary),
			Validated:         FormatDate(convention.Validated),
			Lawyer:            resolveLawyer(beneficiary.Lawyers, convention.LawyerID),
		})
		section.ConventionTotal += convention.Amount
	}

	for i := range beneficiary.Payments {
		payment := &beneficiary.Payments[i]
		section.Payments = append(section.Payments, PaymentLine{
			Type:               b.labels.PaymentTypeLabel(payment.Type),
			Amount:             FormatAmount(payment.Amount, false),
			Date:               FormatDate(payment.Date),
			RecipientName:      payment.RecipientName,
			RecipientQualifier: payment.RecipientQualifier,
		})
		section.PaymentTotal += payment.Amount
	}

	// Same empty-collection rule as for members
	if len(section.Conventions) == 0 {
		section.Conventions = append(section.Conventions, placeholderConvention())
	}
	if len(section.Payments) == 0 {
		section.Payments = append(section.Payments, placeholderPayment())
	}

	section.ConventionsShown = FormatAmount(section.ConventionTotal, false)
	section.PaymentsShown = FormatAmount(section.PaymentTotal, false)
	return section
}

// resolveLawyer looks the reference up against the beneficiary's own
// lawyer list, not a global registry
func resolveLawyer(lawyers []models.Lawyer, lawyerID string) string {
	if lawyerID == "" {
		return missingLawyer
	}
	for i := range lawyers {
		if lawyers[i].ID == lawyerID {
			return lawyers[i].FullName()
		}
	}
	return missingLawyer
}

// warnOutOfOrderDates flags conventions whose dates run backwards. The
// source data tolerates these silently, so out-of-order records are logged
// and kept.
func (b *SynthesisBuilder) warnOutOfOrderDates(beneficiaryID string, c *models.Convention) {
	ordered := true
	if c.SentToLawyer != nil && c.SentToBeneficiary != nil && c.SentToBeneficiary.Before(*c.SentToLawyer) {
		ordered = false
	}
	if c.SentToBeneficiary != nil && c.Validated != nil && c.Validated.Before(*c.SentToBeneficiary) {
		ordered = false
	}
	if c.SentToLawyer != nil && c.Validated != nil && c.Validated.Before(*c.SentToLawyer) {
		ordered = false
	}
	if !ordered {
		b.logger.Warn("Convention dates out of chronological order",
			zap.String("beneficiary_id", beneficiaryID),
			zap.String("convention_id", c.ID))
	}
}

func placeholderMember() MemberSection {
	return MemberSection{
		Name:             NoneEntry,
		Unit:             NoneEntry,
		Region:           NoneEntry,
		Department:       NoneEntry,
		Circumstance:     NoneEntry,
		Injury:           NoneEntry,
		IncapacityDays:   "0",
		Deceased:         "Non",
		Beneficiaries:    []BeneficiarySection{},
		ConventionsShown: FormatAmount(0, false),
		PaymentsShown:    FormatAmount(0, false),
		Placeholder:      true,
	}
}

func placeholderConvention() ConventionLine {
	return ConventionLine{
		Amount:            MissingAmount,
		AmountWords:       NoneEntry,
		ResultPercent:     MissingAmount,
		SentToLawyer:      MissingDate,
		SentToBeneficiary: MissingDate,
		Validated:         MissingDate,
		Lawyer:            missingLawyer,
		Placeholder:       true,
	}
}

func placeholderPayment() PaymentLine {
	return PaymentLine{
		Type:               NoneEntry,
		Amount:             MissingAmount,
		Date:               MissingDate,
		RecipientName:      NoneEntry,
		RecipientQualifier: NoneEntry,
		Placeholder:        true,
	}
}
