package document

// Synthesis is the fully shaped, render-ready report model for one Case.
// Every monetary field is pre-formatted and every level carries its
// subtotals, the rendering stage performs no arithmetic.
type Synthesis struct {
	CaseID       string
	Title        string
	Location     string
	IncidentDate string
	Notes        string
	Caseworker   string

	MemberCount      int
	Members          []MemberSection
	ConventionTotal  float64
	PaymentTotal     float64
	ConventionsShown string // formatted case-level convention subtotal
	PaymentsShown    string // formatted case-level payment subtotal
}

// MemberSection is one service member within a Synthesis
type MemberSection struct {
	Name           string
	Unit           string
	Region         string
	Department     string
	Circumstance   string
	Injury         string
	IncapacityDays string
	Deceased       string // "Oui" / "Non"

	BeneficiaryCount int
	Beneficiaries    []BeneficiarySection
	ConventionTotal  float64
	PaymentTotal     float64
	ConventionsShown string
	PaymentsShown    string

	Placeholder bool
}

// BeneficiarySection is one beneficiary within a member section
type BeneficiarySection struct {
	Name           string
	Qualifier      string
	DecisionNumber string
	DecisionDate   string

	Conventions      []ConventionLine
	Payments         []PaymentLine
	ConventionTotal  float64
	PaymentTotal     float64
	ConventionsShown string
	PaymentsShown    string

	Placeholder bool
}

// ConventionLine is one fee agreement row
type ConventionLine struct {
	Amount            string
	AmountWords       string
	ResultPercent     string
	SentToLawyer      string
	SentToBeneficiary string
	Validated         string
	Lawyer            string

	Placeholder bool
}

// PaymentLine is one disbursement row
type PaymentLine struct {
	Type               string
	Amount             string
	Date               string
	RecipientName      string
	RecipientQualifier string

	Placeholder bool
}
