package document

// SheetData is the flat, engine-ready form of a shaped document: fixed
// header cells plus an optional row region. Layout functions own all
// knowledge of where a template expects its values, the renderer just
// writes.
type SheetData struct {
	Cells map[string]any
	Table *Table
}

// Table is a contiguous row region written from column A
type Table struct {
	StartRow int
	Rows     [][]any
}

// SynthesisSheet lays out the full case synthesis: case header, then one
// row block per member with its beneficiaries, conventions and payments
// indented below it, then the case totals.
func SynthesisSheet(s *Synthesis) *SheetData {
	sheet := &SheetData{
		Cells: map[string]any{
			"B2": s.Title,
			"B3": s.Location,
			"B4": s.IncidentDate,
			"B5": s.Caseworker,
			"B6": s.MemberCount,
			"F2": s.ConventionsShown,
			"F3": s.PaymentsShown,
		},
		Table: &Table{StartRow: 9},
	}

	for _, member := range s.Members {
		sheet.Table.Rows = append(sheet.Table.Rows, []any{
			member.Name, member.Unit, member.Circumstance, member.Injury,
			member.IncapacityDays, member.Deceased, member.BeneficiaryCount,
		})
		for _, beneficiary := range member.Beneficiaries {
			sheet.Table.Rows = append(sheet.Table.Rows, []any{
				"", beneficiary.Name, beneficiary.Qualifier,
				beneficiary.DecisionNumber, beneficiary.DecisionDate,
				beneficiary.ConventionsShown, beneficiary.PaymentsShown,
			})
			for _, convention := range beneficiary.Conventions {
				sheet.Table.Rows = append(sheet.Table.Rows, []any{
					"", "", "Convention", convention.Amount,
					convention.ResultPercent, convention.Validated,
					convention.Lawyer,
				})
			}
			for _, payment := range beneficiary.Payments {
				sheet.Table.Rows = append(sheet.Table.Rows, []any{
					"", "", payment.Type, payment.Amount, payment.Date,
					payment.RecipientName, payment.RecipientQualifier,
				})
			}
		}
		sheet.Table.Rows = append(sheet.Table.Rows, []any{
			"", "", "", "", "Sous-total",
			member.ConventionsShown, member.PaymentsShown,
		})
	}

	return sheet
}

// FeeConventionSheet lays out one fee agreement document. The legal text
// restates the amount in words, the signature block carries the three
// convention dates.
func FeeConventionSheet(s *Synthesis, member MemberSection, beneficiary BeneficiarySection, line ConventionLine) *SheetData {
	return &SheetData{
		Cells: map[string]any{
			"B2":  s.Title,
			"B3":  s.IncidentDate,
			"B5":  member.Name,
			"B6":  beneficiary.Name,
			"B7":  beneficiary.Qualifier,
			"B8":  line.Lawyer,
			"B10": line.Amount,
			"B11": line.AmountWords,
			"B12": line.ResultPercent,
			"B14": line.SentToLawyer,
			"B15": line.SentToBeneficiary,
			"B16": line.Validated,
		},
	}
}

// PaymentReceiptSheet lays out one payment receipt
func PaymentReceiptSheet(s *Synthesis, member MemberSection, beneficiary BeneficiarySection, line PaymentLine) *SheetData {
	return &SheetData{
		Cells: map[string]any{
			"B2":  s.Title,
			"B4":  member.Name,
			"B5":  beneficiary.Name,
			"B6":  beneficiary.Qualifier,
			"B8":  line.Type,
			"B9":  line.Amount,
			"B10": line.Date,
			"B12": line.RecipientName,
			"B13": line.RecipientQualifier,
		},
	}
}

// InformationSheet lays out the per-member information notice with its
// beneficiary list
func InformationSheet(s *Synthesis, member MemberSection) *SheetData {
	sheet := &SheetData{
		Cells: map[string]any{
			"B2": s.Title,
			"B3": s.Location,
			"B4": s.IncidentDate,
			"B6": member.Name,
			"B7": member.Unit,
			"B8": member.Circumstance,
			"B9": member.Injury,
		},
		Table: &Table{StartRow: 12},
	}
	for _, beneficiary := range member.Beneficiaries {
		sheet.Table.Rows = append(sheet.Table.Rows, []any{
			beneficiary.Name, beneficiary.Qualifier,
			beneficiary.DecisionNumber, beneficiary.DecisionDate,
		})
	}
	return sheet
}
