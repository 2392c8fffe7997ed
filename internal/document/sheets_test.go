package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func builtSynthesis(t *testing.T) *Synthesis {
	t.Helper()
	builder := NewSynthesisBuilder(NewLabelMapper(), zap.NewNop())
	members, byMember := testTree()
	synthesis, err := builder.BuildCaseSynthesis(testCase(), members, byMember)
	require.NoError(t, err)
	return synthesis
}

func TestSynthesisSheet(t *testing.T) {
	synthesis := builtSynthesis(t)
	sheet := SynthesisSheet(synthesis)

	assert.Equal(t, synthesis.Title, sheet.Cells["B2"])
	assert.Equal(t, synthesis.ConventionsShown, sheet.Cells["F2"])
	assert.Equal(t, synthesis.PaymentsShown, sheet.Cells["F3"])

	require.NotNil(t, sheet.Table)
	assert.Equal(t, 9, sheet.Table.StartRow)

	// one member row, one beneficiary row, one convention, one payment,
	// one member subtotal row
	require.Len(t, sheet.Table.Rows, 5)
	assert.Equal(t, "Sergent Jean Martin", sheet.Table.Rows[0][0])
	assert.Equal(t, "Jean Martin", sheet.Table.Rows[1][1])
	assert.Equal(t, "Convention", sheet.Table.Rows[2][2])
	assert.Equal(t, "Provision", sheet.Table.Rows[3][2])
	assert.Equal(t, "Sous-total", sheet.Table.Rows[4][4])
}

func TestFeeConventionSheet(t *testing.T) {
	synthesis := builtSynthesis(t)
	member := synthesis.Members[0]
	beneficiary := member.Beneficiaries[0]
	line := beneficiary.Conventions[0]

	sheet := FeeConventionSheet(synthesis, member, beneficiary, line)

	assert.Nil(t, sheet.Table)
	assert.Equal(t, "5 000 €", sheet.Cells["B10"])
	assert.Equal(t, "cinq mille euros", sheet.Cells["B11"])
	assert.Equal(t, "Maître Claire Bernard", sheet.Cells["B8"])
	assert.Equal(t, MissingDate, sheet.Cells["B16"])
}

func TestPaymentReceiptSheet(t *testing.T) {
	synthesis := builtSynthesis(t)
	member := synthesis.Members[0]
	beneficiary := member.Beneficiaries[0]
	line := beneficiary.Payments[0]

	sheet := PaymentReceiptSheet(synthesis, member, beneficiary, line)

	assert.Nil(t, sheet.Table)
	assert.Equal(t, "Provision", sheet.Cells["B8"])
	assert.Equal(t, "1 200 €", sheet.Cells["B9"])
	assert.Equal(t, "01/02/2024", sheet.Cells["B10"])
}

func TestInformationSheet(t *testing.T) {
	synthesis := builtSynthesis(t)
	sheet := InformationSheet(synthesis, synthesis.Members[0])

	assert.Equal(t, synthesis.Title, sheet.Cells["B2"])
	assert.Equal(t, "Sergent Jean Martin", sheet.Cells["B6"])
	require.NotNil(t, sheet.Table)
	assert.Equal(t, 12, sheet.Table.StartRow)
	require.Len(t, sheet.Table.Rows, 1)
	assert.Equal(t, "Jean Martin", sheet.Table.Rows[0][0])
}
