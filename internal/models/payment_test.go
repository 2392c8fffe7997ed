package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayment_ValidateBankFields(t *testing.T) {
	tests := []struct {
		name    string
		iban    string
		bic     string
		wantErr bool
	}{
		{
			name: "both empty accepted",
		},
		{
			name: "valid french iban",
			iban: "FR7630006000011234567890189",
		},
		{
			name: "valid bic eight characters",
			bic:  "BNPAFRPP",
		},
		{
			name: "valid bic eleven characters",
			bic:  "BNPAFRPPXXX",
		},
		{
			name:    "iban too short",
			iban:    "FR761234",
			wantErr: true,
		},
		{
			name:    "iban lowercase rejected",
			iban:    "fr7630006000011234567890189",
			wantErr: true,
		},
		{
			name:    "bic wrong length",
			bic:     "BNPAFRP",
			wantErr: true,
		},
		{
			name:    "bic with digits in bank code",
			bic:     "1NPAFRPP",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Payment{IBAN: tt.iban, BIC: tt.bic}
			err := p.ValidateBankFields()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestServiceMember_FullName(t *testing.T) {
	withRank := &ServiceMember{Rank: "Caporal", FirstName: "Luc", LastName: "Moreau"}
	assert.Equal(t, "Caporal Luc Moreau", withRank.FullName())

	noRank := &ServiceMember{FirstName: "Luc", LastName: "Moreau"}
	assert.Equal(t, "Luc Moreau", noRank.FullName())
}

func TestLawyer_FullName(t *testing.T) {
	l := &Lawyer{FirstName: "Claire", LastName: "Bernard"}
	assert.Equal(t, "Maître Claire Bernard", l.FullName())
}
