package document

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		withTax bool
		want    string
	}{
		{
			name:   "zero",
			amount: 0,
			want:   "0 €",
		},
		{
			name:   "whole amount no cents shown",
			amount: 5000,
			want:   "5 000 €",
		},
		{
			name:   "fractional amount keeps cents",
			amount: 1234.5,
			want:   "1 234,50 €",
		},
		{
			name:   "grouping above a million",
			amount: 1234567,
			want:   "1 234 567 €",
		},
		{
			name:    "tax marker",
			amount:  1200,
			withTax: true,
			want:    "1 200 € TTC",
		},
		{
			name:   "negative amount",
			amount: -250.75,
			want:   "-250,75 €",
		},
		{
			name:   "nan yields sentinel",
			amount: math.NaN(),
			want:   "N/A",
		},
		{
			name:   "infinity yields sentinel",
			amount: math.Inf(1),
			want:   "N/A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.amount, tt.withTax))
		})
	}
}

func TestFormatAmountPtr(t *testing.T) {
	t.Run("nil yields sentinel", func(t *testing.T) {
		assert.Equal(t, MissingAmount, FormatAmountPtr(nil, false))
	})

	t.Run("value formats normally", func(t *testing.T) {
		amount := 1500.0
		assert.Equal(t, "1 500 €", FormatAmountPtr(&amount, false))
	})
}

func TestFormatDate(t *testing.T) {
	t.Run("nil yields sentinel", func(t *testing.T) {
		assert.Equal(t, MissingDate, FormatDate(nil))
	})

	t.Run("zero value yields sentinel", func(t *testing.T) {
		var zero time.Time
		assert.Equal(t, MissingDate, FormatDate(&zero))
	})

	t.Run("day month year order", func(t *testing.T) {
		d := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, "07/03/2024", FormatDate(&d))
	})
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{name: "whole", value: 10, want: "10 %"},
		{name: "one decimal", value: 12.5, want: "12,5 %"},
		{name: "two decimals", value: 33.33, want: "33,33 %"},
		{name: "nan yields sentinel", value: math.NaN(), want: "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPercent(tt.value))
		})
	}
}
