package document

import (
	"testing"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   string
	}{
		{
			name:   "zero amount",
			amount: 0,
			want:   "zéro euro",
		},
		{
			name:   "negative treated as zero",
			amount: -5,
			want:   "zéro euro",
		},
		{
			name:   "one euro singular",
			amount: 1,
			want:   "un euro",
		},
		{
			name:   "twenty-one with et",
			amount: 21,
			want:   "vingt-et-un euros",
		},
		{
			name:   "seventy base twenty",
			amount: 70,
			want:   "soixante-dix euros",
		},
		{
			name:   "seventy-one with et",
			amount: 71,
			want:   "soixante-et-onze euros",
		},
		{
			name:   "eighty plural",
			amount: 80,
			want:   "quatre-vingts euros",
		},
		{
			name:   "eighty-one without et",
			amount: 81,
			want:   "quatre-vingt-un euros",
		},
		{
			name:   "ninety base twenty",
			amount: 90,
			want:   "quatre-vingt-dix euros",
		},
		{
			name:   "ninety-one without et",
			amount: 91,
			want:   "quatre-vingt-onze euros",
		},
		{
			name:   "one hundred",
			amount: 100,
			want:   "cent euros",
		},
		{
			name:   "one hundred one",
			amount: 101,
			want:   "cent un euros",
		},
		{
			name:   "two hundred plural",
			amount: 200,
			want:   "deux cents euros",
		},
		{
			name:   "two hundred thirty no plural",
			amount: 230,
			want:   "deux cent trente euros",
		},
		{
			name:   "one thousand invariant",
			amount: 1000,
			want:   "mille euros",
		},
		{
			name:   "one thousand one",
			amount: 1001,
			want:   "mille un euros",
		},
		{
			name:   "two thousand",
			amount: 2000,
			want:   "deux mille euros",
		},
		{
			name:   "mixed thousands",
			amount: 1230,
			want:   "mille deux cent trente euros",
		},
		{
			name:   "eighty thousand invariant before mille",
			amount: 80000,
			want:   "quatre-vingt mille euros",
		},
		{
			name:   "two hundred thousand invariant before mille",
			amount: 200000,
			want:   "deux cent mille euros",
		},
		{
			name:   "one million",
			amount: 1000000,
			want:   "un million euros",
		},
		{
			name:   "two million",
			amount: 2000000,
			want:   "deux millions euros",
		},
		{
			name:   "two billion",
			amount: 2000000000,
			want:   "deux milliards euros",
		},
		{
			name:   "full composite",
			amount: 1234567,
			want:   "un million deux cent trente-quatre mille cinq cent soixante-sept euros",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AmountInWords(tt.amount)
			if got != tt.want {
				t.Errorf("AmountInWords(%d) = %v, want %v", tt.amount, got, tt.want)
			}
		})
	}
}
