package statistics

import (
	"fmt"
	"sort"
	"strings"
)

// Dimension is a grouping axis for rollups
type Dimension string

const (
	DimYear         Dimension = "year"
	DimRegion       Dimension = "region"
	DimDepartment   Dimension = "department"
	DimCaseworker   Dimension = "caseworker"
	DimCircumstance Dimension = "circumstance"
)

// Records with a missing dimension value land in this bucket instead of
// being dropped, so bucket totals always sum to the ungrouped totals
const Unspecified = "unspecified"

// Record is one flat case/member line fed into a rollup, produced by the
// grouped store queries
type Record struct {
	Year             int     `json:"year"`
	Region           string  `json:"region"`
	Department       string  `json:"department"`
	Caseworker       string  `json:"caseworker"`
	Circumstance     string  `json:"circumstance"`
	Members          int     `json:"members"`
	Beneficiaries    int     `json:"beneficiaries"`
	ConventionAmount float64 `json:"convention_amount"`
	PaymentAmount    float64 `json:"payment_amount"`
	IncapacityDays   int     `json:"incapacity_days"`
	Deceased         int     `json:"deceased"`
}

// Totals is the summed view of a bucket
type Totals struct {
	Records          int     `json:"records"`
	Members          int     `json:"members"`
	Beneficiaries    int     `json:"beneficiaries"`
	ConventionAmount float64 `json:"convention_amount"`
	PaymentAmount    float64 `json:"payment_amount"`
	IncapacityDays   int     `json:"incapacity_days"`
	Deceased         int     `json:"deceased"`
}

// Rollup groups records by one or more dimensions and sums the numeric
// fields per bucket. The bucket key joins the dimension values with "|" in
// the order the dimensions were given.
func Rollup(records []Record, dims []Dimension) map[string]Totals {
	out := make(map[string]Totals)
	for _, record := range records {
		key := bucketKey(record, dims)
		totals := out[key]
		totals.Records++
		totals.Members += record.Members
		totals.Beneficiaries += record.Beneficiaries
		totals.ConventionAmount += record.ConventionAmount
		totals.PaymentAmount += record.PaymentAmount
		totals.IncapacityDays += record.IncapacityDays
		totals.Deceased += record.Deceased
		out[key] = totals
	}
	return out
}

// Keys returns the bucket keys of a rollup in sorted order, for stable
// serialized output
func Keys(rollup map[string]Totals) []string {
	keys := make([]string, 0, len(rollup))
	for key := range rollup {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func bucketKey(record Record, dims []Dimension) string {
	parts := make([]string, 0, len(dims))
	for _, dim := range dims {
		parts = append(parts, dimensionValue(record, dim))
	}
	return strings.Join(parts, "|")
}

func dimensionValue(record Record, dim Dimension) string {
	var value string
	switch dim {
	case DimYear:
		if record.Year > 0 {
			value = fmt.Sprintf("%d", record.Year)
		}
	case DimRegion:
		value = record.Region
	case DimDepartment:
		value = record.Department
	case DimCaseworker:
		value = record.Caseworker
	case DimCircumstance:
		value = record.Circumstance
	}
	if value == "" {
		return Unspecified
	}
	return value
}
