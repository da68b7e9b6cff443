package ingestion

import (
	"strings"
	"unicode"

	"github.com/rpattn/csvgate/internal/domain"
)

// phoneDigits is the only accepted length of a cleaned phone number.
const phoneDigits = 10

// nullTokens are the cell values read as missing, matching the usual tabular
// data conventions (empty cell, NA, NaN, null, ...).
var nullTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsNull reports whether a raw cell value counts as missing.
func IsNull(value string) bool {
	_, ok := nullTokens[value]
	return ok
}

// ValidateRow runs the row checks in order and stops at the first failure.
// Bad outcomes carry the row exactly as it was read.
func ValidateRow(row domain.Row) domain.ValidationOutcome {
	for _, column := range []string{domain.ColumnName, domain.ColumnPhone, domain.ColumnLocation} {
		value, ok := row.Get(column)
		if !ok || IsNull(value) {
			return domain.Bad(row, domain.ReasonNullField)
		}
	}

	rawPhone, _ := row.Get(domain.ColumnPhone)
	phone, ok := CleanPhone(rawPhone)
	if !ok {
		return domain.Bad(row, domain.ReasonPhoneInvalid)
	}

	cleaned := row.With(domain.ColumnPhone, phone)
	for _, column := range []string{domain.ColumnAddress, domain.ColumnReviewsList} {
		value, _ := cleaned.Get(column)
		if IsNull(value) {
			value = ""
		}
		cleaned = cleaned.With(column, CleanField(value))
	}

	return domain.Good(cleaned)
}

// CleanPhone keeps the ASCII digits of raw and reports whether exactly ten remain.
func CleanPhone(raw string) (string, bool) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != phoneDigits {
		return "", false
	}
	return digits, true
}

// CleanField drops every rune that is not a letter, digit or whitespace and
// trims the result.
func CleanField(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, raw)
	return strings.TrimSpace(cleaned)
}

// Partition splits outcomes into cleaned good rows, original bad rows and the
// issue list aligned with the bad rows.
type Partition struct {
	Good   []domain.Row
	Bad    []domain.Row
	Issues []domain.RowIssue
}

// PartitionOutcomes folds outcomes in order. Every outcome lands in exactly
// one of Good or Bad.
func PartitionOutcomes(outcomes []domain.ValidationOutcome) Partition {
	p := Partition{
		Good:   []domain.Row{},
		Bad:    []domain.Row{},
		Issues: []domain.RowIssue{},
	}
	for _, outcome := range outcomes {
		if outcome.IsGood() {
			p.Good = append(p.Good, outcome.Row)
			continue
		}
		p.Bad = append(p.Bad, outcome.Row)
		p.Issues = append(p.Issues, domain.RowIssue{
			RowNumber: outcome.Row.Index,
			Reason:    outcome.Reason,
		})
	}
	return p
}
