package airtable

import (
	"fmt"
	"strings"
)

// escapeValue makes a string safe for single-quoted interpolation into an
// Airtable formula. Formulas have no parameter binding, so this is the only
// defense against a value breaking out of its quotes.
func escapeValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}

// FieldEquals builds an exact, case-sensitive equality formula: {Field} = 'value'.
func FieldEquals(field, value string) string {
	return fmt.Sprintf("{%s} = '%s'", field, escapeValue(value))
}

// RecordIDAny builds an OR() disjunction matching any of the given record ids.
// Empty input yields FALSE() so a careless caller cannot scan the whole table.
func RecordIDAny(ids []string) string {
	if len(ids) == 0 {
		return "FALSE()"
	}
	terms := make([]string, 0, len(ids))
	for _, id := range ids {
		terms = append(terms, fmt.Sprintf("RECORD_ID()='%s'", escapeValue(id)))
	}
	if len(terms) == 1 {
		return terms[0]
	}
	return "OR(" + strings.Join(terms, ", ") + ")"
}

// FieldContainsFold builds a case-insensitive substring match on a field.
func FieldContainsFold(field, term string) string {
	return fmt.Sprintf("FIND('%s', LOWER({%s})) > 0", escapeValue(strings.ToLower(term)), field)
}
