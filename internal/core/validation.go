package core

// validation.go checks every parsed row against its kind's schema before
// anything touches the document store.
//
// Two layers of checks run per row:
//  1. Required fields: each missing or empty required column produces one
//     message; a row's messages are combined into a single row error.
//  2. Field rules: every present, non-empty column is checked against its
//     declared type (or the name-inferred type for columns outside the
//     schema): ISO dates, USD/LRD currency codes, numeric amounts, Y/N
//     flags, and email shape.
//
// Validation never short-circuits: all rows are checked so the operator
// gets the complete picture in one pass. Normalized values (upper-case
// currency codes and Y/N flags) are written back into the validated row.

import (
	"fmt"
	"strings"
)

// ValidRow is a row that passed all structural checks, carrying its
// normalized field values and original line number.
type ValidRow struct {
	Line   int
	Fields RowFields
}

// ValidationOutcome is the result of validating a full batch.
type ValidationOutcome struct {
	Valid  []ValidRow // rows that passed, in input order
	Errors []string   // one combined message per failed row, in input order
}

// ValidateRows validates all rows for a kind. The header slice fixes the
// order in which field-level problems are reported within a row.
func ValidateRows(def KindDefinition, header []string, rows []Row) ValidationOutcome {
	var outcome ValidationOutcome

	for _, row := range rows {
		fields, problems := validateRow(def, header, row)
		if len(problems) > 0 {
			outcome.Errors = append(outcome.Errors,
				fmt.Sprintf("Row %d: %s", row.Line, strings.Join(problems, "; ")))
			continue
		}
		outcome.Valid = append(outcome.Valid, ValidRow{Line: row.Line, Fields: fields})
	}

	return outcome
}

// validateRow checks one row and returns its normalized fields along with
// any problem messages (without the row-number prefix).
func validateRow(def KindDefinition, header []string, row Row) (RowFields, []string) {
	var problems []string

	for _, name := range def.RequiredFields() {
		if strings.TrimSpace(row.Fields[name]) == "" {
			problems = append(problems, "Missing required field: "+name)
		}
	}

	fields := make(RowFields, len(row.Fields))

	for _, name := range header {
		value, ok := row.Fields[name]
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		fields[name] = value
		if value == "" {
			continue
		}

		switch fieldType(def, name) {
		case FieldDate:
			if _, ok := ParseISODate(value); !ok {
				problems = append(problems,
					fmt.Sprintf("Invalid date format in %s: %s. Expected YYYY-MM-DD", name, value))
			}
		case FieldCurrency:
			code, ok := NormalizeCurrency(value)
			if !ok {
				problems = append(problems,
					fmt.Sprintf("Invalid currency code: %s. Must be USD or LRD", value))
				continue
			}
			fields[name] = code
		case FieldAmount:
			if _, ok := ParseAmount(value); !ok {
				problems = append(problems, "Amount must be numeric: "+value)
			}
		case FieldYesNo:
			if _, ok := ParseYesNo(value); !ok {
				problems = append(problems,
					fmt.Sprintf("%s must be Y or N: %s", name, value))
				continue
			}
			fields[name] = strings.ToUpper(value)
		case FieldEmail:
			if !ValidEmail(value) {
				problems = append(problems, "Invalid email format: "+value)
			}
		}
	}

	return fields, problems
}

// fieldType resolves a column's type from the kind schema, falling back
// to name-based inference for columns the schema does not declare.
func fieldType(def KindDefinition, name string) FieldType {
	for _, spec := range def.FieldSpecs {
		if spec.Name == name {
			return spec.Type
		}
	}
	return TypeForColumn(name)
}
