// Package core provides the business logic for bulk tabular imports.
// This package has no HTTP dependencies and can be driven by any transport.
package core

// FieldType represents the expected data type for an import column.
type FieldType int

const (
	FieldText FieldType = iota
	FieldDate
	FieldCurrency
	FieldAmount
	FieldYesNo
	FieldEmail
)

// FieldSpec defines validation rules for a single import column.
type FieldSpec struct {
	Name     string    // Column header name (lowercase snake_case)
	Type     FieldType // Expected data type
	Required bool      // Row is rejected when this field is missing or empty
}

// KindInfo contains display information about a record kind.
type KindInfo struct {
	Key        string   // Wire identifier: "visitors", "donations", ...
	Collection string   // Logical document-store collection name
	Label      string   // Display name: "Visitors"
	Group      string   // Functional area: "CRM", "Finance", "Content"
	Columns    []string // Header column names, in template order
}

// RowFields holds the cleaned, normalized values of one validated row,
// keyed by column name. Values already passed structural validation;
// normalized forms (upper-case currency codes, upper-case Y/N) are stored.
type RowFields map[string]string

// Get returns the value for a column, or "" when absent.
func (f RowFields) Get(name string) string {
	return f[name]
}

// Has reports whether the column is present with a non-empty value.
func (f RowFields) Has(name string) bool {
	return f[name] != ""
}

// BuildRecordFunc constructs a fully-typed record from a validated row.
// The returned value carries its own id and created_at. A non-nil error
// counts as a persistence-stage row failure, not a validation error.
type BuildRecordFunc func(fields RowFields) (any, error)

// KindDefinition contains everything needed to import one record kind.
type KindDefinition struct {
	Info       KindInfo
	FieldSpecs []FieldSpec
	Build      BuildRecordFunc
}

// RequiredFields returns the names of the kind's required columns.
func (d KindDefinition) RequiredFields() []string {
	var names []string
	for _, spec := range d.FieldSpecs {
		if spec.Required {
			names = append(names, spec.Name)
		}
	}
	return names
}

// ImportResult is the structured outcome of one import call.
//
// When validation fails for any row, the whole batch is rejected:
// ImportedCount is 0 and ValidationErrors lists one message per bad row.
// When validation passes, rows are persisted independently and Errors
// lists per-row persistence failures.
type ImportResult struct {
	Success          bool     `json:"success"`
	ImportedCount    int      `json:"imported_count"`
	ErrorCount       int      `json:"error_count"`
	Errors           []string `json:"errors"`
	ValidationErrors []string `json:"validation_errors"`
}
