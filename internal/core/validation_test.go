package core

import (
	"reflect"
	"strings"
	"testing"
)

// donationDef mirrors the donation schema closely enough to exercise
// every field rule without depending on the registered kinds.
func donationDef() KindDefinition {
	return KindDefinition{
		Info: KindInfo{Key: "donations", Collection: "donations"},
		FieldSpecs: []FieldSpec{
			{Name: "donor_name", Type: FieldText, Required: true},
			{Name: "amount", Type: FieldAmount, Required: true},
			{Name: "amount_currency", Type: FieldCurrency, Required: true},
			{Name: "email", Type: FieldEmail},
			{Name: "date_iso", Type: FieldDate},
			{Name: "anonymous_y_n", Type: FieldYesNo},
			{Name: "notes", Type: FieldText},
		},
	}
}

func mustParse(t *testing.T, raw string) ([]string, []Row) {
	t.Helper()
	header, rows, err := ParseTable(raw)
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	return header, rows
}

func TestValidateRows_AllValid(t *testing.T) {
	header, rows := mustParse(t,
		"donor_name,amount,amount_currency,email,date_iso,anonymous_y_n\n"+
			"John Doe,100.50,USD,john@x.com,2025-01-15,N\n"+
			"Mary,25,lrd,,,y\n")

	outcome := ValidateRows(donationDef(), header, rows)

	if len(outcome.Errors) != 0 {
		t.Fatalf("Errors = %v, want none", outcome.Errors)
	}
	if len(outcome.Valid) != 2 {
		t.Fatalf("len(Valid) = %d, want 2", len(outcome.Valid))
	}
	// Normalized values are written back.
	if got := outcome.Valid[1].Fields["amount_currency"]; got != "LRD" {
		t.Errorf("normalized currency = %q, want LRD", got)
	}
	if got := outcome.Valid[1].Fields["anonymous_y_n"]; got != "Y" {
		t.Errorf("normalized flag = %q, want Y", got)
	}
	if outcome.Valid[0].Line != 2 || outcome.Valid[1].Line != 3 {
		t.Errorf("lines = %d, %d, want 2, 3", outcome.Valid[0].Line, outcome.Valid[1].Line)
	}
}

func TestValidateRows_Messages(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "missing required field",
			raw:  "donor_name,amount,amount_currency\n,100,USD\n",
			want: "Row 2: Missing required field: donor_name",
		},
		{
			name: "multiple missing required fields combined in schema order",
			raw:  "donor_name,amount,amount_currency\n,,USD\n",
			want: "Row 2: Missing required field: donor_name; Missing required field: amount",
		},
		{
			name: "whitespace-only counts as missing",
			raw:  "donor_name,amount,amount_currency\n   ,100,USD\n",
			want: "Row 2: Missing required field: donor_name",
		},
		{
			name: "invalid date",
			raw:  "donor_name,amount,amount_currency,date_iso\nJohn,100,USD,15/01/2025\n",
			want: "Row 2: Invalid date format in date_iso: 15/01/2025. Expected YYYY-MM-DD",
		},
		{
			name: "invalid currency",
			raw:  "donor_name,amount,amount_currency\nJohn,100,EUR\n",
			want: "Row 2: Invalid currency code: EUR. Must be USD or LRD",
		},
		{
			name: "non-numeric amount",
			raw:  "donor_name,amount,amount_currency\nJohn,abc,USD\n",
			want: "Row 2: Amount must be numeric: abc",
		},
		{
			name: "invalid flag",
			raw:  "donor_name,amount,amount_currency,anonymous_y_n\nJohn,100,USD,Maybe\n",
			want: "Row 2: anonymous_y_n must be Y or N: Maybe",
		},
		{
			name: "invalid email",
			raw:  "donor_name,amount,amount_currency,email\nJohn,100,USD,not-an-email\n",
			want: "Row 2: Invalid email format: not-an-email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, rows := mustParse(t, tt.raw)
			outcome := ValidateRows(donationDef(), header, rows)
			if len(outcome.Errors) != 1 {
				t.Fatalf("Errors = %v, want exactly one", outcome.Errors)
			}
			if outcome.Errors[0] != tt.want {
				t.Errorf("message = %q\nwant      %q", outcome.Errors[0], tt.want)
			}
			if len(outcome.Valid) != 0 {
				t.Errorf("Valid = %v, want none", outcome.Valid)
			}
		})
	}
}

// All rows are checked even after the first failure, and errors keep
// input order.
func TestValidateRows_NoShortCircuit(t *testing.T) {
	header, rows := mustParse(t,
		"donor_name,amount,amount_currency\n"+
			"John,abc,USD\n"+
			"Mary,50,USD\n"+
			"Paul,75,EUR\n")

	outcome := ValidateRows(donationDef(), header, rows)

	want := []string{
		"Row 2: Amount must be numeric: abc",
		"Row 4: Invalid currency code: EUR. Must be USD or LRD",
	}
	if !reflect.DeepEqual(outcome.Errors, want) {
		t.Errorf("Errors = %v, want %v", outcome.Errors, want)
	}
	if len(outcome.Valid) != 1 || outcome.Valid[0].Line != 3 {
		t.Errorf("Valid = %v, want only row 3", outcome.Valid)
	}
}

// Shared rules apply by column name even when the kind's schema does
// not declare the column.
func TestValidateRows_FallbackByColumnName(t *testing.T) {
	def := KindDefinition{
		Info: KindInfo{Key: "tasks_reminders", Collection: "tasks"},
		FieldSpecs: []FieldSpec{
			{Name: "title", Type: FieldText, Required: true},
		},
	}

	header, rows := mustParse(t, "title,due_date_iso\nCall donor,next week\n")

	outcome := ValidateRows(def, header, rows)
	if len(outcome.Errors) != 1 {
		t.Fatalf("Errors = %v, want one", outcome.Errors)
	}
	if !strings.Contains(outcome.Errors[0], "Invalid date format in due_date_iso: next week") {
		t.Errorf("message = %q, want due_date_iso format error", outcome.Errors[0])
	}
}

// Empty optional values pass every field rule.
func TestValidateRows_EmptyOptionalFieldsSkipped(t *testing.T) {
	header, rows := mustParse(t,
		"donor_name,amount,amount_currency,email,date_iso,anonymous_y_n\nJohn,100,USD,,,\n")

	outcome := ValidateRows(donationDef(), header, rows)
	if len(outcome.Errors) != 0 {
		t.Errorf("Errors = %v, want none", outcome.Errors)
	}
}
