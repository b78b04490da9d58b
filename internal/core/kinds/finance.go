package kinds

import (
	"time"

	"github.com/stationcms/import-service/internal/core"
)

func init() {
	registerDonations()
	registerFinanceEntries()
	registerInvoices()
}

// Donation records a single gift from a listener or partner.
type Donation struct {
	ID          string     `bson:"id" json:"id"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	DonorName   string     `bson:"donor_name" json:"donor_name"`
	Amount      float64    `bson:"amount" json:"amount"`
	Currency    string     `bson:"amount_currency" json:"amount_currency"`
	Email       string     `bson:"email,omitempty" json:"email,omitempty"`
	DonatedAt   *time.Time `bson:"donated_at,omitempty" json:"donated_at,omitempty"`
	Anonymous   *bool      `bson:"anonymous,omitempty" json:"anonymous,omitempty"`
	Method      string     `bson:"method,omitempty" json:"method,omitempty"`
	ProjectCode string     `bson:"project_code,omitempty" json:"project_code,omitempty"`
	Notes       string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

// FinanceEntry is one line of the station's income/expense ledger.
type FinanceEntry struct {
	ID          string    `bson:"id" json:"id"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	EntryDate   time.Time `bson:"entry_date" json:"entry_date"`
	Amount      float64   `bson:"amount" json:"amount"`
	Currency    string    `bson:"amount_currency" json:"amount_currency"`
	EntryType   string    `bson:"entry_type,omitempty" json:"entry_type,omitempty"`
	Category    string    `bson:"category,omitempty" json:"category,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
}

// Invoice is a bill issued to an advertiser or program sponsor.
type Invoice struct {
	ID          string     `bson:"id" json:"id"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	ClientName  string     `bson:"client_name" json:"client_name"`
	Amount      float64    `bson:"amount" json:"amount"`
	Currency    string     `bson:"amount_currency" json:"amount_currency"`
	IssuedAt    *time.Time `bson:"issued_at,omitempty" json:"issued_at,omitempty"`
	DueDate     *time.Time `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Status      string     `bson:"status" json:"status"`
}

func registerDonations() {
	core.Register(core.KindDefinition{
		Info: core.KindInfo{
			Key:        "donations",
			Collection: "donations",
			Label:      "Donations",
			Group:      "Finance",
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "donor_name", Type: core.FieldText, Required: true},
			{Name: "amount", Type: core.FieldAmount, Required: true},
			{Name: "amount_currency", Type: core.FieldCurrency, Required: true},
			{Name: "email", Type: core.FieldEmail},
			{Name: "date_iso", Type: core.FieldDate},
			{Name: "anonymous_y_n", Type: core.FieldYesNo},
			{Name: "method", Type: core.FieldText},
			{Name: "project_code", Type: core.FieldText},
			{Name: "notes", Type: core.FieldText},
		},
		Build: func(fields core.RowFields) (any, error) {
			amount, err := reqAmount(fields, "amount")
			if err != nil {
				return nil, err
			}
			donatedAt, err := optDate(fields, "date_iso")
			if err != nil {
				return nil, err
			}
			anonymous, err := optFlag(fields, "anonymous_y_n")
			if err != nil {
				return nil, err
			}
			return &Donation{
				ID:          newID(),
				CreatedAt:   now(),
				DonorName:   fields.Get("donor_name"),
				Amount:      amount,
				Currency:    fields.Get("amount_currency"),
				Email:       fields.Get("email"),
				DonatedAt:   donatedAt,
				Anonymous:   anonymous,
				Method:      fields.Get("method"),
				ProjectCode: fields.Get("project_code"),
				Notes:       fields.Get("notes"),
			}, nil
		},
	})
}

func registerFinanceEntries() {
	core.Register(core.KindDefinition{
		Info: core.KindInfo{
			Key:        "finance",
			Collection: "finance_entries",
			Label:      "Finance Entries",
			Group:      "Finance",
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "date_iso", Type: core.FieldDate, Required: true},
			{Name: "amount", Type: core.FieldAmount, Required: true},
			{Name: "amount_currency", Type: core.FieldCurrency, Required: true},
			{Name: "entry_type", Type: core.FieldText},
			{Name: "category", Type: core.FieldText},
			{Name: "description", Type: core.FieldText},
		},
		Build: func(fields core.RowFields) (any, error) {
			entryDate, err := reqDate(fields, "date_iso")
			if err != nil {
				return nil, err
			}
			amount, err := reqAmount(fields, "amount")
			if err != nil {
				return nil, err
			}
			return &FinanceEntry{
				ID:          newID(),
				CreatedAt:   now(),
				EntryDate:   entryDate,
				Amount:      amount,
				Currency:    fields.Get("amount_currency"),
				EntryType:   fields.Get("entry_type"),
				Category:    fields.Get("category"),
				Description: fields.Get("description"),
			}, nil
		},
	})
}

func registerInvoices() {
	core.Register(core.KindDefinition{
		Info: core.KindInfo{
			Key:        "invoices",
			Collection: "invoices",
			Label:      "Invoices",
			Group:      "Finance",
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "client_name", Type: core.FieldText, Required: true},
			{Name: "amount", Type: core.FieldAmount, Required: true},
			{Name: "amount_currency", Type: core.FieldCurrency, Required: true},
			{Name: "date_iso", Type: core.FieldDate},
			{Name: "due_date_iso", Type: core.FieldDate},
			{Name: "description", Type: core.FieldText},
		},
		Build: func(fields core.RowFields) (any, error) {
			amount, err := reqAmount(fields, "amount")
			if err != nil {
				return nil, err
			}
			issuedAt, err := optDate(fields, "date_iso")
			if err != nil {
				return nil, err
			}
			dueDate, err := optDate(fields, "due_date_iso")
			if err != nil {
				return nil, err
			}
			return &Invoice{
				ID:          newID(),
				CreatedAt:   now(),
				ClientName:  fields.Get("client_name"),
				Amount:      amount,
				Currency:    fields.Get("amount_currency"),
				IssuedAt:    issuedAt,
				DueDate:     dueDate,
				Description: fields.Get("description"),
				Status:      "unpaid",
			}, nil
		},
	})
}
