package kinds

import (
	"time"

	"github.com/stationcms/import-service/internal/core"
)

func init() {
	registerVisitors()
	registerUsersRoles()
}

// Visitor is a contact captured at an event or through the website.
type Visitor struct {
	ID        string     `bson:"id" json:"id"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	Name      string     `bson:"name" json:"name"`
	Email     string     `bson:"email" json:"email"`
	Phone     string     `bson:"phone,omitempty" json:"phone,omitempty"`
	City      string     `bson:"city,omitempty" json:"city,omitempty"`
	VisitDate *time.Time `bson:"visit_date,omitempty" json:"visit_date,omitempty"`
	Consent   *bool      `bson:"consent,omitempty" json:"consent,omitempty"`
	Notes     string     `bson:"notes,omitempty" json:"notes,omitempty"`
	Source    string     `bson:"source" json:"source"`
}

// UserRole assigns a staff member or volunteer to an internal role.
type UserRole struct {
	ID         string    `bson:"id" json:"id"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	Email      string    `bson:"email" json:"email"`
	Role       string    `bson:"role" json:"role"`
	Name       string    `bson:"name,omitempty" json:"name,omitempty"`
	Department string    `bson:"department,omitempty" json:"department,omitempty"`
}

func registerVisitors() {
	core.Register(core.KindDefinition{
		Info: core.KindInfo{
			Key:        "visitors",
			Collection: "visitors",
			Label:      "Visitors",
			Group:      "CRM",
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "name", Type: core.FieldText, Required: true},
			{Name: "email", Type: core.FieldEmail, Required: true},
			{Name: "phone", Type: core.FieldText},
			{Name: "city", Type: core.FieldText},
			{Name: "date_iso", Type: core.FieldDate},
			{Name: "consent_y_n", Type: core.FieldYesNo},
			{Name: "notes", Type: core.FieldText},
		},
		Build: func(fields core.RowFields) (any, error) {
			visitDate, err := optDate(fields, "date_iso")
			if err != nil {
				return nil, err
			}
			consent, err := optFlag(fields, "consent_y_n")
			if err != nil {
				return nil, err
			}
			return &Visitor{
				ID:        newID(),
				CreatedAt: now(),
				Name:      fields.Get("name"),
				Email:     fields.Get("email"),
				Phone:     fields.Get("phone"),
				City:      fields.Get("city"),
				VisitDate: visitDate,
				Consent:   consent,
				Notes:     fields.Get("notes"),
				Source:    "web",
			}, nil
		},
	})
}

func registerUsersRoles() {
	core.Register(core.KindDefinition{
		Info: core.KindInfo{
			Key:        "users_roles",
			Collection: "users_roles",
			Label:      "Users & Roles",
			Group:      "CRM",
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "email", Type: core.FieldEmail, Required: true},
			{Name: "role", Type: core.FieldText, Required: true},
			{Name: "name", Type: core.FieldText},
			{Name: "department", Type: core.FieldText},
		},
		Build: func(fields core.RowFields) (any, error) {
			return &UserRole{
				ID:         newID(),
				CreatedAt:  now(),
				Email:      fields.Get("email"),
				Role:       fields.Get("role"),
				Name:       fields.Get("name"),
				Department: fields.Get("department"),
			}, nil
		},
	})
}
