package kinds

import (
	"time"

	"github.com/stationcms/import-service/internal/core"
)

func init() {
	registerProjects()
	registerTaskReminders()
	registerStories()
}

// Project is a station initiative with an optional budget and timeline.
type Project struct {
	ID             string     `bson:"id" json:"id"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
	Name           string     `bson:"name" json:"name"`
	ProjectCode    string     `bson:"project_code" json:"project_code"`
	Description    string     `bson:"description,omitempty" json:"description,omitempty"`
	Budget         *float64   `bson:"budget,omitempty" json:"budget,omitempty"`
	BudgetCurrency string     `bson:"budget_currency,omitempty" json:"budget_currency,omitempty"`
	StartDate      *time.Time `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate        *time.Time `bson:"end_date,omitempty" json:"end_date,omitempty"`
	Status         string     `bson:"status" json:"status"`
}

// TaskReminder is an internal follow-up item for station staff.
type TaskReminder struct {
	ID        string     `bson:"id" json:"id"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	Title     string     `bson:"title" json:"title"`
	Assignee  string     `bson:"assignee,omitempty" json:"assignee,omitempty"`
	DueDate   *time.Time `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Priority  string     `bson:"priority,omitempty" json:"priority,omitempty"`
	Notes     string     `bson:"notes,omitempty" json:"notes,omitempty"`
	Status    string     `bson:"status" json:"status"`
}

// Story is a news item or testimony for the station website.
type Story struct {
	ID          string     `bson:"id" json:"id"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	Title       string     `bson:"title" json:"title"`
	Author      string     `bson:"author,omitempty" json:"author,omitempty"`
	Body        string     `bson:"body,omitempty" json:"body,omitempty"`
	PublishDate *time.Time `bson:"publish_date,omitempty" json:"publish_date,omitempty"`
	Approved    bool       `bson:"approved" json:"approved"`
	Category    string     `bson:"category,omitempty" json:"category,omitempty"`
}

func registerProjects() {
	core.Register(core.KindDefinition{
		Info: core.KindInfo{
			Key:        "projects",
			Collection: "projects",
			Label:      "Projects",
			Group:      "Programs",
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "name", Type: core.FieldText, Required: true},
			{Name: "project_code", Type: core.FieldText, Required: true},
			{Name: "description", Type: core.FieldText},
			{Name: "budget", Type: core.FieldText},
			{Name: "budget_currency", Type: core.FieldCurrency},
			{Name: "start_date_iso", Type: core.FieldDate},
			{Name: "end_date_iso", Type: core.FieldDate},
		},
		Build: func(fields core.RowFields) (any, error) {
			// budget carries no shared validation rule, so its numeric
			// check lives here and a bad value fails the row at
			// construction time, not at validation.
			budget, err := optAmount(fields, "budget")
			if err != nil {
				return nil, err
			}
			startDate, err := optDate(fields, "start_date_iso")
			if err != nil {
				return nil, err
			}
			endDate, err := optDate(fields, "end_date_iso")
			if err != nil {
				return nil, err
			}
			return &Project{
				ID:             newID(),
				CreatedAt:      now(),
				Name:           fields.Get("name"),
				ProjectCode:    fields.Get("project_code"),
				Description:    fields.Get("description"),
				Budget:         budget,
				BudgetCurrency: fields.Get("budget_currency"),
				StartDate:      startDate,
				EndDate:        endDate,
				Status:         "planned",
			}, nil
		},
	})
}

func registerTaskReminders() {
	core.Register(core.KindDefinition{
		Info: core.KindInfo{
			Key:        "tasks_reminders",
			Collection: "tasks_reminders",
			Label:      "Tasks & Reminders",
			Group:      "Programs",
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "title", Type: core.FieldText, Required: true},
			{Name: "assignee", Type: core.FieldText},
			{Name: "due_date_iso", Type: core.FieldDate},
			{Name: "priority", Type: core.FieldText},
			{Name: "notes", Type: core.FieldText},
		},
		Build: func(fields core.RowFields) (any, error) {
			dueDate, err := optDate(fields, "due_date_iso")
			if err != nil {
				return nil, err
			}
			return &TaskReminder{
				ID:        newID(),
				CreatedAt: now(),
				Title:     fields.Get("title"),
				Assignee:  fields.Get("assignee"),
				DueDate:   dueDate,
				Priority:  fields.Get("priority"),
				Notes:     fields.Get("notes"),
				Status:    "open",
			}, nil
		},
	})
}

func registerStories() {
	core.Register(core.KindDefinition{
		Info: core.KindInfo{
			Key:        "stories",
			Collection: "stories",
			Label:      "Stories",
			Group:      "Programs",
		},
		FieldSpecs: []core.FieldSpec{
			{Name: "title", Type: core.FieldText, Required: true},
			{Name: "author", Type: core.FieldText},
			{Name: "body", Type: core.FieldText},
			{Name: "date_iso", Type: core.FieldDate},
			{Name: "approved_y_n", Type: core.FieldYesNo},
			{Name: "category", Type: core.FieldText},
		},
		Build: func(fields core.RowFields) (any, error) {
			publishDate, err := optDate(fields, "date_iso")
			if err != nil {
				return nil, err
			}
			approved, err := optFlag(fields, "approved_y_n")
			if err != nil {
				return nil, err
			}
			story := &Story{
				ID:          newID(),
				CreatedAt:   now(),
				Title:       fields.Get("title"),
				Author:      fields.Get("author"),
				Body:        fields.Get("body"),
				PublishDate: publishDate,
				Category:    fields.Get("category"),
			}
			if approved != nil {
				story.Approved = *approved
			}
			return story, nil
		},
	})
}
