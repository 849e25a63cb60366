package event

import (
	"encoding/json"
	"time"

	"banquet-backoffice/services/preregistration"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusPlanning   Status = "planning"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPlanning, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Category is one checklist category: free-form fields plus the derived
// completion flag. Completado is computed from the configured required-field
// list on every write, never set by a client.
type Category struct {
	Campos     map[string]any `json:"campos"`
	Completado bool           `json:"completado"`
}

// Checklist maps category name -> category state.
type Checklist map[string]*Category

// Event is a confirmed engagement, either created directly or derived from
// an approved preregistration.
type Event struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	Title      string    `gorm:"column:title;not null" json:"title"`
	Slug       string    `gorm:"column:slug;index" json:"slug"`
	StartsAt   time.Time `gorm:"column:starts_at;index" json:"starts_at"`
	EndsAt     time.Time `gorm:"column:ends_at" json:"ends_at"`
	Location   string    `gorm:"column:location" json:"location"`
	GuestCount int       `gorm:"column:guest_count" json:"guest_count"`
	Budget     float64   `gorm:"column:budget" json:"budget"`
	Status     Status    `gorm:"column:status;type:varchar(20);default:'planning';index" json:"status"`
	CreatedBy  string    `gorm:"column:created_by;index" json:"created_by"`

	PreRegistrationID *string                          `gorm:"column:preregistration_id;index" json:"preregistration_id,omitempty"`
	PreRegistration   *preregistration.PreRegistration `gorm:"foreignKey:PreRegistrationID" json:"preregistration,omitempty"`

	ChecklistData datatypes.JSON `gorm:"column:checklist;type:jsonb" json:"checklist"`

	// Version guards checklist read-modify-write cycles: an update only
	// lands if the version it was computed against is still current.
	Version int `gorm:"column:version;default:0" json:"version"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) Checklist() Checklist {
	cl := Checklist{}
	if len(e.ChecklistData) == 0 {
		return cl
	}
	if err := json.Unmarshal(e.ChecklistData, &cl); err != nil {
		return Checklist{}
	}
	return cl
}

func encodeChecklist(cl Checklist) datatypes.JSON {
	b, _ := json.Marshal(cl)
	return b
}

// Assignment links a worker to an event. Schedule conflict detection walks
// these rows.
type Assignment struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`

	EventID  string `gorm:"column:event_id;index;not null" json:"event_id"`
	WorkerID string `gorm:"column:worker_id;index;not null" json:"worker_id"`
	Role     string `gorm:"column:role" json:"role"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

func (Assignment) TableName() string {
	return "event_assignments"
}

// filled reports whether a checklist value counts as set: anything that is
// not nil, false, zero, or empty.
func filled(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// complete reports whether every required field for a category is filled.
func complete(cat *Category, required []string) bool {
	if cat == nil {
		return false
	}
	for _, field := range required {
		if !filled(cat.Campos[field]) {
			return false
		}
	}
	return true
}
