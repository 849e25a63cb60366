package conflict

import (
	"encoding/json"
	"time"

	"banquet-backoffice/services/event"

	"gorm.io/datatypes"
)

type Kind string

const (
	KindScheduleOverlap Kind = "schedule_overlap"
	KindDoubleBooking   Kind = "double_booking"
	KindManual          Kind = "manual"
)

func (k Kind) Valid() bool {
	switch k {
	case KindScheduleOverlap, KindDoubleBooking, KindManual:
		return true
	default:
		return false
	}
}

type Severity string

const (
	SeverityBaja  Severity = "baja"
	SeverityMedia Severity = "media"
	SeverityAlta  Severity = "alta"
)

type Status string

const (
	StatusAbierto     Status = "abierto"
	StatusEnMediacion Status = "en_mediacion"
	StatusResuelto    Status = "resuelto"
	StatusDescartado  Status = "descartado"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAbierto, StatusEnMediacion, StatusResuelto, StatusDescartado:
		return true
	default:
		return false
	}
}

// ActionEntry is one immutable record in a conflict's action log.
type ActionEntry struct {
	Fecha          time.Time `json:"fecha"`
	EstadoAnterior string    `json:"estado_anterior"`
	EstadoNuevo    string    `json:"estado_nuevo"`
	Comentario     string    `json:"comentario"`
	Actor          string    `json:"actor"`
}

// Conflict records a scheduling or staffing dispute around an event.
// WorkerIDs holds every worker involved, since overlaps and double
// bookings always implicate at least two assignments.
type Conflict struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	EventID string       `gorm:"column:event_id;index;not null" json:"event_id"`
	Event   *event.Event `gorm:"foreignKey:EventID" json:"event,omitempty"`

	WorkerIDs   datatypes.JSON `gorm:"column:worker_ids;type:jsonb" json:"worker_ids"`
	Tipo        Kind           `gorm:"column:tipo;type:varchar(30);not null" json:"tipo"`
	Severidad   Severity       `gorm:"column:severidad;type:varchar(20)" json:"severidad"`
	Descripcion string         `gorm:"column:descripcion;type:text" json:"descripcion"`
	Estado      Status         `gorm:"column:estado;type:varchar(20);default:'abierto';index" json:"estado"`

	Acciones datatypes.JSON `gorm:"column:acciones;type:jsonb" json:"acciones"`
}

func (Conflict) TableName() string {
	return "conflicts"
}

func (c *Conflict) Workers() []string {
	if len(c.WorkerIDs) == 0 {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(c.WorkerIDs, &ids); err != nil {
		return nil
	}
	return ids
}

func (c *Conflict) Actions() []ActionEntry {
	if len(c.Acciones) == 0 {
		return nil
	}
	var entries []ActionEntry
	if err := json.Unmarshal(c.Acciones, &entries); err != nil {
		return nil
	}
	return entries
}

func encodeWorkers(ids []string) datatypes.JSON {
	b, _ := json.Marshal(ids)
	return b
}

func encodeActions(entries []ActionEntry) datatypes.JSON {
	b, _ := json.Marshal(entries)
	return b
}

// overlaps reports whether two event windows intersect. Windows that
// merely touch at an endpoint do not count.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
