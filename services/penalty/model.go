package penalty

import (
	"encoding/json"
	"time"

	"banquet-backoffice/services/event"
	"banquet-backoffice/services/worker"

	"gorm.io/datatypes"
)

type Severity string

const (
	SeverityLeve     Severity = "leve"
	SeverityModerada Severity = "moderada"
	SeverityGrave    Severity = "grave"
)

type Status string

const (
	StatusActiva  Status = "activa"
	StatusPagada  Status = "pagada"
	StatusApelada Status = "apelada"
	StatusAnulada Status = "anulada"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActiva, StatusPagada, StatusApelada, StatusAnulada:
		return true
	default:
		return false
	}
}

// ActionEntry is one immutable record in a penalty's action log.
type ActionEntry struct {
	Fecha          time.Time `json:"fecha"`
	EstadoAnterior string    `json:"estado_anterior"`
	EstadoNuevo    string    `json:"estado_nuevo"`
	Comentario     string    `json:"comentario"`
	Actor          string    `json:"actor"`
}

// Penalty is a worker-accountability record tied to an event.
type Penalty struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	WorkerID string         `gorm:"column:worker_id;index;not null" json:"worker_id"`
	Worker   *worker.Worker `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
	EventID  string         `gorm:"column:event_id;index;not null" json:"event_id"`
	Event    *event.Event   `gorm:"foreignKey:EventID" json:"event,omitempty"`

	Motivo    string   `gorm:"column:motivo;type:text;not null" json:"motivo"`
	Monto     float64  `gorm:"column:monto" json:"monto"`
	Severidad Severity `gorm:"column:severidad;type:varchar(20);not null" json:"severidad"`
	Estado    Status   `gorm:"column:estado;type:varchar(20);default:'activa';index" json:"estado"`

	Acciones datatypes.JSON `gorm:"column:acciones;type:jsonb" json:"acciones"`
}

func (Penalty) TableName() string {
	return "penalties"
}

func (p *Penalty) Actions() []ActionEntry {
	if len(p.Acciones) == 0 {
		return nil
	}
	var entries []ActionEntry
	if err := json.Unmarshal(p.Acciones, &entries); err != nil {
		return nil
	}
	return entries
}

func encodeActions(entries []ActionEntry) datatypes.JSON {
	b, _ := json.Marshal(entries)
	return b
}
