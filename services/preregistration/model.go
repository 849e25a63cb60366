package preregistration

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusPendiente  Status = "pendiente"
	StatusEnRevision Status = "en_revision"
	StatusAprobado   Status = "aprobado"
	StatusRechazado  Status = "rechazado"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPendiente, StatusEnRevision, StatusAprobado, StatusRechazado:
		return true
	default:
		return false
	}
}

// HistoryEntry is one immutable record of a status transition. The history
// list is append-only: rows are historized, never rewritten.
type HistoryEntry struct {
	Fecha          time.Time `json:"fecha"`
	EstadoAnterior string    `json:"estado_anterior"`
	EstadoNuevo    string    `json:"estado_nuevo"`
	Comentario     string    `json:"comentario"`
	Actor          string    `json:"actor"`
}

// PreRegistration is a prospective event request submitted from the public
// site, pending administrative review. It is only ever mutated through
// status transitions and never deleted.
type PreRegistration struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	NombreCompleto string `gorm:"column:nombre_completo;not null" json:"nombre_completo"`
	Email          string `gorm:"column:email;index;not null" json:"email"`
	Telefono       string `gorm:"column:telefono" json:"telefono"`

	TipoEvento               string    `gorm:"column:tipo_evento;not null" json:"tipo_evento"`
	FechaEstimada            time.Time `gorm:"column:fecha_estimada;not null" json:"fecha_estimada"`
	NumeroInvitados          int       `gorm:"column:numero_invitados;not null" json:"numero_invitados"`
	Ubicacion                string    `gorm:"column:ubicacion" json:"ubicacion"`
	PresupuestoEstimado      float64   `gorm:"column:presupuesto_estimado" json:"presupuesto_estimado"`
	RequerimientosEspeciales string    `gorm:"column:requerimientos_especiales;type:text" json:"requerimientos_especiales"`

	Estado               Status         `gorm:"column:estado;type:varchar(20);default:'pendiente';index" json:"estado"`
	HistorialComentarios datatypes.JSON `gorm:"column:historial_comentarios;type:jsonb" json:"historial_comentarios"`
}

func (PreRegistration) TableName() string {
	return "preregistrations"
}

// History decodes the append-only transition log.
func (p *PreRegistration) History() []HistoryEntry {
	if len(p.HistorialComentarios) == 0 {
		return nil
	}
	var entries []HistoryEntry
	if err := json.Unmarshal(p.HistorialComentarios, &entries); err != nil {
		return nil
	}
	return entries
}

func encodeHistory(entries []HistoryEntry) datatypes.JSON {
	b, _ := json.Marshal(entries)
	return b
}
