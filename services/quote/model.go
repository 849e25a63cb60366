package quote

import (
	"encoding/json"
	"math"
	"time"

	"banquet-backoffice/services/employer"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusExpired:
		return true
	default:
		return false
	}
}

// LineItem is one priced service on a quote.
type LineItem struct {
	Descripcion    string  `json:"descripcion"`
	Cantidad       int     `json:"cantidad"`
	PrecioUnitario float64 `json:"precio_unitario"`
}

type Quote struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	EmployerID string             `gorm:"column:employer_id;index;not null" json:"employer_id"`
	Employer   *employer.Employer `gorm:"foreignKey:EmployerID" json:"employer,omitempty"`
	EventID    *string            `gorm:"column:event_id;index" json:"event_id,omitempty"`

	Items datatypes.JSON `gorm:"column:items;type:jsonb" json:"items"`

	// Subtotal, tax and total are always recomputed server side from the
	// line items; client-supplied totals are ignored.
	Subtotal float64 `gorm:"column:subtotal" json:"subtotal"`
	Tax      float64 `gorm:"column:tax" json:"tax"`
	Total    float64 `gorm:"column:total" json:"total"`

	ExpiresAt time.Time `gorm:"column:expires_at;index" json:"expires_at"`
	Status    Status    `gorm:"column:status;type:varchar(20);default:'draft';index" json:"status"`
}

func (Quote) TableName() string {
	return "quotes"
}

func (q *Quote) LineItems() []LineItem {
	if len(q.Items) == 0 {
		return nil
	}
	var items []LineItem
	if err := json.Unmarshal(q.Items, &items); err != nil {
		return nil
	}
	return items
}

// EffectiveStatus reports expired for quotes read past their expiration
// while they were still awaiting a decision.
func (q *Quote) EffectiveStatus(now time.Time) Status {
	if (q.Status == StatusDraft || q.Status == StatusSent) && now.After(q.ExpiresAt) {
		return StatusExpired
	}
	return q.Status
}

func encodeItems(items []LineItem) datatypes.JSON {
	b, _ := json.Marshal(items)
	return b
}

// totals computes subtotal/tax/total from the items, rounded to cents.
func totals(items []LineItem, taxRate float64) (subtotal, tax, total float64) {
	for _, it := range items {
		subtotal += float64(it.Cantidad) * it.PrecioUnitario
	}
	subtotal = round2(subtotal)
	tax = round2(subtotal * taxRate)
	total = round2(subtotal + tax)
	return subtotal, tax, total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
