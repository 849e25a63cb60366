package notification

import (
	"time"

	"gorm.io/datatypes"
)

// DeliveryState tracks the side-channel email for a notification:
// not_attempted -> attempted -> delivered | failed. Failed is terminal, there
// is no retry queue.
type DeliveryState string

const (
	DeliveryNotAttempted DeliveryState = "not_attempted"
	DeliveryAttempted    DeliveryState = "attempted"
	DeliveryDelivered    DeliveryState = "delivered"
	DeliveryFailed       DeliveryState = "failed"
)

type Notification struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	Recipient string `gorm:"column:recipient;index;not null" json:"recipient"`
	Kind      string `gorm:"column:kind;type:varchar(50);not null" json:"kind"`
	Title     string `gorm:"column:title" json:"title"`
	Message   string `gorm:"column:message;type:text" json:"message"`
	Read      bool   `gorm:"column:read;default:false" json:"read"`

	EventID           *string `gorm:"column:event_id;index" json:"event_id,omitempty"`
	PreRegistrationID *string `gorm:"column:preregistration_id;index" json:"preregistration_id,omitempty"`

	Payload datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload,omitempty"`

	// Email side channel. Empty template means in-app only.
	EmailTemplate string         `gorm:"column:email_template;type:varchar(50)" json:"-"`
	EmailTo       string         `gorm:"column:email_to" json:"-"`
	EmailVars     datatypes.JSON `gorm:"column:email_vars;type:jsonb" json:"-"`

	DeliveryState DeliveryState `gorm:"column:delivery_state;type:varchar(20);default:'not_attempted'" json:"delivery_state"`
	DeliveredAt   *time.Time    `gorm:"column:delivered_at" json:"delivered_at,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
