package employer

import "time"

type Employer struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	Empresa    string  `gorm:"column:empresa;not null" json:"empresa"`
	Contacto   string  `gorm:"column:contacto" json:"contacto"`
	Email      string  `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Telefono   string  `gorm:"column:telefono" json:"telefono"`
	TotalSpent float64 `gorm:"column:total_spent;default:0" json:"total_spent"`
	Rating     float64 `gorm:"column:rating;default:0" json:"rating"`
}

func (Employer) TableName() string {
	return "employers"
}
