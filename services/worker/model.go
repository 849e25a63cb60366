package worker

import (
	"time"

	"banquet-backoffice/pkg/config"
)

// LoyaltyLevel is a worker's tier, derived purely from accumulated points.
type LoyaltyLevel string

const (
	LevelBronze   LoyaltyLevel = "bronze"
	LevelSilver   LoyaltyLevel = "silver"
	LevelGold     LoyaltyLevel = "gold"
	LevelPlatinum LoyaltyLevel = "platinum"
)

// LevelFor computes the tier for a point balance against the configured
// thresholds. This is the only place the mapping lives; callers never
// hardcode their own threshold sets.
func LevelFor(points int64, cfg config.LoyaltyConfig) LoyaltyLevel {
	switch {
	case points >= cfg.PlatinumThreshold:
		return LevelPlatinum
	case points >= cfg.GoldThreshold:
		return LevelGold
	case points >= cfg.SilverThreshold:
		return LevelSilver
	default:
		return LevelBronze
	}
}

type Worker struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	Nombre          string  `gorm:"column:nombre;not null" json:"nombre"`
	Email           string  `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Telefono        string  `gorm:"column:telefono" json:"telefono"`
	Especializacion string  `gorm:"column:especializacion" json:"especializacion"`
	TarifaHora      float64 `gorm:"column:tarifa_hora" json:"tarifa_hora"`
	Rating          float64 `gorm:"column:rating;default:0" json:"rating"`

	LoyaltyPoints int64        `gorm:"column:loyalty_points;default:0" json:"loyalty_points"`
	LoyaltyLevel  LoyaltyLevel `gorm:"column:loyalty_level;type:varchar(20);default:'bronze'" json:"loyalty_level"`
}

func (Worker) TableName() string {
	return "workers"
}
