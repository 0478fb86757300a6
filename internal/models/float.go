package models

import "time"

type FloatStatus string

const (
	FloatActive    FloatStatus = "active"
	FloatLow       FloatStatus = "low"
	FloatExhausted FloatStatus = "exhausted"
)

// Float is a pre-funded cash account expenses are charged against.
// Balance and Status are derived from the amounts and recomputed on every
// write; they are stored only for query convenience, never trusted alone.
type Float struct {
	ID          uint   `gorm:"primaryKey"`
	Code        string `gorm:"size:50;uniqueIndex;not null"` // caller-supplied unique code, e.g. "FLT-NBO-01"
	Description string `gorm:"size:255;not null"`
	Location    string `gorm:"size:100;index;not null"`
	Currency    string `gorm:"size:10;not null;default:KES"`
	InitialAmount float64 `gorm:"not null"`
	UsedAmount    float64 `gorm:"not null;default:0"`
	Balance       float64 `gorm:"not null"`
	Status        FloatStatus `gorm:"size:20;not null"`
	IsActive      bool        `gorm:"default:true"`
	CreatedBy     uint        `gorm:"index"`
	// Version is the optimistic concurrency stamp; debits compare-and-swap on it.
	Version   int64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
