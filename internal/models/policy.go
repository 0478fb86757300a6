package models

import "time"

// Policy caps spend by category and, optionally, location. Records are
// read-only from this service's point of view; authoring happens elsewhere.
type Policy struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"size:255"`
	Category    string `gorm:"size:100;index;not null"`
	// Location narrows the policy to one branch location when set.
	Location string `gorm:"size:100"`
	// AmountLimit is in base currency (KES). Nil means the policy carries no cap.
	AmountLimit *float64
	Currency    string `gorm:"size:10;not null;default:KES"`
	IsActive    bool   `gorm:"default:true"`
	CreatedBy   uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
