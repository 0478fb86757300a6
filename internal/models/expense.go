package models

import "time"

type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "pending"
	ExpenseApproved ExpenseStatus = "approved"
	ExpenseRejected ExpenseStatus = "rejected"
	ExpensePaid     ExpenseStatus = "paid"
)

// Expense is a single spend request tied to one float. Rows are never hard
// deleted; rejected and paid are terminal states kept for the audit trail.
type Expense struct {
	ID          uint   `gorm:"primaryKey"`
	Code        string `gorm:"size:20;uniqueIndex;not null"` // "EXP001" style, assigned at submission
	Date        time.Time `gorm:"index;not null"`
	Description string    `gorm:"size:255;not null"`
	Category    string    `gorm:"size:100;index;not null"`
	Amount      float64   `gorm:"not null"`
	Currency    string    `gorm:"size:10;not null;default:KES"`
	// ExchangeRate converts Amount into the KES reporting currency. Supplied
	// by the caller at submission; defaults to 1.
	ExchangeRate float64 `gorm:"not null;default:1"`
	FloatID      uint    `gorm:"index;not null"`
	Float        Float
	Location     string        `gorm:"size:100;index;not null"`
	Status       ExpenseStatus `gorm:"size:20;index;not null"`

	Receipt     string              `gorm:"size:255"` // opaque attachment reference
	Attachments []ExpenseAttachment `gorm:"foreignKey:ExpenseID"`

	PolicyViolation bool   `gorm:"default:false"`
	ViolationReason string `gorm:"size:255"`

	SubmittedBy uint `gorm:"index;not null"`
	// ApprovedBy records whoever moved the expense out of pending, for
	// rejections as well as approvals.
	ApprovedBy      *uint
	ApprovedAt      *time.Time
	RejectionReason string `gorm:"size:255"`
	PaidBy          *uint
	PaidAt          *time.Time

	// Version is the optimistic concurrency stamp; every transition
	// compare-and-swaps on it.
	Version   int64 `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BaseAmount is the KES-equivalent used for policy checks, debits and reports.
func (e *Expense) BaseAmount() float64 {
	return e.Amount * e.ExchangeRate
}

// ExpenseAttachment stores an opaque reference to an uploaded file; binary
// content lives in the upload folder, never in the database.
type ExpenseAttachment struct {
	ID               uint   `gorm:"primaryKey"`
	ExpenseID        uint   `gorm:"index;not null"`
	Filename         string `gorm:"size:255;not null"` // stored name under the upload folder
	OriginalFilename string `gorm:"size:255;not null"`
	FileType         string `gorm:"size:100"`
	FileSize         int64
	CreatedAt        time.Time
}
