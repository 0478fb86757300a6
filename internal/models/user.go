package models

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleFinance UserRole = "finance"
	RoleBranch  UserRole = "branch"
	RoleAuditor UserRole = "auditor"
)

// ValidRole reports whether a role string is one of the closed set. There is
// no "unknown" catch-all: anything else is denied everywhere.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleFinance, RoleBranch, RoleAuditor:
		return true
	}
	return false
}

type User struct {
	ID           uint     `gorm:"primaryKey"`
	FirstName    string   `gorm:"size:100;not null"`
	LastName     string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	// BranchLocation is only meaningful for the branch role; empty otherwise.
	BranchLocation string `gorm:"size:100"`
	IsActive       bool   `gorm:"default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Actor is the principal the authorization gate and the lifecycle act for.
// Role and location are taken verbatim from the verified JWT.
type Actor struct {
	ID             uint
	Role           UserRole
	BranchLocation string
	FullName       string
}

func (u *User) Actor() Actor {
	return Actor{
		ID:             u.ID,
		Role:           u.Role,
		BranchLocation: u.BranchLocation,
		FullName:       u.FullName(),
	}
}
