package model

import "time"

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// IsAdmin reports whether the role grants administrative access.
// Admins see every division and may mutate contracts and user accounts.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusSuspended Status = "suspended"
	StatusInactive  Status = "inactive"
)

// CanTransitionTo validates an admin-triggered account lifecycle change.
// Accounts are created as pending; an admin approves or rejects them,
// approved accounts may be suspended, and any account may be marked
// inactive (soft delete). Nothing transitions automatically.
func (s Status) CanTransitionTo(next Status) bool {
	if next == StatusInactive {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected
	case StatusApproved:
		return next == StatusSuspended
	case StatusSuspended:
		return next == StatusApproved
	}
	return false
}

type User struct {
	ID           int        `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Password     string     `json:"-"`
	FirstName    string     `json:"firstname"`
	Surname      string     `json:"surname"`
	Position     string     `json:"position"`
	Role         Role       `json:"role"`
	Status       Status     `json:"status"`
	DivisionID   *int       `json:"division_id"`
	DivisionName string     `json:"division_name,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// FullName is the display name embedded in issued tokens.
func (u *User) FullName() string {
	return u.FirstName + " " + u.Surname
}

// UserStats summarizes account statuses for the admin user list.
type UserStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}
