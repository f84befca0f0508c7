package models

import "time"

const UserTable = "users"

type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
	RoleHead     Role = "head"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleStaff, RoleAdmin, RoleHead:
		return true
	}
	return false
}

// CanApprove reports whether the role may move loans through the
// approval lifecycle.
func (r Role) CanApprove() bool { return r == RoleStaff || r == RoleAdmin }

func (r Role) CanProcessReturn() bool { return r == RoleStaff || r == RoleAdmin }

func (r Role) CanManageAssets() bool { return r == RoleStaff || r == RoleAdmin }

// IsStaff covers every back-office role, including the head who only
// reads (dashboards, all damage reports).
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin || r == RoleHead
}

type User struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:100;not null" json:"-"`
	Role     Role   `gorm:"size:20;index;not null;default:'student'" json:"role"`

	Department string `gorm:"size:255" json:"department,omitempty"`
	StudentID  string `gorm:"size:50" json:"studentId,omitempty"`
	Phone      string `gorm:"size:45" json:"phone,omitempty"`

	LastSeenAt *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }
