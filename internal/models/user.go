package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Role is fixed at registration; there is no role-change path.
const (
	RoleStudent  = "student"
	RoleFaculty  = "faculty"
	RoleBusiness = "business" // legacy accounts, may still own projects
)

// User represents a portal account.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Role      string         `gorm:"size:20;not null;default:student" json:"role"` // student, faculty, business
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time     `json:"last_login"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// ValidRole reports whether s is one of the closed set of roles.
func ValidRole(s string) bool {
	return s == RoleStudent || s == RoleFaculty || s == RoleBusiness
}

// CanOwnProjects reports whether the user may create and manage projects.
func (u *User) CanOwnProjects() bool {
	return u.Role == RoleFaculty || u.Role == RoleBusiness
}
