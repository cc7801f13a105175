package models

import (
	"time"

	"gorm.io/gorm"
)

// Project statuses. draft -> active happens only through an accepted
// application; -> completed only through task status propagation.
const (
	ProjectStatusDraft     = "draft"
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusClosed    = "closed"
)

// Project represents a faculty-posted collaboration project.
type Project struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Title        string         `gorm:"size:200;not null" json:"title"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	Requirements string         `gorm:"type:text" json:"requirements"`
	Skills       string         `gorm:"size:1000" json:"skills"` // comma-joined
	MaxStudents  int            `gorm:"not null;default:1" json:"max_students"`
	Deadline     *time.Time     `json:"deadline"`
	FacultyID    uint           `gorm:"index;not null" json:"faculty_id"`
	Faculty      *User          `gorm:"foreignKey:FacultyID" json:"faculty,omitempty"`
	Status       string         `gorm:"size:20;not null;default:draft" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }

// SkillList returns the required skills as a slice.
func (p *Project) SkillList() []string {
	return SplitSkills(p.Skills)
}

// IsAcceptingApplications reports whether students may still apply.
func (p *Project) IsAcceptingApplications() bool {
	return p.Status == ProjectStatusDraft || p.Status == ProjectStatusActive
}
