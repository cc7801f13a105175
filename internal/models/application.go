package models

import "time"

// Application statuses. accepted and rejected are terminal.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

// Application is a student's request to join a project. The composite
// unique index guarantees at most one application per (project, student)
// pair regardless of concurrent submissions. Applications are never deleted.
type Application struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectID   uint      `gorm:"uniqueIndex:idx_project_student;not null" json:"project_id"`
	Project     *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	StudentID   uint      `gorm:"uniqueIndex:idx_project_student;not null" json:"student_id"`
	Student     *User     `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Status      string    `gorm:"size:20;not null;default:pending" json:"status"`
	CoverLetter string    `gorm:"type:text;not null" json:"cover_letter"`
	ResumeURL   string    `gorm:"size:500" json:"resume_url"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Application) TableName() string { return "applications" }

// Decided reports whether the application has left the pending state.
func (a *Application) Decided() bool {
	return a.Status != ApplicationStatusPending
}

// ValidDecision reports whether s is a legal faculty decision.
func ValidDecision(s string) bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}
