package models

import "time"

// ProjectMember is an active participation grant. Rows are created only as
// the side effect of an accepted application; the composite unique index
// prevents duplicate membership.
type ProjectMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"uniqueIndex:idx_member_project_student;not null" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	StudentID uint      `gorm:"uniqueIndex:idx_member_project_student;not null" json:"student_id"`
	Student   *User     `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProjectMember) TableName() string { return "project_members" }
