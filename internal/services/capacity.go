package services

import (
	"github.com/campushub/backend/internal/models"
	"gorm.io/gorm"
)

// MaxActiveProjects is the per-student cap on concurrently active
// project memberships.
const MaxActiveProjects = 3

// CanStudentApply reports whether the student is below the active-project
// cap. Counts memberships whose project is currently active. Callers on the
// accept path must pass the transaction handle so the check and the member
// creation are serialized as one unit.
func CanStudentApply(tx *gorm.DB, studentID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.ProjectMember{}).
		Joins("JOIN projects ON projects.id = project_members.project_id").
		Where("project_members.student_id = ?", studentID).
		Where("projects.status = ?", models.ProjectStatusActive).
		Where("projects.deleted_at IS NULL").
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count < MaxActiveProjects, nil
}

// CanProjectAcceptMember reports whether the project is below its
// max_students cap.
func CanProjectAcceptMember(tx *gorm.DB, project *models.Project) (bool, error) {
	var count int64
	err := tx.Model(&models.ProjectMember{}).
		Where("project_id = ?", project.ID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count < int64(project.MaxStudents), nil
}
