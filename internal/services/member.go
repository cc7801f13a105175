package services

import (
	"errors"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/response"
	"gorm.io/gorm"
)

type MemberService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewMemberService(db *gorm.DB, notifier *Notifier) *MemberService {
	return &MemberService{db: db, notifier: notifier}
}

// MemberView is a membership row enriched with the student's profile and
// their task tallies within the project.
type MemberView struct {
	ID             uint   `json:"id"`
	StudentID      uint   `json:"student_id"`
	StudentName    string `json:"student_name,omitempty"`
	StudentEmail   string `json:"student_email,omitempty"`
	Skills         string `json:"skills,omitempty"`
	JoinedAt       string `json:"joined_at"`
	TasksAssigned  int64  `json:"tasks_assigned"`
	TasksCompleted int64  `json:"tasks_completed"`
}

// List returns a project's members. Visible to the owner and to members.
func (s *MemberService) List(callerID uint, role string, projectID uint) ([]MemberView, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	var members []models.ProjectMember
	if err := s.db.Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}

	if project.FacultyID != callerID {
		isMember := false
		for _, m := range members {
			if m.StudentID == callerID {
				isMember = true
				break
			}
		}
		if !isMember {
			return nil, response.NewForbidden("not a member of this project")
		}
	}

	views := make([]MemberView, 0, len(members))
	for _, m := range members {
		view := MemberView{
			ID:        m.ID,
			StudentID: m.StudentID,
			JoinedAt:  m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}

		var profile models.Profile
		if err := s.db.Where("user_id = ?", m.StudentID).First(&profile).Error; err == nil {
			view.StudentName = profile.FullName
			view.Skills = profile.Skills
		}
		var user models.User
		if err := s.db.First(&user, m.StudentID).Error; err == nil {
			view.StudentEmail = user.Email
		}

		s.db.Model(&models.Task{}).
			Where("project_id = ? AND assigned_to = ?", projectID, m.StudentID).
			Count(&view.TasksAssigned)
		s.db.Model(&models.Task{}).
			Where("project_id = ? AND assigned_to = ? AND status = ?",
				projectID, m.StudentID, models.TaskStatusCompleted).
			Count(&view.TasksCompleted)

		views = append(views, view)
	}
	return views, nil
}

// Remove deletes a membership. Owner only. The student's task assignments in
// the project are cleared in the same transaction so no task points at a
// departed member.
func (s *MemberService) Remove(facultyID, projectID, studentID uint) error {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("project not found")
		}
		return err
	}
	if project.FacultyID != facultyID {
		return response.NewForbidden("only the project owner can remove members")
	}

	var member models.ProjectMember
	if err := s.db.Where("project_id = ? AND student_id = ?", projectID, studentID).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewBadRequest("student is not a member of this project")
		}
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("project_id = ? AND assigned_to = ?", projectID, studentID).
			Update("assigned_to", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&member).Error
	})
	if err != nil {
		return err
	}

	if s.notifier != nil {
		var student models.User
		if err := s.db.First(&student, studentID).Error; err == nil {
			s.notifier.MemberRemoved(&student, &project)
		}
	}
	return nil
}
