package services

import (
	"github.com/campushub/backend/internal/models"
	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type FacultyDashboard struct {
	TotalProjects       int64            `json:"total_projects"`
	ProjectsByStatus    map[string]int64 `json:"projects_by_status"`
	PendingApplications int64            `json:"pending_applications"`
	TotalMembers        int64            `json:"total_members"`
}

type StudentDashboard struct {
	ApplicationsSubmitted int64 `json:"applications_submitted"`
	ApplicationsPending   int64 `json:"applications_pending"`
	ProjectsJoined        int64 `json:"projects_joined"`
	TasksAssigned         int64 `json:"tasks_assigned"`
	TasksCompleted        int64 `json:"tasks_completed"`
}

// Faculty aggregates an owner's portfolio: project counts per status,
// pending applications and member rows across all owned projects.
func (s *DashboardService) Faculty(facultyID uint) (*FacultyDashboard, error) {
	dash := &FacultyDashboard{ProjectsByStatus: map[string]int64{}}

	if err := s.db.Model(&models.Project{}).
		Where("faculty_id = ?", facultyID).
		Count(&dash.TotalProjects).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := s.db.Model(&models.Project{}).
		Select("status, COUNT(*) as count").
		Where("faculty_id = ?", facultyID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		dash.ProjectsByStatus[row.Status] = row.Count
	}

	if err := s.db.Model(&models.Application{}).
		Joins("JOIN projects ON projects.id = applications.project_id").
		Where("projects.faculty_id = ? AND projects.deleted_at IS NULL", facultyID).
		Where("applications.status = ?", models.ApplicationStatusPending).
		Count(&dash.PendingApplications).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.ProjectMember{}).
		Joins("JOIN projects ON projects.id = project_members.project_id").
		Where("projects.faculty_id = ? AND projects.deleted_at IS NULL", facultyID).
		Count(&dash.TotalMembers).Error; err != nil {
		return nil, err
	}

	return dash, nil
}

// Student aggregates a student's activity across the portal.
func (s *DashboardService) Student(studentID uint) (*StudentDashboard, error) {
	dash := &StudentDashboard{}

	if err := s.db.Model(&models.Application{}).
		Where("student_id = ?", studentID).
		Count(&dash.ApplicationsSubmitted).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Application{}).
		Where("student_id = ? AND status = ?", studentID, models.ApplicationStatusPending).
		Count(&dash.ApplicationsPending).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.ProjectMember{}).
		Where("student_id = ?", studentID).
		Count(&dash.ProjectsJoined).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Task{}).
		Where("assigned_to = ?", studentID).
		Count(&dash.TasksAssigned).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Task{}).
		Where("assigned_to = ? AND status = ?", studentID, models.TaskStatusCompleted).
		Count(&dash.TasksCompleted).Error; err != nil {
		return nil, err
	}

	return dash, nil
}
