package services

import (
	"errors"
	"fmt"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewApplicationService(db *gorm.DB, notifier *Notifier) *ApplicationService {
	return &ApplicationService{db: db, notifier: notifier}
}

type SubmitApplicationRequest struct {
	CoverLetter string `json:"cover_letter" binding:"required"`
	ResumeURL   string `json:"resume_url"`
}

type DecideApplicationRequest struct {
	Decision string `json:"decision" binding:"required,oneof=accepted rejected"`
}

// ApplicationView is an application enriched with applicant and project data
// for list responses.
type ApplicationView struct {
	ID           uint   `json:"id"`
	ProjectID    uint   `json:"project_id"`
	ProjectTitle string `json:"project_title,omitempty"`
	FacultyName  string `json:"faculty_name,omitempty"`
	StudentID    uint   `json:"student_id"`
	StudentName  string `json:"student_name,omitempty"`
	StudentEmail string `json:"student_email,omitempty"`
	Skills       string `json:"skills,omitempty"`
	Status       string `json:"status"`
	CoverLetter  string `json:"cover_letter"`
	ResumeURL    string `json:"resume_url,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// Submit creates a pending application for a student.
func (s *ApplicationService) Submit(studentID, projectID uint, req *SubmitApplicationRequest) (*ApplicationView, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	if !project.IsAcceptingApplications() {
		return nil, response.NewConflict("project is not accepting applications")
	}

	ok, err := CanStudentApply(s.db, studentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, response.NewForbidden(fmt.Sprintf("student already has %d active projects", MaxActiveProjects))
	}

	// Pre-check for a friendly message; the unique index is the authority
	// under concurrent submissions.
	var existing int64
	if err := s.db.Model(&models.Application{}).
		Where("project_id = ? AND student_id = ?", projectID, studentID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, response.NewConflict("you have already applied to this project")
	}

	app := models.Application{
		ProjectID:   projectID,
		StudentID:   studentID,
		Status:      models.ApplicationStatusPending,
		CoverLetter: req.CoverLetter,
		ResumeURL:   req.ResumeURL,
	}
	if err := s.db.Create(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflict("you have already applied to this project")
		}
		return nil, err
	}

	if s.notifier != nil {
		var owner models.User
		var profile models.Profile
		applicantName := ""
		if err := s.db.Where("user_id = ?", studentID).First(&profile).Error; err == nil {
			applicantName = profile.FullName
		}
		if err := s.db.First(&owner, project.FacultyID).Error; err == nil {
			s.notifier.ApplicationReceived(&owner, &project, applicantName)
		}
	}

	view := s.buildView(&app, &project)
	return view, nil
}

// Decide accepts or rejects a pending application. Only the project owner may
// decide. The accept path runs in one transaction holding a row lock on the
// project so capacity checks and member creation are serialized.
func (s *ApplicationService) Decide(facultyID, applicationID uint, decision string) (*ApplicationView, error) {
	if !models.ValidDecision(decision) {
		return nil, response.NewBadRequest("decision must be accepted or rejected")
	}

	var app models.Application
	if err := s.db.First(&app, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("application not found")
		}
		return nil, err
	}

	var project models.Project
	if err := s.db.First(&project, app.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}
	if project.FacultyID != facultyID {
		return nil, response.NewForbidden("only the project owner can decide applications")
	}

	if app.Decided() {
		return nil, response.NewConflict("application has already been processed")
	}

	if decision == models.ApplicationStatusRejected {
		if err := s.db.Model(&app).Update("status", models.ApplicationStatusRejected).Error; err != nil {
			return nil, err
		}
		app.Status = models.ApplicationStatusRejected
		s.notifyDecision(&app, &project)
		return s.buildView(&app, &project), nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Lock the project row; concurrent accepts re-check caps serially.
		var locked models.Project
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&locked, project.ID).Error; err != nil {
			return err
		}

		var current models.Application
		if err := tx.First(&current, app.ID).Error; err != nil {
			return err
		}
		if current.Decided() {
			return response.NewConflict("application has already been processed")
		}

		ok, err := CanProjectAcceptMember(tx, &locked)
		if err != nil {
			return err
		}
		if !ok {
			return response.NewConflict("project has reached maximum students")
		}

		ok, err = CanStudentApply(tx, app.StudentID)
		if err != nil {
			return err
		}
		if !ok {
			return response.NewConflict(fmt.Sprintf("student already has %d active projects", MaxActiveProjects))
		}

		member := models.ProjectMember{ProjectID: locked.ID, StudentID: app.StudentID}
		if err := tx.Create(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return response.NewConflict("student is already a member of this project")
			}
			return err
		}

		if locked.Status == models.ProjectStatusDraft {
			if err := tx.Model(&locked).Update("status", models.ProjectStatusActive).Error; err != nil {
				return err
			}
			project.Status = models.ProjectStatusActive
		}

		if err := tx.Model(&models.Application{}).
			Where("id = ?", app.ID).
			Update("status", models.ApplicationStatusAccepted).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		// Capacity and re-decide conflicts leave the application pending.
		return nil, err
	}

	app.Status = models.ApplicationStatusAccepted
	s.notifyDecision(&app, &project)
	return s.buildView(&app, &project), nil
}

// ListForProject returns a project's applications, newest first. Owner only.
func (s *ApplicationService) ListForProject(facultyID, projectID uint) ([]ApplicationView, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}
	if project.FacultyID != facultyID {
		return nil, response.NewForbidden("only the project owner can view applications")
	}

	var apps []models.Application
	if err := s.db.Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	views := make([]ApplicationView, 0, len(apps))
	for i := range apps {
		views = append(views, *s.buildView(&apps[i], &project))
	}
	return views, nil
}

// ListMine returns a student's own applications, newest first.
func (s *ApplicationService) ListMine(studentID uint) ([]ApplicationView, error) {
	var apps []models.Application
	if err := s.db.Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	views := make([]ApplicationView, 0, len(apps))
	for i := range apps {
		var project models.Project
		if err := s.db.Unscoped().First(&project, apps[i].ProjectID).Error; err != nil {
			continue
		}
		view := s.buildView(&apps[i], &project)
		var profile models.Profile
		if err := s.db.Where("user_id = ?", project.FacultyID).First(&profile).Error; err == nil {
			view.FacultyName = profile.FullName
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *ApplicationService) buildView(app *models.Application, project *models.Project) *ApplicationView {
	view := &ApplicationView{
		ID:           app.ID,
		ProjectID:    app.ProjectID,
		ProjectTitle: project.Title,
		StudentID:    app.StudentID,
		Status:       app.Status,
		CoverLetter:  app.CoverLetter,
		ResumeURL:    app.ResumeURL,
		CreatedAt:    app.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	var profile models.Profile
	if err := s.db.Where("user_id = ?", app.StudentID).First(&profile).Error; err == nil {
		view.StudentName = profile.FullName
		view.Skills = profile.Skills
	}
	var student models.User
	if err := s.db.First(&student, app.StudentID).Error; err == nil {
		view.StudentEmail = student.Email
	}
	return view
}

func (s *ApplicationService) notifyDecision(app *models.Application, project *models.Project) {
	if s.notifier == nil {
		return
	}
	var student models.User
	if err := s.db.First(&student, app.StudentID).Error; err != nil {
		return
	}
	switch app.Status {
	case models.ApplicationStatusAccepted:
		s.notifier.ApplicationAccepted(&student, project)
	case models.ApplicationStatusRejected:
		s.notifier.ApplicationRejected(&student, project)
	}
}
