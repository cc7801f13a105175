package services

import (
	"errors"
	"time"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/response"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type ProjectListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=draft active completed closed"`
	Mine     bool   `form:"mine"`
}

type ProjectListResponse struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Items    []ProjectView `json:"items"`
}

type CreateProjectRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Requirements string   `json:"requirements"`
	Skills       []string `json:"skills"`
	MaxStudents  int      `json:"max_students" binding:"omitempty,min=1"`
	Deadline     *string  `json:"deadline"` // RFC 3339
}

type UpdateProjectRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Requirements *string   `json:"requirements"`
	Skills       *[]string `json:"skills"`
	MaxStudents  *int      `json:"max_students" binding:"omitempty,min=1"`
	Deadline     *string   `json:"deadline"`
}

// ProjectView enriches a project with owner display data and member count.
type ProjectView struct {
	models.Project
	FacultyName     string `json:"faculty_name,omitempty"`
	CurrentStudents int64  `json:"current_students"`
}

// Create posts a new project in draft status.
func (s *ProjectService) Create(ownerID uint, req *CreateProjectRequest) (*ProjectView, error) {
	project := models.Project{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Skills:       models.JoinSkills(req.Skills),
		MaxStudents:  req.MaxStudents,
		FacultyID:    ownerID,
		Status:       models.ProjectStatusDraft,
	}
	if project.MaxStudents < 1 {
		project.MaxStudents = 1
	}

	if req.Deadline != nil && *req.Deadline != "" {
		deadline, err := time.Parse(time.RFC3339, *req.Deadline)
		if err != nil {
			return nil, response.NewBadRequest("deadline must be an RFC 3339 timestamp")
		}
		project.Deadline = &deadline
	}

	if err := s.db.Create(&project).Error; err != nil {
		return nil, err
	}
	return s.buildView(&project), nil
}

// Update edits project fields. Owner only. Status is never set directly here:
// draft->active and ->completed travel through the workflow paths, closed
// through Close.
func (s *ProjectService) Update(ownerID, projectID uint, req *UpdateProjectRequest) (*ProjectView, error) {
	project, err := s.owned(ownerID, projectID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Requirements != nil {
		updates["requirements"] = *req.Requirements
	}
	if req.Skills != nil {
		updates["skills"] = models.JoinSkills(*req.Skills)
	}
	if req.MaxStudents != nil {
		if *req.MaxStudents < 1 {
			return nil, response.NewBadRequest("max_students must be at least 1")
		}
		updates["max_students"] = *req.MaxStudents
	}
	if req.Deadline != nil {
		if *req.Deadline == "" {
			updates["deadline"] = nil
		} else {
			deadline, err := time.Parse(time.RFC3339, *req.Deadline)
			if err != nil {
				return nil, response.NewBadRequest("deadline must be an RFC 3339 timestamp")
			}
			updates["deadline"] = deadline
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(project).Updates(updates).Error; err != nil {
			return nil, err
		}
		if err := s.db.First(project, projectID).Error; err != nil {
			return nil, err
		}
	}
	return s.buildView(project), nil
}

// Get returns one project with owner name and member count.
func (s *ProjectService) Get(projectID uint) (*ProjectView, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}
	return s.buildView(&project), nil
}

// List returns paginated projects, optionally filtered by status or owner.
func (s *ProjectService) List(callerID uint, req *ProjectListRequest) (*ProjectListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	query := s.db.Model(&models.Project{})
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.Mine {
		query = query.Where("faculty_id = ?", callerID)
	}

	var total int64
	query.Count(&total)

	var projects []models.Project
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}

	items := make([]ProjectView, 0, len(projects))
	for i := range projects {
		items = append(items, *s.buildView(&projects[i]))
	}
	return &ProjectListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

// Close marks a project closed. Owner only. Closed projects take no
// applications and their status is frozen.
func (s *ProjectService) Close(ownerID, projectID uint) (*ProjectView, error) {
	project, err := s.owned(ownerID, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status == models.ProjectStatusClosed {
		return nil, response.NewConflict("project is already closed")
	}
	if err := s.db.Model(project).Update("status", models.ProjectStatusClosed).Error; err != nil {
		return nil, err
	}
	project.Status = models.ProjectStatusClosed
	return s.buildView(project), nil
}

func (s *ProjectService) owned(ownerID, projectID uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}
	if project.FacultyID != ownerID {
		return nil, response.NewForbidden("only the project owner can modify the project")
	}
	return &project, nil
}

func (s *ProjectService) buildView(project *models.Project) *ProjectView {
	view := &ProjectView{Project: *project}
	var profile models.Profile
	if err := s.db.Where("user_id = ?", project.FacultyID).First(&profile).Error; err == nil {
		view.FacultyName = profile.FullName
	}
	s.db.Model(&models.ProjectMember{}).
		Where("project_id = ?", project.ID).
		Count(&view.CurrentStudents)
	return view
}
