package services

import (
	"errors"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/response"
	"gorm.io/gorm"
)

type TaskService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewTaskService(db *gorm.DB, notifier *Notifier) *TaskService {
	return &TaskService{db: db, notifier: notifier}
}

type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"` // RFC 3339 date, parsed by the handler
	AssignedTo  *uint   `json:"assigned_to"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	AssignedTo  *uint   `json:"assigned_to"`
	ClearDue    bool    `json:"clear_due_date"`
}

// TaskView enriches a task with its assignee's display name.
type TaskView struct {
	models.Task
	AssignedToName string `json:"assigned_to_name,omitempty"`
}

// Create adds a task to a project. Owner only. An assignee, when given, must
// be a current project member.
func (s *TaskService) Create(facultyID, projectID uint, task *models.Task) (*TaskView, error) {
	project, err := s.ownedProject(facultyID, projectID)
	if err != nil {
		return nil, err
	}

	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	if !models.ValidTaskStatus(task.Status) {
		return nil, response.NewBadRequest("invalid task status")
	}
	if task.AssignedTo != nil {
		if err := s.requireMember(s.db, projectID, *task.AssignedTo); err != nil {
			return nil, err
		}
	}
	task.ProjectID = projectID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		return Propagate(tx, projectID)
	})
	if err != nil {
		return nil, err
	}

	if task.AssignedTo != nil && s.notifier != nil {
		var assignee models.User
		if err := s.db.First(&assignee, *task.AssignedTo).Error; err == nil {
			s.notifier.TaskAssigned(&assignee, project, task)
		}
	}

	return s.buildView(task), nil
}

// Update edits a task. The project owner may edit every field; a student may
// only change the status of a task assigned to them.
func (s *TaskService) Update(callerID uint, role string, taskID uint, req *UpdateTaskRequest) (*TaskView, error) {
	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("task not found")
		}
		return nil, err
	}

	var project models.Project
	if err := s.db.First(&project, task.ProjectID).Error; err != nil {
		return nil, err
	}

	isOwner := project.FacultyID == callerID
	if !isOwner {
		if role != models.RoleStudent || task.AssignedTo == nil || *task.AssignedTo != callerID {
			return nil, response.NewForbidden("not allowed to edit this task")
		}
		if req.Title != nil || req.Description != nil || req.AssignedTo != nil || req.ClearDue {
			return nil, response.NewForbidden("students may only update task status")
		}
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		if !models.ValidTaskStatus(*req.Status) {
			return nil, response.NewBadRequest("invalid task status")
		}
		updates["status"] = *req.Status
	}
	newAssignee := false
	if req.AssignedTo != nil {
		if err := s.requireMember(s.db, task.ProjectID, *req.AssignedTo); err != nil {
			return nil, err
		}
		newAssignee = task.AssignedTo == nil || *task.AssignedTo != *req.AssignedTo
		updates["assigned_to"] = *req.AssignedTo
	}
	if req.ClearDue {
		updates["due_date"] = nil
	}
	if len(updates) == 0 {
		return s.buildView(&task), nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&task).Updates(updates).Error; err != nil {
			return err
		}
		return Propagate(tx, task.ProjectID)
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.First(&task, taskID).Error; err != nil {
		return nil, err
	}

	if newAssignee && s.notifier != nil {
		var assignee models.User
		if err := s.db.First(&assignee, *task.AssignedTo).Error; err == nil {
			s.notifier.TaskAssigned(&assignee, &project, &task)
		}
	}

	return s.buildView(&task), nil
}

// Delete removes a task. Owner only. Project status is recomputed afterwards
// since the deleted task may have been the only incomplete, or the only, one.
func (s *TaskService) Delete(facultyID, taskID uint) error {
	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("task not found")
		}
		return err
	}
	if _, err := s.ownedProject(facultyID, task.ProjectID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&task).Error; err != nil {
			return err
		}
		return Propagate(tx, task.ProjectID)
	})
}

// ListForProject returns a project's tasks. Owner or member.
func (s *TaskService) ListForProject(callerID uint, role string, projectID uint) ([]TaskView, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	if project.FacultyID != callerID {
		var count int64
		if err := s.db.Model(&models.ProjectMember{}).
			Where("project_id = ? AND student_id = ?", projectID, callerID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, response.NewForbidden("not a member of this project")
		}
	}

	var tasks []models.Task
	if err := s.db.Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	views := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		views = append(views, *s.buildView(&tasks[i]))
	}
	return views, nil
}

// Propagate recomputes a project's status from its task aggregate:
// a non-empty task set that is all completed marks the project completed;
// any in-progress or completed task marks it active; otherwise the status is
// left alone, so a project never regresses to draft. Idempotent, and always
// called on the transaction that mutated the tasks.
func Propagate(tx *gorm.DB, projectID uint) error {
	var project models.Project
	if err := tx.First(&project, projectID).Error; err != nil {
		return err
	}
	if project.Status == models.ProjectStatusClosed {
		return nil
	}

	var total, completed, started int64
	if err := tx.Model(&models.Task{}).
		Where("project_id = ?", projectID).
		Count(&total).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Task{}).
		Where("project_id = ? AND status = ?", projectID, models.TaskStatusCompleted).
		Count(&completed).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Task{}).
		Where("project_id = ? AND status IN ?", projectID,
			[]string{models.TaskStatusInProgress, models.TaskStatusCompleted}).
		Count(&started).Error; err != nil {
		return err
	}

	next := project.Status
	switch {
	case total > 0 && completed == total:
		next = models.ProjectStatusCompleted
	case started > 0:
		next = models.ProjectStatusActive
	}

	if next == project.Status {
		return nil
	}
	return tx.Model(&project).Update("status", next).Error
}

func (s *TaskService) ownedProject(facultyID, projectID uint) (*models.Project, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}
	if project.FacultyID != facultyID {
		return nil, response.NewForbidden("only the project owner can manage tasks")
	}
	return &project, nil
}

func (s *TaskService) requireMember(tx *gorm.DB, projectID, studentID uint) error {
	var count int64
	if err := tx.Model(&models.ProjectMember{}).
		Where("project_id = ? AND student_id = ?", projectID, studentID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return response.NewBadRequest("assignee must be a member of the project")
	}
	return nil
}

func (s *TaskService) buildView(task *models.Task) *TaskView {
	view := &TaskView{Task: *task}
	if task.AssignedTo != nil {
		var profile models.Profile
		if err := s.db.Where("user_id = ?", *task.AssignedTo).First(&profile).Error; err == nil {
			view.AssignedToName = profile.FullName
		}
	}
	return view
}
