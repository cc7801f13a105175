package services

import (
	"time"

	"github.com/campushub/backend/internal/config"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/logger"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// deadlineWindowDays is how far ahead (inclusive) the daily check looks.
const deadlineWindowDays = 2

// DeadlineService runs the daily reminder sweep: projects and tasks with a
// due date inside the window generate emails to their owners, members and
// assignees. The sweep is read-only on domain state.
type DeadlineService struct {
	db            *gorm.DB
	notifier      *Notifier
	cfg           *config.SchedulerConfig
	calendar      *cal.BusinessCalendar
	cronScheduler *cron.Cron
}

func NewDeadlineService(db *gorm.DB, notifier *Notifier, cfg *config.SchedulerConfig) *DeadlineService {
	calendar := cal.NewBusinessCalendar()
	calendar.AddHoliday(us.Holidays...)

	return &DeadlineService{
		db:       db,
		notifier: notifier,
		cfg:      cfg,
		calendar: calendar,
	}
}

// StartScheduler registers the cron job and starts the scheduler.
func (s *DeadlineService) StartScheduler() {
	s.cronScheduler = cron.New()

	expr := s.cfg.DeadlineCron
	if expr == "" {
		expr = "0 0 * * *"
	}

	_, err := s.cronScheduler.AddFunc(expr, func() {
		if err := s.RunCheck(time.Now()); err != nil {
			logger.Errorf("[Deadline] check failed: %v", err)
		}
	})
	if err != nil {
		logger.Errorf("[Deadline] failed to add cron job: %v", err)
		return
	}

	s.cronScheduler.Start()
	logger.Infof("[Deadline] scheduler started (cron: %s)", expr)
}

func (s *DeadlineService) StopScheduler() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}

// RunCheck performs one sweep as of now. Exported so an operator endpoint or
// test can trigger it directly.
func (s *DeadlineService) RunCheck(now time.Time) error {
	if s.cfg.WorkdaysOnly && !s.calendar.IsWorkday(now) {
		logger.Infof("[Deadline] skipping sweep on non-workday %s", now.Format("2006-01-02"))
		return nil
	}

	windowEnd := now.AddDate(0, 0, deadlineWindowDays)

	if err := s.checkProjects(now, windowEnd); err != nil {
		return err
	}
	return s.checkTasks(now, windowEnd)
}

func (s *DeadlineService) checkProjects(now, windowEnd time.Time) error {
	var projects []models.Project
	if err := s.db.Where("deadline IS NOT NULL AND deadline BETWEEN ? AND ?", now, windowEnd).
		Where("status IN ?", []string{models.ProjectStatusDraft, models.ProjectStatusActive}).
		Find(&projects).Error; err != nil {
		return err
	}

	for i := range projects {
		p := &projects[i]
		daysLeft := daysUntil(now, *p.Deadline)

		var owner models.User
		if err := s.db.First(&owner, p.FacultyID).Error; err == nil {
			s.notifier.DeadlineApproaching(owner.Email, "project", p.Title, daysLeft)
		}

		var members []models.ProjectMember
		if err := s.db.Where("project_id = ?", p.ID).Find(&members).Error; err != nil {
			continue
		}
		for _, m := range members {
			var student models.User
			if err := s.db.First(&student, m.StudentID).Error; err == nil {
				s.notifier.DeadlineApproaching(student.Email, "project", p.Title, daysLeft)
			}
		}
	}

	logger.Infof("[Deadline] project sweep done, %d reminders window", len(projects))
	return nil
}

func (s *DeadlineService) checkTasks(now, windowEnd time.Time) error {
	var tasks []models.Task
	if err := s.db.
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("tasks.due_date IS NOT NULL AND tasks.due_date BETWEEN ? AND ?", now, windowEnd).
		Where("tasks.status <> ?", models.TaskStatusCompleted).
		Where("projects.status NOT IN ?", []string{models.ProjectStatusClosed, models.ProjectStatusCompleted}).
		Where("projects.deleted_at IS NULL").
		Find(&tasks).Error; err != nil {
		return err
	}

	for i := range tasks {
		t := &tasks[i]
		daysLeft := daysUntil(now, *t.DueDate)

		if t.AssignedTo != nil {
			var assignee models.User
			if err := s.db.First(&assignee, *t.AssignedTo).Error; err == nil {
				s.notifier.DeadlineApproaching(assignee.Email, "task", t.Title, daysLeft)
			}
		}

		var project models.Project
		if err := s.db.First(&project, t.ProjectID).Error; err != nil {
			continue
		}
		var owner models.User
		if err := s.db.First(&owner, project.FacultyID).Error; err == nil {
			s.notifier.DeadlineApproaching(owner.Email, "task", t.Title, daysLeft)
		}
	}

	logger.Infof("[Deadline] task sweep done, %d reminders window", len(tasks))
	return nil
}

func daysUntil(now, due time.Time) int {
	days := int(due.Sub(now).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days
}
