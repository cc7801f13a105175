package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/campushub/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Project{},
		&models.Application{},
		&models.ProjectMember{},
		&models.Task{},
		&models.RefreshToken{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

var userSeq int

func createUser(t *testing.T, db *gorm.DB, role, name string, skills ...string) *models.User {
	t.Helper()
	userSeq++

	user := &models.User{
		Email:    fmt.Sprintf("user%d@campus.test", userSeq),
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	profile := &models.Profile{
		UserID:   user.ID,
		FullName: name,
		Email:    user.Email,
		Skills:   models.JoinSkills(skills),
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return user
}

func createProject(t *testing.T, db *gorm.DB, facultyID uint, status string, maxStudents int, skills ...string) *models.Project {
	t.Helper()

	project := &models.Project{
		Title:       fmt.Sprintf("Project %d", time.Now().UnixNano()),
		Description: "test project",
		Skills:      models.JoinSkills(skills),
		MaxStudents: maxStudents,
		FacultyID:   facultyID,
		Status:      status,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("create project: %v", err)
	}
	return project
}

func addMember(t *testing.T, db *gorm.DB, projectID, studentID uint) *models.ProjectMember {
	t.Helper()

	member := &models.ProjectMember{ProjectID: projectID, StudentID: studentID}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("add member: %v", err)
	}
	return member
}

func createTask(t *testing.T, db *gorm.DB, projectID uint, status string, assignedTo *uint) *models.Task {
	t.Helper()

	task := &models.Task{
		ProjectID:  projectID,
		Title:      fmt.Sprintf("Task %d", time.Now().UnixNano()),
		Status:     status,
		AssignedTo: assignedTo,
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func projectStatus(t *testing.T, db *gorm.DB, projectID uint) string {
	t.Helper()

	var project models.Project
	if err := db.First(&project, projectID).Error; err != nil {
		t.Fatalf("load project: %v", err)
	}
	return project.Status
}
