package services

import (
	"testing"

	"github.com/campushub/backend/internal/models"
)

func TestFacultyDashboardAggregates(t *testing.T) {
	db := newTestDB(t)
	svc := NewDashboardService(db)

	faculty := createUser(t, db, models.RoleFaculty, "Dr. Ada")
	other := createUser(t, db, models.RoleFaculty, "Dr. Bob")
	student := createUser(t, db, models.RoleStudent, "Sam Lee")

	draft := createProject(t, db, faculty.ID, models.ProjectStatusDraft, 3)
	active := createProject(t, db, faculty.ID, models.ProjectStatusActive, 3)
	createProject(t, db, other.ID, models.ProjectStatusActive, 3)

	db.Create(&models.Application{ProjectID: draft.ID, StudentID: student.ID, Status: models.ApplicationStatusPending, CoverLetter: "x"})
	addMember(t, db, active.ID, student.ID)

	dash, err := svc.Faculty(faculty.ID)
	if err != nil {
		t.Fatalf("Faculty: %v", err)
	}
	if dash.TotalProjects != 2 {
		t.Errorf("TotalProjects = %d, want 2", dash.TotalProjects)
	}
	if dash.ProjectsByStatus[models.ProjectStatusDraft] != 1 ||
		dash.ProjectsByStatus[models.ProjectStatusActive] != 1 {
		t.Errorf("ProjectsByStatus = %v", dash.ProjectsByStatus)
	}
	if dash.PendingApplications != 1 {
		t.Errorf("PendingApplications = %d, want 1", dash.PendingApplications)
	}
	if dash.TotalMembers != 1 {
		t.Errorf("TotalMembers = %d, want 1", dash.TotalMembers)
	}
}

func TestStudentDashboardAggregates(t *testing.T) {
	db := newTestDB(t)
	svc := NewDashboardService(db)

	faculty := createUser(t, db, models.RoleFaculty, "Dr. Ada")
	student := createUser(t, db, models.RoleStudent, "Sam Lee")

	p1 := createProject(t, db, faculty.ID, models.ProjectStatusActive, 3)
	p2 := createProject(t, db, faculty.ID, models.ProjectStatusActive, 3)

	db.Create(&models.Application{ProjectID: p1.ID, StudentID: student.ID, Status: models.ApplicationStatusAccepted, CoverLetter: "x"})
	db.Create(&models.Application{ProjectID: p2.ID, StudentID: student.ID, Status: models.ApplicationStatusPending, CoverLetter: "y"})
	addMember(t, db, p1.ID, student.ID)
	createTask(t, db, p1.ID, models.TaskStatusCompleted, &student.ID)
	createTask(t, db, p1.ID, models.TaskStatusTodo, &student.ID)

	dash, err := svc.Student(student.ID)
	if err != nil {
		t.Fatalf("Student: %v", err)
	}
	if dash.ApplicationsSubmitted != 2 {
		t.Errorf("ApplicationsSubmitted = %d, want 2", dash.ApplicationsSubmitted)
	}
	if dash.ApplicationsPending != 1 {
		t.Errorf("ApplicationsPending = %d, want 1", dash.ApplicationsPending)
	}
	if dash.ProjectsJoined != 1 {
		t.Errorf("ProjectsJoined = %d, want 1", dash.ProjectsJoined)
	}
	if dash.TasksAssigned != 2 || dash.TasksCompleted != 1 {
		t.Errorf("tasks = (%d, %d), want (2, 1)", dash.TasksAssigned, dash.TasksCompleted)
	}
}
