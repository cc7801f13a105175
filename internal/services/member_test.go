package services

import (
	"net/http"
	"testing"

	"github.com/campushub/backend/internal/models"
)

func TestListMembersIncludesTaskTallies(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db, nil)

	faculty := createUser(t, db, models.RoleFaculty, "Dr. Ada")
	student := createUser(t, db, models.RoleStudent, "Sam Lee", "Python")
	project := createProject(t, db, faculty.ID, models.ProjectStatusActive, 3)
	addMember(t, db, project.ID, student.ID)
	createTask(t, db, project.ID, models.TaskStatusCompleted, &student.ID)
	createTask(t, db, project.ID, models.TaskStatusTodo, &student.ID)
	createTask(t, db, project.ID, models.TaskStatusTodo, nil)

	views, err := svc.List(faculty.ID, models.RoleFaculty, project.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("len = %d, want 1", len(views))
	}
	m := views[0]
	if m.StudentName != "Sam Lee" || m.Skills != "Python" {
		t.Errorf("enrichment = (%q, %q), want (Sam Lee, Python)", m.StudentName, m.Skills)
	}
	if m.TasksAssigned != 2 || m.TasksCompleted != 1 {
		t.Errorf("tallies = (%d, %d), want (2, 1)", m.TasksAssigned, m.TasksCompleted)
	}
}

func TestListMembersVisibleToMembersOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db, nil)

	faculty := createUser(t, db, models.RoleFaculty, "Dr. Ada")
	member := createUser(t, db, models.RoleStudent, "Sam Lee")
	outsider := createUser(t, db, models.RoleStudent, "Nobody")
	project := createProject(t, db, faculty.ID, models.ProjectStatusActive, 3)
	addMember(t, db, project.ID, member.ID)

	if _, err := svc.List(member.ID, models.RoleStudent, project.ID); err != nil {
		t.Fatalf("member List: %v", err)
	}
	_, err := svc.List(outsider.ID, models.RoleStudent, project.ID)
	if got := appErrStatus(t, err); got != http.StatusForbidden {
		t.Errorf("status = %d, want 403", got)
	}
}

func TestRemoveClearsTaskAssignments(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db, nil)

	faculty := createUser(t, db, models.RoleFaculty, "Dr. Ada")
	student := createUser(t, db, models.RoleStudent, "Sam Lee")
	project := createProject(t, db, faculty.ID, models.ProjectStatusActive, 3)
	other := createProject(t, db, faculty.ID, models.ProjectStatusActive, 3)
	addMember(t, db, project.ID, student.ID)
	addMember(t, db, other.ID, student.ID)
	createTask(t, db, project.ID, models.TaskStatusTodo, &student.ID)
	kept := createTask(t, db, other.ID, models.TaskStatusTodo, &student.ID)

	if err := svc.Remove(faculty.ID, project.ID, student.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	var dangling int64
	db.Model(&models.Task{}).
		Where("project_id = ? AND assigned_to = ?", project.ID, student.ID).
		Count(&dangling)
	if dangling != 0 {
		t.Errorf("dangling assignments = %d, want 0", dangling)
	}

	// Assignments in other projects are untouched.
	var task models.Task
	db.First(&task, kept.ID)
	if task.AssignedTo == nil || *task.AssignedTo != student.ID {
		t.Error("assignment in the other project should survive")
	}

	var members int64
	db.Model(&models.ProjectMember{}).Where("project_id = ?", project.ID).Count(&members)
	if members != 0 {
		t.Errorf("members = %d, want 0", members)
	}
}

func TestRemoveRequiresOwnerAndMembership(t *testing.T) {
	db := newTestDB(t)
	svc := NewMemberService(db, nil)

	faculty := createUser(t, db, models.RoleFaculty, "Dr. Ada")
	other := createUser(t, db, models.RoleFaculty, "Dr. Bob")
	member := createUser(t, db, models.RoleStudent, "Sam Lee")
	outsider := createUser(t, db, models.RoleStudent, "Nobody")
	project := createProject(t, db, faculty.ID, models.ProjectStatusActive, 3)
	addMember(t, db, project.ID, member.ID)

	err := svc.Remove(other.ID, project.ID, member.ID)
	if got := appErrStatus(t, err); got != http.StatusForbidden {
		t.Errorf("non-owner status = %d, want 403", got)
	}

	err = svc.Remove(faculty.ID, project.ID, outsider.ID)
	if got := appErrStatus(t, err); got != http.StatusBadRequest {
		t.Errorf("non-member status = %d, want 400", got)
	}
}
