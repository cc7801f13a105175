package services

import (
	"errors"
	"net/http"
	"testing"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/response"
)

func appErrStatus(t *testing.T, err error) int {
	t.Helper()
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	return appErr.HTTPStatus
}

func TestSubmitCreatesPendingApplication(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)

	faculty := createUser(t, db, models.RoleFaculty, "Dr. Ada")
	student := createUser(t, db, models.RoleStudent, "Sam Lee", "Python")
	project := createProject(t, db, faculty.ID, models.ProjectStatusActive, 3)

	view, err := svc.Submit(student.ID, project.ID, &SubmitApplicationRequest{CoverLetter: "interested"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if view.Status != models.ApplicationStatusPending {
		t.Errorf("status = %q, want pending", view.Status)
	}
	if view.StudentName != "Sam Lee" {
		t.Errorf("StudentName = %q, want Sam Lee", view.StudentName)
	}
}

func TestSubmitToClosedProjectConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)

	faculty := createUser(t, db, models.RoleFaculty, "Dr. Ada")
	student := createUser(t, db, models.RoleStudent, "Sam Lee")
	project := createProject(t, db, faculty.ID, models.ProjectStatusClosed, 3)

	_, err := svc.Submit(student.ID, project.ID, &SubmitApplicationRequest{CoverLetter: "hi"})
	if got := appErrStatus(t, err); got != http.StatusConflict {
		t.Errorf("status = %d, want 409", got)
	}
}

func TestSubmitDuplicateConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)

	faculty := createUser(t, db, models.RoleFaculty, "Dr. Ada")
	student := createUser(t, db, models.RoleStudent, "Sam Lee")
	project := createProject(t, db, faculty.ID, models.ProjectStatusActive, 3)

	if _, err := svc.Submit(student.ID, project.ID, &SubmitApplicationRequest{CoverLetter: "hi"}); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	_, err := svc.Submit(student.ID, project.ID, &SubmitApplicationRequest{CoverLetter: "again"})
	if got := appErrStatus(t, err); got != http.StatusConflict {
		t.Errorf("status = %d, want 409", got)
	}
}

func TestSubmitBlockedAtActiveProjectCap(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)

	faculty := createUser(t, db, models.RoleFaculty, "Dr. Ada")
	student := createUser(t, db, models.RoleStudent, "Sam Lee")

	for i := 0; i < MaxActiveProjects; i++ {
		p := createProject(t, db, faculty.ID, models.ProjectStatusActive, 5)
		addMember(t, db, p.ID, student.ID)
	}

	target := createProject(t, db, faculty.ID, models.ProjectStatusActive, 5)
	_, err := svc.Submit(student.ID, target.ID, &SubmitApplicationRequest{CoverLetter: "one more"})
	if got := appErrStatus(t, err); got != http.StatusForbidden {
		t.Errorf("status = %d, want 403", got)
	}
}

func TestSubmitIgnoresDraftMembershipsForCap(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)

	faculty := createUser(t, db, models.RoleFaculty, "Dr. Ada")
	student := createUser(t, db, models.RoleStudent, "Sam Lee")

	// Draft and completed projects do not count against the cap.
	for _, status := range []string{models.ProjectStatusDraft, models.ProjectStatusCompleted, models.ProjectStatusClosed} {
		p := createProject(t, db, faculty.ID, status, 5)
		addMember(t, db, p.ID, student.ID)
	}

	target := createProject(t, db, faculty.ID, models.ProjectStatusActive, 5)
	if _, err := svc.Submit(student.ID, target.ID, &SubmitApplicationRequest{CoverLetter: "hi"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

func TestDecideAcceptCreatesMemberAndActivates(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)

	faculty := createUser(t, db, models.RoleFaculty, "Dr. Ada")
	student := createUser(t, db, models.RoleStudent, "Sam Lee")
	project := createProject(t, db, faculty.ID, models.ProjectStatusDraft, 2)

	view, err := svc.Submit(student.ID, project.ID, &SubmitApplicationRequest{CoverLetter: "hi"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	decided, err := svc.Decide(faculty.ID, view.ID, models.ApplicationStatusAccepted)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decided.Status != models.ApplicationStatusAccepted {
		t.Errorf("status = %q, want accepted", decided.Status)
	}

	var count int64
	db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND student_id = ?", project.ID, student.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("member count = %d, want 1", count)
	}
	if got := projectStatus(t, db, project.ID); got != models.ProjectStatusActive {
		t.Errorf("project status = %q, want active", got)
	}
}

func TestDecideAcceptKeepsActiveStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)

	faculty := createUser(t, db, models.RoleFaculty, "Dr. Ada")
	first := createUser(t, db, models.RoleStudent, "First")
	second := createUser(t, db, models.RoleStudent, "Second")
	project := createProject(t, db, faculty.ID, models.ProjectStatusDraft, 3)

	v1, _ := svc.Submit(first.ID, project.ID, &SubmitApplicationRequest{CoverLetter: "a"})
	v2, _ := svc.Submit(second.ID, project.ID, &SubmitApplicationRequest{CoverLetter: "b"})

	if _, err := svc.Decide(faculty.ID, v1.ID, models.ApplicationStatusAccepted); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	if _, err := svc.Decide(faculty.ID, v2.ID, models.ApplicationStatusAccepted); err != nil {
		t.Fatalf("second accept: %v", err)
	}
	if got := projectStatus(t, db, project.ID); got != models.ProjectStatusActive {
		t.Errorf("project status = %q, want active", got)
	}
}

func TestDecideAcceptAtProjectCapConflictsAndStaysPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)

	faculty := createUser(t, db, models.RoleFaculty, "Dr. Ada")
	first := createUser(t, db, models.RoleStudent, "First")
	second := createUser(t, db, models.RoleStudent, "Second")
	project := createProject(t, db, faculty.ID, models.ProjectStatusActive, 1)

	v1, _ := svc.Submit(first.ID, project.ID, &SubmitApplicationRequest{CoverLetter: "a"})
	v2, _ := svc.Submit(second.ID, project.ID, &SubmitApplicationRequest{CoverLetter: "b"})

	if _, err := svc.Decide(faculty.ID, v1.ID, models.ApplicationStatusAccepted); err != nil {
		t.Fatalf("first accept: %v", err)
	}

	_, err := svc.Decide(faculty.ID, v2.ID, models.ApplicationStatusAccepted)
	if got := appErrStatus(t, err); got != http.StatusConflict {
		t.Errorf("status = %d, want 409", got)
	}

	// The losing application remains pending for a later decision.
	var app models.Application
	db.First(&app, v2.ID)
	if app.Status != models.ApplicationStatusPending {
		t.Errorf("application status = %q, want pending", app.Status)
	}
	var count int64
	db.Model(&models.ProjectMember{}).Where("project_id = ?", project.ID).Count(&count)
	if count != 1 {
		t.Errorf("member count = %d, want 1", count)
	}
}

func TestDecideTwiceConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)

	faculty := createUser(t, db, models.RoleFaculty, "Dr. Ada")
	student := createUser(t, db, models.RoleStudent, "Sam Lee")
	project := createProject(t, db, faculty.ID, models.ProjectStatusActive, 3)

	view, _ := svc.Submit(student.ID, project.ID, &SubmitApplicationRequest{CoverLetter: "hi"})
	if _, err := svc.Decide(faculty.ID, view.ID, models.ApplicationStatusRejected); err != nil {
		t.Fatalf("first decision: %v", err)
	}
	_, err := svc.Decide(faculty.ID, view.ID, models.ApplicationStatusAccepted)
	if got := appErrStatus(t, err); got != http.StatusConflict {
		t.Errorf("status = %d, want 409", got)
	}
}

func TestDecideRequiresOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)

	faculty := createUser(t, db, models.RoleFaculty, "Dr. Ada")
	other := createUser(t, db, models.RoleFaculty, "Dr. Bob")
	student := createUser(t, db, models.RoleStudent, "Sam Lee")
	project := createProject(t, db, faculty.ID, models.ProjectStatusActive, 3)

	view, _ := svc.Submit(student.ID, project.ID, &SubmitApplicationRequest{CoverLetter: "hi"})
	_, err := svc.Decide(other.ID, view.ID, models.ApplicationStatusAccepted)
	if got := appErrStatus(t, err); got != http.StatusForbidden {
		t.Errorf("status = %d, want 403", got)
	}
}

func TestDecideRejectLeavesNoMembership(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)

	faculty := createUser(t, db, models.RoleFaculty, "Dr. Ada")
	student := createUser(t, db, models.RoleStudent, "Sam Lee")
	project := createProject(t, db, faculty.ID, models.ProjectStatusDraft, 3)

	view, _ := svc.Submit(student.ID, project.ID, &SubmitApplicationRequest{CoverLetter: "hi"})
	decided, err := svc.Decide(faculty.ID, view.ID, models.ApplicationStatusRejected)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if decided.Status != models.ApplicationStatusRejected {
		t.Errorf("status = %q, want rejected", decided.Status)
	}

	var count int64
	db.Model(&models.ProjectMember{}).Where("project_id = ?", project.ID).Count(&count)
	if count != 0 {
		t.Errorf("member count = %d, want 0", count)
	}
	if got := projectStatus(t, db, project.ID); got != models.ProjectStatusDraft {
		t.Errorf("project status = %q, want draft", got)
	}
}

func TestListForProjectOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)

	faculty := createUser(t, db, models.RoleFaculty, "Dr. Ada")
	other := createUser(t, db, models.RoleFaculty, "Dr. Bob")
	student := createUser(t, db, models.RoleStudent, "Sam Lee")
	project := createProject(t, db, faculty.ID, models.ProjectStatusActive, 3)

	svc.Submit(student.ID, project.ID, &SubmitApplicationRequest{CoverLetter: "hi"})

	if _, err := svc.ListForProject(other.ID, project.ID); err == nil {
		t.Fatal("expected Forbidden for non-owner")
	}
	views, err := svc.ListForProject(faculty.ID, project.ID)
	if err != nil {
		t.Fatalf("ListForProject: %v", err)
	}
	if len(views) != 1 {
		t.Errorf("len = %d, want 1", len(views))
	}
}

func TestListMineIncludesFacultyName(t *testing.T) {
	db := newTestDB(t)
	svc := NewApplicationService(db, nil)

	faculty := createUser(t, db, models.RoleFaculty, "Dr. Ada")
	student := createUser(t, db, models.RoleStudent, "Sam Lee")
	project := createProject(t, db, faculty.ID, models.ProjectStatusActive, 3)

	svc.Submit(student.ID, project.ID, &SubmitApplicationRequest{CoverLetter: "hi"})

	views, err := svc.ListMine(student.ID)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("len = %d, want 1", len(views))
	}
	if views[0].FacultyName != "Dr. Ada" {
		t.Errorf("FacultyName = %q, want Dr. Ada", views[0].FacultyName)
	}
	if views[0].ProjectTitle == "" {
		t.Error("ProjectTitle should be populated")
	}
}
