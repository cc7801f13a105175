package services

import (
	"fmt"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/logger"
)

// Notifier sends workflow notifications. Every method is fire-and-forget:
// a delivery failure is logged and never surfaces to the caller, so the
// workflow that triggered it always completes normally.
type Notifier struct {
	queue NotifyQueue
}

func NewNotifier(queue NotifyQueue) *Notifier {
	return &Notifier{queue: queue}
}

func (n *Notifier) send(to, subject, body string) {
	if n == nil || n.queue == nil || to == "" {
		return
	}
	if err := n.queue.Enqueue(&EmailTask{To: to, Subject: subject, Body: body}); err != nil {
		logger.Warnf("[Notifier] enqueue failed for %s: %v", to, err)
	}
}

// ApplicationReceived tells a project owner about a new application.
func (n *Notifier) ApplicationReceived(owner *models.User, project *models.Project, applicantName string) {
	n.send(owner.Email,
		fmt.Sprintf("New application for %s", project.Title),
		fmt.Sprintf("%s has applied to your project \"%s\". Review the application in your dashboard.", applicantName, project.Title),
	)
}

// ApplicationAccepted tells a student they joined a project.
func (n *Notifier) ApplicationAccepted(student *models.User, project *models.Project) {
	n.send(student.Email,
		fmt.Sprintf("Application accepted: %s", project.Title),
		fmt.Sprintf("Congratulations! Your application to \"%s\" was accepted. You are now a member of the project.", project.Title),
	)
}

// ApplicationRejected tells a student their application was declined.
func (n *Notifier) ApplicationRejected(student *models.User, project *models.Project) {
	n.send(student.Email,
		fmt.Sprintf("Application update: %s", project.Title),
		fmt.Sprintf("Your application to \"%s\" was not accepted this time.", project.Title),
	)
}

// TaskAssigned tells a member a task has been assigned to them.
func (n *Notifier) TaskAssigned(assignee *models.User, project *models.Project, task *models.Task) {
	n.send(assignee.Email,
		fmt.Sprintf("New task in %s", project.Title),
		fmt.Sprintf("You have been assigned the task \"%s\" in project \"%s\".", task.Title, project.Title),
	)
}

// MemberRemoved tells a student they were removed from a project.
func (n *Notifier) MemberRemoved(student *models.User, project *models.Project) {
	n.send(student.Email,
		fmt.Sprintf("Removed from %s", project.Title),
		fmt.Sprintf("You have been removed from the project \"%s\".", project.Title),
	)
}

// DeadlineApproaching reminds a recipient about an upcoming deadline.
func (n *Notifier) DeadlineApproaching(email, kind, name string, daysLeft int) {
	plural := "days"
	if daysLeft == 1 {
		plural = "day"
	}
	n.send(email,
		fmt.Sprintf("Deadline approaching: %s", name),
		fmt.Sprintf("The %s \"%s\" is due in %d %s.", kind, name, daysLeft, plural),
	)
}
