package domain

import (
	"fmt"
	"time"
)

// ReminderRecord is a user-scheduled notification about an exam deadline.
// Each user owns their reminder collection exclusively; at most one record
// per exam is active at a time (a new save replaces the old one).
type ReminderRecord struct {
	ID           string    `json:"id"`
	ExamID       string    `json:"examId"`
	ExamTitle    string    `json:"examTitle"`
	ReminderDate time.Time `json:"reminderDate"`
	Deadline     string    `json:"deadline"`
	Email        string    `json:"email,omitempty"`
	Notified     bool      `json:"notified"`
	EmailSent    bool      `json:"emailSent"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewReminderID composes the record key from the exam id and the creation
// instant, so repeated reminders on the same exam over time never collide.
func NewReminderID(examID string, createdAt time.Time) string {
	return fmt.Sprintf("%s_%d", examID, createdAt.UnixMilli())
}

// Due reports whether the reminder should fire at the given instant.
func (r ReminderRecord) Due(now time.Time) bool {
	return !r.ReminderDate.After(now) && !r.Notified
}
