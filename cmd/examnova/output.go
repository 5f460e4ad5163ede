package main

import (
	"fmt"
	"time"

	"examnova/internal/domain"
	"examnova/internal/reminder"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorDim    = "\033[2m"
)

func printSuccess(format string, args ...any) {
	fmt.Printf(colorGreen+"✓ "+colorReset+format+"\n", args...)
}

func printInfo(format string, args ...any) {
	fmt.Printf(colorCyan+"• "+colorReset+format+"\n", args...)
}

func printExam(e domain.ExamRecord) {
	fmt.Printf("%s%s%s  %s[%s]%s\n", colorCyan, e.Title, colorReset, colorYellow, e.Category, colorReset)
	fmt.Printf("  %s%s · %s · closes %s · %s posts%s\n",
		colorDim, e.Organization, e.State, e.ApplicationDeadline, e.Vacancies, colorReset)
	fmt.Printf("  %sid %s · apply %s%s\n", colorDim, e.ID, e.ApplicationLink, colorReset)
}

func printReminder(r domain.ReminderRecord) {
	status := "pending"
	if r.Notified {
		status = "notified"
	}
	if r.EmailSent {
		status += ", emailed"
	}
	fmt.Printf("%s%s%s  %s\n", colorCyan, r.ExamTitle, colorReset, r.ReminderDate.Format(time.RFC1123))
	fmt.Printf("  %sid %s · deadline %s · %s%s\n", colorDim, r.ID, r.Deadline, status, colorReset)
}

var beforeLabels = map[string]string{
	"1w": "1 week before",
	"3d": "3 days before",
	"1d": "1 day before",
}

var dateLayouts = []string{
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02",
}

// resolveReminderDate turns the set-command flags into a concrete instant:
// either an explicit --date, or a suggested offset from --deadline.
func resolveReminderDate(date, deadline, before string) (time.Time, error) {
	if date != "" {
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, date, time.Local); err == nil {
				if layout == "2006-01-02" {
					t = t.Add(9 * time.Hour)
				}
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("cannot parse date %q", date)
	}

	if before == "" || deadline == "" {
		return time.Time{}, fmt.Errorf("provide --date, or --deadline together with --before")
	}

	label, ok := beforeLabels[before]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown offset %q, use 1w, 3d or 1d", before)
	}

	for _, s := range reminder.SuggestedDates(deadline, time.Now()) {
		if s.Label == label {
			return s.Date, nil
		}
	}

	return time.Time{}, fmt.Errorf("offset %s from deadline %q is already in the past", before, deadline)
}
