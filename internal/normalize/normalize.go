// Package normalize maps raw scraped job records into the fixed exam schema.
// Every mapping is a pure function of its input: normalizing the same record
// twice yields identical output, and ids are content-derived so they stay
// stable across refetches that return jobs in a different order.
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"examnova/internal/domain"
)

// Default literals used when neither the record nor a heuristic yields a value.
const (
	defaultTitle        = "Untitled Job"
	defaultOrganization = "Government"
	defaultState        = "Central"
	defaultVaries       = "Varies"
	defaultVacancies    = "Multiple"
	defaultDescription  = "No description available"
	defaultLink         = "#"
)

var vacancyExpr = regexp.MustCompile(`(?i)(\d+)\s*posts?\b`)

// organizationsByKeyword resolves the conducting body from title keywords.
// Checked in order; an explicit organization on the record always wins.
var organizationsByKeyword = []struct {
	keyword string
	name    string
}{
	{"upsc", "Union Public Service Commission"},
	{"staff selection", "Staff Selection Commission"},
	{"ssc", "Staff Selection Commission"},
	{"rrb", "Railway Recruitment Board"},
	{"railway", "Railway Recruitment Board"},
	{"ibps", "Institute of Banking Personnel Selection"},
}

var stateNames = []string{
	"Andhra Pradesh", "Assam", "Bihar", "Chhattisgarh", "Delhi", "Gujarat",
	"Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka", "Kerala",
	"Madhya Pradesh", "Maharashtra", "Odisha", "Punjab", "Rajasthan",
	"Tamil Nadu", "Telangana", "Uttar Pradesh", "Uttarakhand", "West Bengal",
}

// Exam converts a raw job record into the normalized exam schema.
// Resolution order per field: explicit value, then heuristic, then default.
func Exam(raw domain.JobRecord) domain.ExamRecord {
	title := firstNonEmpty(raw.Title, defaultTitle)
	organization := firstNonEmpty(raw.Organization, organizationFromTitle(title), defaultOrganization)
	deadline := raw.ImportantDates.LastDate

	category := domain.Category(raw.Category)
	if raw.Category == "" {
		category = CategoryFor(title)
	}

	return domain.ExamRecord{
		ID:                  StableID(organization, title, deadline),
		Title:               title,
		Organization:        organization,
		State:               firstNonEmpty(raw.State, stateFromTitle(title), defaultState),
		Category:            category,
		Qualification:       firstNonEmpty(raw.Qualification, qualificationFrom(raw.Eligibility)),
		ApplicationStart:    raw.ImportantDates.StartDate,
		ApplicationDeadline: deadline,
		ExamDate:            raw.ExamDate,
		ResultDate:          raw.ResultDate,
		ApplicationFee:      firstNonEmpty(raw.ApplicationFee, defaultVaries),
		AgeLimit:            firstNonEmpty(raw.AgeLimit, defaultVaries),
		Vacancies:           firstNonEmpty(raw.Vacancies, vacanciesFromTitle(title), defaultVacancies),
		Description:         firstNonEmpty(raw.Description, defaultDescription),
		NotificationLink:    firstNonEmpty(raw.NotificationLink, raw.URL, defaultLink),
		ApplicationLink:     firstNonEmpty(raw.ApplyLink, raw.URL, defaultLink),
		Status:              domain.StatusPublished,
	}
}

// Exams normalizes a whole corpus in order.
func Exams(raw []domain.JobRecord) []domain.ExamRecord {
	exams := make([]domain.ExamRecord, 0, len(raw))
	for _, job := range raw {
		exams = append(exams, Exam(job))
	}
	return exams
}

// StableID derives the exam key from content instead of slice position, so
// bookmarks and reminders survive refetches.
func StableID(organization, title, deadline string) string {
	sum := sha256.Sum256([]byte(organization + "\x00" + title + "\x00" + deadline))
	return "exam-" + hex.EncodeToString(sum[:])[:12]
}

// vacanciesFromTitle picks the post count from patterns like "500 Posts".
func vacanciesFromTitle(title string) string {
	if m := vacancyExpr.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return ""
}

// qualificationFrom collapses eligibility lines into one qualification level.
// "Post graduate" is checked before "graduate" since the latter is a substring.
func qualificationFrom(eligibility []string) string {
	if len(eligibility) == 0 {
		return defaultVaries
	}

	joined := strings.ToLower(strings.Join(eligibility, " "))
	switch {
	case strings.Contains(joined, "post graduate"), strings.Contains(joined, "postgraduate"):
		return "Post Graduate"
	case strings.Contains(joined, "graduate"):
		return "Graduate"
	case strings.Contains(joined, "12th"):
		return "12th Pass"
	case strings.Contains(joined, "10th"):
		return "10th Pass"
	}

	return eligibility[0]
}

func organizationFromTitle(title string) string {
	lower := strings.ToLower(title)
	for _, org := range organizationsByKeyword {
		if strings.Contains(lower, org.keyword) {
			return org.name
		}
	}
	return ""
}

func stateFromTitle(title string) string {
	lower := strings.ToLower(title)
	for _, state := range stateNames {
		if strings.Contains(lower, strings.ToLower(state)) {
			return state
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
