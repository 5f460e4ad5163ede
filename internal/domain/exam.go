package domain

import "time"

// Category buckets an exam by the conducting body inferred from its title.
type Category string

const (
	CategoryUPSC     Category = "UPSC"
	CategorySSC      Category = "SSC"
	CategoryRailway  Category = "Railway"
	CategoryBanking  Category = "Banking"
	CategoryPolice   Category = "Police"
	CategoryDefense  Category = "Defense"
	CategoryStatePSC Category = "State PSC"
	CategoryOther    Category = "Other"
)

// ExamStatus tracks the publication lifecycle of an exam entry.
type ExamStatus string

const (
	StatusDraft     ExamStatus = "draft"
	StatusPublished ExamStatus = "published"
	StatusArchived  ExamStatus = "archived"
)

// ExamRecord is the normalized exam schema every raw job maps into.
// ID is a content-derived key (organization+title+deadline hash) so that
// bookmarks and reminders stay valid across refetches that reorder results.
type ExamRecord struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Organization        string     `json:"organization"`
	State               string     `json:"state"`
	Category            Category   `json:"category"`
	Qualification       string     `json:"qualification"`
	ApplicationStart    string     `json:"applicationStart"`
	ApplicationDeadline string     `json:"applicationDeadline"`
	ExamDate            string     `json:"examDate"`
	ResultDate          string     `json:"resultDate"`
	ApplicationFee      string     `json:"applicationFee"`
	AgeLimit            string     `json:"ageLimit"`
	Vacancies           string     `json:"vacancies"`
	Description         string     `json:"description"`
	NotificationLink    string     `json:"notificationLink"`
	ApplicationLink     string     `json:"applicationLink"`
	Status              ExamStatus `json:"status"`
	CreatedAt           time.Time  `json:"createdAt"`
	Views               int        `json:"views"`
}
