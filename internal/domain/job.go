package domain

// ImportantDates groups the application window dates as scraped, verbatim.
// Both fields are free-form strings; listing pages publish dates in several
// formats and the corpus keeps whatever the page said.
type ImportantDates struct {
	StartDate string `json:"startDate,omitempty"`
	LastDate  string `json:"lastDate,omitempty"`
}

// JobRecord is a raw job posting from either the scraper or the aggregator
// API. Only Title and URL are guaranteed; everything else is optional and
// resolved by the normalizer with a fixed per-field precedence. Corpus
// records are immutable once written and deduplicated by URL.
type JobRecord struct {
	Title          string         `json:"title"`
	URL            string         `json:"url"`
	Organization   string         `json:"organization,omitempty"`
	ImportantDates ImportantDates `json:"importantDates"`
	ApplicationFee string         `json:"applicationFee,omitempty"`
	AgeLimit       string         `json:"ageLimit,omitempty"`
	Salary         string         `json:"salary,omitempty"`
	Eligibility    []string       `json:"eligibility"`
	Description    string         `json:"description"`
	ApplyLink      string         `json:"applyLink"`

	// Fields the aggregator API may supply directly; the scraper leaves
	// them empty and the normalizer falls back to heuristics or defaults.
	State            string `json:"state,omitempty"`
	Category         string `json:"category,omitempty"`
	Qualification    string `json:"qualification,omitempty"`
	Vacancies        string `json:"vacancies,omitempty"`
	ExamDate         string `json:"examDate,omitempty"`
	ResultDate       string `json:"resultDate,omitempty"`
	NotificationLink string `json:"notificationLink,omitempty"`
}
