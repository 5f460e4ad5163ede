package reminder

import "time"

// Suggestion is a proposed reminder instant relative to a deadline.
type Suggestion struct {
	Label string
	Date  time.Time
}

// deadlineLayouts are the date formats listing pages and the aggregator use.
var deadlineLayouts = []string{
	"2006-01-02",
	"02 Jan 2006",
	"2 Jan 2006",
	"02/01/2006",
	time.RFC3339,
}

// SuggestedDates proposes reminder times one week, three days, and one day
// before the deadline, each at 09:00, keeping only instants still in the
// future. An unparseable deadline yields no suggestions.
func SuggestedDates(deadline string, now time.Time) []Suggestion {
	due, ok := parseDeadline(deadline, now.Location())
	if !ok {
		return nil
	}

	offsets := []struct {
		label string
		days  int
	}{
		{"1 week before", 7},
		{"3 days before", 3},
		{"1 day before", 1},
	}

	var suggestions []Suggestion
	for _, o := range offsets {
		day := due.AddDate(0, 0, -o.days)
		at := time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, day.Location())
		if at.After(now) {
			suggestions = append(suggestions, Suggestion{Label: o.label, Date: at})
		}
	}

	return suggestions
}

func parseDeadline(deadline string, loc *time.Location) (time.Time, bool) {
	if deadline == "" {
		return time.Time{}, false
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, deadline, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
