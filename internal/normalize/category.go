package normalize

import (
	"strings"

	"examnova/internal/domain"
)

// categoryRules is scanned in order; the first keyword hit wins. Order
// matters: a title mentioning both UPSC and SSC resolves to UPSC.
var categoryRules = []struct {
	category domain.Category
	keywords []string
}{
	{domain.CategoryUPSC, []string{"upsc", "civil services"}},
	{domain.CategorySSC, []string{"ssc", "staff selection"}},
	{domain.CategoryRailway, []string{"railway", "rrb"}},
	{domain.CategoryBanking, []string{"bank", "ibps"}},
	{domain.CategoryPolice, []string{"police", "constable"}},
	{domain.CategoryDefense, []string{"army", "navy", "air force"}},
	{domain.CategoryStatePSC, []string{"psc", "public service"}},
}

// CategoryFor resolves the exam category from title keywords.
func CategoryFor(title string) domain.Category {
	lower := strings.ToLower(title)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.category
			}
		}
	}
	return domain.CategoryOther
}
