package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"examnova/internal/config"
	"examnova/internal/domain"
)

const userAgent = "Mozilla/5.0"

var whitespaceExpr = regexp.MustCompile(`\s+`)

// applyLabels are anchor texts that mark the official application link.
var applyLabels = []string{"Apply Online", "Official Website", "Click Here"}

// Builder crawls the job index page, visits each posting, and extracts
// structured fields with label heuristics. One Build run is a full corpus
// replacement: a failed index fetch aborts the batch, a failed posting is
// logged and dropped.
type Builder struct {
	client           *http.Client
	logger           *slog.Logger
	baseURL          string
	maxLinks         int
	maxDetails       int
	descriptionLimit int
	delay            time.Duration
	sleep            func(time.Duration)
}

type link struct {
	title string
	url   string
}

// NewBuilder wires an HTTP client and the configured crawl bounds.
func NewBuilder(client *http.Client, cfg config.ScraperConfig, log *slog.Logger) *Builder {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Builder{
		client:           client,
		logger:           log,
		baseURL:          cfg.BaseURL,
		maxLinks:         cfg.MaxLinks,
		maxDetails:       cfg.MaxDetails,
		descriptionLimit: cfg.DescriptionLimit,
		delay:            cfg.FetchDelay(),
		sleep:            time.Sleep,
	}
}

// Build retrieves the index page and scrapes the bounded set of postings.
func (b *Builder) Build(ctx context.Context) ([]domain.JobRecord, error) {
	doc, err := b.fetchDocument(ctx, b.baseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch index: %w", err)
	}

	links := b.collectLinks(doc)
	b.debug("index scanned", "unique_links", len(links))

	limit := len(links)
	if limit > b.maxDetails {
		limit = b.maxDetails
	}

	results := make([]domain.JobRecord, 0, limit)
	for i := 0; i < limit; i++ {
		job, err := b.parseDetails(ctx, links[i])
		if err != nil {
			b.warn("posting skipped", "url", links[i].url, "error", err)
		} else {
			results = append(results, job)
		}

		// Fixed inter-request delay; the only rate limiting in the crawl.
		if i < limit-1 {
			b.sleep(b.delay)
		}
	}

	return results, nil
}

// collectLinks extracts heading anchors pointing back into the crawled site,
// deduplicates them by URL (last wins), and caps the set at maxLinks.
func (b *Builder) collectLinks(doc *goquery.Document) []link {
	host := hostOf(b.baseURL)

	var order []string
	byURL := map[string]link{}

	doc.Find("h3 a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		title := strings.TrimSpace(a.Text())
		if !ok || href == "" || title == "" {
			return
		}
		if host != "" && !strings.Contains(href, host) {
			return
		}
		if _, seen := byURL[href]; !seen {
			order = append(order, href)
		}
		byURL[href] = link{title: title, url: href}
	})

	links := make([]link, 0, len(order))
	for _, u := range order {
		links = append(links, byURL[u])
		if len(links) == b.maxLinks {
			break
		}
	}
	return links
}

// parseDetails fetches one posting and runs the field-extraction heuristics
// over its table rows and list items.
func (b *Builder) parseDetails(ctx context.Context, l link) (domain.JobRecord, error) {
	doc, err := b.fetchDocument(ctx, l.url)
	if err != nil {
		return domain.JobRecord{}, err
	}

	job := domain.JobRecord{
		Title:       l.title,
		URL:         l.url,
		Eligibility: []string{},
		ApplyLink:   l.url,
	}

	doc.Find("table tr, ul li, ol li").Each(func(_ int, row *goquery.Selection) {
		text := strings.TrimSpace(row.Text())
		lower := strings.ToLower(text)
		value := afterColon(text)

		switch {
		case strings.Contains(lower, "organization"), strings.Contains(lower, "conducting body"):
			job.Organization = value
		case strings.Contains(lower, "age limit"):
			job.AgeLimit = value
		case strings.Contains(lower, "application fee"):
			job.ApplicationFee = value
		case strings.Contains(lower, "salary"), strings.Contains(lower, "pay scale"):
			job.Salary = value
		case strings.Contains(lower, "qualification"), strings.Contains(lower, "eligibility"):
			if value != "" {
				job.Eligibility = append(job.Eligibility, value)
			}
		case strings.Contains(lower, "last date"), strings.Contains(lower, "closing date"):
			job.ImportantDates.LastDate = value
		case strings.Contains(lower, "start date"), strings.Contains(lower, "opening date"):
			job.ImportantDates.StartDate = value
		}
	})

	content := doc.Find("article, .entry-content, .post-content").First().Text()
	job.Description = truncate(whitespaceExpr.ReplaceAllString(strings.TrimSpace(content), " "), b.descriptionLimit)

	if apply := findApplyLink(doc); apply != "" {
		job.ApplyLink = apply
	}

	return job, nil
}

func (b *Builder) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

// findApplyLink returns the href of the first anchor whose text matches one
// of the known apply labels.
func findApplyLink(doc *goquery.Document) string {
	var apply string
	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		text := strings.TrimSpace(a.Text())
		for _, label := range applyLabels {
			if strings.EqualFold(text, label) {
				if href, ok := a.Attr("href"); ok && href != "" {
					apply = href
					return false
				}
			}
		}
		return true
	})
	return apply
}

// afterColon takes the value following the first colon of a label row.
func afterColon(text string) string {
	if _, value, found := strings.Cut(text, ":"); found {
		return strings.TrimSpace(value)
	}
	return ""
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func hostOf(base string) string {
	parsed, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

func (b *Builder) debug(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Debug(msg, args...)
	}
}

func (b *Builder) warn(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Warn(msg, args...)
	}
}
