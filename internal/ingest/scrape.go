package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ai-pulse/internal/models"

	"github.com/PuerkitoBio/goquery"
)

// ScrapeConfig is the type-specific config of a SCRAPE source
type ScrapeConfig struct {
	ItemSelector    string `json:"item_selector"`
	LinkSelector    string `json:"link_selector"`
	TitleSelector   string `json:"title_selector"`
	SummarySelector string `json:"summary_selector"`
	DateSelector    string `json:"date_selector"`
	DateAttr        string `json:"date_attr"`
	DateLayout      string `json:"date_layout"`
}

var defaultDateLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ScrapeFetcher extracts entries from an HTML listing page with CSS selectors
type ScrapeFetcher struct {
	client    *http.Client
	userAgent string
}

// NewScrapeFetcher creates a scrape fetcher
func NewScrapeFetcher(client *http.Client, userAgent string) *ScrapeFetcher {
	return &ScrapeFetcher{client: client, userAgent: userAgent}
}

// Fetch downloads source.URL and applies the source's selectors
func (f *ScrapeFetcher) Fetch(ctx context.Context, source *models.Source) ([]Entry, error) {
	var cfg ScrapeConfig
	if len(source.Config) > 0 {
		if err := json.Unmarshal(source.Config, &cfg); err != nil {
			return nil, fmt.Errorf("invalid scrape config: %w", err)
		}
	}
	if cfg.ItemSelector == "" {
		return nil, fmt.Errorf("scrape config for %s has no item_selector", source.Name)
	}

	base, err := url.Parse(source.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid source url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	var entries []Entry
	doc.Find(cfg.ItemSelector).Each(func(_ int, item *goquery.Selection) {
		entries = append(entries, scrapeEntry(item, base, cfg))
	})
	return entries, nil
}

func scrapeEntry(item *goquery.Selection, base *url.URL, cfg ScrapeConfig) Entry {
	link := item
	if cfg.LinkSelector != "" {
		link = item.Find(cfg.LinkSelector).First()
	} else if !item.Is("a") {
		link = item.Find("a").First()
	}

	var entry Entry
	if href, ok := link.Attr("href"); ok {
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			entry.URL = base.ResolveReference(ref).String()
		}
	}

	if cfg.TitleSelector != "" {
		entry.Title = strings.TrimSpace(item.Find(cfg.TitleSelector).First().Text())
	} else {
		entry.Title = strings.TrimSpace(link.Text())
	}

	if cfg.SummarySelector != "" {
		entry.Body = strings.Join(strings.Fields(item.Find(cfg.SummarySelector).Text()), " ")
	}

	if cfg.DateSelector != "" {
		dateSel := item.Find(cfg.DateSelector).First()
		attr := cfg.DateAttr
		if attr == "" {
			attr = "datetime"
		}
		value, ok := dateSel.Attr(attr)
		if !ok {
			value = dateSel.Text()
		}
		entry.Published = parseDate(strings.TrimSpace(value), cfg.DateLayout)
	}

	return entry
}

func parseDate(value, layout string) *time.Time {
	if value == "" {
		return nil
	}
	layouts := defaultDateLayouts
	if layout != "" {
		layouts = []string{layout}
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, value); err == nil {
			return &t
		}
	}
	return nil
}
