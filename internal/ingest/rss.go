package ingest

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"ai-pulse/internal/models"
	"ai-pulse/internal/nlp"

	"github.com/mmcdole/gofeed"
)

// RSSFetcher reads RSS and Atom feeds
type RSSFetcher struct {
	client    *http.Client
	userAgent string
}

// NewRSSFetcher creates an RSS fetcher
func NewRSSFetcher(client *http.Client, userAgent string) *RSSFetcher {
	return &RSSFetcher{client: client, userAgent: userAgent}
}

// Fetch downloads and parses the feed at source.URL
func (f *RSSFetcher) Fetch(ctx context.Context, source *models.Source) ([]Entry, error) {
	parser := gofeed.NewParser()
	parser.Client = f.client
	parser.UserAgent = f.userAgent

	feed, err := parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", source.URL, err)
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		entries = append(entries, entryFromItem(item))
	}
	return entries, nil
}

func entryFromItem(item *gofeed.Item) Entry {
	entry := Entry{
		URL:   itemURL(item),
		Title: strings.TrimSpace(item.Title),
	}

	if item.PublishedParsed != nil {
		entry.Published = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		entry.Published = item.UpdatedParsed
	}

	body := item.Description
	if strings.TrimSpace(body) == "" {
		body = item.Content
	}
	entry.Body = nlp.HTMLToText(body)

	return entry
}

// itemURL prefers the first link and falls back to the GUID, which some
// feeds set to the article URL
func itemURL(item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}
	if len(item.Links) > 0 && item.Links[0] != "" {
		return item.Links[0]
	}
	return item.GUID
}
