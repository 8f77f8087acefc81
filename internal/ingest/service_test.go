package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-pulse/internal/config"
	"ai-pulse/internal/models"
	"ai-pulse/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	return testutil.NewTestDB(t)
}

func newTestService(db *gorm.DB) *Service {
	return NewService(db, config.IngestConfig{RecencyMonths: 3, HTTPTimeout: 5 * time.Second, UserAgent: "ai-pulse-test"})
}

type rssItem struct {
	link  string
	title string
	date  time.Time
}

func rssDocument(items ...rssItem) string {
	body := `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>Test</title><link>https://example.com</link><description>test</description>`
	for _, item := range items {
		body += "<item>"
		body += fmt.Sprintf("<title>%s</title>", item.title)
		if item.link != "" {
			body += fmt.Sprintf("<link>%s</link>", item.link)
		}
		if !item.date.IsZero() {
			body += fmt.Sprintf("<pubDate>%s</pubDate>", item.date.Format(time.RFC1123Z))
		}
		body += "<description>&lt;p&gt;Some &lt;b&gt;model&lt;/b&gt; news&lt;/p&gt;</description>"
		body += "</item>"
	}
	return body + "</channel></rss>"
}

func serveXML(t *testing.T, body string) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"plain", "https://example.com/post", "https://example.com/post", true},
		{"strips tracking", "https://example.com/post?utm_source=x&id=3&fbclid=abc", "https://example.com/post?id=3", true},
		{"strips fragment", "https://Example.com/post#comments", "https://example.com/post", true},
		{"relative", "/post/1", "", false},
		{"ftp", "ftp://example.com/file", "", false},
		{"empty", "  ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeURL(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestService_Run_IngestsRecentEntriesOnce(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	server := serveXML(t, rssDocument(
		rssItem{link: "https://example.com/a?utm_source=rss", title: "A", date: now.Add(-time.Hour)},
		rssItem{link: "https://example.com/b", title: "B", date: now.AddDate(0, 0, -10)},
		rssItem{link: "https://example.com/old", title: "Old", date: now.AddDate(0, -4, 0)},
		rssItem{link: "https://example.com/undated", title: "Undated"},
		rssItem{link: "/relative", title: "Relative", date: now},
	))
	source := testutil.CreateSource(t, db, "Feed", server.URL, models.SourceTypeRSS)

	service := newTestService(db)

	result, err := service.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Ingested)
	assert.Equal(t, 1, result.SourcesProcessed)

	var articles []models.RawArticle
	require.NoError(t, db.Order("source_url").Find(&articles).Error)
	require.Len(t, articles, 2)
	assert.Equal(t, "https://example.com/a", articles[0].SourceURL)
	assert.Equal(t, "Some model news", articles[0].RawText)
	assert.Equal(t, models.StatusPendingProcessing, articles[0].Status)
	assert.Equal(t, source.ID, articles[0].SourceID)

	result, err = service.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Ingested)

	var count int64
	db.Model(&models.RawArticle{}).Count(&count)
	assert.Equal(t, int64(2), count)

	var stored models.Source
	require.NoError(t, db.First(&stored, "id = ?", source.ID).Error)
	require.NotNil(t, stored.LastFetchedAt)
	assert.WithinDuration(t, time.Now(), *stored.LastFetchedAt, time.Minute)
}

func TestService_Run_FailingSourceDoesNotStopOthers(t *testing.T) {
	db := setupTestDB(t)

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer broken.Close()
	good := serveXML(t, rssDocument(rssItem{link: "https://example.com/good", title: "Good", date: time.Now()}))

	testutil.CreateSource(t, db, "A broken", broken.URL, models.SourceTypeRSS)
	testutil.CreateSource(t, db, "B good", good.URL, models.SourceTypeRSS)

	result, err := newTestService(db).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Ingested)
	assert.Equal(t, 1, result.SourcesProcessed)
	assert.Equal(t, 1, result.SourcesFailed)
}

func TestService_Run_SkipsDisabledAndUnsupportedSources(t *testing.T) {
	db := setupTestDB(t)
	server := serveXML(t, rssDocument(rssItem{link: "https://example.com/x", title: "X", date: time.Now()}))

	disabled := &models.Source{Name: "Disabled", URL: server.URL, Type: models.SourceTypeRSS, Enabled: false}
	require.NoError(t, db.Create(disabled).Error)
	api := testutil.CreateSource(t, db, "API", "https://api.example.com", models.SourceTypeAPI)

	result, err := newTestService(db).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Ingested)
	assert.Equal(t, 1, result.SourcesSkipped)

	var stored models.Source
	require.NoError(t, db.First(&stored, "id = ?", api.ID).Error)
	assert.NotNil(t, stored.LastFetchedAt)
}

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, source *models.Source) ([]Entry, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Entry), args.Error(1)
}

func TestService_IngestSource_WithCustomFetcher(t *testing.T) {
	db := setupTestDB(t)
	source := testutil.CreateSource(t, db, "API", "https://api.example.com", models.SourceTypeAPI)

	published := time.Now().Add(-2 * time.Hour)
	fetcher := &MockFetcher{}
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return([]Entry{
		{URL: "https://example.com/1", Title: "One", Body: "text", Published: &published},
		{URL: "https://example.com/1", Title: "One again", Body: "text", Published: &published},
	}, nil).Once()

	service := newTestService(db)
	service.RegisterFetcher(models.SourceTypeAPI, fetcher)

	count, err := service.IngestSource(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	fetcher.AssertExpectations(t)
}

func TestService_IngestSource_FetchError(t *testing.T) {
	db := setupTestDB(t)
	source := testutil.CreateSource(t, db, "API", "https://api.example.com", models.SourceTypeAPI)

	fetcher := &MockFetcher{}
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return(nil, errors.New("unreachable"))

	service := newTestService(db)
	service.RegisterFetcher(models.SourceTypeAPI, fetcher)

	_, err := service.IngestSource(context.Background(), source)
	assert.Error(t, err)

	var stored models.Source
	require.NoError(t, db.First(&stored, "id = ?", source.ID).Error)
	assert.Nil(t, stored.LastFetchedAt)
}

func TestScrapeFetcher_Fetch(t *testing.T) {
	today := time.Now().UTC().Format("2006-01-02")
	page := fmt.Sprintf(`<html><body>
<article class="post"><h2><a href="/posts/one">First post</a></h2><p class="lede">About  agents</p><time datetime="%s">today</time></article>
<article class="post"><h2><a href="https://other.example.com/two">Second post</a></h2><time>not a date</time></article>
</body></html>`, today)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ai-pulse-test", r.Header.Get("User-Agent"))
		fmt.Fprint(w, page)
	}))
	defer server.Close()

	source := &models.Source{
		Name:   "Blog",
		URL:    server.URL + "/blog/",
		Type:   models.SourceTypeScrape,
		Config: datatypes.JSON(`{"item_selector":"article.post","title_selector":"h2","summary_selector":".lede","date_selector":"time"}`),
	}

	fetcher := NewScrapeFetcher(server.Client(), "ai-pulse-test")
	entries, err := fetcher.Fetch(context.Background(), source)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, server.URL+"/posts/one", entries[0].URL)
	assert.Equal(t, "First post", entries[0].Title)
	assert.Equal(t, "About agents", entries[0].Body)
	require.NotNil(t, entries[0].Published)
	assert.Equal(t, today, entries[0].Published.Format("2006-01-02"))

	assert.Equal(t, "https://other.example.com/two", entries[1].URL)
	assert.Nil(t, entries[1].Published)
}

func TestScrapeFetcher_MissingSelector(t *testing.T) {
	fetcher := NewScrapeFetcher(http.DefaultClient, "ai-pulse-test")
	_, err := fetcher.Fetch(context.Background(), &models.Source{Name: "Blog", URL: "https://example.com", Type: models.SourceTypeScrape})
	assert.Error(t, err)
}
