package handlers

import (
	"context"
	"net/http"
	"strconv"

	"ai-pulse/internal/auth"
	"ai-pulse/internal/feeds"
	"ai-pulse/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FeedReader is the read side used by the public API
type FeedReader interface {
	PersonalizedFeed(ctx context.Context, userID uuid.UUID, limit int) (*feeds.FeedResponse, error)
	TrendingTopics(ctx context.Context) ([]models.TrendingTopic, error)
	OnboardingInterests(ctx context.Context) ([]models.OnboardingSuggestedInterest, error)
	Search(ctx context.Context, query string, limit int) ([]feeds.SearchResult, error)
}

// StatusReporter reports background worker state
type StatusReporter interface {
	GetStatus() map[string]interface{}
}

// FeedHandler handles HTTP requests for feeds
type FeedHandler struct {
	feeds   FeedReader
	workers StatusReporter
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(feedReader FeedReader, workers StatusReporter) *FeedHandler {
	return &FeedHandler{feeds: feedReader, workers: workers}
}

// GetPersonalizedFeed handles GET /api/feed
func (h *FeedHandler) GetPersonalizedFeed(c *gin.Context) {
	userID, ok := auth.UserIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User authentication required",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	feedResponse, err := h.feeds.PersonalizedFeed(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve personalized feed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, feedResponse)
}

// GetPulse handles GET /api/pulse
func (h *FeedHandler) GetPulse(c *gin.Context) {
	topics, err := h.feeds.TrendingTopics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve trending topics",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, topics)
}

// GetOnboardingInterests handles GET /api/onboarding/interests
func (h *FeedHandler) GetOnboardingInterests(c *gin.Context) {
	interests, err := h.feeds.OnboardingInterests(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve onboarding interests",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, interests)
}

// Search handles GET /api/search?q=
func (h *FeedHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Search query is required.",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	results, err := h.feeds.Search(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Search failed",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, results)
}

// HealthCheck handles GET /health
func (h *FeedHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ai-pulse",
	})
}

// WorkerStatus handles GET /api/worker/status
func (h *FeedHandler) WorkerStatus(c *gin.Context) {
	if h.workers == nil {
		c.JSON(http.StatusOK, gin.H{"worker_status": gin.H{"running": false}})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"worker_status": h.workers.GetStatus(),
	})
}
