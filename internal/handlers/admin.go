package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"ai-pulse/internal/models"
	"ai-pulse/internal/pipeline"
	"ai-pulse/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobRunner triggers background jobs
type JobRunner interface {
	RunNow(name worker.JobName) error
}

// ArticleInspector exposes the processing state to operators
type ArticleInspector interface {
	FailedArticles(ctx context.Context, limit int) ([]models.RawArticle, error)
	Stats(ctx context.Context) (*pipeline.Stats, error)
	ProcessArticle(ctx context.Context, id uuid.UUID) (*models.ProcessedArticle, error)
}

// AdminHandler handles operator endpoints
type AdminHandler struct {
	db       *gorm.DB
	jobs     JobRunner
	articles ArticleInspector
	password string
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, jobs JobRunner, articles ArticleInspector, password string) *AdminHandler {
	return &AdminHandler{
		db:       db,
		jobs:     jobs,
		articles: articles,
		password: password,
	}
}

// AdminAuth middleware for basic password protection
func (h *AdminHandler) AdminAuth() gin.HandlerFunc {
	return gin.BasicAuth(gin.Accounts{
		"admin": h.password,
	})
}

// RunJob handles POST /admin/run/:job
func (h *AdminHandler) RunJob(c *gin.Context) {
	name := worker.JobName(c.Param("job"))

	err := h.jobs.RunNow(name)
	switch {
	case errors.Is(err, worker.ErrUnknownJob):
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown job", "details": err.Error()})
	case errors.Is(err, worker.ErrJobRunning):
		c.JSON(http.StatusConflict, gin.H{"error": "Job is already running"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start job", "details": err.Error()})
	default:
		c.JSON(http.StatusAccepted, gin.H{"message": "Job started", "job": name})
	}
}

// FailedArticles handles GET /admin/articles/failed
func (h *AdminHandler) FailedArticles(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit > 200 {
		limit = 200
	}

	articles, err := h.articles.FailedArticles(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load failed articles", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles, "count": len(articles)})
}

// ProcessArticle handles POST /admin/articles/:id/process
func (h *AdminHandler) ProcessArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID format"})
		return
	}

	processed, err := h.articles.ProcessArticle(c.Request.Context(), id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
	case errors.Is(err, pipeline.ErrNoExtractor):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Processing is not configured"})
	case errors.Is(err, models.ErrIllegalTransition), errors.Is(err, pipeline.ErrAlreadyClaimed):
		c.JSON(http.StatusConflict, gin.H{"error": "Article is not pending", "details": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Processing failed", "details": err.Error()})
	default:
		c.JSON(http.StatusOK, processed)
	}
}

// Stats handles GET /admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.articles.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats", "details": err.Error()})
		return
	}

	var sourceCount, enabledCount int64
	h.db.WithContext(c.Request.Context()).Model(&models.Source{}).Count(&sourceCount)
	h.db.WithContext(c.Request.Context()).Model(&models.Source{}).Where("is_enabled = ?", true).Count(&enabledCount)

	c.JSON(http.StatusOK, gin.H{
		"articles":        stats,
		"sources":         sourceCount,
		"enabled_sources": enabledCount,
	})
}

// Sources handles GET /admin/sources
func (h *AdminHandler) Sources(c *gin.Context) {
	var sources []models.Source
	if err := h.db.WithContext(c.Request.Context()).Order("name").Find(&sources).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sources", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sources": sources, "count": len(sources)})
}
