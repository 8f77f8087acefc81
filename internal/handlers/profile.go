package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"ai-pulse/internal/auth"
	"ai-pulse/internal/models"
	"ai-pulse/internal/profiles"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ProfileStore reads and writes profiles
type ProfileStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	CreateOnSignup(ctx context.Context, userID uuid.UUID, email string) (*models.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, update profiles.Update) (*models.Profile, error)
	Options(ctx context.Context) (*profiles.Options, error)
}

// SignupEvent is the payload of the identity provider's user-created hook
type SignupEvent struct {
	Type   string      `json:"type"`
	Table  string      `json:"table"`
	Schema string      `json:"schema"`
	Record *SignupUser `json:"record"`
}

// SignupUser is the created user in a SignupEvent
type SignupUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ProfileHandler handles profile reads, updates and the sign-up hook
type ProfileHandler struct {
	profiles   ProfileStore
	hookSecret string
}

// NewProfileHandler creates a profile handler. An empty hookSecret accepts
// every hook call.
func NewProfileHandler(store ProfileStore, hookSecret string) *ProfileHandler {
	return &ProfileHandler{profiles: store, hookSecret: hookSecret}
}

// SignupHook handles POST /api/hooks/signup
func (h *ProfileHandler) SignupHook(c *gin.Context) {
	if h.hookSecret != "" {
		given := c.GetHeader("X-Hook-Secret")
		if subtle.ConstantTimeCompare([]byte(given), []byte(h.hookSecret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid hook secret"})
			return
		}
	}

	var event SignupEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload", "details": err.Error()})
		return
	}
	if event.Type != "INSERT" || event.Record == nil || event.Record.ID == "" {
		log.Warn().Str("type", event.Type).Msg("Payload was not a user creation event")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload or not a user creation event"})
		return
	}

	userID, err := uuid.Parse(event.Record.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	profile, err := h.profiles.CreateOnSignup(c.Request.Context(), userID, event.Record.Email)
	switch {
	case errors.Is(err, profiles.ErrProfileExists):
		c.JSON(http.StatusOK, gin.H{"message": "Profile already exists", "userId": userID})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile", "details": err.Error()})
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "Profile created successfully", "userId": profile.ID})
	}
}

// GetOnboardingOptions handles GET /api/onboarding/options
func (h *ProfileHandler) GetOnboardingOptions(c *gin.Context) {
	opts, err := h.profiles.Options(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to load onboarding options")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load onboarding options"})
		return
	}
	c.JSON(http.StatusOK, opts)
}

// GetProfile handles GET /api/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := auth.UserIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User authentication required"})
		return
	}

	profile, err := h.profiles.Get(c.Request.Context(), userID)
	if errors.Is(err, profiles.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := auth.UserIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User authentication required"})
		return
	}

	var update profiles.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload", "details": err.Error()})
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), userID, update)
	switch {
	case errors.Is(err, profiles.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
	case errors.Is(err, profiles.ErrInvalidProfile):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile", "details": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile", "details": err.Error()})
	default:
		c.JSON(http.StatusOK, profile)
	}
}
