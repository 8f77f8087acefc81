// Package profiles manages per-user personalization settings.
package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-pulse/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrProfileExists is returned when a sign-up event repeats for a known user
	ErrProfileExists = errors.New("profile already exists")
	// ErrNotFound is returned when the user has no profile
	ErrNotFound = errors.New("profile not found")
	// ErrInvalidProfile is returned for unknown user types or summary styles
	ErrInvalidProfile = errors.New("invalid profile")
)

// Update holds the fields a user may change. Nil fields are left untouched.
type Update struct {
	UserType             *string  `json:"user_type"`
	AIInterests          []string `json:"ai_interests"`
	SummaryStyle         *string  `json:"summary_style"`
	ShowTechnicalDetails *bool    `json:"show_technical_details"`
}

// Service reads and writes profiles
type Service struct {
	db *gorm.DB
}

// NewService creates a profile service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get returns the profile of userID
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).First(&profile, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// CreateOnSignup creates an empty profile with a generated username.
// A repeated event for the same user returns ErrProfileExists.
func (s *Service) CreateOnSignup(ctx context.Context, userID uuid.UUID, email string) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidProfile)
	}

	profile := &models.Profile{
		ID:                 userID,
		Email:              strings.TrimSpace(email),
		Username:           GenerateUsername(userID),
		AIInterests:        models.StringList{},
		ContentPreferences: datatypes.NewJSONType(models.ContentPreferences{}),
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(profile)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to create profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrProfileExists
	}

	log.Info().Str("user_id", userID.String()).Str("username", profile.Username).Msg("Profile created")
	return profile, nil
}

// Options lists the enabled onboarding choices in display order
type Options struct {
	UserTypes          []models.ConfigUserType          `json:"user_types"`
	ContentPreferences []models.ConfigContentPreference `json:"content_preferences"`
}

// Options returns the enabled user types and summary styles
func (s *Service) Options(ctx context.Context) (*Options, error) {
	opts := &Options{
		UserTypes:          []models.ConfigUserType{},
		ContentPreferences: []models.ConfigContentPreference{},
	}
	db := s.db.WithContext(ctx)
	if err := db.Where("is_enabled = ?", true).Order("display_order, id").Find(&opts.UserTypes).Error; err != nil {
		return nil, fmt.Errorf("failed to load user types: %w", err)
	}
	if err := db.Where("is_enabled = ?", true).Order("display_order, id").Find(&opts.ContentPreferences).Error; err != nil {
		return nil, fmt.Errorf("failed to load content preferences: %w", err)
	}
	return opts, nil
}

// Update applies the user's onboarding or settings changes. User type and
// summary style must name an enabled catalog row; an empty value clears them.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, update Update) (*models.Profile, error) {
	var profile *models.Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Profile
		if err := tx.First(&current, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if update.UserType != nil {
			if err := requireEnabled(tx, &models.ConfigUserType{}, *update.UserType, "user type"); err != nil {
				return err
			}
			userType := *update.UserType
			current.UserType = &userType
		}
		if update.AIInterests != nil {
			current.AIInterests = normalizeInterests(update.AIInterests)
		}
		prefs := current.ContentPreferences.Data()
		if update.SummaryStyle != nil {
			if err := requireEnabled(tx, &models.ConfigContentPreference{}, *update.SummaryStyle, "summary style"); err != nil {
				return err
			}
			prefs.SummaryStyle = *update.SummaryStyle
		}
		if update.ShowTechnicalDetails != nil {
			prefs.ShowTechnicalDetails = *update.ShowTechnicalDetails
		}
		current.ContentPreferences = datatypes.NewJSONType(prefs)

		if err := tx.Save(&current).Error; err != nil {
			return err
		}
		profile = &current
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidProfile) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// GenerateUsername builds user_<first 8 of id>_<5 random chars>
func GenerateUsername(userID uuid.UUID) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
	return fmt.Sprintf("user_%s_%s", userID.String()[:8], suffix)
}

func normalizeInterests(interests []string) models.StringList {
	seen := make(map[string]bool, len(interests))
	out := make(models.StringList, 0, len(interests))
	for _, interest := range interests {
		interest = strings.TrimSpace(interest)
		key := strings.ToLower(interest)
		if interest == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, interest)
	}
	return out
}

func requireEnabled(tx *gorm.DB, catalog interface{}, value, kind string) error {
	if value == "" {
		return nil
	}
	var count int64
	if err := tx.Model(catalog).Where("id = ? AND is_enabled = ?", value, true).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: unknown %s %q", ErrInvalidProfile, kind, value)
	}
	return nil
}
