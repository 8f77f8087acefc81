package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User types with a summary affinity
const (
	UserTypeTechnical = "technical"
	UserTypeExecutive = "executive"
)

// Summary styles a profile can prefer. Brief and detailed are aliases.
const (
	SummaryStyleExecutive = "executive"
	SummaryStyleTechnical = "technical"
	SummaryStyleSimple    = "simple"
	SummaryStyleBrief     = "brief"
	SummaryStyleDetailed  = "detailed"
)

// ContentPreferences is stored as JSON on the profile
type ContentPreferences struct {
	SummaryStyle         string `json:"summary_style,omitempty"`
	ShowTechnicalDetails bool   `json:"show_technical_details,omitempty"`
}

// Profile is a user's personalization settings, keyed by the auth user id
type Profile struct {
	ID                 uuid.UUID                              `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Email              string                                 `json:"email,omitempty" db:"email"`
	Username           string                                 `json:"username" db:"username" gorm:"uniqueIndex"`
	UserType           *string                                `json:"user_type" db:"user_type"`
	AIInterests        StringList                             `json:"ai_interests" db:"ai_interests"`
	ContentPreferences datatypes.JSONType[ContentPreferences] `json:"content_preferences" db:"content_preferences"`
	CreatedAt          time.Time                              `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time                              `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}

// DefaultProfile is used when a user's profile cannot be loaded
func DefaultProfile(userID uuid.UUID) *Profile {
	return &Profile{
		ID:                 userID,
		AIInterests:        StringList{},
		ContentPreferences: datatypes.NewJSONType(ContentPreferences{SummaryStyle: SummaryStyleSimple}),
	}
}

// Type returns the user type, or "" when unset
func (p *Profile) Type() string {
	if p == nil || p.UserType == nil {
		return ""
	}
	return *p.UserType
}

// SummaryStyle returns the preferred summary style, or "" when unset
func (p *Profile) SummaryStyle() string {
	if p == nil {
		return ""
	}
	return p.ContentPreferences.Data().SummaryStyle
}
