package models

// ConfigUserType is a user type offered during onboarding. ID is the value
// stored in profiles.user_type.
type ConfigUserType struct {
	ID           string `json:"id" db:"id" gorm:"primaryKey"`
	Label        string `json:"label" db:"label" gorm:"not null"`
	Description  string `json:"description" db:"description"`
	DisplayOrder int    `json:"display_order" db:"display_order" gorm:"index"`
	IsEnabled    bool   `json:"is_enabled" db:"is_enabled"`
}

// TableName sets the table name for the ConfigUserType model
func (ConfigUserType) TableName() string {
	return "config_user_types"
}

// ConfigContentPreference is a summary style offered during onboarding. ID is
// the value stored in content_preferences.summary_style.
type ConfigContentPreference struct {
	ID           string `json:"id" db:"id" gorm:"primaryKey"`
	Label        string `json:"label" db:"label" gorm:"not null"`
	Description  string `json:"description" db:"description"`
	DisplayOrder int    `json:"display_order" db:"display_order" gorm:"index"`
	IsEnabled    bool   `json:"is_enabled" db:"is_enabled"`
}

// TableName sets the table name for the ConfigContentPreference model
func (ConfigContentPreference) TableName() string {
	return "config_content_preferences"
}
