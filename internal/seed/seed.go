// Package seed loads starter sources, trend config and onboarding catalogs
// into the database.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"ai-pulse/internal/models"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Data is the seed file layout
type Data struct {
	Sources      []SourceSeed      `yaml:"sources"`
	Synonyms     map[string]string `yaml:"synonyms"`
	GenericTerms []string          `yaml:"genericTerms"`

	UserTypes          []CatalogSeed `yaml:"userTypes"`
	ContentPreferences []CatalogSeed `yaml:"contentPreferences"`
}

// CatalogSeed is one onboarding choice. Display order follows list position.
type CatalogSeed struct {
	ID          string `yaml:"id"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
	Disabled    bool   `yaml:"disabled"`
}

// SourceSeed describes one source to create
type SourceSeed struct {
	Name        string                 `yaml:"name"`
	URL         string                 `yaml:"url"`
	Type        models.SourceType      `yaml:"type"`
	Credibility *float64               `yaml:"credibility"`
	Disabled    bool                   `yaml:"disabled"`
	Config      map[string]interface{} `yaml:"config"`
}

// Result counts rows created by Apply. Existing rows are left as they are.
type Result struct {
	Sources      int
	Synonyms     int
	GenericTerms int

	UserTypes          int
	ContentPreferences int
}

func credibility(v float64) *float64 { return &v }

// Defaults returns a small starter set of AI news sources
func Defaults() *Data {
	return &Data{
		Sources: []SourceSeed{
			{Name: "OpenAI News", URL: "https://openai.com/news/rss.xml", Type: models.SourceTypeRSS, Credibility: credibility(0.9)},
			{Name: "Google AI Blog", URL: "https://blog.google/technology/ai/rss/", Type: models.SourceTypeRSS, Credibility: credibility(0.9)},
			{Name: "Hugging Face Blog", URL: "https://huggingface.co/blog/feed.xml", Type: models.SourceTypeRSS, Credibility: credibility(0.85)},
			{Name: "MIT Technology Review AI", URL: "https://www.technologyreview.com/topic/artificial-intelligence/feed", Type: models.SourceTypeRSS, Credibility: credibility(0.8)},
			{Name: "arXiv cs.CL", URL: "http://export.arxiv.org/rss/cs.CL", Type: models.SourceTypeRSS, Credibility: credibility(0.75)},
			{Name: "The Gradient", URL: "https://thegradient.pub/rss/", Type: models.SourceTypeRSS},
		},
		Synonyms: map[string]string{
			"genai":                          "generative ai",
			"gen ai":                         "generative ai",
			"llm":                            "large language models",
			"llms":                           "large language models",
			"large language model":           "large language models",
			"ml":                             "machine learning",
			"rag":                            "retrieval augmented generation",
			"retrieval-augmented generation": "retrieval augmented generation",
		},
		GenericTerms: []string{"ai", "artificial intelligence", "technology", "tech", "news", "research"},
		UserTypes: []CatalogSeed{
			{ID: models.UserTypeTechnical, Label: "Technical", Description: "Engineers and practitioners building with AI"},
			{ID: models.UserTypeExecutive, Label: "Executive", Description: "Leaders tracking business impact"},
			{ID: "researcher", Label: "Researcher", Description: "Following papers, benchmarks and methods"},
			{ID: "enthusiast", Label: "Enthusiast", Description: "Curious about what is new in AI"},
			{ID: "student", Label: "Student", Description: "Learning the field"},
		},
		ContentPreferences: []CatalogSeed{
			{ID: models.SummaryStyleExecutive, Label: "Executive", Description: "Business impact in a few sentences"},
			{ID: models.SummaryStyleTechnical, Label: "Technical", Description: "Methods, results and implementation details"},
			{ID: models.SummaryStyleSimple, Label: "Simple", Description: "Plain language without jargon"},
			{ID: models.SummaryStyleBrief, Label: "Brief", Description: "The short version"},
			{ID: models.SummaryStyleDetailed, Label: "Detailed", Description: "The full technical summary"},
		},
	}
}

// Load reads seed data from a YAML file
func Load(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return &data, nil
}

// Apply inserts what is missing. Sources match on URL; synonyms and generic
// terms match on their lower-cased text; catalog rows match on id.
func Apply(ctx context.Context, db *gorm.DB, data *Data) (*Result, error) {
	result := &Result{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range data.Sources {
			created, err := seedSource(tx, s)
			if err != nil {
				return err
			}
			if created {
				result.Sources++
			}
		}

		for synonym, canonical := range data.Synonyms {
			row := models.ConfigSynonym{
				Synonym:       strings.ToLower(strings.TrimSpace(synonym)),
				CanonicalTerm: strings.ToLower(strings.TrimSpace(canonical)),
				IsEnabled:     true,
			}
			res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "synonym"}}, DoNothing: true}).Create(&row)
			if res.Error != nil {
				return fmt.Errorf("failed to seed synonym %q: %w", synonym, res.Error)
			}
			result.Synonyms += int(res.RowsAffected)
		}

		for _, term := range data.GenericTerms {
			row := models.ConfigGenericTerm{Term: strings.ToLower(strings.TrimSpace(term)), IsEnabled: true}
			res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "term"}}, DoNothing: true}).Create(&row)
			if res.Error != nil {
				return fmt.Errorf("failed to seed generic term %q: %w", term, res.Error)
			}
			result.GenericTerms += int(res.RowsAffected)
		}

		for i, c := range data.UserTypes {
			if c.ID == "" {
				return fmt.Errorf("user type seed needs an id")
			}
			row := models.ConfigUserType{ID: c.ID, Label: label(c), Description: c.Description, DisplayOrder: i + 1, IsEnabled: !c.Disabled}
			res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).Create(&row)
			if res.Error != nil {
				return fmt.Errorf("failed to seed user type %q: %w", c.ID, res.Error)
			}
			result.UserTypes += int(res.RowsAffected)
		}

		for i, c := range data.ContentPreferences {
			if c.ID == "" {
				return fmt.Errorf("content preference seed needs an id")
			}
			row := models.ConfigContentPreference{ID: c.ID, Label: label(c), Description: c.Description, DisplayOrder: i + 1, IsEnabled: !c.Disabled}
			res := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).Create(&row)
			if res.Error != nil {
				return fmt.Errorf("failed to seed content preference %q: %w", c.ID, res.Error)
			}
			result.ContentPreferences += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("sources", result.Sources).
		Int("synonyms", result.Synonyms).
		Int("generic_terms", result.GenericTerms).
		Int("user_types", result.UserTypes).
		Int("content_preferences", result.ContentPreferences).
		Msg("🌱 Seed data applied")
	return result, nil
}

func label(c CatalogSeed) string {
	if c.Label != "" {
		return c.Label
	}
	return c.ID
}

func seedSource(tx *gorm.DB, s SourceSeed) (bool, error) {
	if s.Name == "" || s.URL == "" {
		return false, fmt.Errorf("source seed needs a name and url")
	}
	sourceType := models.SourceType(strings.ToUpper(string(s.Type)))
	if sourceType == "" {
		sourceType = models.SourceTypeRSS
	}

	var count int64
	if err := tx.Model(&models.Source{}).Where("url = ?", s.URL).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		log.Debug().Str("source", s.Name).Msg("Source already exists")
		return false, nil
	}

	source := models.Source{
		Name:             s.Name,
		URL:              s.URL,
		Type:             sourceType,
		Enabled:          !s.Disabled,
		CredibilityScore: s.Credibility,
	}
	if len(s.Config) > 0 {
		raw, err := json.Marshal(s.Config)
		if err != nil {
			return false, fmt.Errorf("invalid config for source %s: %w", s.Name, err)
		}
		source.Config = datatypes.JSON(raw)
	}
	if err := tx.Create(&source).Error; err != nil {
		return false, fmt.Errorf("failed to seed source %s: %w", s.Name, err)
	}
	log.Info().Str("source", s.Name).Str("type", string(sourceType)).Msg("✅ Created source")
	return true, nil
}
