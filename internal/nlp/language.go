package nlp

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LanguageDetector guesses the language of article text
type LanguageDetector struct {
	detector lingua.LanguageDetector
}

// NewLanguageDetector builds a detector over the languages feeds commonly use
func NewLanguageDetector() *LanguageDetector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English, lingua.German, lingua.French, lingua.Spanish,
			lingua.Italian, lingua.Portuguese, lingua.Dutch, lingua.Chinese,
			lingua.Japanese, lingua.Korean,
		).
		WithLowAccuracyMode().
		Build()
	return &LanguageDetector{detector: detector}
}

// Detect returns the lower-case ISO 639-1 code, or "" when unsure
func (d *LanguageDetector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	language, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(language.IsoCode639_1().String())
}
