package insights

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	parseFailedSummary = "Failed to parse insights from the model response."
	emptyResultSummary = "Insights not available from the model response."
)

// ParseInsights decodes a model answer. Fields that are missing or of the
// wrong type keep their default value; keyword and tag lists are capped.
func ParseInsights(raw string) Insights {
	result := DefaultInsights()

	content := cleanJSONResponse(raw)
	if content == "" {
		log.Error().Msg("Empty model response")
		result.ExecutiveSummary = emptyResultSummary
		return result
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		log.Error().Err(err).Str("response", content).Msg("Error parsing model JSON response")
		result.ExecutiveSummary = parseFailedSummary
		return result
	}

	if s := stringField(fields, "executive_summary"); s != "" {
		result.ExecutiveSummary = s
	}
	if s := stringField(fields, "technical_summary"); s != "" {
		result.TechnicalSummary = s
	}
	if s := stringField(fields, "simple_summary"); s != "" {
		result.SimpleSummary = s
	}
	if list, ok := stringListField(fields, "extracted_keywords"); ok {
		result.ExtractedKeywords = capList(list, MaxKeywords)
	}
	if list, ok := stringListField(fields, "generated_tags"); ok {
		result.GeneratedTags = capList(list, MaxTags)
	}
	if raw, ok := fields["ai_relevance_score"]; ok {
		var score float64
		if err := json.Unmarshal(raw, &score); err == nil && !math.IsNaN(score) && score >= 0 && score <= 1 {
			result.RelevanceScore = score
		}
	}

	return result
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func stringListField(fields map[string]json.RawMessage, key string) ([]string, bool) {
	raw, ok := fields[key]
	if !ok {
		return nil, false
	}
	var items []interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out, true
}

func capList(list []string, max int) []string {
	if len(list) > max {
		return list[:max]
	}
	return list
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
