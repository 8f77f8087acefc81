package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestArticleStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to ArticleStatus
		allowed  bool
	}{
		{StatusPendingProcessing, StatusProcessing, true},
		{StatusProcessing, StatusProcessed, true},
		{StatusProcessing, StatusFailed, true},
		{StatusPendingProcessing, StatusProcessed, false},
		{StatusPendingProcessing, StatusFailed, false},
		{StatusProcessing, StatusPendingProcessing, false},
		{StatusFailed, StatusPendingProcessing, false},
		{StatusFailed, StatusProcessing, false},
		{StatusProcessed, StatusProcessing, false},
		{StatusProcessed, StatusFailed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))

			err := ValidateTransition(tt.from, tt.to)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrIllegalTransition))
			}
		})
	}
}

func TestArticleStatus_Valid(t *testing.T) {
	assert.True(t, StatusFailed.Valid())
	assert.False(t, ArticleStatus("archived").Valid())
	assert.True(t, StatusProcessed.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusProcessing.Terminal())
}

func TestSource_Credibility(t *testing.T) {
	var missing *Source
	assert.Equal(t, DefaultSourceCredibility, missing.Credibility())
	assert.Equal(t, DefaultSourceCredibility, (&Source{}).Credibility())

	score := 0.9
	assert.Equal(t, 0.9, (&Source{CredibilityScore: &score}).Credibility())
}

func TestRawArticle_AnalysisText(t *testing.T) {
	assert.Equal(t, "body", (&RawArticle{Title: "title", RawText: "body"}).AnalysisText())
	assert.Equal(t, "title", (&RawArticle{Title: "title"}).AnalysisText())
}

func TestStringList_RoundTrip(t *testing.T) {
	in := StringList{"Generative AI", "nlp"}
	v, err := in.Value()
	assert.NoError(t, err)

	var out StringList
	assert.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
	assert.Equal(t, []string{"generative ai", "nlp"}, out.Lower())
}

func TestDefaultProfile(t *testing.T) {
	id := uuid.New()
	p := DefaultProfile(id)

	assert.Equal(t, id, p.ID)
	assert.Empty(t, p.AIInterests)
	assert.Equal(t, SummaryStyleSimple, p.SummaryStyle())
	assert.Equal(t, "", p.Type())
}
