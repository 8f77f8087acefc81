package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text", "  OpenAI   released\na model ", "OpenAI released a model"},
		{"paragraphs", "<p>First paragraph.</p><p>Second <b>bold</b> one.</p>", "First paragraph. Second bold one."},
		{"script dropped", "<div>Visible<script>var x = 1;</script></div>", "Visible"},
		{"entities", "Tom &amp; Jerry", "Tom & Jerry"},
		{"empty", "", ""},
		{"inline markup keeps words whole", "<b>Open</b>AI ships <a href=\"/x\">G</a><i>PT</i> updates", "OpenAI ships GPT updates"},
		{"line break separates", "first line<br>second line", "first line second line"},
		{"list items separate", "<ul><li>one</li><li>two</li></ul>", "one two"},
		{"table cells separate", "<table><tr><td>a</td><td>b</td></tr></table>", "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTMLToText(tt.input))
		})
	}
}

func TestLemmatizer(t *testing.T) {
	l, err := NewLemmatizer()
	require.NoError(t, err)

	tests := []struct {
		input    string
		expected string
	}{
		{"Models", "model"},
		{"Large Language Models", "large language model"},
		{"  Generative   AI ", "generative ai"},
		{"AI", "ai"},
		{"ML", "ml"},
		{"RAG", "rag"},
		{"GPU", "gpu"},
		{"OpenAI", "openai"},
		{"data", "data"},
		{"Synthetic Data", "synthetic data"},
		{"social media", "social media"},
		{"AI news", "ai news"},
		{"Robotics", "robotics"},
		{"AI Ethics", "ai ethics"},
		{"Chain-of-Thought Reasoning", "chain-of-thought reasoning"},
		{"Model Training", "model training"},
		{"Benchmarks", "benchmark"},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, l.Lemma(tt.input))
		})
	}
}

func TestLanguageDetector(t *testing.T) {
	d := NewLanguageDetector()

	assert.Equal(t, "en", d.Detect("The company released a new language model that outperforms previous systems on reasoning benchmarks."))
	assert.Equal(t, "", d.Detect("   "))
}
