package insights

import "fmt"

const promptTemplate = `You are an AI assistant tasked with analyzing articles. For the following text:

1.  Generate a concise executive summary (target 2-3 sentences, max 75 words) focusing on strategic implications and key takeaways for a business leader.
2.  Generate a brief technical abstract (target 2-3 sentences, max 75 words) highlighting key methods, technologies, or findings for a technical audience.
3.  Explain this in simple terms (target 2-3 sentences, max 75 words) for a non-technical person, focusing on what it is and why it matters.
4.  Extract a list of 5 to 7 key AI-specific named entities, concepts, or technical terms that are central to this article. These should be suitable for use as keywords.
5.  On a scale of 0.0 to 1.0, how relevant and important is this article to a professional interested in strategic AI developments, new AI technologies, product launches, or significant AI research advancements? Provide only the score as a float (e.g., 0.7).
6.  Generate a list of 3 to 5 relevant category tags for this article (e.g., "Machine Learning", "AI Ethics", "Cloud Computing", "NLP", "Generative AI"). The tags should be broad enough for categorization.

Respond with valid JSON only, using the keys "executive_summary", "technical_summary", "simple_summary", "extracted_keywords", "ai_relevance_score", "generated_tags".
"extracted_keywords" and "generated_tags" are arrays of strings. "ai_relevance_score" is a number.

Text to analyze:
"""
%s
"""
`

const systemPrompt = "You analyze technology news articles and answer with JSON only."

func buildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}
