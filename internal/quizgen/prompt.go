package quizgen

import "fmt"

const quizPromptTemplate = `
You are a quiz generator. Return STRICT JSON ONLY. No prose.
Schema:
{
  "topic": string,
  "questions": [
    {
      "id": string,
      "question": string,
      "options": [string, string, string, string],
      "correctIndex": 0 | 1 | 2 | 3
    },
    ... exactly 5 total
  ]
}
Rules:
- Use everyday language, no jargon.
- Avoid ambiguous wording.
- Ensure one and only one correct answer (correctIndex).
- Never include explanations.
- Output MUST be valid JSON matching the schema.
Generate for topic: %q.
`

const feedbackPromptTemplate = `
You are a friendly coach. Based on score %d/5 on topic %q, write 2 short sentences of encouragement + 1 concrete tip. Keep it under 45 words, no emojis.
Return plain text.
`

// structuredFeedbackSuffix replaces the plain-text instruction when the
// provider enforces FeedbackSchema.
const structuredFeedbackSuffix = `Return JSON with "score" set to %d and the text in "message".
`

// QuizPrompt is the single user message sent to generate a quiz.
func QuizPrompt(topic string) string {
	return fmt.Sprintf(quizPromptTemplate, topic)
}

// FeedbackPrompt is the single user message sent to generate feedback.
func FeedbackPrompt(topic string, score int) string {
	return fmt.Sprintf(feedbackPromptTemplate, score, topic)
}

func structuredFeedbackPrompt(topic string, score int) string {
	return FeedbackPrompt(topic, score) + fmt.Sprintf(structuredFeedbackSuffix, score)
}
