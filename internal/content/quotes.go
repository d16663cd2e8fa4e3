package content

import (
	"encoding/json"
	"fmt"
)

// QuotesTranscriptLimit is the transcript prefix sent to the quote extraction
// call.
const QuotesTranscriptLimit = 5000

type Quote struct {
	Text    string `json:"text"`
	Author  string `json:"author,omitempty"`
	Context string `json:"context,omitempty"`
}

type QuoteList struct {
	Quotes []Quote `json:"quotes"`
}

func BuildQuotesPrompt(transcript string) string {
	return fmt.Sprintf(`Extract 3-5 most impactful, shareable quotes from this podcast transcript.

TRANSCRIPT:
%s

Requirements:
- Quotes should be 15-50 words
- Self-contained (make sense without context)
- Inspiring, actionable, or thought-provoking
- Include speaker if identifiable

Return ONLY a JSON object:
{
  "quotes": [
    {
      "text": "The quote text",
      "author": "Speaker name (optional)",
      "context": "Brief context (optional, 1 sentence)"
    }
  ]
}`, TruncatePrefix(transcript, QuotesTranscriptLimit))
}

func ParseQuotes(raw string) (QuoteList, error) {
	var ql QuoteList
	if err := json.Unmarshal([]byte(raw), &ql); err != nil {
		return QuoteList{}, fmt.Errorf("failed to parse quotes: %w", err)
	}
	return ql, nil
}
