package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ChaptersTranscriptLimit is the transcript prefix sent to the chapter call.
const ChaptersTranscriptLimit = 8000

type Chapter struct {
	Time        string `json:"time"` // HH:MM:SS
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ChapterList struct {
	Chapters []Chapter `json:"chapters"`
}

func BuildChaptersPrompt(transcript string) string {
	return fmt.Sprintf(`You are a video editor expert. Analyze this podcast transcript and create chapter timestamps.

TRANSCRIPT:
%s

Instructions:
1. Identify 5-10 key topics/chapters
2. Estimate timestamps assuming natural speaking pace (150 words per minute)
3. Create engaging chapter titles (40-60 chars)
4. Add brief descriptions (1 sentence)
5. Format time as HH:MM:SS

Return ONLY a JSON object:
{
  "chapters": [
    {
      "time": "00:00:00",
      "title": "Introduction",
      "description": "Brief description"
    }
  ]
}`, TruncatePrefix(transcript, ChaptersTranscriptLimit))
}

func ParseChapters(raw string) (ChapterList, error) {
	var cl ChapterList
	if err := json.Unmarshal([]byte(raw), &cl); err != nil {
		return ChapterList{}, fmt.Errorf("failed to parse chapters: %w", err)
	}
	return cl, nil
}

// YouTubeFormat renders chapters as "HH:MM:SS - Title" lines ready for a video
// description.
func (cl ChapterList) YouTubeFormat() string {
	lines := make([]string, 0, len(cl.Chapters))
	for _, ch := range cl.Chapters {
		lines = append(lines, fmt.Sprintf("%s - %s", ch.Time, ch.Title))
	}
	return strings.Join(lines, "\n")
}
