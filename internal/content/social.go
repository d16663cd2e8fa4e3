package content

import (
	"encoding/json"
	"fmt"
)

// SocialTranscriptLimit is the transcript prefix sent to the batched social
// content call.
const SocialTranscriptLimit = 4000

// SocialContent is the batched secondary artifact: one post per platform, a
// newsletter teaser, and shareable quotes, all from a single round trip.
type SocialContent struct {
	LinkedIn   string   `json:"linkedin"`
	Twitter    string   `json:"twitter"`
	Instagram  string   `json:"instagram"`
	Facebook   string   `json:"facebook"`
	Newsletter string   `json:"newsletter"`
	Quotes     []string `json:"quotes"`
}

func BuildSocialPrompt(transcript, title string) string {
	return fmt.Sprintf(`You are a social media expert. Given this podcast transcript and title, generate concise, engaging content for multiple platforms.

PODCAST TITLE: "%s"
TRANSCRIPT (first %d chars):
%s

GENERATE (in JSON format):
{
  "linkedin": "A professional, value-focused post (150-200 chars) with hashtags",
  "twitter": "A punchy thread starter (280 chars max) with hook",
  "instagram": "A compelling caption (150 chars max) with emojis",
  "facebook": "A conversational post (200-250 chars) with call to engagement",
  "newsletter": "A brief newsletter teaser (100-150 chars) that makes people want to read more",
  "quotes": ["Quote 1 from transcript (max 100 chars)", "Quote 2", "Quote 3", "Quote 4", "Quote 5"]
}

Return ONLY valid JSON, no markdown.`, title, SocialTranscriptLimit, TruncatePrefix(transcript, SocialTranscriptLimit))
}

// ParseSocialContent decodes a social content response. Callers decide the
// failure policy: the pipeline substitutes FallbackSocialContent, the
// user-triggered endpoint reports the error.
func ParseSocialContent(raw string) (SocialContent, error) {
	var sc SocialContent
	if err := json.Unmarshal([]byte(raw), &sc); err != nil {
		return SocialContent{}, fmt.Errorf("failed to parse social content: %w", err)
	}
	return sc, nil
}

// FallbackSocialContent is the hardcoded stand-in used when the social call
// returns unparseable output during the pipeline run.
func FallbackSocialContent(title string) SocialContent {
	return SocialContent{
		LinkedIn:   fmt.Sprintf("Check out our latest podcast: %q", title),
		Twitter:    fmt.Sprintf("New podcast: %q", title),
		Instagram:  fmt.Sprintf("New episode: %s", title),
		Facebook:   fmt.Sprintf("Listen to our newest episode: %s", title),
		Newsletter: fmt.Sprintf("%s - new episode out now!", title),
		Quotes:     []string{},
	}
}
