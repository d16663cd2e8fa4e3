// Package content holds the prompt templates, response parsers, and fallback
// objects for every generated artifact: the primary article plus the
// secondary social posts, newsletter, quotes, and chapter timestamps.
package content

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ArticleTranscriptLimit is the hard truncation applied to the transcript
// before it is embedded in the article prompt. Exactly this prefix is sent;
// this is a cut, not a summarization.
const ArticleTranscriptLimit = 8000

// FallbackTitle is substituted when no heading line can be found in the
// generated article.
const FallbackTitle = "Article from Podcast"

var titlePattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// TruncatePrefix returns at most the first n bytes of s. The cut backs off to
// the nearest rune boundary so the result is always valid UTF-8.
func TruncatePrefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// BuildArticlePrompt embeds the truncated transcript in the fixed article
// instruction template.
func BuildArticlePrompt(transcript string) string {
	return fmt.Sprintf(`You are an expert SEO copywriter. Transform the following podcast transcript into a high-quality blog article (600-800 words).

TRANSCRIPT (first %d chars):
%s

INSTRUCTIONS:
1. Create an engaging, SEO-optimized title (H1)
2. Write 600-800 words with clear structure
3. Use H2/H3 subheadings
4. Include introduction, 2-3 main sections, conclusion
5. Professional tone, accessible language
6. Add a strong CTA at the end
7. Focus on reader value

OUTPUT FORMAT:
# [Title]

## Introduction
[content]

## [Section Title]
[content]

## [Section Title]
[content]

## Conclusion
[content with CTA]`, ArticleTranscriptLimit, TruncatePrefix(transcript, ArticleTranscriptLimit))
}

// ParseArticle extracts the title from the first H1 heading line of the
// generated text. When no heading matches, the fixed placeholder is used and
// the body is kept as-is.
func ParseArticle(raw string) (title, body string) {
	body = raw
	if m := titlePattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1]), body
	}
	return FallbackTitle, body
}

// CountWords returns the whitespace-separated word count of the article body.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
