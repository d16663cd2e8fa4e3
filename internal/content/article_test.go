package content

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncatePrefix(t *testing.T) {
	long := strings.Repeat("a", ArticleTranscriptLimit+1)

	assert.Len(t, TruncatePrefix(long, ArticleTranscriptLimit), ArticleTranscriptLimit)
	assert.Equal(t, "short", TruncatePrefix("short", ArticleTranscriptLimit))

	exact := strings.Repeat("b", ArticleTranscriptLimit)
	assert.Equal(t, exact, TruncatePrefix(exact, ArticleTranscriptLimit))
}

func TestTruncatePrefixNeverSplitsRune(t *testing.T) {
	// A typographic apostrophe straddling the limit must be dropped whole,
	// not cut into a dangling continuation byte.
	s := strings.Repeat("a", ArticleTranscriptLimit-1) + "’ and more"

	got := TruncatePrefix(s, ArticleTranscriptLimit)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", ArticleTranscriptLimit-1), got)

	assert.Equal(t, "h", TruncatePrefix("héllo", 2))
	assert.Equal(t, "hé", TruncatePrefix("héllo", 3))
}

func TestBuildArticlePromptTruncatesTranscript(t *testing.T) {
	transcript := strings.Repeat("x", ArticleTranscriptLimit) + "OVERFLOW"

	prompt := BuildArticlePrompt(transcript)

	assert.NotContains(t, prompt, "OVERFLOW")
	assert.Contains(t, prompt, strings.Repeat("x", ArticleTranscriptLimit))
}

func TestParseArticle(t *testing.T) {
	t.Run("extracts title from first heading", func(t *testing.T) {
		title, body := ParseArticle("# Title\n\n## Intro\nBody")
		assert.Equal(t, "Title", title)
		assert.Contains(t, body, "Body")
	})

	t.Run("trims whitespace around title", func(t *testing.T) {
		title, _ := ParseArticle("#   Spaced Out  \ncontent")
		assert.Equal(t, "Spaced Out", title)
	})

	t.Run("substitutes placeholder when no heading matches", func(t *testing.T) {
		title, body := ParseArticle("Just a paragraph without any heading.")
		assert.Equal(t, FallbackTitle, title)
		assert.Equal(t, "Just a paragraph without any heading.", body)
	})

	t.Run("ignores h2 headings for the title", func(t *testing.T) {
		title, _ := ParseArticle("## Section Only\ncontent")
		assert.Equal(t, FallbackTitle, title)
	})
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 4, CountWords("one two  three\nfour"))
	assert.Equal(t, 0, CountWords("   "))
}
