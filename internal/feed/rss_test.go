package feed

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"podblog/internal/models"
)

func strptr(s string) *string { return &s }

func TestGenerateRSS(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "writer@example.com", FeedUUID: "feed-uuid-1"}
	done := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	episodes := []models.Episode{
		{
			ID:                    "ep-1",
			Title:                 "Launch Day",
			Slug:                  strptr("launch-day"),
			Content:               strptr("The full article body about the launch."),
			ProcessingCompletedAt: &done,
		},
		{
			// Not yet processed, must be skipped.
			ID:    "ep-2",
			Title: "In Progress",
		},
	}

	req := httptest.NewRequest("GET", "https://podblog.example.com/feed/feed-uuid-1", nil)
	rss, err := GenerateRSS(user, episodes, req)

	assert.NoError(t, err)
	assert.Contains(t, rss, "Launch Day")
	assert.Contains(t, rss, "/blog/feed-uuid-1/launch-day")
	assert.NotContains(t, rss, "In Progress")
}

func TestGenerateRSSTruncatesDescription(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "writer@example.com", FeedUUID: "feed-uuid-1"}
	long := ""
	for i := 0; i < 50; i++ {
		long += "0123456789"
	}
	episodes := []models.Episode{
		{ID: "ep-1", Title: "Long One", Slug: strptr("long-one"), Content: strptr(long)},
	}

	req := httptest.NewRequest("GET", "https://podblog.example.com/feed/feed-uuid-1", nil)
	rss, err := GenerateRSS(user, episodes, req)

	assert.NoError(t, err)
	assert.NotContains(t, rss, long)
}

func TestGenerateRSSMultibyteDescriptionStaysValid(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "writer@example.com", FeedUUID: "feed-uuid-1"}
	body := strings.Repeat("a", 199) + "’s launch retrospective"
	episodes := []models.Episode{
		{ID: "ep-1", Title: "Launch Day", Slug: strptr("launch-day"), Content: strptr(body)},
	}

	req := httptest.NewRequest("GET", "https://podblog.example.com/feed/feed-uuid-1", nil)
	rss, err := GenerateRSS(user, episodes, req)

	assert.NoError(t, err)
	assert.True(t, utf8.ValidString(rss))
}

func TestGetBaseURLPrefersEnv(t *testing.T) {
	t.Setenv("BASE_URL", "https://podblog.example.com")
	req := httptest.NewRequest("GET", "http://localhost:8080/feed/x", nil)
	assert.Equal(t, "https://podblog.example.com", getBaseURL(req))
}
