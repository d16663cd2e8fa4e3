package feed

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/eduncan911/podcast"

	"podblog/internal/content"
	"podblog/internal/models"
)

const descriptionPreviewLen = 200

func getBaseURL(r *http.Request) string {
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		return baseURL
	}

	scheme := r.URL.Scheme
	if scheme == "" {
		scheme = "https"
		if r.Header.Get("X-Forwarded-Proto") != "" {
			scheme = r.Header.Get("X-Forwarded-Proto")
		}
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// GenerateRSS renders the public feed of a user's completed articles.
func GenerateRSS(user *models.User, episodes []models.Episode, r *http.Request) (string, error) {
	baseURL := getBaseURL(r)

	p := podcast.New(
		fmt.Sprintf("%s's PodBlog", user.Email),
		fmt.Sprintf("%s/feed/%s", baseURL, user.FeedUUID),
		"Articles generated from podcast episodes.",
		&time.Time{}, &time.Time{},
	)

	for _, episode := range episodes {
		if episode.Slug == nil || episode.Content == nil {
			continue
		}

		description := content.TruncatePrefix(*episode.Content, descriptionPreviewLen)

		item := podcast.Item{
			Title:       episode.Title,
			Description: description,
			Link:        fmt.Sprintf("%s/blog/%s/%s", baseURL, user.FeedUUID, *episode.Slug),
			PubDate:     episode.ProcessingCompletedAt,
		}
		if _, err := p.AddItem(item); err != nil {
			return "", err
		}
	}

	return p.String(), nil
}
