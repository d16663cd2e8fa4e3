package db

import (
	"github.com/google/uuid"
	"podblog/internal/models"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// EpisodeResult carries every field the pipeline accumulates for the single
// completion write.
type EpisodeResult struct {
	Title          string
	Slug           string
	Transcript     string
	Content        string
	WordCount      int
	SocialPosts    string
	Quotes         string
	ImageInstagram *string
	ImageTwitter   *string
	ImageLinkedIn  *string
	ImageFacebook  *string
	CostBreakdown  string
}

func CreateEpisode(userID, title string, sourceURL, storagePath *string) (models.Episode, error) {
	episode := models.Episode{}
	query := `
		INSERT INTO episodes (id, user_id, title, source_url, storage_path, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING *
	`
	err := DB.Get(&episode, query, uuid.NewString(), userID, title, sourceURL, storagePath)
	return episode, err
}

func GetEpisodeByID(id string) (models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, "SELECT * FROM episodes WHERE id = $1", id)
	return episode, err
}

func GetEpisodeForUser(id, userID string) (models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, "SELECT * FROM episodes WHERE id = $1 AND user_id = $2", id, userID)
	return episode, err
}

func ListEpisodesByUserID(userID string) ([]models.Episode, error) {
	var episodes []models.Episode
	err := DB.Select(&episodes, "SELECT * FROM episodes WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return episodes, err
}

func GetCompletedEpisodesByUserID(userID string) ([]models.Episode, error) {
	var episodes []models.Episode
	query := `
		SELECT * FROM episodes
		WHERE user_id = $1 AND status = 'completed'
		ORDER BY processing_completed_at DESC
	`
	err := DB.Select(&episodes, query, userID)
	return episodes, err
}

func UpdateEpisodeStoragePath(id, storagePath string) error {
	_, err := DB.Exec("UPDATE episodes SET storage_path = $1 WHERE id = $2", storagePath, id)
	return err
}

// MarkEpisodeProcessing records the start of a pipeline run.
func MarkEpisodeProcessing(id string) error {
	_, err := DB.Exec("UPDATE episodes SET status = 'processing', processing_started_at = NOW() WHERE id = $1", id)
	return err
}

// SlugExists reports whether the user already has an episode with this slug.
func SlugExists(slug, userID string) (bool, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM episodes WHERE user_id = $1 AND slug = $2", userID, slug)
	return count > 0, err
}

func UpdateEpisodeCompleted(id string, res EpisodeResult) error {
	query := `
		UPDATE episodes
		SET status = 'completed', title = $1, slug = $2, transcript = $3, content = $4,
		    word_count = $5, social_posts = $6, quotes = $7,
		    image_instagram = $8, image_twitter = $9, image_linkedin = $10, image_facebook = $11,
		    cost_breakdown = $12, processing_completed_at = NOW()
		WHERE id = $13
	`
	_, err := DB.Exec(query,
		res.Title, res.Slug, res.Transcript, res.Content,
		res.WordCount, res.SocialPosts, res.Quotes,
		res.ImageInstagram, res.ImageTwitter, res.ImageLinkedIn, res.ImageFacebook,
		res.CostBreakdown, id)
	return err
}

func UpdateEpisodeFailed(id, errorMessage, costBreakdown string) error {
	query := `
		UPDATE episodes
		SET status = 'failed', error_message = $1, cost_breakdown = $2, processing_completed_at = NOW()
		WHERE id = $3
	`
	_, err := DB.Exec(query, errorMessage, costBreakdown, id)
	return err
}

func UpdateEpisodeSocialPosts(id, socialPosts string) error {
	_, err := DB.Exec("UPDATE episodes SET social_posts = $1 WHERE id = $2", socialPosts, id)
	return err
}

func UpdateEpisodeNewsletter(id, newsletterHTML string) error {
	_, err := DB.Exec("UPDATE episodes SET newsletter_html = $1 WHERE id = $2", newsletterHTML, id)
	return err
}

func UpdateEpisodeQuotes(id, quotes string) error {
	_, err := DB.Exec("UPDATE episodes SET quotes = $1 WHERE id = $2", quotes, id)
	return err
}

func UpdateEpisodeChapters(id, chapters string) error {
	_, err := DB.Exec("UPDATE episodes SET chapters = $1 WHERE id = $2", chapters, id)
	return err
}
