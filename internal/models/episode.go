package models

import "time"

// Episode is the single persisted row tracking one submitted podcast episode
// through its lifecycle to generated content. Columns added over the product's
// history are nullable; derived artifacts are independently nullable and
// independently regenerable.
type Episode struct {
	ID                    string     `db:"id"`
	UserID                string     `db:"user_id"`
	Title                 string     `db:"title"`
	Slug                  *string    `db:"slug"`
	Status                string     `db:"status"`
	SourceURL             *string    `db:"source_url"`
	StoragePath           *string    `db:"storage_path"`
	Transcript            *string    `db:"transcript"`
	Content               *string    `db:"content"`
	WordCount             *int       `db:"word_count"`
	SocialPosts           *string    `db:"social_posts"`
	Quotes                *string    `db:"quotes"`
	NewsletterHTML        *string    `db:"newsletter_html"`
	Chapters              *string    `db:"chapters"`
	ImageInstagram        *string    `db:"image_instagram"`
	ImageTwitter          *string    `db:"image_twitter"`
	ImageLinkedIn         *string    `db:"image_linkedin"`
	ImageFacebook         *string    `db:"image_facebook"`
	ErrorMessage          *string    `db:"error_message"`
	CostBreakdown         *string    `db:"cost_breakdown"`
	ProcessingStartedAt   *time.Time `db:"processing_started_at"`
	ProcessingCompletedAt *time.Time `db:"processing_completed_at"`
	CreatedAt             time.Time  `db:"created_at"`
}
