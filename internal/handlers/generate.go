package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"podblog/internal/ai"
	"podblog/internal/content"
	"podblog/internal/db"
	"podblog/internal/models"
)

// generateTimeout bounds each user-triggered generation call. Secondary
// artifacts are regenerable, so a timed-out request can simply be retried by
// the user.
const generateTimeout = 2 * time.Minute

// loadProcessedEpisode fetches the caller's episode and verifies it has the
// transcript and article the secondary generators need. Secondary generation
// only applies to completed episodes; a failure here never touches the
// episode status.
func (h *Handlers) loadProcessedEpisode(w http.ResponseWriter, r *http.Request) (*models.Episode, bool) {
	user, ok := userFromContext(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "User not found in context")
		return nil, false
	}

	episode, err := db.GetEpisodeForUser(mux.Vars(r)["id"], user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Episode not found")
			return nil, false
		}
		log.Printf("Error getting episode: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}

	if episode.Transcript == nil || episode.Content == nil {
		writeError(w, http.StatusBadRequest, "Episode must have transcript and content")
		return nil, false
	}

	return &episode, true
}

// GenerateSocial regenerates the social posts for a completed episode. Unlike
// the pipeline's batched call, a parse failure here is reported to the caller
// instead of substituting the fallback.
func (h *Handlers) GenerateSocial(w http.ResponseWriter, r *http.Request) {
	episode, ok := h.loadProcessedEpisode(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	raw, err := h.ai.GenerateJSON(ctx, content.BuildSocialPrompt(*episode.Transcript, episode.Title), ai.TierLite)
	if err != nil {
		log.Printf("Social generation failed for episode %s: %v", episode.ID, err)
		writeError(w, http.StatusBadGateway, "Failed to generate social content")
		return
	}

	social, err := content.ParseSocialContent(raw)
	if err != nil {
		log.Printf("Social content unparseable for episode %s: %v", episode.ID, err)
		writeError(w, http.StatusBadGateway, "Generated social content was malformed")
		return
	}

	socialJSON, err := json.Marshal(social)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := db.UpdateEpisodeSocialPosts(episode.ID, string(socialJSON)); err != nil {
		log.Printf("Error saving social content: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save social content")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": social})
}

// GenerateNewsletter produces the newsletter HTML from the stored article.
func (h *Handlers) GenerateNewsletter(w http.ResponseWriter, r *http.Request) {
	episode, ok := h.loadProcessedEpisode(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	raw, err := h.ai.GenerateJSON(ctx, content.BuildNewsletterPrompt(*episode.Content, episode.Title), ai.TierLite)
	if err != nil {
		log.Printf("Newsletter generation failed for episode %s: %v", episode.ID, err)
		writeError(w, http.StatusBadGateway, "Failed to generate newsletter")
		return
	}

	newsletter, err := content.ParseNewsletter(raw)
	if err != nil {
		log.Printf("Newsletter content unparseable for episode %s: %v", episode.ID, err)
		writeError(w, http.StatusBadGateway, "Generated newsletter was malformed")
		return
	}

	html, err := content.RenderNewsletterHTML(newsletter)
	if err != nil {
		log.Printf("Error rendering newsletter: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := db.UpdateEpisodeNewsletter(episode.ID, html); err != nil {
		log.Printf("Error saving newsletter: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save newsletter")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"subject": newsletter.Subject,
		"html":    html,
	})
}

// GenerateQuotes extracts shareable quotes and uploads a card image per quote.
func (h *Handlers) GenerateQuotes(w http.ResponseWriter, r *http.Request) {
	episode, ok := h.loadProcessedEpisode(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	raw, err := h.ai.GenerateJSON(ctx, content.BuildQuotesPrompt(*episode.Transcript), ai.TierLite)
	if err != nil {
		log.Printf("Quote extraction failed for episode %s: %v", episode.ID, err)
		writeError(w, http.StatusBadGateway, "Failed to extract quotes")
		return
	}

	quotes, err := content.ParseQuotes(raw)
	if err != nil {
		log.Printf("Quotes unparseable for episode %s: %v", episode.ID, err)
		writeError(w, http.StatusBadGateway, "Generated quotes were malformed")
		return
	}

	quotesJSON, err := json.Marshal(quotes.Quotes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := db.UpdateEpisodeQuotes(episode.ID, string(quotesJSON)); err != nil {
		log.Printf("Error saving quotes: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save quotes")
		return
	}

	// Card upload failures are logged and skipped; the quotes themselves are
	// already stored.
	var cards []map[string]string
	for i, quote := range quotes.Quotes {
		for _, platform := range []string{"instagram", "twitter"} {
			card := content.RenderQuoteCard(quote, i, content.CardSizes[platform])
			path := fmt.Sprintf("%s/%s-quote-%d-%s.svg", episode.UserID, episode.ID, i, platform)
			url, err := h.store.UploadImage(path, card, "image/svg+xml")
			if err != nil {
				log.Printf("Failed to upload quote card %s: %v", path, err)
				continue
			}
			cards = append(cards, map[string]string{
				"quote":    quote.Text,
				"platform": platform,
				"url":      url,
			})
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"quotes":  quotes.Quotes,
		"cards":   cards,
	})
}

// GenerateChapters derives chapter timestamps from the transcript.
func (h *Handlers) GenerateChapters(w http.ResponseWriter, r *http.Request) {
	episode, ok := h.loadProcessedEpisode(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	raw, err := h.ai.GenerateJSON(ctx, content.BuildChaptersPrompt(*episode.Transcript), ai.TierLite)
	if err != nil {
		log.Printf("Chapter generation failed for episode %s: %v", episode.ID, err)
		writeError(w, http.StatusBadGateway, "Failed to generate chapters")
		return
	}

	chapters, err := content.ParseChapters(raw)
	if err != nil {
		log.Printf("Chapters unparseable for episode %s: %v", episode.ID, err)
		writeError(w, http.StatusBadGateway, "Generated chapters were malformed")
		return
	}

	chaptersJSON, err := json.Marshal(chapters.Chapters)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if err := db.UpdateEpisodeChapters(episode.ID, string(chaptersJSON)); err != nil {
		log.Printf("Error saving chapters: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to save chapters")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"chapters":       chapters.Chapters,
		"youtube_format": chapters.YouTubeFormat(),
	})
}
