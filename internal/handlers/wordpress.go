package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"podblog/internal/integrations"
)

type publishWordPressRequest struct {
	SiteURL     string `json:"site_url"`
	Username    string `json:"username"`
	AppPassword string `json:"app_password"`
}

// PublishWordPress pushes a completed article to the caller's WordPress site.
func (h *Handlers) PublishWordPress(w http.ResponseWriter, r *http.Request) {
	episode, ok := h.loadProcessedEpisode(w, r)
	if !ok {
		return
	}

	var req publishWordPressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	slug := ""
	if episode.Slug != nil {
		slug = *episode.Slug
	}

	site := integrations.WordPressSite{
		URL:         req.SiteURL,
		Username:    req.Username,
		AppPassword: req.AppPassword,
	}
	postURL, err := integrations.PublishToWordPress(r.Context(), site, episode.Title, *episode.Content, slug)
	if err != nil {
		log.Printf("WordPress publish failed for episode %s: %v", episode.ID, err)
		writeError(w, http.StatusBadGateway, "Failed to publish to WordPress")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"post_url": postURL,
	})
}
