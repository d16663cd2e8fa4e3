package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"podblog/internal/db"
	"podblog/internal/feed"
)

// GetFeed serves the public RSS feed of a user's completed articles, keyed by
// the unguessable feed UUID rather than by credentials.
func (h *Handlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	feedUUID := mux.Vars(r)["uuid"]

	user, err := db.GetUserByFeedUUID(feedUUID)
	if err != nil {
		http.Error(w, "Feed not found", http.StatusNotFound)
		return
	}

	episodes, err := db.GetCompletedEpisodesByUserID(user.ID)
	if err != nil {
		log.Printf("Error getting episodes for feed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	rss, err := feed.GenerateRSS(user, episodes, r)
	if err != nil {
		log.Printf("Error generating RSS: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml")
	w.Write([]byte(rss))
}
