// Package handlers implements the JSON API. Content is never returned from
// the processing trigger itself; clients poll the episode record until it
// reaches a terminal status.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"podblog/internal/ai"
	"podblog/internal/middleware"
	"podblog/internal/models"
	"podblog/internal/storage"
	"podblog/pkg/tasks"
)

type Handlers struct {
	asynqClient tasks.TaskEnqueuer
	ai          ai.Client
	store       storage.ObjectStore
}

func New(asynqClient tasks.TaskEnqueuer, aiClient ai.Client, store storage.ObjectStore) *Handlers {
	return &Handlers{
		asynqClient: asynqClient,
		ai:          aiClient,
		store:       store,
	}
}

func userFromContext(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(middleware.UserContextKey).(*models.User)
	return user, ok
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
