package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"

	"podblog/internal/db"
	"podblog/pkg/tasks"
)

const (
	maxUploadBytes = 200 << 20 // 200 MiB

	// multipartMemoryLimit is the in-memory parse threshold; larger uploads
	// spill to temp files. MaxBytesReader caps the total size.
	multipartMemoryLimit = 32 << 20
)

// CreateEpisode accepts either a remote URL (form field "url") or an uploaded
// audio file (multipart field "file"), checks the usage limit, creates the
// pending record, and enqueues the processing job. The response carries the
// episode id, never the generated content.
func (h *Handlers) CreateEpisode(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "User not found in context")
		return
	}

	if !h.checkUsageAllowed(w, user.ID) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		// Plain form posts with a url field land here too.
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "Failed to parse request")
			return
		}
	}

	sourceURL := r.FormValue("url")
	file, header, fileErr := r.FormFile("file")
	if sourceURL == "" && fileErr != nil {
		writeError(w, http.StatusBadRequest, "Either url or file is required")
		return
	}

	var episodeID string
	if sourceURL != "" {
		episode, err := db.CreateEpisode(user.ID, sourceURL, &sourceURL, nil)
		if err != nil {
			log.Printf("Error creating episode: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to create episode")
			return
		}
		episodeID = episode.ID
	} else {
		defer file.Close()

		episode, err := db.CreateEpisode(user.ID, header.Filename, nil, nil)
		if err != nil {
			log.Printf("Error creating episode: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to create episode")
			return
		}
		episodeID = episode.ID

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
			return
		}

		ext := filepath.Ext(header.Filename)
		if ext == "" {
			ext = ".audio"
		}
		storagePath := fmt.Sprintf("%s/%s%s", user.ID, episode.ID, ext)
		if err := h.store.UploadAudio(storagePath, data, header.Header.Get("Content-Type")); err != nil {
			log.Printf("Error uploading audio for episode %s: %v", episode.ID, err)
			if dberr := db.UpdateEpisodeFailed(episode.ID, "audio upload failed", "{}"); dberr != nil {
				log.Printf("Error recording upload failure: %v", dberr)
			}
			writeError(w, http.StatusInternalServerError, "Failed to store audio file")
			return
		}
		if err := db.UpdateEpisodeStoragePath(episode.ID, storagePath); err != nil {
			log.Printf("Error saving storage path: %v", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	task, err := tasks.NewProcessEpisodeTask(episodeID, user.ID)
	if err != nil {
		log.Printf("Error creating task: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	_, err = h.asynqClient.Enqueue(task,
		asynq.TaskID(tasks.ProcessEpisodeTaskID(episodeID)),
		asynq.MaxRetry(0),
		asynq.Queue("default"),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			writeError(w, http.StatusConflict, "Episode is already being processed")
			return
		}
		log.Printf("Error enqueuing task: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to start processing")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"id":     episodeID,
		"status": db.StatusPending,
	})
}

// checkUsageAllowed enforces the per-period episode limit before a new run may
// start. A missing usage row means nothing was processed this period.
func (h *Handlers) checkUsageAllowed(w http.ResponseWriter, userID string) bool {
	usage, err := db.GetUsage(userID, db.CurrentPeriodStart())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return true
		}
		log.Printf("Error reading usage for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return false
	}

	if usage.EpisodesGenerated >= usage.EpisodesLimit {
		writeError(w, http.StatusForbidden, "Monthly episode limit reached")
		return false
	}
	return true
}

func (h *Handlers) ListEpisodes(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "User not found in context")
		return
	}

	episodes, err := db.ListEpisodesByUserID(user.ID)
	if err != nil {
		log.Printf("Error listing episodes: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, episodes)
}

// GetEpisode is the polling endpoint: clients call it until the record reaches
// a terminal status.
func (h *Handlers) GetEpisode(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "User not found in context")
		return
	}

	episode, err := db.GetEpisodeForUser(mux.Vars(r)["id"], user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "Episode not found")
			return
		}
		log.Printf("Error getting episode: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, episode)
}

func (h *Handlers) GetUsage(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "User not found in context")
		return
	}

	usage, err := db.GetUsage(user.ID, db.CurrentPeriodStart())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusOK, map[string]int{
				"episodes_generated": 0,
				"episodes_limit":     db.DefaultEpisodesLimit,
			})
			return
		}
		log.Printf("Error reading usage: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"episodes_generated": usage.EpisodesGenerated,
		"episodes_limit":     usage.EpisodesLimit,
	})
}
