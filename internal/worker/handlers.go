package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"podblog/internal/db"
	"podblog/internal/pipeline"
	"podblog/pkg/tasks"
)

// maxTempAudioAge is how long orphaned temp audio files survive before the
// scheduled cleanup removes them.
const maxTempAudioAge = 24 * time.Hour

type TaskHandler struct {
	processor *pipeline.Processor
	tempDir   string
}

func NewTaskHandler(processor *pipeline.Processor, tempDir string) *TaskHandler {
	return &TaskHandler{processor: processor, tempDir: tempDir}
}

// HandleProcessEpisodeTask runs the full pipeline for one episode. Errors from
// any stage are caught here once: the message is written to the record, the
// status set to failed, and the error returned. Tasks are enqueued with
// MaxRetry(0), so a failed run stays failed.
func (h *TaskHandler) HandleProcessEpisodeTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.ProcessEpisodeTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	log.Printf("Processing episode: %s", p.EpisodeID)

	episode, err := db.GetEpisodeByID(p.EpisodeID)
	if err != nil {
		return fmt.Errorf("failed to get episode %s: %w", p.EpisodeID, err)
	}

	if episode.Status != db.StatusPending {
		log.Printf("Episode %s is %s, skipping duplicate trigger", episode.ID, episode.Status)
		return nil
	}

	costs := &pipeline.CostBreakdown{}
	if err := h.processor.Run(ctx, episode, costs); err != nil {
		var serr *pipeline.StageError
		if errors.As(err, &serr) {
			log.Printf("Episode %s failed at stage %s: %v", episode.ID, serr.Stage, serr.Err)
		} else {
			log.Printf("Episode %s failed: %v", episode.ID, err)
		}
		if dberr := db.UpdateEpisodeFailed(episode.ID, err.Error(), costs.JSON()); dberr != nil {
			log.Printf("Failed to record failure for episode %s: %v", episode.ID, dberr)
		}
		return err
	}

	return nil
}

// HandleCleanupTempAudioTask removes temp audio files older than
// maxTempAudioAge. Removal failures are logged, never raised.
func (h *TaskHandler) HandleCleanupTempAudioTask(ctx context.Context, t *asynq.Task) error {
	entries, err := os.ReadDir(h.tempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read temp dir: %w", err)
	}

	cutoff := time.Now().Add(-maxTempAudioAge)
	removed := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil || info.IsDir() {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(h.tempDir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Printf("Failed to remove stale temp file %s: %v", path, err)
			continue
		}
		removed++
	}

	log.Printf("Temp audio cleanup removed %d files", removed)
	return nil
}
