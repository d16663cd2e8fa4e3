package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TypeProcessEpisode   = "episode:process"
	TypeCleanupTempAudio = "audio:cleanup"
)

type ProcessEpisodeTaskPayload struct {
	EpisodeID string
	UserID    string
}

func NewProcessEpisodeTask(episodeID, userID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ProcessEpisodeTaskPayload{
		EpisodeID: episodeID,
		UserID:    userID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeProcessEpisode, payload), nil
}

// ProcessEpisodeTaskID is the deterministic task id used as the in-flight
// marker for an episode. Enqueueing with this id while a run is pending or
// active fails with asynq.ErrTaskIDConflict, which prevents duplicate triggers
// from racing on the same row.
func ProcessEpisodeTaskID(episodeID string) string {
	return fmt.Sprintf("episode:process:%s", episodeID)
}

func NewCleanupTempAudioTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeCleanupTempAudio, nil), nil
}
