package pipeline

import "fmt"

// Stage tags which part of the pipeline an error came from. The run still
// fails as a whole, but the tag makes the single error string written to the
// record attributable and testable per stage.
type Stage string

const (
	StageAcquire    Stage = "acquire"
	StageTranscribe Stage = "transcribe"
	StageGenerate   Stage = "generate"
	StagePersist    Stage = "persist"
)

// StageError is the tagged outcome of a failed pipeline stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}
