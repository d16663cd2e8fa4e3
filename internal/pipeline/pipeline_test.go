package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"podblog/internal/ai"
	"podblog/internal/models"
	"podblog/internal/test"
)

type mockAI struct {
	contentResponse string
	contentErr      error
	jsonResponse    string
	jsonErr         error
}

func (m *mockAI) GenerateContent(ctx context.Context, prompt string, tier ai.ModelTier) (string, error) {
	return m.contentResponse, m.contentErr
}

func (m *mockAI) GenerateJSON(ctx context.Context, prompt string, tier ai.ModelTier) (string, error) {
	return m.jsonResponse, m.jsonErr
}

func (m *mockAI) Close() error { return nil }

type mockTranscriber struct {
	transcript string
	err        error
}

func (m *mockTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	return m.transcript, m.err
}

type mockStore struct {
	downloadData []byte
	downloadErr  error
	uploadErr    error
	uploaded     []string
}

func (m *mockStore) DownloadAudio(path string) ([]byte, error) {
	return m.downloadData, m.downloadErr
}

func (m *mockStore) UploadAudio(path string, data []byte, contentType string) error {
	return m.uploadErr
}

func (m *mockStore) UploadImage(path string, data []byte, contentType string) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.uploaded = append(m.uploaded, path)
	return "https://cdn.example.com/" + path, nil
}

func stubFetchAudio(t *testing.T) {
	t.Helper()
	original := fetchAudio
	fetchAudio = func(ctx context.Context, sourceURL, destPath string) error {
		return os.WriteFile(destPath, []byte("audio"), 0644)
	}
	t.Cleanup(func() { fetchAudio = original })
}

func urlEpisode() models.Episode {
	src := "https://example.com/episode.mp3"
	return models.Episode{ID: "ep-1", UserID: "user-1", Title: "Untitled", SourceURL: &src}
}

func TestRunCompletesEpisode(t *testing.T) {
	_, mock := test.NewMockDB(t)
	stubFetchAudio(t)

	mock.ExpectExec("UPDATE episodes SET status = 'processing'").
		WithArgs("ep-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM episodes WHERE user_id = $1 AND slug = $2")).
		WithArgs("user-1", "title").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("UPDATE episodes").
		WithArgs("Title", "title", "Alright, so here we are.", "# Title\n\n## Intro\nBody",
			5, sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), "ep-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO usage").
		WithArgs("user-1", sqlmock.AnyArg(), 12).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := &mockStore{}
	p := NewProcessor(
		&mockAI{
			contentResponse: "# Title\n\n## Intro\nBody",
			jsonResponse:    `{"linkedin":"l","twitter":"t","instagram":"i","facebook":"f","newsletter":"n","quotes":["q1"]}`,
		},
		&mockTranscriber{transcript: "Alright, so here we are."},
		store,
		t.TempDir(),
	)

	costs := &CostBreakdown{}
	err := p.Run(context.Background(), urlEpisode(), costs)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, 0.13, costs.Transcription)
	assert.Equal(t, 0.15, costs.Article)
	assert.Equal(t, 0.08, costs.Social)
	assert.Len(t, store.uploaded, 4)
}

func TestRunTranscriptionFailure(t *testing.T) {
	_, mock := test.NewMockDB(t)
	stubFetchAudio(t)

	mock.ExpectExec("UPDATE episodes SET status = 'processing'").
		WithArgs("ep-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := NewProcessor(
		&mockAI{},
		&mockTranscriber{err: errors.New("service unavailable")},
		&mockStore{},
		t.TempDir(),
	)

	costs := &CostBreakdown{}
	err := p.Run(context.Background(), urlEpisode(), costs)

	var stageErr *StageError
	assert.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageTranscribe, stageErr.Stage)
	// No transcription cost accrues when the call fails.
	assert.Equal(t, 0.0, costs.Transcription)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunSocialFallbackOnUnparseableJSON(t *testing.T) {
	_, mock := test.NewMockDB(t)
	stubFetchAudio(t)

	mock.ExpectExec("UPDATE episodes SET status = 'processing'").
		WithArgs("ep-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("user-1", "title").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("UPDATE episodes").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO usage").
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := NewProcessor(
		&mockAI{
			contentResponse: "# Title\n\nBody",
			jsonResponse:    "not json",
		},
		&mockTranscriber{transcript: "some words"},
		&mockStore{},
		t.TempDir(),
	)

	costs := &CostBreakdown{}
	err := p.Run(context.Background(), urlEpisode(), costs)

	assert.NoError(t, err)
	// The substituted fallback is not a billable response.
	assert.Equal(t, 0.0, costs.Social)
	assert.Equal(t, 0.15, costs.Article)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunSlugCollisionGetsSuffix(t *testing.T) {
	_, mock := test.NewMockDB(t)
	stubFetchAudio(t)

	mock.ExpectExec("UPDATE episodes SET status = 'processing'").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("user-1", "title").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("user-1", "title-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("UPDATE episodes").
		WithArgs("Title", "title-1", sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), "ep-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO usage").
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := NewProcessor(
		&mockAI{contentResponse: "# Title\n\nBody", jsonResponse: "not json"},
		&mockTranscriber{transcript: "words"},
		&mockStore{},
		t.TempDir(),
	)

	err := p.Run(context.Background(), urlEpisode(), &CostBreakdown{})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMissingSource(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectExec("UPDATE episodes SET status = 'processing'").
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := NewProcessor(&mockAI{}, &mockTranscriber{}, &mockStore{}, t.TempDir())

	err := p.Run(context.Background(), models.Episode{ID: "ep-1", UserID: "user-1"}, &CostBreakdown{})

	var stageErr *StageError
	assert.ErrorAs(t, err, &stageErr)
	assert.Equal(t, StageAcquire, stageErr.Stage)
}

func TestRunAcquiresFromStorage(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectExec("UPDATE episodes SET status = 'processing'").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("UPDATE episodes").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO usage").
		WillReturnResult(sqlmock.NewResult(0, 1))

	storagePath := "user-1/ep-1.mp3"
	episode := models.Episode{ID: "ep-1", UserID: "user-1", StoragePath: &storagePath}

	p := NewProcessor(
		&mockAI{contentResponse: "# Title\n\nBody", jsonResponse: "not json"},
		&mockTranscriber{transcript: "words"},
		&mockStore{downloadData: []byte("audio")},
		t.TempDir(),
	)

	err := p.Run(context.Background(), episode, &CostBreakdown{})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCostBreakdownJSON(t *testing.T) {
	c := &CostBreakdown{Transcription: 0.13, Article: 0.15, Social: 0.08}
	got := c.JSON()

	var decoded CostBreakdown
	assert.NoError(t, json.Unmarshal([]byte(got), &decoded))
	assert.Equal(t, 0.13, decoded.Transcription)
	assert.InDelta(t, 0.36, decoded.Total, 0.0001)
}
