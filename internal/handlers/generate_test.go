package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"podblog/internal/ai"
	"podblog/internal/test"
)

type stubAI struct {
	jsonResponse string
	jsonErr      error
}

func (s *stubAI) GenerateContent(ctx context.Context, prompt string, tier ai.ModelTier) (string, error) {
	return "", errors.New("not used")
}

func (s *stubAI) GenerateJSON(ctx context.Context, prompt string, tier ai.ModelTier) (string, error) {
	return s.jsonResponse, s.jsonErr
}

func (s *stubAI) Close() error { return nil }

type stubStore struct {
	uploaded  []string
	uploadErr error
}

func (s *stubStore) DownloadAudio(path string) ([]byte, error) { return nil, errors.New("not used") }

func (s *stubStore) UploadAudio(path string, data []byte, contentType string) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.uploaded = append(s.uploaded, path)
	return nil
}

func (s *stubStore) UploadImage(path string, data []byte, contentType string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploaded = append(s.uploaded, path)
	return "https://cdn.example.com/" + path, nil
}

func completedEpisodeRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "title", "status", "transcript", "content"}).
		AddRow("ep-1", "user-1", "Launch Day", "completed", "the transcript", "the article body")
}

func generateRequest(t *testing.T, path string) *http.Request {
	t.Helper()
	req := authedRequest("POST", path, "")
	return mux.SetURLVars(req, map[string]string{"id": "ep-1"})
}

func TestGenerateSocial(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM episodes WHERE id").
		WithArgs("ep-1", "user-1").
		WillReturnRows(completedEpisodeRows())
	mock.ExpectExec("UPDATE episodes SET social_posts").
		WithArgs(sqlmock.AnyArg(), "ep-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	aiStub := &stubAI{jsonResponse: `{"linkedin":"l","twitter":"t","instagram":"i","facebook":"f","newsletter":"n","quotes":["q"]}`}
	h := New(&test.MockTaskEnqueuer{}, aiStub, &stubStore{})

	rr := httptest.NewRecorder()
	h.GenerateSocial(rr, generateRequest(t, "/api/episodes/ep-1/social"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"linkedin":"l"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateSocialMalformedResponse(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM episodes WHERE id").
		WillReturnRows(completedEpisodeRows())

	// A user-triggered regeneration reports the malformed output instead of
	// silently substituting the fallback.
	aiStub := &stubAI{jsonResponse: "not json"}
	h := New(&test.MockTaskEnqueuer{}, aiStub, &stubStore{})

	rr := httptest.NewRecorder()
	h.GenerateSocial(rr, generateRequest(t, "/api/episodes/ep-1/social"))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateSocialRequiresProcessedEpisode(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM episodes WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "status"}).
			AddRow("ep-1", "user-1", "Launch Day", "pending"))

	h := New(&test.MockTaskEnqueuer{}, &stubAI{}, &stubStore{})

	rr := httptest.NewRecorder()
	h.GenerateSocial(rr, generateRequest(t, "/api/episodes/ep-1/social"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGenerateNewsletter(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM episodes WHERE id").
		WillReturnRows(completedEpisodeRows())
	mock.ExpectExec("UPDATE episodes SET newsletter_html").
		WithArgs(sqlmock.AnyArg(), "ep-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	aiStub := &stubAI{jsonResponse: `{
		"subject": "Weekly Update",
		"intro": "Hello",
		"highlights": ["One"],
		"mainContent": "Body text.",
		"cta": {"text": "Read", "url": "https://example.com"},
		"closing": "Bye"
	}`}
	h := New(&test.MockTaskEnqueuer{}, aiStub, &stubStore{})

	rr := httptest.NewRecorder()
	h.GenerateNewsletter(rr, generateRequest(t, "/api/episodes/ep-1/newsletter"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"subject":"Weekly Update"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateQuotesUploadsCards(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM episodes WHERE id").
		WillReturnRows(completedEpisodeRows())
	mock.ExpectExec("UPDATE episodes SET quotes").
		WithArgs(sqlmock.AnyArg(), "ep-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	aiStub := &stubAI{jsonResponse: `{"quotes":[{"text":"Ship it","context":"on launches"},{"text":"Keep going","context":"on persistence"}]}`}
	store := &stubStore{}
	h := New(&test.MockTaskEnqueuer{}, aiStub, store)

	rr := httptest.NewRecorder()
	h.GenerateQuotes(rr, generateRequest(t, "/api/episodes/ep-1/quotes"))

	assert.Equal(t, http.StatusOK, rr.Code)
	// Two quotes, one card each for instagram and twitter.
	assert.Len(t, store.uploaded, 4)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateQuotesCardUploadFailureIsNotFatal(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM episodes WHERE id").
		WillReturnRows(completedEpisodeRows())
	mock.ExpectExec("UPDATE episodes SET quotes").
		WillReturnResult(sqlmock.NewResult(0, 1))

	aiStub := &stubAI{jsonResponse: `{"quotes":[{"text":"Ship it","context":""}]}`}
	h := New(&test.MockTaskEnqueuer{}, aiStub, &stubStore{uploadErr: errors.New("bucket down")})

	rr := httptest.NewRecorder()
	h.GenerateQuotes(rr, generateRequest(t, "/api/episodes/ep-1/quotes"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"Ship it"`)
}

func TestGenerateChapters(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM episodes WHERE id").
		WillReturnRows(completedEpisodeRows())
	mock.ExpectExec("UPDATE episodes SET chapters").
		WithArgs(sqlmock.AnyArg(), "ep-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	aiStub := &stubAI{jsonResponse: `{"chapters":[{"time":"00:00:00","title":"Intro"},{"time":"00:05:30","title":"Main Topic"}]}`}
	h := New(&test.MockTaskEnqueuer{}, aiStub, &stubStore{})

	rr := httptest.NewRecorder()
	h.GenerateChapters(rr, generateRequest(t, "/api/episodes/ep-1/chapters"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "00:05:30 - Main Topic")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateChaptersUpstreamFailure(t *testing.T) {
	_, mock := test.NewMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM episodes WHERE id").
		WillReturnRows(completedEpisodeRows())

	h := New(&test.MockTaskEnqueuer{}, &stubAI{jsonErr: errors.New("quota exceeded")}, &stubStore{})

	rr := httptest.NewRecorder()
	h.GenerateChapters(rr, generateRequest(t, "/api/episodes/ep-1/chapters"))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}
