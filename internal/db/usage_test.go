package db

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}

	originalDB := DB
	DB = sqlx.NewDb(mockDb, "sqlmock")
	t.Cleanup(func() {
		DB = originalDB
		mockDb.Close()
	})
	return mock
}

func TestCurrentPeriodStart(t *testing.T) {
	got := CurrentPeriodStart()
	assert.Regexp(t, `^\d{4}-\d{2}-01$`, got)
	assert.Equal(t, time.Now().UTC().Format("2006-01")+"-01", got)
}

func TestIncrementUsage(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectExec("INSERT INTO usage").
		WithArgs("user-1", "2026-08-01", DefaultEpisodesLimit).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, IncrementUsage("user-1", "2026-08-01"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlugExists(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM episodes WHERE user_id = $1 AND slug = $2")).
		WithArgs("user-1", "launch-day").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM episodes WHERE user_id = $1 AND slug = $2")).
		WithArgs("user-1", "fresh-slug").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := SlugExists("launch-day", "user-1")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = SlugExists("fresh-slug", "user-1")
	assert.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
