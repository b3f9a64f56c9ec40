package postgres

import (
	"regexp"
	"testing"
	"time"

	"instalytics-backend/internal/entity"
	"instalytics-backend/internal/repo"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestGetPosts_FilterByUsernameAndPeriod(t *testing.T) {
	db, mock := setupMockDB(t)
	postRepo := NewPost(db)

	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "username", "media_id", "like_count", "comment_count"}).
		AddRow(1, "some_account", "m1", 150, 50).
		AddRow(2, "some_account", "m2", 10, 5)

	mock.ExpectQuery("(?s)SELECT id, username, media_id.*FROM instagram_post WHERE username = \\$1 AND taken_at >= \\$2 AND taken_at <= \\$3 ORDER BY taken_at DESC").
		WithArgs("some_account", since, until).
		WillReturnRows(rows)

	posts, err := postRepo.GetPosts(&entity.PostFilter{
		Username: "some_account",
		Since:    since,
		Until:    until,
	})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "m1", posts[0].MediaID)
	assert.Equal(t, 150, posts[0].LikeCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPosts_NoFiltersReturnsEverything(t *testing.T) {
	db, mock := setupMockDB(t)
	postRepo := NewPost(db)

	mock.ExpectQuery("(?s)SELECT id, username, media_id.*FROM instagram_post ORDER BY taken_at DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "media_id"}))

	posts, err := postRepo.GetPosts(&entity.PostFilter{})
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.NotNil(t, posts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPost_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	postRepo := NewPost(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id,")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := postRepo.GetPost("missing")
	assert.ErrorIs(t, err, repo.ErrPostNotFound)
}

func TestCountPosts(t *testing.T) {
	db, mock := setupMockDB(t)
	postRepo := NewPost(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM instagram_post WHERE username = $1")).
		WithArgs("some_account").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := postRepo.CountPosts("some_account")
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

func TestUpsertPosts_EmptyBatchIsNoop(t *testing.T) {
	db, mock := setupMockDB(t)
	postRepo := NewPost(db)

	// Ни одного обращения к базе данных не ожидается
	err := postRepo.UpsertPosts(nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
