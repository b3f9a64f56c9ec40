package starapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"instalytics-backend/internal/entity"
	"instalytics-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mediaJSON = `{
	"data": [
		{
			"media_id": "m1",
			"shortcode": "abc",
			"taken_at": 1718000000,
			"like_count": 150,
			"comment_count": 50,
			"media_type": "image"
		},
		{
			"media_id": "m2",
			"is_video": true,
			"media_type": "reel",
			"like_count": 10,
			"comment_count": 5,
			"hashtags": ["reels", "travel"],
			"is_collab": true,
			"collab_with": "friend"
		}
	]
}`

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, "test-key").(*Client)
	return client, server
}

func TestFetchUserMedia(t *testing.T) {
	var gotKey, gotPath string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(mediaJSON))
	})
	defer server.Close()

	posts, raw, err := client.FetchUserMedia(context.Background(), "some_account")
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "/media?username=some_account", gotPath)
	assert.JSONEq(t, mediaJSON, string(raw))

	require.Len(t, posts, 2)
	// Отсутствующие в JSON числовые поля равны нулю
	assert.Equal(t, "m1", posts[0].MediaID)
	assert.Equal(t, "some_account", posts[0].Username)
	assert.Zero(t, posts[0].SaveCount)
	assert.Zero(t, posts[0].VideoViewCount)
	assert.False(t, posts[0].IsVideo)

	assert.True(t, posts[1].IsVideo)
	assert.Equal(t, "reel", posts[1].MediaType)
	assert.Equal(t, []string{"reels", "travel"}, []string(posts[1].Hashtags))
	assert.True(t, posts[1].IsCollab)
}

func TestFetchUserMedia_TypeMismatchFailsAtBoundary(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [{"like_count": "not-a-number"}]}`))
	})
	defer server.Close()

	_, _, err := client.FetchUserMedia(context.Background(), "some_account")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "валидации")
}

func TestCollectionStatus(t *testing.T) {
	tests := []struct {
		provider string
		want     entity.CollectionStatus
	}{
		{"pending", entity.CollectionPending},
		{"queued", entity.CollectionPending},
		{"in_progress", entity.CollectionRunning},
		{"completed", entity.CollectionCompleted},
		{"failed", entity.CollectionFailed},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/star-api/collection-status/some_account", r.URL.Path)
				_, _ = w.Write([]byte(`{"status": "` + tt.provider + `"}`))
			})
			defer server.Close()

			status, err := client.CollectionStatus(context.Background(), "some_account")
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestCollectionStatus_UnknownStatus(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "mystery"}`))
	})
	defer server.Close()

	_, err := client.CollectionStatus(context.Background(), "some_account")
	assert.Error(t, err)
}

func TestTriggerCollection(t *testing.T) {
	var gotMethod, gotPath string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	})
	defer server.Close()

	err := client.TriggerCollection(context.Background(), "some_account")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/star-api/collect-user-data/some_account", gotPath)
}

func TestErrorMapping(t *testing.T) {
	t.Run("404 — аккаунт не найден", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		defer server.Close()

		err := client.TriggerCollection(context.Background(), "ghost")
		assert.ErrorIs(t, err, usecase.ErrAccountNotFound)
	})

	t.Run("5xx — провайдер недоступен", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		defer server.Close()

		err := client.TriggerCollection(context.Background(), "some_account")
		assert.ErrorIs(t, err, usecase.ErrProviderUnavailable)
	})

	t.Run("обрыв соединения — провайдер недоступен", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
		server.Close()

		err := client.TriggerCollection(context.Background(), "some_account")
		assert.True(t, errors.Is(err, usecase.ErrProviderUnavailable))
	})
}
