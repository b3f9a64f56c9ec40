package repo

import (
	"errors"
	"instalytics-backend/internal/entity"
)

type Post interface {
	// UpsertPosts сохраняет пачку постов, обновляя счётчики уже существующих
	UpsertPosts(posts []*entity.InstagramPost) error
	// GetPost возвращает пост по media_id
	GetPost(mediaID string) (*entity.InstagramPost, error)
	// GetPosts возвращает посты по фильтру
	GetPosts(filter *entity.PostFilter) ([]*entity.InstagramPost, error)
	// CountPosts возвращает количество сохранённых постов аккаунта
	CountPosts(username string) (int, error)
}

var (
	ErrPostNotFound = errors.New("post not found")
)
