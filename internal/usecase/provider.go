package usecase

import (
	"context"
	"errors"
	"instalytics-backend/internal/entity"
)

// DataProvider — клиент стороннего провайдера данных (Star API)
type DataProvider interface {
	// TriggerCollection запускает на стороне провайдера сбор данных аккаунта
	TriggerCollection(ctx context.Context, username string) error
	// CollectionStatus возвращает состояние сбора на стороне провайдера
	CollectionStatus(ctx context.Context, username string) (entity.CollectionStatus, error)
	// FetchUserMedia забирает собранные посты аккаунта. Вторым значением
	// возвращается сырое тело ответа провайдера для архивации.
	FetchUserMedia(ctx context.Context, username string) ([]*entity.InstagramPost, []byte, error)
}

var (
	ErrProviderUnavailable = errors.New("data provider is unavailable")
	ErrAccountNotFound     = errors.New("account not found at data provider")
)
