package repo

import (
	"context"
	"instalytics-backend/internal/entity"
)

type CollectionEvent interface {
	// PublishCollectionEvent публикует событие сбора в топик аккаунта
	PublishCollectionEvent(ctx context.Context, event *entity.CollectionEvent) error
	// SubscribeCollectionEvents подписывается на новые события сбора по аккаунту.
	// Канал закрывается при отмене контекста.
	SubscribeCollectionEvents(ctx context.Context, username string) (<-chan *entity.CollectionEvent, error)
}
