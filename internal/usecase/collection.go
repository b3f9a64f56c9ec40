package usecase

import (
	"context"
	"errors"
	"instalytics-backend/internal/entity"
)

type Collection interface {
	// RequestCollection создаёт задачу на сбор данных аккаунта у провайдера.
	// Если по аккаунту уже есть незавершённая задача, возвращается она же.
	RequestCollection(request *entity.CollectUserDataRequest) (*entity.CollectionJob, error)
	// GetCollectionStatus возвращает состояние последней задачи сбора по аккаунту
	GetCollectionStatus(request *entity.GetCollectionStatusRequest) (*entity.CollectionJob, error)
	// SubscribeCollectionEvents подписывает на события сбора по аккаунту.
	// Канал закрывается при отмене контекста.
	SubscribeCollectionEvents(ctx context.Context, request *entity.GetCollectionStatusRequest) (<-chan *entity.CollectionEvent, error)
	// GetSnapshots возвращает метаданные заархивированных ответов провайдера по аккаунту
	GetSnapshots(request *entity.GetCollectionStatusRequest) ([]*entity.RawSnapshot, error)
	// GetSnapshot возвращает снапшот вместе с сырым содержимым
	GetSnapshot(id int) (*entity.RawSnapshot, error)
	// ProcessPendingJobs закрепляет за воркером ожидающие задачи и исполняет их
	ProcessPendingJobs(workerID string) error
}

var (
	ErrUsernameEmpty      = errors.New("username is empty")
	ErrCollectionNotFound = errors.New("no collection requested for this account")
	ErrSnapshotNotFound   = errors.New("snapshot not found")
)
