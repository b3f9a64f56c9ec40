package repo

import (
	"errors"
	"instalytics-backend/internal/entity"
)

type Snapshot interface {
	// ArchiveSnapshot сохраняет сырой ответ провайдера в объектное хранилище
	// и создаёт индексную запись в БД
	ArchiveSnapshot(snapshot *entity.RawSnapshot) (int, error)
	// GetSnapshot возвращает снапшот вместе с содержимым
	GetSnapshot(id int) (*entity.RawSnapshot, error)
	// GetSnapshotsInfo возвращает метаданные снапшотов аккаунта без содержимого
	GetSnapshotsInfo(username string) ([]*entity.RawSnapshot, error)
}

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
