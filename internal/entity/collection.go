package entity

import "time"

type CollectionStatus string

const (
	CollectionPending   CollectionStatus = "pending"
	CollectionRunning   CollectionStatus = "running"
	CollectionCompleted CollectionStatus = "completed"
	CollectionFailed    CollectionStatus = "failed"
)

// CollectionJob — задача на сбор данных аккаунта у провайдера.
// Создаётся шлюзом по запросу пользователя, исполняется воркером.
type CollectionJob struct {
	ID             string           `json:"id" db:"id"`
	Username       string           `json:"username" db:"username"`
	Status         CollectionStatus `json:"status" db:"status"`
	RequestedBy    int              `json:"-" db:"requested_by"`
	WorkerID       *string          `json:"-" db:"worker_id"`
	PostsCollected int              `json:"posts_collected" db:"posts_collected"`
	Error          *string          `json:"error,omitempty" db:"error"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	StartedAt      *time.Time       `json:"started_at,omitempty" db:"started_at"`
	FinishedAt     *time.Time       `json:"finished_at,omitempty" db:"finished_at"`
}

type CollectUserDataRequest struct {
	UserID   int    `json:"-"`
	Username string `json:"-"`
}

type GetCollectionStatusRequest struct {
	UserID   int    `query:"-"`
	Username string `query:"-"`
}
