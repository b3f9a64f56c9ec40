package repo

import (
	"errors"
	"instalytics-backend/internal/entity"
)

type Collection interface {
	// CreateJob создаёт новую задачу на сбор данных
	CreateJob(job *entity.CollectionJob) error
	// GetJob возвращает задачу по её ID
	GetJob(jobID string) (*entity.CollectionJob, error)
	// GetLatestJob возвращает последнюю задачу по username
	GetLatestJob(username string) (*entity.CollectionJob, error)
	// ClaimPendingJobs атомарно закрепляет за воркером до limit задач в статусе pending
	ClaimPendingJobs(workerID string, limit int) ([]*entity.CollectionJob, error)
	// CompleteJob помечает задачу завершённой и записывает число собранных постов
	CompleteJob(jobID string, postsCollected int) error
	// FailJob помечает задачу проваленной с текстом ошибки
	FailJob(jobID string, reason string) error
}

var (
	ErrCollectionJobNotFound = errors.New("collection job not found")
	ErrCollectionInProgress  = errors.New("collection already in progress")
)
