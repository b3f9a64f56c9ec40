package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"instalytics-backend/internal/entity"
	"instalytics-backend/internal/repo"
	"instalytics-backend/internal/usecase"
	"instalytics-backend/pkg/retry"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// Сколько задач воркер забирает за один тик
const claimBatchSize = 5

var (
	// Ограничение на обработку одной задачи, включая ожидание провайдера
	jobTimeout = 10 * time.Minute
	// Интервал опроса статуса сбора на стороне провайдера
	statusPollInterval = 5 * time.Second
	// Ограничение на публикацию события об ошибке после провала задачи
	eventPublishTimeout = 5 * time.Second
)

type Collection struct {
	collectionRepo repo.Collection
	postRepo       repo.Post
	snapshotRepo   repo.Snapshot
	eventRepo      repo.CollectionEvent
	provider       usecase.DataProvider
}

func NewCollection(
	collectionRepo repo.Collection,
	postRepo repo.Post,
	snapshotRepo repo.Snapshot,
	eventRepo repo.CollectionEvent,
	provider usecase.DataProvider,
) usecase.Collection {
	return &Collection{
		collectionRepo: collectionRepo,
		postRepo:       postRepo,
		snapshotRepo:   snapshotRepo,
		eventRepo:      eventRepo,
		provider:       provider,
	}
}

func (c *Collection) RequestCollection(request *entity.CollectUserDataRequest) (*entity.CollectionJob, error) {
	username := strings.TrimSpace(strings.ToLower(request.Username))
	if username == "" {
		return nil, usecase.ErrUsernameEmpty
	}

	// Если по аккаунту уже идёт сбор, не создаём дубль, а возвращаем текущую задачу
	latest, err := c.collectionRepo.GetLatestJob(username)
	if err != nil && !errors.Is(err, repo.ErrCollectionJobNotFound) {
		return nil, fmt.Errorf("ошибка получения последней задачи сбора: %w", err)
	}
	if latest != nil && (latest.Status == entity.CollectionPending || latest.Status == entity.CollectionRunning) {
		return latest, nil
	}

	job := &entity.CollectionJob{
		ID:          uuid.New().String(),
		Username:    username,
		Status:      entity.CollectionPending,
		RequestedBy: request.UserID,
		CreatedAt:   time.Now(),
	}
	if err := c.collectionRepo.CreateJob(job); err != nil {
		return nil, fmt.Errorf("ошибка создания задачи сбора: %w", err)
	}
	return job, nil
}

func (c *Collection) GetCollectionStatus(request *entity.GetCollectionStatusRequest) (*entity.CollectionJob, error) {
	username := strings.TrimSpace(strings.ToLower(request.Username))
	if username == "" {
		return nil, usecase.ErrUsernameEmpty
	}
	job, err := c.collectionRepo.GetLatestJob(username)
	if errors.Is(err, repo.ErrCollectionJobNotFound) {
		return nil, usecase.ErrCollectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения задачи сбора: %w", err)
	}
	return job, nil
}

func (c *Collection) SubscribeCollectionEvents(ctx context.Context, request *entity.GetCollectionStatusRequest) (<-chan *entity.CollectionEvent, error) {
	username := strings.TrimSpace(strings.ToLower(request.Username))
	if username == "" {
		return nil, usecase.ErrUsernameEmpty
	}
	ch, err := c.eventRepo.SubscribeCollectionEvents(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("ошибка подписки на события сбора по аккаунту %s: %w", username, err)
	}
	return ch, nil
}

func (c *Collection) GetSnapshots(request *entity.GetCollectionStatusRequest) ([]*entity.RawSnapshot, error) {
	username := strings.TrimSpace(strings.ToLower(request.Username))
	if username == "" {
		return nil, usecase.ErrUsernameEmpty
	}
	snapshots, err := c.snapshotRepo.GetSnapshotsInfo(username)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка снапшотов: %w", err)
	}
	return snapshots, nil
}

func (c *Collection) GetSnapshot(id int) (*entity.RawSnapshot, error) {
	snapshot, err := c.snapshotRepo.GetSnapshot(id)
	if errors.Is(err, repo.ErrSnapshotNotFound) {
		return nil, usecase.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения снапшота %d: %w", id, err)
	}
	return snapshot, nil
}

func (c *Collection) ProcessPendingJobs(workerID string) error {
	jobs, err := c.collectionRepo.ClaimPendingJobs(workerID, claimBatchSize)
	if err != nil {
		return fmt.Errorf("ошибка закрепления задач за воркером %s: %w", workerID, err)
	}

	for _, job := range jobs {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		err := c.processJob(ctx, job)
		cancel()
		if err != nil {
			log.Errorf("Ошибка обработки задачи сбора %s (%s): %v", job.ID, job.Username, err)
			if failErr := c.collectionRepo.FailJob(job.ID, err.Error()); failErr != nil {
				log.Errorf("Ошибка пометки задачи %s как проваленной: %v", job.ID, failErr)
			}
			// Контекст задачи к этому моменту мог истечь, поэтому событие
			// об ошибке публикуется на отдельном контексте
			publishCtx, publishCancel := context.WithTimeout(context.Background(), eventPublishTimeout)
			c.publishEvent(publishCtx, job, entity.CollectionErrored, 0)
			publishCancel()
		}
	}
	return nil
}

// processJob исполняет одну задачу: запускает сбор у провайдера, дожидается
// его завершения, забирает посты, сохраняет их и архивирует сырой ответ
func (c *Collection) processJob(ctx context.Context, job *entity.CollectionJob) error {
	c.publishEvent(ctx, job, entity.CollectionStarted, 0)

	err := retry.Retry(func() error {
		return c.provider.TriggerCollection(ctx, job.Username)
	})
	if err != nil {
		return fmt.Errorf("провайдер не принял запрос на сбор: %w", err)
	}

	if err := c.waitForProvider(ctx, job.Username); err != nil {
		return err
	}

	var posts []*entity.InstagramPost
	var rawPayload []byte
	err = retry.Retry(func() error {
		var fetchErr error
		posts, rawPayload, fetchErr = c.provider.FetchUserMedia(ctx, job.Username)
		return fetchErr
	})
	if err != nil {
		return fmt.Errorf("ошибка получения постов от провайдера: %w", err)
	}

	if err := c.postRepo.UpsertPosts(posts); err != nil {
		return fmt.Errorf("ошибка сохранения постов: %w", err)
	}

	// Архивируем сырой ответ, чтобы отчёт можно было пересчитать
	// по исходным данным. Ошибка архивации не проваливает задачу.
	_, err = c.snapshotRepo.ArchiveSnapshot(&entity.RawSnapshot{
		JobID:    job.ID,
		Username: job.Username,
		Size:     int64(len(rawPayload)),
		RawBytes: bytes.NewReader(rawPayload),
	})
	if err != nil {
		log.Errorf("Ошибка архивации снапшота для задачи %s: %v", job.ID, err)
	}

	if err := c.collectionRepo.CompleteJob(job.ID, len(posts)); err != nil {
		return fmt.Errorf("ошибка завершения задачи: %w", err)
	}
	c.publishEvent(ctx, job, entity.CollectionFinished, len(posts))
	return nil
}

// waitForProvider опрашивает провайдера, пока сбор не завершится
// или не истечёт контекст задачи
func (c *Collection) waitForProvider(ctx context.Context, username string) error {
	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()

	for {
		status, err := c.provider.CollectionStatus(ctx, username)
		if err != nil {
			return fmt.Errorf("ошибка опроса статуса сбора: %w", err)
		}
		switch status {
		case entity.CollectionCompleted:
			return nil
		case entity.CollectionFailed:
			return errors.New("провайдер сообщил об ошибке сбора")
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("сбор по аккаунту %s не завершился вовремя: %w", username, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Collection) publishEvent(ctx context.Context, job *entity.CollectionJob, eventType entity.CollectionEventType, postsCollected int) {
	event := &entity.CollectionEvent{
		EventID:        uuid.New().String(),
		JobID:          job.ID,
		Username:       job.Username,
		Type:           eventType,
		PostsCollected: postsCollected,
		OccurredAt:     time.Now(),
	}
	if err := c.eventRepo.PublishCollectionEvent(ctx, event); err != nil {
		log.Errorf("Ошибка публикации события сбора %s: %v", eventType, err)
	}
}
