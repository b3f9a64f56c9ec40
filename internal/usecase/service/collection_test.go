package service

import (
	"context"
	"io"
	"testing"
	"time"

	"instalytics-backend/internal/entity"
	"instalytics-backend/internal/repo"
	"instalytics-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Фейковые реализации репозиториев и провайдера
// ---------------------------------------------------------------------------

type fakeCollectionRepo struct {
	jobs []*entity.CollectionJob
}

func (f *fakeCollectionRepo) CreateJob(job *entity.CollectionJob) error {
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeCollectionRepo) GetJob(jobID string) (*entity.CollectionJob, error) {
	for _, job := range f.jobs {
		if job.ID == jobID {
			return job, nil
		}
	}
	return nil, repo.ErrCollectionJobNotFound
}

func (f *fakeCollectionRepo) GetLatestJob(username string) (*entity.CollectionJob, error) {
	for i := len(f.jobs) - 1; i >= 0; i-- {
		if f.jobs[i].Username == username {
			return f.jobs[i], nil
		}
	}
	return nil, repo.ErrCollectionJobNotFound
}

func (f *fakeCollectionRepo) ClaimPendingJobs(workerID string, limit int) ([]*entity.CollectionJob, error) {
	claimed := make([]*entity.CollectionJob, 0)
	for _, job := range f.jobs {
		if job.Status == entity.CollectionPending && len(claimed) < limit {
			job.Status = entity.CollectionRunning
			job.WorkerID = &workerID
			claimed = append(claimed, job)
		}
	}
	return claimed, nil
}

func (f *fakeCollectionRepo) CompleteJob(jobID string, postsCollected int) error {
	job, err := f.GetJob(jobID)
	if err != nil {
		return err
	}
	job.Status = entity.CollectionCompleted
	job.PostsCollected = postsCollected
	return nil
}

func (f *fakeCollectionRepo) FailJob(jobID string, reason string) error {
	job, err := f.GetJob(jobID)
	if err != nil {
		return err
	}
	job.Status = entity.CollectionFailed
	job.Error = &reason
	return nil
}

type fakePostRepo struct {
	upserted []*entity.InstagramPost
}

func (f *fakePostRepo) UpsertPosts(posts []*entity.InstagramPost) error {
	f.upserted = append(f.upserted, posts...)
	return nil
}

func (f *fakePostRepo) GetPost(mediaID string) (*entity.InstagramPost, error) {
	for _, post := range f.upserted {
		if post.MediaID == mediaID {
			return post, nil
		}
	}
	return nil, repo.ErrPostNotFound
}

func (f *fakePostRepo) GetPosts(*entity.PostFilter) ([]*entity.InstagramPost, error) {
	return f.upserted, nil
}

func (f *fakePostRepo) CountPosts(string) (int, error) {
	return len(f.upserted), nil
}

type fakeSnapshotRepo struct {
	archived []*entity.RawSnapshot
}

func (f *fakeSnapshotRepo) ArchiveSnapshot(snapshot *entity.RawSnapshot) (int, error) {
	f.archived = append(f.archived, snapshot)
	return len(f.archived), nil
}

func (f *fakeSnapshotRepo) GetSnapshot(id int) (*entity.RawSnapshot, error) {
	if id < 1 || id > len(f.archived) {
		return nil, repo.ErrSnapshotNotFound
	}
	return f.archived[id-1], nil
}

func (f *fakeSnapshotRepo) GetSnapshotsInfo(username string) ([]*entity.RawSnapshot, error) {
	snapshots := make([]*entity.RawSnapshot, 0)
	for _, snapshot := range f.archived {
		if snapshot.Username == username {
			snapshots = append(snapshots, snapshot)
		}
	}
	return snapshots, nil
}

type fakeEventRepo struct {
	published  []*entity.CollectionEvent
	subscribed []string
	events     chan *entity.CollectionEvent
}

// Публикация на истёкшем контексте проваливается, как и настоящая запись в Kafka
func (f *fakeEventRepo) PublishCollectionEvent(ctx context.Context, event *entity.CollectionEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.published = append(f.published, event)
	return nil
}

func (f *fakeEventRepo) SubscribeCollectionEvents(_ context.Context, username string) (<-chan *entity.CollectionEvent, error) {
	f.subscribed = append(f.subscribed, username)
	return f.events, nil
}

type fakeProvider struct {
	status     entity.CollectionStatus
	posts      []*entity.InstagramPost
	rawPayload []byte
	triggerErr error
}

func (f *fakeProvider) TriggerCollection(context.Context, string) error {
	return f.triggerErr
}

func (f *fakeProvider) CollectionStatus(context.Context, string) (entity.CollectionStatus, error) {
	return f.status, nil
}

func (f *fakeProvider) FetchUserMedia(context.Context, string) ([]*entity.InstagramPost, []byte, error) {
	return f.posts, f.rawPayload, nil
}

// ---------------------------------------------------------------------------
// Тесты
// ---------------------------------------------------------------------------

func newCollectionService(provider *fakeProvider) (*Collection, *fakeCollectionRepo, *fakePostRepo, *fakeSnapshotRepo, *fakeEventRepo) {
	collectionRepo := &fakeCollectionRepo{}
	postRepo := &fakePostRepo{}
	snapshotRepo := &fakeSnapshotRepo{}
	eventRepo := &fakeEventRepo{}
	collection := NewCollection(collectionRepo, postRepo, snapshotRepo, eventRepo, provider).(*Collection)
	return collection, collectionRepo, postRepo, snapshotRepo, eventRepo
}

func TestRequestCollection_CreatesPendingJob(t *testing.T) {
	collection, collectionRepo, _, _, _ := newCollectionService(&fakeProvider{})

	job, err := collection.RequestCollection(&entity.CollectUserDataRequest{
		UserID:   1,
		Username: "  Some_Account ",
	})
	require.NoError(t, err)

	// Имя аккаунта нормализуется
	assert.Equal(t, "some_account", job.Username)
	assert.Equal(t, entity.CollectionPending, job.Status)
	assert.NotEmpty(t, job.ID)
	assert.Len(t, collectionRepo.jobs, 1)
}

func TestRequestCollection_DoesNotDuplicateActiveJob(t *testing.T) {
	collection, collectionRepo, _, _, _ := newCollectionService(&fakeProvider{})

	first, err := collection.RequestCollection(&entity.CollectUserDataRequest{UserID: 1, Username: "some_account"})
	require.NoError(t, err)
	second, err := collection.RequestCollection(&entity.CollectUserDataRequest{UserID: 2, Username: "some_account"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, collectionRepo.jobs, 1)
}

func TestRequestCollection_EmptyUsername(t *testing.T) {
	collection, _, _, _, _ := newCollectionService(&fakeProvider{})

	_, err := collection.RequestCollection(&entity.CollectUserDataRequest{UserID: 1, Username: "   "})
	assert.Error(t, err)
}

func TestGetCollectionStatus_NotRequested(t *testing.T) {
	collection, _, _, _, _ := newCollectionService(&fakeProvider{})

	_, err := collection.GetCollectionStatus(&entity.GetCollectionStatusRequest{Username: "ghost"})
	assert.Error(t, err)
}

func TestProcessPendingJobs_HappyPath(t *testing.T) {
	provider := &fakeProvider{
		status: entity.CollectionCompleted,
		posts: []*entity.InstagramPost{
			{MediaID: "m1", LikeCount: 100},
			{MediaID: "m2", LikeCount: 200},
		},
		rawPayload: []byte(`{"data": []}`),
	}
	collection, collectionRepo, postRepo, snapshotRepo, eventRepo := newCollectionService(provider)

	job, err := collection.RequestCollection(&entity.CollectUserDataRequest{UserID: 1, Username: "some_account"})
	require.NoError(t, err)

	require.NoError(t, collection.ProcessPendingJobs("worker-1"))

	// Задача завершена, посты сохранены
	stored, err := collectionRepo.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CollectionCompleted, stored.Status)
	assert.Equal(t, 2, stored.PostsCollected)
	assert.Len(t, postRepo.upserted, 2)

	// Сырой ответ провайдера заархивирован
	require.Len(t, snapshotRepo.archived, 1)
	assert.Equal(t, job.ID, snapshotRepo.archived[0].JobID)
	raw, err := io.ReadAll(snapshotRepo.archived[0].RawBytes)
	require.NoError(t, err)
	assert.Equal(t, `{"data": []}`, string(raw))

	// Опубликованы события начала и завершения
	require.Len(t, eventRepo.published, 2)
	assert.Equal(t, entity.CollectionStarted, eventRepo.published[0].Type)
	assert.Equal(t, entity.CollectionFinished, eventRepo.published[1].Type)
	assert.Equal(t, 2, eventRepo.published[1].PostsCollected)
}

func TestProcessPendingJobs_ProviderReportsFailure(t *testing.T) {
	provider := &fakeProvider{status: entity.CollectionFailed}
	collection, collectionRepo, _, _, eventRepo := newCollectionService(provider)

	job, err := collection.RequestCollection(&entity.CollectUserDataRequest{UserID: 1, Username: "some_account"})
	require.NoError(t, err)

	require.NoError(t, collection.ProcessPendingJobs("worker-1"))

	stored, err := collectionRepo.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CollectionFailed, stored.Status)
	require.NotNil(t, stored.Error)

	// Последнее событие — об ошибке
	require.NotEmpty(t, eventRepo.published)
	assert.Equal(t, entity.CollectionErrored, eventRepo.published[len(eventRepo.published)-1].Type)
}

func TestProcessPendingJobs_PublishesErrorEventAfterJobTimeout(t *testing.T) {
	prevTimeout, prevPoll := jobTimeout, statusPollInterval
	jobTimeout = 50 * time.Millisecond
	statusPollInterval = 5 * time.Millisecond
	t.Cleanup(func() { jobTimeout, statusPollInterval = prevTimeout, prevPoll })

	// Провайдер никогда не завершает сбор, задача проваливается по таймауту
	provider := &fakeProvider{status: entity.CollectionRunning}
	collection, collectionRepo, _, _, eventRepo := newCollectionService(provider)

	job, err := collection.RequestCollection(&entity.CollectUserDataRequest{UserID: 1, Username: "some_account"})
	require.NoError(t, err)

	require.NoError(t, collection.ProcessPendingJobs("worker-1"))

	stored, err := collectionRepo.GetJob(job.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CollectionFailed, stored.Status)

	// Событие об ошибке публикуется, хотя контекст задачи уже истёк
	require.NotEmpty(t, eventRepo.published)
	assert.Equal(t, entity.CollectionErrored, eventRepo.published[len(eventRepo.published)-1].Type)
}

func TestSubscribeCollectionEvents_NormalizesUsername(t *testing.T) {
	collection, _, _, _, eventRepo := newCollectionService(&fakeProvider{})
	eventRepo.events = make(chan *entity.CollectionEvent, 1)

	ch, err := collection.SubscribeCollectionEvents(context.Background(), &entity.GetCollectionStatusRequest{
		Username: "  Some_Account ",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"some_account"}, eventRepo.subscribed)

	event := &entity.CollectionEvent{JobID: "j1", Type: entity.CollectionFinished}
	eventRepo.events <- event
	assert.Equal(t, event, <-ch)
}

func TestSubscribeCollectionEvents_EmptyUsername(t *testing.T) {
	collection, _, _, _, _ := newCollectionService(&fakeProvider{})

	_, err := collection.SubscribeCollectionEvents(context.Background(), &entity.GetCollectionStatusRequest{
		Username: "   ",
	})
	assert.ErrorIs(t, err, usecase.ErrUsernameEmpty)
}

func TestGetSnapshots_FiltersByAccount(t *testing.T) {
	collection, _, _, snapshotRepo, _ := newCollectionService(&fakeProvider{})
	snapshotRepo.archived = []*entity.RawSnapshot{
		{ID: 1, JobID: "j1", Username: "some_account"},
		{ID: 2, JobID: "j2", Username: "other_account"},
	}

	snapshots, err := collection.GetSnapshots(&entity.GetCollectionStatusRequest{Username: "Some_Account"})
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, "j1", snapshots[0].JobID)
}

func TestGetSnapshot_NotFound(t *testing.T) {
	collection, _, _, _, _ := newCollectionService(&fakeProvider{})

	_, err := collection.GetSnapshot(99)
	assert.ErrorIs(t, err, usecase.ErrSnapshotNotFound)
}
