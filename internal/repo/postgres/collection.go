package postgres

import (
	"database/sql"
	"errors"
	"instalytics-backend/internal/entity"
	"instalytics-backend/internal/repo"
	"time"

	"github.com/jmoiron/sqlx"
)

const collectionColumns = `id, username, status, requested_by, worker_id,
	posts_collected, error, created_at, started_at, finished_at`

type Collection struct {
	db *sqlx.DB
}

func NewCollection(db *sqlx.DB) repo.Collection {
	return &Collection{
		db: db,
	}
}

func (c *Collection) CreateJob(job *entity.CollectionJob) error {
	query := `
        INSERT INTO collection_job (id, username, status, requested_by, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := c.db.Exec(query, job.ID, job.Username, job.Status, job.RequestedBy, job.CreatedAt)
	return err
}

func (c *Collection) GetJob(jobID string) (*entity.CollectionJob, error) {
	query := `SELECT ` + collectionColumns + ` FROM collection_job WHERE id = $1`

	var job entity.CollectionJob
	err := c.db.Get(&job, query, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrCollectionJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (c *Collection) GetLatestJob(username string) (*entity.CollectionJob, error) {
	query := `
        SELECT ` + collectionColumns + `
        FROM collection_job
        WHERE username = $1
        ORDER BY created_at DESC
        LIMIT 1
    `

	var job entity.CollectionJob
	err := c.db.Get(&job, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrCollectionJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (c *Collection) ClaimPendingJobs(workerID string, limit int) ([]*entity.CollectionJob, error) {
	// Закрепление атомарное: несколько воркеров не получат одну и ту же задачу
	query := `
        UPDATE collection_job
        SET status = 'running', worker_id = $1, started_at = $2
        WHERE id IN (
            SELECT id FROM collection_job
            WHERE status = 'pending'
            ORDER BY created_at
            LIMIT $3
            FOR UPDATE SKIP LOCKED
        )
        RETURNING ` + collectionColumns

	jobs := make([]*entity.CollectionJob, 0, limit)
	if err := c.db.Select(&jobs, query, workerID, time.Now(), limit); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *Collection) CompleteJob(jobID string, postsCollected int) error {
	query := `
        UPDATE collection_job
        SET status = 'completed', posts_collected = $1, finished_at = $2
        WHERE id = $3
    `
	return c.execForJob(query, postsCollected, time.Now(), jobID)
}

func (c *Collection) FailJob(jobID string, reason string) error {
	query := `
        UPDATE collection_job
        SET status = 'failed', error = $1, finished_at = $2
        WHERE id = $3
    `
	return c.execForJob(query, reason, time.Now(), jobID)
}

func (c *Collection) execForJob(query string, args ...any) error {
	result, err := c.db.Exec(query, args...)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repo.ErrCollectionJobNotFound
	}
	return nil
}
