package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"instalytics-backend/internal/entity"
	"instalytics-backend/internal/repo"
	"io"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/minio/minio-go/v7"
)

const snapshotBucket = "raw-snapshots"

type Snapshot struct {
	db          *sqlx.DB
	minioClient *minio.Client
}

func NewSnapshot(db *sqlx.DB, minioClient *minio.Client) (repo.Snapshot, error) {
	// Создаём бакет для снапшотов, предварительно проверив, что его нет
	ctx := context.TODO()
	exists, err := minioClient.BucketExists(ctx, snapshotBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		err = minioClient.MakeBucket(ctx, snapshotBucket, minio.MakeBucketOptions{})
		if err != nil {
			return nil, err
		}
	}
	return &Snapshot{
		db:          db,
		minioClient: minioClient,
	}, nil
}

func (s *Snapshot) ArchiveSnapshot(snapshot *entity.RawSnapshot) (int, error) {
	// Сначала кладём объект в S3-хранилище, потом индексную запись в БД
	ctx := context.TODO()
	rawBytes, err := io.ReadAll(snapshot.RawBytes)
	if err != nil {
		return 0, err
	}

	objectKey := fmt.Sprintf("%s/%s.json", snapshot.Username, snapshot.JobID)
	_, err = s.minioClient.PutObject(
		ctx,
		snapshotBucket,
		objectKey,
		bytes.NewReader(rawBytes),
		int64(len(rawBytes)),
		minio.PutObjectOptions{
			ContentType: "application/json",
		},
	)
	if err != nil {
		return 0, err
	}

	var id int
	query := `
        INSERT INTO raw_snapshot (job_id, username, object_key, size, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	err = s.db.QueryRow(query, snapshot.JobID, snapshot.Username, objectKey, len(rawBytes), time.Now()).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Snapshot) GetSnapshot(id int) (*entity.RawSnapshot, error) {
	snapshot := &entity.RawSnapshot{}
	query := `SELECT id, job_id, username, object_key, size, created_at FROM raw_snapshot WHERE id = $1`
	err := s.db.Get(snapshot, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrSnapshotNotFound
		}
		return nil, err
	}

	ctx := context.TODO()
	object, err := s.minioClient.GetObject(ctx, snapshotBucket, snapshot.ObjectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	snapshot.RawBytes = object
	return snapshot, nil
}

func (s *Snapshot) GetSnapshotsInfo(username string) ([]*entity.RawSnapshot, error) {
	query := `
        SELECT id, job_id, username, object_key, size, created_at
        FROM raw_snapshot
        WHERE username = $1
        ORDER BY created_at DESC
    `
	snapshots := make([]*entity.RawSnapshot, 0)
	if err := s.db.Select(&snapshots, query, username); err != nil {
		return nil, err
	}
	return snapshots, nil
}
