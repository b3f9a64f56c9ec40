package entity

import "time"

type CollectionEventType string

const (
	CollectionStarted  CollectionEventType = "started"
	CollectionFinished CollectionEventType = "finished"
	CollectionErrored  CollectionEventType = "errored"
)

// CollectionEvent публикуется воркером в Kafka при изменении статуса сбора
type CollectionEvent struct {
	EventID        string              `json:"-" msgpack:"event_id"`
	JobID          string              `json:"job_id" msgpack:"job_id"`
	Username       string              `json:"username" msgpack:"username"`
	Type           CollectionEventType `json:"type" msgpack:"type"`
	PostsCollected int                 `json:"posts_collected" msgpack:"posts_collected"`
	OccurredAt     time.Time           `json:"-" msgpack:"occurred_at"`
}
