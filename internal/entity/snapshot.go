package entity

import (
	"io"
	"time"
)

// RawSnapshot — сырой ответ провайдера, заархивированный в объектное хранилище.
// Позволяет пересчитать аналитику по тому же самому набору данных,
// из которого был построен отчёт.
type RawSnapshot struct {
	ID        int       `json:"id" db:"id"`
	JobID     string    `json:"job_id" db:"job_id"`
	Username  string    `json:"username" db:"username"`
	ObjectKey string    `json:"-" db:"object_key"`
	Size      int64     `json:"size" db:"size"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	RawBytes  io.Reader `json:"-" db:"-"`
}
