package service

import (
	"context"
	"instalytics-backend/internal/usecase"
	"time"

	"github.com/labstack/gommon/log"
)

type CollectorWorker struct {
	collection           usecase.Collection
	workerID             string
	workerUpdateInterval time.Duration
}

func NewCollectorWorker(collection usecase.Collection, workerID string, workerUpdateInterval time.Duration) *CollectorWorker {
	return &CollectorWorker{
		collection:           collection,
		workerID:             workerID,
		workerUpdateInterval: workerUpdateInterval,
	}
}

func (w *CollectorWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.workerUpdateInterval)
	defer ticker.Stop()

	log.Infof("Запущен воркер сбора данных: %s", w.workerID)

	for {
		select {
		case <-ctx.Done():
			log.Infof("Остановка воркера сбора данных: %s", w.workerID)
			return
		case <-ticker.C:
			if err := w.collection.ProcessPendingJobs(w.workerID); err != nil {
				log.Errorf("Ошибка обработки задач сбора данных: %v", err)
			}
		}
	}
}
