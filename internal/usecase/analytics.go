package usecase

import (
	"errors"
	"instalytics-backend/internal/entity"
)

type Analytics interface {
	// GetEnrichedMedia возвращает посты по фильтру с производными метриками
	GetEnrichedMedia(request *entity.GetMediaRequest) ([]*entity.EnrichedPost, error)
	// GetEnrichedPost возвращает один пост по media_id с производными метриками
	GetEnrichedPost(mediaID string) (*entity.EnrichedPost, error)
	// CountMedia возвращает число сохранённых постов аккаунта
	CountMedia(username string) (int, error)
	// GetContentStrategyReport строит отчёт по контент-стратегии аккаунта
	GetContentStrategyReport(request *entity.GetReportRequest) (*entity.ContentStrategyReport, error)
	// GetGrowthOpportunities возвращает списки точек роста аккаунта
	GetGrowthOpportunities(request *entity.GetReportRequest) (*entity.GrowthOpportunities, error)
}

var (
	ErrNoPostsCollected = errors.New("no posts collected for this account")
	ErrPostNotFound     = errors.New("post not found")
)
