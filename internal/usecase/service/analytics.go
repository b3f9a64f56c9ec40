package service

import (
	"errors"
	"fmt"
	"instalytics-backend/internal/entity"
	"instalytics-backend/internal/repo"
	"instalytics-backend/internal/usecase"
	"time"
)

// Пороговые значения для поиска точек роста
const (
	underperformingThreshold = 100
	viralityThreshold        = 5
)

const maxQualityScore = 20

type Analytics struct {
	postRepo repo.Post
}

func NewAnalytics(postRepo repo.Post) usecase.Analytics {
	return &Analytics{
		postRepo: postRepo,
	}
}

// classifyContent определяет тип контента поста. Порядок проверок важен:
// категории в сырых данных не взаимоисключающие (у reel есть и is_video,
// и media_type), поэтому побеждает первое совпадение.
func classifyContent(post *entity.InstagramPost) entity.ContentType {
	switch {
	case post.IsVideo && post.MediaType == "reel":
		return entity.ContentTypeReel
	case post.CarouselMediaCount > 1:
		return entity.ContentTypeCarousel
	case post.IsVideo:
		return entity.ContentTypeVideo
	default:
		return entity.ContentTypeImage
	}
}

// scorePost вычисляет производные метрики эффективности поста.
// Вся арифметика в float64, деление на ноль заменяется нулём.
func scorePost(post *entity.InstagramPost) entity.Performance {
	likes := float64(post.LikeCount)
	comments := float64(post.CommentCount)

	// Сохранения и репосты намеренно не входят в engagementScore,
	// они учитываются отдельно в totalEngagement и qualityScore
	engagement := likes + comments

	reach := float64(post.VideoViewCount)
	if engagement > reach {
		reach = engagement
	}

	quality := engagement / 100
	if quality > 10 {
		quality = 10
	}
	if len([]rune(post.Caption)) > 50 {
		quality += 2
	}
	if len(post.Hashtags) > 0 {
		quality += 1
	}
	if post.LocationName != "" {
		quality += 1
	}
	if engagement > 0 && post.SaveCount > 0 {
		saveRatio := float64(post.SaveCount) / engagement * 10
		if saveRatio > 3 {
			saveRatio = 3
		}
		quality += saveRatio
	}
	if quality > maxQualityScore {
		quality = maxQualityScore
	}

	shareScore := float64(post.ShareCount+post.ReshareCount) * 2
	discussionScore := 0.0
	if likes > 0 {
		discussionScore = comments / likes * 5
	}

	return entity.Performance{
		EngagementScore: engagement,
		ReachScore:      reach,
		QualityScore:    quality,
		ViralityScore:   shareScore + discussionScore,
	}
}

// totalEngagement считает суммарную вовлечённость поста. В отличие от
// engagementScore сюда входят сохранения и репосты — оба значения
// сосуществуют и не взаимозаменяемы.
func totalEngagement(post *entity.InstagramPost) int {
	return post.LikeCount + post.CommentCount + post.SaveCount + post.ShareCount
}

// collaborationType классифицирует пост по типу сотрудничества.
// Приоритет: sponsored > advertisement > collaboration > organic.
func collaborationType(post *entity.InstagramPost) entity.CollaborationType {
	switch {
	case post.IsSponsored:
		return entity.CollaborationSponsored
	case post.IsAd:
		return entity.CollaborationAdvertisement
	case post.CollabWith != "":
		return entity.CollaborationCollab
	default:
		return entity.CollaborationOrganic
	}
}

// EnrichPost присоединяет к посту производные метрики, не изменяя исходных
// полей. Повторное обогащение по тем же исходным полям даёт идентичный результат.
func EnrichPost(post *entity.InstagramPost) *entity.EnrichedPost {
	enriched := &entity.EnrichedPost{
		InstagramPost:   *post,
		TotalEngagement: totalEngagement(post),
		ContentType:     classifyContent(post),
		Performance:     scorePost(post),
	}

	if post.IsVideo {
		ratio := 0.0
		if post.VideoViewCount > 0 {
			ratio = float64(enriched.TotalEngagement) / float64(post.VideoViewCount)
		}
		enriched.VideoMetrics = &entity.VideoMetrics{
			PlayCount:             post.PlayCount,
			VideoViewCount:        post.VideoViewCount,
			ViewToEngagementRatio: ratio,
		}
	}

	if post.IsCollab {
		enriched.CollaborationMetrics = &entity.CollaborationMetrics{
			Type:       collaborationType(post),
			CollabWith: post.CollabWith,
		}
	}

	return enriched
}

// EnrichPosts обогащает пачку постов с сохранением порядка, один к одному.
// Пустой вход даёт пустой выход.
func EnrichPosts(posts []*entity.InstagramPost) []*entity.EnrichedPost {
	enriched := make([]*entity.EnrichedPost, len(posts))
	for i, post := range posts {
		enriched[i] = EnrichPost(post)
	}
	return enriched
}

// buildGrowthOpportunities выбирает из обогащённой пачки посты-кандидаты
// на улучшение по фиксированным порогам
func buildGrowthOpportunities(posts []*entity.EnrichedPost) entity.GrowthOpportunities {
	opportunities := entity.GrowthOpportunities{
		UnderperformingContent:     make([]*entity.EnrichedPost, 0),
		ViralPotential:             make([]*entity.EnrichedPost, 0),
		CollaborationOpportunities: make([]*entity.EnrichedPost, 0),
	}
	for _, post := range posts {
		if post.Performance.EngagementScore < underperformingThreshold {
			opportunities.UnderperformingContent = append(opportunities.UnderperformingContent, post)
		}
		if post.Performance.ViralityScore > viralityThreshold {
			opportunities.ViralPotential = append(opportunities.ViralPotential, post)
		}
		if post.CollaborationMetrics != nil {
			opportunities.CollaborationOpportunities = append(opportunities.CollaborationOpportunities, post)
		}
	}
	return opportunities
}

// BuildReport сводит обогащённую пачку в отчёт по контент-стратегии.
// Для типа контента без постов средняя вовлечённость не вычисляется —
// такого ключа просто нет в карте.
func BuildReport(posts []*entity.EnrichedPost) *entity.ContentStrategyReport {
	distribution := make(map[entity.ContentType]int)
	performance := make(map[entity.ContentType]entity.TypePerformance)

	for _, post := range posts {
		distribution[post.ContentType]++
		typePerf := performance[post.ContentType]
		typePerf.Posts++
		typePerf.TotalEngagement += post.TotalEngagement
		performance[post.ContentType] = typePerf
	}
	for contentType, typePerf := range performance {
		typePerf.AvgEngagement = float64(typePerf.TotalEngagement) / float64(typePerf.Posts)
		performance[contentType] = typePerf
	}

	return &entity.ContentStrategyReport{
		TotalPosts:          len(posts),
		ContentDistribution: distribution,
		PerformanceByType:   performance,
		Opportunities:       buildGrowthOpportunities(posts),
		// Точки расширения: вычисления пока не определены
		Recommendations:     []string{},
		BestFeatures:        []string{},
		EngagementTrends:    []string{},
		AudiencePreferences: []string{},
		ContentGaps:         []string{},
		GeneratedAt:         time.Now(),
	}
}

func (a *Analytics) GetEnrichedMedia(request *entity.GetMediaRequest) ([]*entity.EnrichedPost, error) {
	posts, err := a.postRepo.GetPosts(&request.PostFilter)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения постов: %w", err)
	}
	return EnrichPosts(posts), nil
}

func (a *Analytics) GetEnrichedPost(mediaID string) (*entity.EnrichedPost, error) {
	post, err := a.postRepo.GetPost(mediaID)
	if errors.Is(err, repo.ErrPostNotFound) {
		return nil, usecase.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка получения поста %s: %w", mediaID, err)
	}
	return EnrichPost(post), nil
}

func (a *Analytics) CountMedia(username string) (int, error) {
	count, err := a.postRepo.CountPosts(username)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта постов аккаунта %s: %w", username, err)
	}
	return count, nil
}

func (a *Analytics) GetContentStrategyReport(request *entity.GetReportRequest) (*entity.ContentStrategyReport, error) {
	posts, err := a.loadPosts(request)
	if err != nil {
		return nil, err
	}
	report := BuildReport(EnrichPosts(posts))
	report.Username = request.Username
	return report, nil
}

func (a *Analytics) GetGrowthOpportunities(request *entity.GetReportRequest) (*entity.GrowthOpportunities, error) {
	posts, err := a.loadPosts(request)
	if err != nil {
		return nil, err
	}
	opportunities := buildGrowthOpportunities(EnrichPosts(posts))
	return &opportunities, nil
}

func (a *Analytics) loadPosts(request *entity.GetReportRequest) ([]*entity.InstagramPost, error) {
	posts, err := a.postRepo.GetPosts(&entity.PostFilter{
		Username: request.Username,
		Since:    request.Start,
		Until:    request.End,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка получения постов: %w", err)
	}
	if len(posts) == 0 {
		return nil, usecase.ErrNoPostsCollected
	}
	return posts, nil
}
