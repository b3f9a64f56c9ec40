package entity

import "time"

type GetMediaRequest struct {
	UserID int `query:"-"`
	PostFilter
}

type GetReportRequest struct {
	UserID   int       `query:"-"`
	Username string    `query:"username"`
	Start    time.Time `query:"start"`
	End      time.Time `query:"end"`
}

// TypePerformance — накопленная статистика по одному типу контента
type TypePerformance struct {
	Posts           int     `json:"posts"`
	TotalEngagement int     `json:"total_engagement"`
	AvgEngagement   float64 `json:"avg_engagement"`
}

type GrowthOpportunities struct {
	UnderperformingContent     []*EnrichedPost `json:"underperforming_content"`
	ViralPotential             []*EnrichedPost `json:"viral_potential"`
	CollaborationOpportunities []*EnrichedPost `json:"collaboration_opportunities"`
}

// ContentStrategyReport — итоговый отчёт агрегатора. Поля Recommendations,
// BestFeatures, EngagementTrends, AudiencePreferences и ContentGaps — точки
// расширения: расчёты для них ещё не определены, пока возвращаются пустыми.
type ContentStrategyReport struct {
	Username            string                          `json:"username,omitempty"`
	TotalPosts          int                             `json:"total_posts"`
	ContentDistribution map[ContentType]int             `json:"content_distribution"`
	PerformanceByType   map[ContentType]TypePerformance `json:"performance_by_type"`
	Opportunities       GrowthOpportunities             `json:"growth_opportunities"`
	Recommendations     []string                        `json:"recommendations"`
	BestFeatures        []string                        `json:"best_features"`
	EngagementTrends    []string                        `json:"engagement_trends"`
	AudiencePreferences []string                        `json:"audience_preferences"`
	ContentGaps         []string                        `json:"content_gaps"`
	GeneratedAt         time.Time                       `json:"generated_at"`
}
