package entity

import (
	"time"

	"github.com/lib/pq"
)

type ContentType string

const (
	ContentTypeReel     ContentType = "reel"
	ContentTypeCarousel ContentType = "carousel"
	ContentTypeVideo    ContentType = "video"
	ContentTypeImage    ContentType = "image"
)

type CollaborationType string

const (
	CollaborationSponsored     CollaborationType = "sponsored"
	CollaborationAdvertisement CollaborationType = "advertisement"
	CollaborationCollab        CollaborationType = "collaboration"
	CollaborationOrganic       CollaborationType = "organic"
)

// InstagramPost — пост в том виде, в котором он получен от провайдера данных.
// Все числовые поля опциональны у провайдера и при отсутствии равны нулю,
// валидация типов происходит один раз на границе (при разборе ответа провайдера),
// поэтому арифметика аналитики может считать поля всегда заполненными.
type InstagramPost struct {
	ID                 int            `json:"-" db:"id"`
	Username           string         `json:"username" db:"username"`
	MediaID            string         `json:"media_id" db:"media_id"`
	Shortcode          string         `json:"shortcode" db:"shortcode"`
	TakenAt            time.Time      `json:"taken_at" db:"taken_at"`
	LikeCount          int            `json:"like_count" db:"like_count"`
	CommentCount       int            `json:"comment_count" db:"comment_count"`
	SaveCount          int            `json:"save_count" db:"save_count"`
	ShareCount         int            `json:"share_count" db:"share_count"`
	ReshareCount       int            `json:"reshare_count" db:"reshare_count"`
	PlayCount          int            `json:"play_count" db:"play_count"`
	VideoViewCount     int            `json:"video_view_count" db:"video_view_count"`
	IsVideo            bool           `json:"is_video" db:"is_video"`
	MediaType          string         `json:"media_type" db:"media_type"`
	CarouselMediaCount int            `json:"carousel_media_count" db:"carousel_media_count"`
	Caption            string         `json:"caption" db:"caption"`
	Hashtags           pq.StringArray `json:"hashtags" db:"hashtags"`
	LocationName       string         `json:"location_name" db:"location_name"`
	IsCollab           bool           `json:"is_collab" db:"is_collab"`
	CollabWith         string         `json:"collab_with" db:"collab_with"`
	IsSponsored        bool           `json:"is_sponsored" db:"is_sponsored"`
	IsAd               bool           `json:"is_ad" db:"is_ad"`
}

// VideoMetrics присутствует только у видео-постов
type VideoMetrics struct {
	PlayCount             int     `json:"play_count"`
	VideoViewCount        int     `json:"video_view_count"`
	ViewToEngagementRatio float64 `json:"view_to_engagement_ratio"`
}

type Performance struct {
	EngagementScore float64 `json:"engagement_score"`
	ReachScore      float64 `json:"reach_score"`
	QualityScore    float64 `json:"quality_score"`
	ViralityScore   float64 `json:"virality_score"`
}

type CollaborationMetrics struct {
	Type       CollaborationType `json:"type"`
	CollabWith string            `json:"collab_with,omitempty"`
}

// EnrichedPost — исходный пост плюс производные метрики. Исходные поля
// не изменяются, обогащение идемпотентно: повторный прогон по тем же
// исходным полям даёт те же производные значения.
type EnrichedPost struct {
	InstagramPost
	TotalEngagement      int                   `json:"total_engagement"`
	ContentType          ContentType           `json:"content_type"`
	VideoMetrics         *VideoMetrics         `json:"video_metrics,omitempty"`
	Performance          Performance           `json:"performance"`
	CollaborationMetrics *CollaborationMetrics `json:"collaboration_metrics,omitempty"`
}

// PostFilter — опциональные фильтры выборки постов из хранилища
type PostFilter struct {
	Username    string    `query:"username"`
	OnlyVideo   bool      `query:"only_video"`
	OnlyCollab  bool      `query:"only_collab"`
	Since       time.Time `query:"since"`
	Until       time.Time `query:"until"`
	Limit       int       `query:"limit"`
	Offset      int       `query:"offset"`
}
