// Package starapi реализует клиент стороннего провайдера данных Instagram.
// Провайдер собирает данные асинхронно: сбор запускается отдельным запросом,
// статус опрашивается, готовые посты забираются постранично.
package starapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"instalytics-backend/internal/entity"
	"instalytics-backend/internal/usecase"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

const apiKeyHeader = "X-API-Key"

// defaultTransport возвращает http.Transport с пулом соединений и keep-alive:
// воркер ходит к провайдеру часто и мелкими запросами
func defaultTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
}

type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewClient(baseURL, apiKey string) usecase.DataProvider {
	return &Client{
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: defaultTransport(),
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// rawMedia — пост в формате провайдера. Все числовые поля опциональны
// и при отсутствии в JSON равны нулю, булевы — false.
type rawMedia struct {
	MediaID            string   `json:"media_id"`
	Shortcode          string   `json:"shortcode"`
	TakenAt            int64    `json:"taken_at"`
	LikeCount          int      `json:"like_count"`
	CommentCount       int      `json:"comment_count"`
	SaveCount          int      `json:"save_count"`
	ShareCount         int      `json:"share_count"`
	ReshareCount       int      `json:"reshare_count"`
	PlayCount          int      `json:"play_count"`
	VideoViewCount     int      `json:"video_view_count"`
	IsVideo            bool     `json:"is_video"`
	MediaType          string   `json:"media_type"`
	CarouselMediaCount int      `json:"carousel_media_count"`
	Caption            string   `json:"caption"`
	Hashtags           []string `json:"hashtags"`
	LocationName       string   `json:"location_name"`
	IsCollab           bool     `json:"is_collab"`
	CollabWith         string   `json:"collab_with"`
	IsSponsored        bool     `json:"is_sponsored"`
	IsAd               bool     `json:"is_ad"`
}

type mediaEnvelope struct {
	Data []rawMedia `json:"data"`
}

type statusEnvelope struct {
	Status string `json:"status"`
}

func (c *Client) TriggerCollection(ctx context.Context, username string) error {
	endpoint := fmt.Sprintf("%s/star-api/collect-user-data/%s", c.baseURL, url.PathEscape(username))
	resp, err := c.do(ctx, http.MethodPost, endpoint)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	return c.checkStatus(resp)
}

func (c *Client) CollectionStatus(ctx context.Context, username string) (entity.CollectionStatus, error) {
	endpoint := fmt.Sprintf("%s/star-api/collection-status/%s", c.baseURL, url.PathEscape(username))
	resp, err := c.do(ctx, http.MethodGet, endpoint)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := c.checkStatus(resp); err != nil {
		return "", err
	}

	var envelope statusEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("неожиданный формат ответа провайдера: %w", err)
	}

	switch envelope.Status {
	case "pending", "queued":
		return entity.CollectionPending, nil
	case "running", "in_progress":
		return entity.CollectionRunning, nil
	case "completed", "done":
		return entity.CollectionCompleted, nil
	case "failed", "error":
		return entity.CollectionFailed, nil
	}
	return "", fmt.Errorf("неизвестный статус сбора у провайдера: %q", envelope.Status)
}

func (c *Client) FetchUserMedia(ctx context.Context, username string) ([]*entity.InstagramPost, []byte, error) {
	endpoint := fmt.Sprintf("%s/media?username=%s", c.baseURL, url.QueryEscape(username))
	resp, err := c.do(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := c.checkStatus(resp); err != nil {
		return nil, nil, err
	}

	// Читаем тело целиком: оно же уходит в архив снапшотов
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка чтения ответа провайдера: %w", err)
	}

	// Единственная точка валидации типов: несовпадение типа поля
	// (например, строка вместо числа) всплывает здесь, а не в аналитике
	var envelope mediaEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, nil, fmt.Errorf("ошибка валидации данных провайдера: %w", err)
	}

	posts := make([]*entity.InstagramPost, len(envelope.Data))
	for i, media := range envelope.Data {
		posts[i] = media.toEntity(username)
	}
	return posts, body, nil
}

func (m *rawMedia) toEntity(username string) *entity.InstagramPost {
	return &entity.InstagramPost{
		Username:           username,
		MediaID:            m.MediaID,
		Shortcode:          m.Shortcode,
		TakenAt:            time.Unix(m.TakenAt, 0).UTC(),
		LikeCount:          m.LikeCount,
		CommentCount:       m.CommentCount,
		SaveCount:          m.SaveCount,
		ShareCount:         m.ShareCount,
		ReshareCount:       m.ReshareCount,
		PlayCount:          m.PlayCount,
		VideoViewCount:     m.VideoViewCount,
		IsVideo:            m.IsVideo,
		MediaType:          m.MediaType,
		CarouselMediaCount: m.CarouselMediaCount,
		Caption:            m.Caption,
		Hashtags:           m.Hashtags,
		LocationName:       m.LocationName,
		IsCollab:           m.IsCollab,
		CollabWith:         m.CollabWith,
		IsSponsored:        m.IsSponsored,
		IsAd:               m.IsAd,
	}
}

func (c *Client) do(ctx context.Context, method, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Join(usecase.ErrProviderUnavailable, err)
	}
	return resp, nil
}

func (c *Client) checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return usecase.ErrAccountNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: статус %d", usecase.ErrProviderUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return fmt.Errorf("провайдер отклонил запрос: статус %d", resp.StatusCode)
	}
	return nil
}
