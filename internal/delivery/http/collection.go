package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"instalytics-backend/internal/delivery/http/utils"
	"instalytics-backend/internal/entity"
	"instalytics-backend/internal/usecase"
	"instalytics-backend/pkg/sse"

	"github.com/labstack/echo/v4"
)

type Collection struct {
	collectionUseCase usecase.Collection
	authManager       utils.Auth
}

func NewCollection(collectionUseCase usecase.Collection, authManager utils.Auth) *Collection {
	return &Collection{
		collectionUseCase: collectionUseCase,
		authManager:       authManager,
	}
}

func (h *Collection) Configure(server *echo.Group) {
	server.POST("/collect-user-data/:username", h.CollectUserData)
	server.GET("/collection-status/:username", h.CollectionStatus)
	server.GET("/collection-events/:username", h.CollectionEvents)
	server.GET("/snapshots/:username", h.Snapshots)
	server.GET("/snapshot/:id", h.Snapshot)
}

func (h *Collection) CollectUserData(c echo.Context) error {
	userID, err := h.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Вы не авторизованы",
		})
	}

	request := &entity.CollectUserDataRequest{
		UserID:   userID,
		Username: c.Param("username"),
	}

	job, err := h.collectionUseCase.RequestCollection(request)
	switch {
	case errors.Is(err, usecase.ErrUsernameEmpty):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Не указано имя аккаунта",
		})
	case err != nil:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Ошибка сервера",
		})
	}

	return c.JSON(http.StatusAccepted, job)
}

func (h *Collection) CollectionStatus(c echo.Context) error {
	_, err := h.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Вы не авторизованы",
		})
	}

	request := &entity.GetCollectionStatusRequest{
		Username: c.Param("username"),
	}

	job, err := h.collectionUseCase.GetCollectionStatus(request)
	switch {
	case errors.Is(err, usecase.ErrUsernameEmpty):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Не указано имя аккаунта",
		})
	case errors.Is(err, usecase.ErrCollectionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Сбор данных по этому аккаунту не запрашивался",
		})
	case err != nil:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Ошибка сервера",
		})
	}

	return c.JSON(http.StatusOK, job)
}

// CollectionEvents отдаёт события сбора по аккаунту как SSE-поток.
// Подписчик получает только новые события, история не перечитывается.
func (h *Collection) CollectionEvents(c echo.Context) error {
	_, err := h.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Вы не авторизованы",
		})
	}

	request := &entity.GetCollectionStatusRequest{
		Username: c.Param("username"),
	}

	eventsCh, err := h.collectionUseCase.SubscribeCollectionEvents(c.Request().Context(), request)
	switch {
	case errors.Is(err, usecase.ErrUsernameEmpty):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Не указано имя аккаунта",
		})
	case err != nil:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Ошибка сервера",
		})
	}

	// Настраиваем SSE соединение
	w := c.Response()
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	// Периодические пинги для поддержания соединения
	pingTicker := time.NewTicker(20 * time.Second)
	defer pingTicker.Stop()

	for {
		select {
		case <-c.Request().Context().Done():
			return nil

		case event, ok := <-eventsCh:
			if !ok {
				// Канал закрыт сервером
				return nil
			}
			data, err := json.Marshal(event)
			if err != nil {
				c.Logger().Errorf("Ошибка сериализации события сбора: %v", err)
				return err
			}
			sseEvent := sse.Event{
				Event: []byte("collection"),
				Data:  data,
			}
			if err := sseEvent.MarshalTo(w); err != nil {
				return err
			}
			w.Flush()

		case <-pingTicker.C:
			ping := sse.Event{
				Event: []byte("ping"),
				Data:  []byte(""),
			}
			if err := ping.MarshalTo(w); err != nil {
				return err
			}
			w.Flush()
		}
	}
}

// Snapshots возвращает метаданные заархивированных ответов провайдера
// в конверте { "data": [...] }
func (h *Collection) Snapshots(c echo.Context) error {
	_, err := h.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Вы не авторизованы",
		})
	}

	request := &entity.GetCollectionStatusRequest{
		Username: c.Param("username"),
	}

	snapshots, err := h.collectionUseCase.GetSnapshots(request)
	switch {
	case errors.Is(err, usecase.ErrUsernameEmpty):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Не указано имя аккаунта",
		})
	case err != nil:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Ошибка сервера",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": snapshots,
	})
}

// Snapshot отдаёт сырое содержимое снапшота как JSON-поток
func (h *Collection) Snapshot(c echo.Context) error {
	_, err := h.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Вы не авторизованы",
		})
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный идентификатор снапшота",
		})
	}

	snapshot, err := h.collectionUseCase.GetSnapshot(id)
	switch {
	case errors.Is(err, usecase.ErrSnapshotNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Снапшот не найден",
		})
	case err != nil:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Ошибка сервера",
		})
	}

	return c.Stream(http.StatusOK, "application/json", snapshot.RawBytes)
}
