package http

import (
	"errors"
	"net/http"

	"instalytics-backend/internal/delivery/http/utils"
	"instalytics-backend/internal/entity"
	"instalytics-backend/internal/usecase"

	"github.com/labstack/echo/v4"
)

type Media struct {
	analyticsUseCase usecase.Analytics
	authManager      utils.Auth
}

func NewMedia(analyticsUseCase usecase.Analytics, authManager utils.Auth) *Media {
	return &Media{
		analyticsUseCase: analyticsUseCase,
		authManager:      authManager,
	}
}

func (m *Media) Configure(server *echo.Group) {
	server.GET("", m.GetMedia)
	server.GET("/:mediaID", m.GetMediaByID)
}

// GetMedia возвращает сохранённые посты с производными метриками
// в конверте { "data": [...], "total": N }. total — общее число
// сохранённых постов аккаунта без учёта limit/offset
func (m *Media) GetMedia(c echo.Context) error {
	userID, err := m.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Вы не авторизованы",
		})
	}

	request := &entity.GetMediaRequest{}
	if err := utils.ReadQuery(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	request.UserID = userID

	posts, err := m.analyticsUseCase.GetEnrichedMedia(request)
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Ошибка сервера",
		})
	}

	total := len(posts)
	if request.Username != "" {
		total, err = m.analyticsUseCase.CountMedia(request.Username)
		if err != nil {
			c.Logger().Error(err)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "Ошибка сервера",
			})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data":  posts,
		"total": total,
	})
}

// GetMediaByID возвращает один пост по media_id с производными метриками
func (m *Media) GetMediaByID(c echo.Context) error {
	_, err := m.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Вы не авторизованы",
		})
	}

	post, err := m.analyticsUseCase.GetEnrichedPost(c.Param("mediaID"))
	switch {
	case errors.Is(err, usecase.ErrPostNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Пост не найден",
		})
	case err != nil:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Ошибка сервера",
		})
	}

	return c.JSON(http.StatusOK, post)
}
