package http

import (
	"errors"
	"net/http"

	"instalytics-backend/internal/delivery/http/utils"
	"instalytics-backend/internal/entity"
	"instalytics-backend/internal/usecase"

	"github.com/labstack/echo/v4"
)

type Analytics struct {
	analyticsUseCase usecase.Analytics
	authManager      utils.Auth
}

func NewAnalytics(analyticsUseCase usecase.Analytics, authManager utils.Auth) *Analytics {
	return &Analytics{
		analyticsUseCase: analyticsUseCase,
		authManager:      authManager,
	}
}

func (a *Analytics) Configure(server *echo.Group) {
	server.GET("/report", a.GetReport)
	server.GET("/opportunities", a.GetOpportunities)
}

func (a *Analytics) GetReport(c echo.Context) error {
	userID, err := a.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Вы не авторизованы",
		})
	}

	request := &entity.GetReportRequest{}
	if err := utils.ReadQuery(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	request.UserID = userID

	report, err := a.analyticsUseCase.GetContentStrategyReport(request)
	switch {
	case errors.Is(err, usecase.ErrNoPostsCollected):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "По этому аккаунту ещё не собраны данные",
		})
	case err != nil:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Ошибка сервера",
		})
	}

	return c.JSON(http.StatusOK, report)
}

func (a *Analytics) GetOpportunities(c echo.Context) error {
	userID, err := a.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Вы не авторизованы",
		})
	}

	request := &entity.GetReportRequest{}
	if err := utils.ReadQuery(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}
	request.UserID = userID

	opportunities, err := a.analyticsUseCase.GetGrowthOpportunities(request)
	switch {
	case errors.Is(err, usecase.ErrNoPostsCollected):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "По этому аккаунту ещё не собраны данные",
		})
	case err != nil:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Ошибка сервера",
		})
	}

	return c.JSON(http.StatusOK, opportunities)
}
