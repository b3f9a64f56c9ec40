package http

import (
	"errors"
	"net/http"
	"time"

	"instalytics-backend/internal/delivery/http/utils"
	"instalytics-backend/internal/entity"
	"instalytics-backend/internal/usecase"

	"github.com/labstack/echo/v4"
)

type User struct {
	userUseCase   usecase.User
	authManager   utils.Auth
	cookieManager utils.Cookie
}

func NewUser(userUseCase usecase.User, authManager utils.Auth, cookieManager utils.Cookie) *User {
	return &User{
		userUseCase:   userUseCase,
		authManager:   authManager,
		cookieManager: cookieManager,
	}
}

func (u *User) Configure(server *echo.Group) {
	server.POST("/register", u.Register)
	server.POST("/login", u.Login)
	server.GET("/me", u.Me)
}

func (u *User) Register(c echo.Context) error {
	var registerRequest entity.RegisterRequest
	if err := utils.ReadJSON(c, &registerRequest); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}

	userID, err := u.userUseCase.Register(&registerRequest)
	switch {
	case errors.Is(err, usecase.ErrInvalidEmail),
		errors.Is(err, usecase.ErrPasswordTooShort),
		errors.Is(err, usecase.ErrPasswordTooLong):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "Пользователь с таким email уже существует",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при регистрации пользователя: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}

	if err := u.setSession(c, userID); err != nil {
		c.Logger().Errorf("Ошибка при создании токена: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": userID,
	})
}

func (u *User) Login(c echo.Context) error {
	var loginRequest entity.LoginRequest
	if err := utils.ReadJSON(c, &loginRequest); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Неверный формат запроса",
		})
	}

	userID, err := u.userUseCase.Login(loginRequest.Email, loginRequest.Password)
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Неверный email или пароль",
		})
	case err != nil:
		c.Logger().Errorf("Ошибка при авторизации: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}

	if err := u.setSession(c, userID); err != nil {
		c.Logger().Errorf("Ошибка при создании токена: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Произошла непредвиденная ошибка",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": userID,
	})
}

func (u *User) Me(c echo.Context) error {
	userID, err := u.authManager.CheckAuthFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Вы не авторизованы",
		})
	}

	profile, err := u.userUseCase.GetUser(userID)
	switch {
	case errors.Is(err, usecase.ErrUserNotExists):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Пользователь не найден",
		})
	case err != nil:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Ошибка сервера",
		})
	}

	return c.JSON(http.StatusOK, profile)
}

func (u *User) setSession(c echo.Context, userID int) error {
	token, err := u.authManager.CreateToken(userID)
	if err != nil {
		return err
	}
	expires := time.Now().AddDate(1, 0, 0)
	c.SetCookie(u.cookieManager.SetSessionCookie(token, expires))
	return nil
}
