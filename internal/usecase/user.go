package usecase

import (
	"errors"
	"instalytics-backend/internal/entity"
)

type User interface {
	// Register регистрирует нового пользователя и возвращает его идентификатор
	Register(request *entity.RegisterRequest) (int, error)
	// Login авторизует пользователя и возвращает его идентификатор
	Login(email, password string) (int, error)
	// GetUser возвращает профиль пользователя по его идентификатору
	GetUser(userID int) (*entity.UserProfile, error)
}

var (
	// Ошибки валидации
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short, minimum length is 8 characters")
	ErrPasswordTooLong    = errors.New("password too long, maximum length is 64 characters")

	// Ошибки аутентификации и авторизации
	ErrUserNotExists      = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)
