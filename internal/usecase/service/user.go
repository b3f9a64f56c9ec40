package service

import (
	"errors"
	"instalytics-backend/internal/entity"
	"instalytics-backend/internal/repo"
	"instalytics-backend/internal/usecase"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	userRepo repo.User
}

func NewUser(userRepo repo.User) usecase.User {
	return &User{userRepo: userRepo}
}

func (u *User) Register(request *entity.RegisterRequest) (int, error) {
	if !strings.Contains(request.Email, "@") {
		return 0, usecase.ErrInvalidEmail
	}
	if len(request.Password) < 8 {
		return 0, usecase.ErrPasswordTooShort
	}
	if len(request.Password) > 64 {
		return 0, usecase.ErrPasswordTooLong
	}

	// Хешируем пароль пользователя
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	user := &entity.User{
		Nickname:     request.Nickname,
		Email:        request.Email,
		PasswordHash: string(hashedPassword),
	}

	userID, err := u.userRepo.AddUser(user)
	if errors.Is(err, repo.ErrEmailExists) {
		return 0, usecase.ErrEmailAlreadyExists
	}
	return userID, err
}

func (u *User) Login(email, password string) (int, error) {
	user, err := u.userRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return 0, usecase.ErrInvalidCredentials
		}
		return 0, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return 0, usecase.ErrInvalidCredentials
	}

	return user.ID, nil
}

func (u *User) GetUser(userID int) (*entity.UserProfile, error) {
	user, err := u.userRepo.GetUser(userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, usecase.ErrUserNotExists
		}
		return nil, err
	}

	return &entity.UserProfile{
		ID:       user.ID,
		Nickname: user.Nickname,
		Email:    user.Email,
	}, nil
}
