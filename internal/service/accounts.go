package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/UkralStul/movie-discovery-service/internal/auth"
	"github.com/UkralStul/movie-discovery-service/internal/domain"
	"github.com/UkralStul/movie-discovery-service/internal/storage"
)

// Accounts отвечает за регистрацию, вход и жизненный цикл учетной записи.
type Accounts struct {
	storage     storage.Storage
	comments    *Comments
	tokenSecret []byte
	tokenTTL    time.Duration
}

// NewAccounts создает сервис учетных записей.
func NewAccounts(st storage.Storage, comments *Comments, tokenSecret []byte) *Accounts {
	return &Accounts{
		storage:     st,
		comments:    comments,
		tokenSecret: tokenSecret,
		tokenTTL:    auth.TokenTTL,
	}
}

// ProfileUpdate описывает частичное обновление профиля.
// nil-поле означает «не менять».
type ProfileUpdate struct {
	Username       *string
	Email          *string
	Password       *string
	FavoriteGenres *[]string
}

// Register создает пользователя и сразу выпускает токен.
func (s *Accounts) Register(ctx context.Context, username, email, password string) (*domain.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validateUsername(username); err != nil {
		return nil, "", err
	}
	if err := validateEmail(email); err != nil {
		return nil, "", err
	}
	if err := validatePassword(password); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.storage.CreateUser(ctx, &domain.User{
		Username:       username,
		Email:          email,
		PasswordHash:   hash,
		FavoriteGenres: []string{},
	})
	if err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateToken(user.ID, s.tokenSecret, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

// Login проверяет учетные данные и выпускает токен. Неизвестный email
// и неверный пароль неразличимы для вызывающего.
func (s *Accounts) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.storage.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, s.tokenSecret, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

// Profile возвращает профиль пользователя.
func (s *Accounts) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.storage.GetUserByID(ctx, userID)
}

// UpdateProfile применяет частичное обновление профиля.
// Смена имени не переписывает username в уже созданных комментариях.
func (s *Accounts) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*domain.User, error) {
	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Username != nil {
		username := strings.TrimSpace(*upd.Username)
		if err := validateUsername(username); err != nil {
			return nil, err
		}
		user.Username = username
	}
	if upd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*upd.Email))
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if upd.Password != nil {
		if err := validatePassword(*upd.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if upd.FavoriteGenres != nil {
		user.FavoriteGenres = *upd.FavoriteGenres
	}

	return s.storage.UpdateUser(ctx, user)
}

// DeleteAccount удаляет учетную запись и все связанные с ней данные.
// Хранилища слабо связаны, межхранилищной транзакции нет: каждая
// под-операция идемпотентна, поэтому после сбоя вызов безопасно повторить.
func (s *Accounts) DeleteAccount(ctx context.Context, userID string) error {
	if _, err := s.storage.GetUserByID(ctx, userID); err != nil {
		return err
	}

	if err := s.storage.DeleteWatchlistByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete watchlist: %w", err)
	}
	if err := s.storage.DeleteRecommendationsByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete recommendations: %w", err)
	}
	if err := s.comments.DeleteAllByAuthor(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	return s.storage.DeleteUser(ctx, userID)
}

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 30 {
		return fmt.Errorf("username must be 3-30 characters: %w", domain.ErrValidation)
	}
	return nil
}

func validateEmail(email string) error {
	if !strings.Contains(email, "@") || len(email) < 3 {
		return fmt.Errorf("please provide a valid email: %w", domain.ErrValidation)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters: %w", domain.ErrValidation)
	}
	return nil
}
