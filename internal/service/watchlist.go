package service

import (
	"context"
	"fmt"

	"github.com/UkralStul/movie-discovery-service/internal/domain"
	"github.com/UkralStul/movie-discovery-service/internal/storage"
)

// Watchlist управляет списком «посмотреть позже» пользователя.
type Watchlist struct {
	storage storage.Storage
}

// NewWatchlist создает сервис списка.
func NewWatchlist(st storage.Storage) *Watchlist {
	return &Watchlist{storage: st}
}

// Add добавляет фильм в список пользователя. Повторное добавление
// того же фильма — ошибка.
func (s *Watchlist) Add(ctx context.Context, userID string, item *domain.WatchlistItem) (*domain.WatchlistItem, error) {
	if item.Title == "" {
		return nil, fmt.Errorf("title is required: %w", domain.ErrValidation)
	}
	if item.Type == "" {
		item.Type = "movie"
	}
	if item.Type != "movie" && item.Type != "tv" {
		return nil, fmt.Errorf("type must be movie or tv: %w", domain.ErrValidation)
	}
	item.UserID = userID
	item.Watched = false
	return s.storage.AddWatchlistItem(ctx, item)
}

// List возвращает список пользователя от недавно добавленных к старым.
func (s *Watchlist) List(ctx context.Context, userID string) ([]*domain.WatchlistItem, error) {
	return s.storage.WatchlistByUser(ctx, userID)
}

// Update отмечает просмотр и ставит пользовательскую оценку.
func (s *Watchlist) Update(ctx context.Context, userID, itemID string, watched bool, userRating *int) (*domain.WatchlistItem, error) {
	if err := validateRating(userRating); err != nil {
		return nil, err
	}
	return s.storage.UpdateWatchlistItem(ctx, userID, itemID, watched, userRating)
}

// Remove убирает запись из списка пользователя.
func (s *Watchlist) Remove(ctx context.Context, userID, itemID string) error {
	return s.storage.RemoveWatchlistItem(ctx, userID, itemID)
}

func validateRating(rating *int) error {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return fmt.Errorf("rating must be between 1 and 5: %w", domain.ErrValidation)
	}
	return nil
}
