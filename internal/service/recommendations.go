package service

import (
	"context"
	"fmt"

	"github.com/UkralStul/movie-discovery-service/internal/domain"
	"github.com/UkralStul/movie-discovery-service/internal/storage"
)

// savedRecommendationsLimit — сколько сохраненных рекомендаций выдается.
const savedRecommendationsLimit = 50

// Recommendations управляет сохраненными рекомендациями пользователя.
// Сама генерация происходит вне этого сервиса (по каталогу фильмов);
// сюда попадают уже готовые записи.
type Recommendations struct {
	storage storage.Storage
}

// NewRecommendations создает сервис рекомендаций.
func NewRecommendations(st storage.Storage) *Recommendations {
	return &Recommendations{storage: st}
}

// Save сохраняет рекомендацию, обновляя запись того же фильма, если
// она уже есть.
func (s *Recommendations) Save(ctx context.Context, userID string, rec *domain.Recommendation) (*domain.Recommendation, error) {
	if rec.Title == "" {
		return nil, fmt.Errorf("title is required: %w", domain.ErrValidation)
	}
	rec.UserID = userID
	return s.storage.UpsertRecommendation(ctx, rec)
}

// Saved возвращает сохраненные рекомендации от новых к старым.
func (s *Recommendations) Saved(ctx context.Context, userID string) ([]*domain.Recommendation, error) {
	return s.storage.RecommendationsByUser(ctx, userID, savedRecommendationsLimit)
}

// Update отмечает просмотр и ставит пользовательскую оценку.
func (s *Recommendations) Update(ctx context.Context, userID, recID string, viewed bool, userRating *int) (*domain.Recommendation, error) {
	if err := validateRating(userRating); err != nil {
		return nil, err
	}
	return s.storage.UpdateRecommendation(ctx, userID, recID, viewed, userRating)
}

// Delete удаляет сохраненную рекомендацию.
func (s *Recommendations) Delete(ctx context.Context, userID, recID string) error {
	return s.storage.DeleteRecommendation(ctx, userID, recID)
}
