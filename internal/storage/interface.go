package storage

import (
	"context"

	"github.com/UkralStul/movie-discovery-service/internal/domain"
)

// Storage определяет контракт для хранилищ.
// Хранилище — единственная точка сериализации конкурирующих записей:
// SetReaction и DeleteCommentCascade обязаны применяться атомарно
// относительно текущего сохраненного состояния.
type Storage interface {
	// Пользователи
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error

	// Комментарии
	CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	GetCommentByID(ctx context.Context, id string) (*domain.Comment, error)
	TopLevelCommentsByMovie(ctx context.Context, movieID int) ([]*domain.Comment, error)
	// RepliesByParentIDs загружает ответы сразу для набора родительских
	// комментариев одним запросом (защита от N+1 при выдаче списка).
	RepliesByParentIDs(ctx context.Context, parentIDs []string) (map[string][]*domain.Comment, error)
	// SetReaction атомарно переносит userID в запрошенное множество
	// и убирает из противоположного. Повторный вызов с той же реакцией
	// не меняет состояние.
	SetReaction(ctx context.Context, commentID, userID string, reaction domain.Reaction) (*domain.Comment, error)
	// DeleteCommentCascade удаляет комментарий вместе со всеми ответами
	// на него; частично выполненного состояния не остается.
	DeleteCommentCascade(ctx context.Context, commentID string) error
	// DeleteCommentsByAuthor удаляет все комментарии автора на любом
	// уровне вложенности. Идемпотентна: отсутствие комментариев — не ошибка.
	DeleteCommentsByAuthor(ctx context.Context, authorID string) error

	// Список «посмотреть позже»
	AddWatchlistItem(ctx context.Context, item *domain.WatchlistItem) (*domain.WatchlistItem, error)
	WatchlistByUser(ctx context.Context, userID string) ([]*domain.WatchlistItem, error)
	UpdateWatchlistItem(ctx context.Context, userID, itemID string, watched bool, userRating *int) (*domain.WatchlistItem, error)
	RemoveWatchlistItem(ctx context.Context, userID, itemID string) error
	DeleteWatchlistByUser(ctx context.Context, userID string) error

	// Рекомендации
	UpsertRecommendation(ctx context.Context, rec *domain.Recommendation) (*domain.Recommendation, error)
	RecommendationsByUser(ctx context.Context, userID string, limit int) ([]*domain.Recommendation, error)
	UpdateRecommendation(ctx context.Context, userID, recID string, viewed bool, userRating *int) (*domain.Recommendation, error)
	DeleteRecommendation(ctx context.Context, userID, recID string) error
	DeleteRecommendationsByUser(ctx context.Context, userID string) error
}
