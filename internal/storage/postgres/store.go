package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/UkralStul/movie-discovery-service/internal/domain"
)

// Store реализует интерфейс Storage с использованием PostgreSQL.
type Store struct {
	db *gorm.DB
}

// New создает новый экземпляр хранилища PostgreSQL.
func New(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Выполняем миграцию схемы
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Comment{},
		&domain.WatchlistItem{},
		&domain.Recommendation{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// mapNotFound переводит gorm.ErrRecordNotFound в доменную ошибку.
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// === User Methods ===

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).
			Where("email = ? OR username = ?", user.Email, user.Username).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("user exists: %w", domain.ErrAlreadyExists)
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.User{}).
			Where("(email = ? OR username = ?) AND id <> ?", user.Email, user.Username, user.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("user exists: %w", domain.ErrAlreadyExists)
		}
		return tx.Save(user).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with id %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// === Comment Methods ===

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Если есть родитель, проверяем его существование
		if comment.ParentID != nil {
			var parentCount int64
			if err := tx.Model(&domain.Comment{}).Where("id = ?", *comment.ParentID).Count(&parentCount).Error; err != nil {
				return err
			}
			if parentCount == 0 {
				return fmt.Errorf("parent comment: %w", domain.ErrNotFound)
			}
		}
		return tx.Create(comment).Error
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Store) GetCommentByID(ctx context.Context, id string) (*domain.Comment, error) {
	var comment domain.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &comment, nil
}

func (s *Store) TopLevelCommentsByMovie(ctx context.Context, movieID int) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	err := s.db.WithContext(ctx).
		Where("movie_id = ? AND parent_id IS NULL", movieID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

func (s *Store) RepliesByParentIDs(ctx context.Context, parentIDs []string) (map[string][]*domain.Comment, error) {
	var comments []*domain.Comment
	// Загружаем все ответы для всех переданных parentID одним запросом
	err := s.db.WithContext(ctx).
		Where("parent_id IN ?", parentIDs).
		Order("parent_id, created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string][]*domain.Comment, len(parentIDs))
	for _, c := range comments {
		if c.ParentID != nil {
			result[*c.ParentID] = append(result[*c.ParentID], c)
		}
	}
	return result, nil
}

func (s *Store) SetReaction(ctx context.Context, commentID, userID string, reaction domain.Reaction) (*domain.Comment, error) {
	var comment domain.Comment
	// Read-modify-write под блокировкой строки: конкурирующие реакции
	// разных пользователей не должны затирать друг друга.
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&comment, "id = ?", commentID).Error; err != nil {
			return mapNotFound(err)
		}

		comment.Likes = removeID(comment.Likes, userID)
		comment.Dislikes = removeID(comment.Dislikes, userID)
		switch reaction {
		case domain.ReactionLike:
			comment.Likes = append(comment.Likes, userID)
		case domain.ReactionDislike:
			comment.Dislikes = append(comment.Dislikes, userID)
		}

		return tx.Save(&comment).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *Store) DeleteCommentCascade(ctx context.Context, commentID string) error {
	// Каскад и удаление родителя — одна транзакция: либо исчезает вся
	// ветка, либо ничего.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment domain.Comment
		if err := tx.First(&comment, "id = ?", commentID).Error; err != nil {
			return mapNotFound(err)
		}
		if err := tx.Where("parent_id = ?", commentID).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Comment{}, "id = ?", commentID).Error
	})
}

func (s *Store) DeleteCommentsByAuthor(ctx context.Context, authorID string) error {
	return s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Delete(&domain.Comment{}).Error
}

// === Watchlist Methods ===

func (s *Store) AddWatchlistItem(ctx context.Context, item *domain.WatchlistItem) (*domain.WatchlistItem, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.WatchlistItem{}).
			Where("user_id = ? AND movie_id = ?", item.UserID, item.MovieID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("movie %d is already in watchlist: %w", item.MovieID, domain.ErrAlreadyExists)
		}
		return tx.Create(item).Error
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Store) WatchlistByUser(ctx context.Context, userID string) ([]*domain.WatchlistItem, error) {
	var items []*domain.WatchlistItem
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&items).Error
	return items, err
}

func (s *Store) UpdateWatchlistItem(ctx context.Context, userID, itemID string, watched bool, userRating *int) (*domain.WatchlistItem, error) {
	var item domain.WatchlistItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ? AND user_id = ?", itemID, userID).Error; err != nil {
			return mapNotFound(err)
		}
		item.Watched = watched
		item.UserRating = userRating
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) RemoveWatchlistItem(ctx context.Context, userID, itemID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&domain.WatchlistItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("watchlist item %s: %w", itemID, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteWatchlistByUser(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.WatchlistItem{}).Error
}

// === Recommendation Methods ===

func (s *Store) UpsertRecommendation(ctx context.Context, rec *domain.Recommendation) (*domain.Recommendation, error) {
	var stored domain.Recommendation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&stored, "user_id = ? AND movie_id = ?", rec.UserID, rec.MovieID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			stored = *rec
			return tx.Create(&stored).Error
		}
		if err != nil {
			return err
		}
		stored.Title = rec.Title
		stored.PosterPath = rec.PosterPath
		stored.Overview = rec.Overview
		stored.ReleaseDate = rec.ReleaseDate
		stored.Rating = rec.Rating
		stored.Genres = rec.Genres
		return tx.Save(&stored).Error
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *Store) RecommendationsByUser(ctx context.Context, userID string, limit int) ([]*domain.Recommendation, error) {
	var recs []*domain.Recommendation
	query := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&recs).Error
	return recs, err
}

func (s *Store) UpdateRecommendation(ctx context.Context, userID, recID string, viewed bool, userRating *int) (*domain.Recommendation, error) {
	var rec domain.Recommendation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&rec, "id = ? AND user_id = ?", recID, userID).Error; err != nil {
			return mapNotFound(err)
		}
		rec.Viewed = viewed
		rec.UserRating = userRating
		return tx.Save(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) DeleteRecommendation(ctx context.Context, userID, recID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", recID, userID).
		Delete(&domain.Recommendation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("recommendation %s: %w", recID, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteRecommendationsByUser(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.Recommendation{}).Error
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
