package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/UkralStul/movie-discovery-service/internal/domain"
	"github.com/UkralStul/movie-discovery-service/internal/storage"
)

// MaxCommentLength — максимальная длина текста комментария.
const MaxCommentLength = 1000

// Comments оркестрирует операции над комментариями и держит
// структурные инварианты, невыразимые в самом хранилище.
type Comments struct {
	storage  storage.Storage
	observer *Observer
}

// NewComments создает сервис комментариев.
func NewComments(st storage.Storage, obs *Observer) *Comments {
	return &Comments{storage: st, observer: obs}
}

// ListForMovie возвращает корневые комментарии фильма от новых к старым,
// каждый с ответами от старых к новым. Отсутствие комментариев — пустой
// список, не ошибка.
func (s *Comments) ListForMovie(ctx context.Context, movieID int) ([]*domain.Comment, error) {
	roots, err := s.storage.TopLevelCommentsByMovie(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	if len(roots) == 0 {
		return []*domain.Comment{}, nil
	}

	parentIDs := make([]string, len(roots))
	for i, c := range roots {
		parentIDs[i] = c.ID
	}

	replies, err := s.storage.RepliesByParentIDs(ctx, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load replies: %w", err)
	}

	for _, c := range roots {
		c.Replies = replies[c.ID]
		if c.Replies == nil {
			c.Replies = []*domain.Comment{}
		}
		normalizeReactions(c)
		for _, reply := range c.Replies {
			normalizeReactions(reply)
		}
	}
	return roots, nil
}

// Create создает комментарий от имени authorID, денормализуя его текущее
// имя в запись. Ответ допустим только на корневой комментарий того же фильма.
func (s *Comments) Create(ctx context.Context, authorID string, movieID int, text string, parentID *string) (*domain.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("comment text cannot be empty: %w", domain.ErrValidation)
	}
	if len(text) > MaxCommentLength {
		return nil, fmt.Errorf("comment text is too long: %w", domain.ErrValidation)
	}

	author, err := s.storage.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		parent, err := s.storage.GetCommentByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.ParentID != nil {
			return nil, fmt.Errorf("replies to replies are not supported: %w", domain.ErrValidation)
		}
		if parent.MovieID != movieID {
			return nil, fmt.Errorf("parent comment belongs to another movie: %w", domain.ErrValidation)
		}
	}

	comment := &domain.Comment{
		MovieID:  movieID,
		AuthorID: authorID,
		Username: author.Username,
		Text:     text,
		ParentID: parentID,
		Likes:    []string{},
		Dislikes: []string{},
	}

	created, err := s.storage.CreateComment(ctx, comment)
	if err != nil {
		return nil, err
	}

	s.observer.Notify(created)
	return created, nil
}

// React переносит userID в запрошенное множество реакций. Снять реакцию
// нельзя — только переключить на противоположную.
func (s *Comments) React(ctx context.Context, commentID, userID string, reaction domain.Reaction) (*domain.Comment, error) {
	if !reaction.Valid() {
		return nil, fmt.Errorf("reaction must be %q or %q: %w", domain.ReactionLike, domain.ReactionDislike, domain.ErrValidation)
	}
	return s.storage.SetReaction(ctx, commentID, userID, reaction)
}

// Delete удаляет комментарий и все ответы на него. Разрешено только автору.
func (s *Comments) Delete(ctx context.Context, commentID, callerID string) error {
	comment, err := s.storage.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != callerID {
		return fmt.Errorf("only the author can delete a comment: %w", domain.ErrForbidden)
	}
	return s.storage.DeleteCommentCascade(ctx, commentID)
}

// DeleteAllByAuthor удаляет все комментарии автора. Используется
// сценарием удаления учетной записи.
func (s *Comments) DeleteAllByAuthor(ctx context.Context, authorID string) error {
	return s.storage.DeleteCommentsByAuthor(ctx, authorID)
}

// normalizeReactions гарантирует непустые множества в JSON-выдаче.
func normalizeReactions(c *domain.Comment) {
	if c.Likes == nil {
		c.Likes = []string{}
	}
	if c.Dislikes == nil {
		c.Dislikes = []string{}
	}
}
