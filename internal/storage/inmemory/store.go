package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/UkralStul/movie-discovery-service/internal/domain"
)

// Store реализует интерфейс Storage в памяти.
// Один mutex на все данные: любая конфликтующая запись (реакции,
// каскадное удаление) сериализуется здесь.
type Store struct {
	mu               sync.RWMutex
	users            map[string]*domain.User
	usersByEmail     map[string]string // map[email]userID
	usersByName      map[string]string // map[username]userID
	comments         map[string]*domain.Comment
	commentsByMovie  map[int][]string // map[movieID][]commentID (только корневые)
	commentsByParent map[string][]string
	watchlist        map[string]*domain.WatchlistItem
	recommendations  map[string]*domain.Recommendation
}

// New создает новый экземпляр in-memory хранилища.
func New() *Store {
	return &Store{
		users:            make(map[string]*domain.User),
		usersByEmail:     make(map[string]string),
		usersByName:      make(map[string]string),
		comments:         make(map[string]*domain.Comment),
		commentsByMovie:  make(map[int][]string),
		commentsByParent: make(map[string][]string),
		watchlist:        make(map[string]*domain.WatchlistItem),
		recommendations:  make(map[string]*domain.Recommendation),
	}
}

// === User Methods ===

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByEmail[user.Email]; ok {
		return nil, fmt.Errorf("email is taken: %w", domain.ErrAlreadyExists)
	}
	if _, ok := s.usersByName[user.Username]; ok {
		return nil, fmt.Errorf("username is taken: %w", domain.ErrAlreadyExists)
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	s.users[user.ID] = user
	s.usersByEmail[user.Email] = user.ID
	s.usersByName[user.Username] = user.ID
	return cloneUser(user), nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user with id %s: %w", id, domain.ErrNotFound)
	}
	return cloneUser(user), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, fmt.Errorf("user with email %s: %w", email, domain.ErrNotFound)
	}
	return cloneUser(s.users[id]), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByName[username]
	if !ok {
		return nil, fmt.Errorf("user with username %s: %w", username, domain.ErrNotFound)
	}
	return cloneUser(s.users[id]), nil
}

func (s *Store) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[user.ID]
	if !ok {
		return nil, fmt.Errorf("user with id %s: %w", user.ID, domain.ErrNotFound)
	}

	// Уникальность проверяется против чужих записей
	if id, ok := s.usersByEmail[user.Email]; ok && id != user.ID {
		return nil, fmt.Errorf("email is taken: %w", domain.ErrAlreadyExists)
	}
	if id, ok := s.usersByName[user.Username]; ok && id != user.ID {
		return nil, fmt.Errorf("username is taken: %w", domain.ErrAlreadyExists)
	}

	delete(s.usersByEmail, stored.Email)
	delete(s.usersByName, stored.Username)

	upd := *user
	upd.CreatedAt = stored.CreatedAt
	s.users[user.ID] = &upd
	s.usersByEmail[upd.Email] = user.ID
	s.usersByName[upd.Username] = user.ID
	return cloneUser(&upd), nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user with id %s: %w", id, domain.ErrNotFound)
	}
	delete(s.usersByEmail, user.Email)
	delete(s.usersByName, user.Username)
	delete(s.users, id)
	return nil
}

// === Comment Methods ===

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Проверка родительского комментария
	if comment.ParentID != nil {
		if _, ok := s.comments[*comment.ParentID]; !ok {
			return nil, fmt.Errorf("parent comment: %w", domain.ErrNotFound)
		}
	}

	comment.ID = uuid.NewString()
	comment.CreatedAt = time.Now().UTC()
	if comment.Likes == nil {
		comment.Likes = []string{}
	}
	if comment.Dislikes == nil {
		comment.Dislikes = []string{}
	}
	s.comments[comment.ID] = comment

	// Обновление индексов для иерархии
	if comment.ParentID == nil {
		s.commentsByMovie[comment.MovieID] = append(s.commentsByMovie[comment.MovieID], comment.ID)
	} else {
		s.commentsByParent[*comment.ParentID] = append(s.commentsByParent[*comment.ParentID], comment.ID)
	}

	return cloneComment(comment), nil
}

func (s *Store) GetCommentByID(ctx context.Context, id string) (*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment with id %s: %w", id, domain.ErrNotFound)
	}
	return cloneComment(comment), nil
}

func (s *Store) TopLevelCommentsByMovie(ctx context.Context, movieID int) ([]*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.commentsByMovie[movieID]
	comments := make([]*domain.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.comments[id]; ok {
			comments = append(comments, cloneComment(c))
		}
	}

	// Корневые комментарии выдаются от новых к старым
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

func (s *Store) RepliesByParentIDs(ctx context.Context, parentIDs []string) (map[string][]*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make(map[string][]*domain.Comment, len(parentIDs))
	for _, pID := range parentIDs {
		childIDs := s.commentsByParent[pID]
		children := make([]*domain.Comment, 0, len(childIDs))
		for _, cID := range childIDs {
			if c, ok := s.comments[cID]; ok {
				children = append(children, cloneComment(c))
			}
		}
		// Ответы внутри ветки читаются хронологически
		sort.Slice(children, func(i, j int) bool {
			return children[i].CreatedAt.Before(children[j].CreatedAt)
		})
		results[pID] = children
	}
	return results, nil
}

func (s *Store) SetReaction(ctx context.Context, commentID, userID string, reaction domain.Reaction) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[commentID]
	if !ok {
		return nil, fmt.Errorf("comment with id %s: %w", commentID, domain.ErrNotFound)
	}

	// Сначала убираем пользователя из обоих множеств, затем добавляем
	// в запрошенное: инвариант взаимной исключительности держится здесь.
	comment.Likes = removeID(comment.Likes, userID)
	comment.Dislikes = removeID(comment.Dislikes, userID)
	switch reaction {
	case domain.ReactionLike:
		comment.Likes = append(comment.Likes, userID)
	case domain.ReactionDislike:
		comment.Dislikes = append(comment.Dislikes, userID)
	}

	return cloneComment(comment), nil
}

func (s *Store) DeleteCommentCascade(ctx context.Context, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[commentID]
	if !ok {
		return fmt.Errorf("comment with id %s: %w", commentID, domain.ErrNotFound)
	}

	for _, childID := range s.commentsByParent[commentID] {
		delete(s.comments, childID)
	}
	delete(s.commentsByParent, commentID)
	s.removeFromIndexes(comment)
	delete(s.comments, commentID)
	return nil
}

func (s *Store) DeleteCommentsByAuthor(ctx context.Context, authorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Удаляются комментарии самого автора на любом уровне; чужие ответы
	// на его корневые комментарии остаются (поведение как в проде:
	// без родителя они просто не попадают в выдачу).
	for id, c := range s.comments {
		if c.AuthorID != authorID {
			continue
		}
		s.removeFromIndexes(c)
		delete(s.comments, id)
		delete(s.commentsByParent, id)
	}
	return nil
}

// removeFromIndexes выкидывает комментарий из индекса фильма либо родителя.
// Вызывается только под write-lock.
func (s *Store) removeFromIndexes(c *domain.Comment) {
	if c.ParentID == nil {
		s.commentsByMovie[c.MovieID] = removeID(s.commentsByMovie[c.MovieID], c.ID)
	} else {
		s.commentsByParent[*c.ParentID] = removeID(s.commentsByParent[*c.ParentID], c.ID)
	}
}

// === Watchlist Methods ===

func (s *Store) AddWatchlistItem(ctx context.Context, item *domain.WatchlistItem) (*domain.WatchlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.watchlist {
		if existing.UserID == item.UserID && existing.MovieID == item.MovieID {
			return nil, fmt.Errorf("movie %d is already in watchlist: %w", item.MovieID, domain.ErrAlreadyExists)
		}
	}

	item.ID = uuid.NewString()
	item.AddedAt = time.Now().UTC()
	s.watchlist[item.ID] = item

	cp := *item
	return &cp, nil
}

func (s *Store) WatchlistByUser(ctx context.Context, userID string) ([]*domain.WatchlistItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*domain.WatchlistItem, 0)
	for _, item := range s.watchlist {
		if item.UserID == userID {
			cp := *item
			items = append(items, &cp)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].AddedAt.After(items[j].AddedAt)
	})
	return items, nil
}

func (s *Store) UpdateWatchlistItem(ctx context.Context, userID, itemID string, watched bool, userRating *int) (*domain.WatchlistItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.watchlist[itemID]
	if !ok || item.UserID != userID {
		return nil, fmt.Errorf("watchlist item %s: %w", itemID, domain.ErrNotFound)
	}
	item.Watched = watched
	item.UserRating = userRating

	cp := *item
	return &cp, nil
}

func (s *Store) RemoveWatchlistItem(ctx context.Context, userID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.watchlist[itemID]
	if !ok || item.UserID != userID {
		return fmt.Errorf("watchlist item %s: %w", itemID, domain.ErrNotFound)
	}
	delete(s.watchlist, itemID)
	return nil
}

func (s *Store) DeleteWatchlistByUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, item := range s.watchlist {
		if item.UserID == userID {
			delete(s.watchlist, id)
		}
	}
	return nil
}

// === Recommendation Methods ===

func (s *Store) UpsertRecommendation(ctx context.Context, rec *domain.Recommendation) (*domain.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.recommendations {
		if existing.UserID == rec.UserID && existing.MovieID == rec.MovieID {
			existing.Title = rec.Title
			existing.PosterPath = rec.PosterPath
			existing.Overview = rec.Overview
			existing.ReleaseDate = rec.ReleaseDate
			existing.Rating = rec.Rating
			existing.Genres = rec.Genres
			cp := *existing
			return &cp, nil
		}
	}

	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()
	if rec.Genres == nil {
		rec.Genres = []string{}
	}
	s.recommendations[rec.ID] = rec

	cp := *rec
	return &cp, nil
}

func (s *Store) RecommendationsByUser(ctx context.Context, userID string, limit int) ([]*domain.Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]*domain.Recommendation, 0)
	for _, rec := range s.recommendations {
		if rec.UserID == userID {
			cp := *rec
			recs = append(recs, &cp)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (s *Store) UpdateRecommendation(ctx context.Context, userID, recID string, viewed bool, userRating *int) (*domain.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recommendations[recID]
	if !ok || rec.UserID != userID {
		return nil, fmt.Errorf("recommendation %s: %w", recID, domain.ErrNotFound)
	}
	rec.Viewed = viewed
	rec.UserRating = userRating

	cp := *rec
	return &cp, nil
}

func (s *Store) DeleteRecommendation(ctx context.Context, userID, recID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recommendations[recID]
	if !ok || rec.UserID != userID {
		return fmt.Errorf("recommendation %s: %w", recID, domain.ErrNotFound)
	}
	delete(s.recommendations, recID)
	return nil
}

func (s *Store) DeleteRecommendationsByUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, rec := range s.recommendations {
		if rec.UserID == userID {
			delete(s.recommendations, id)
		}
	}
	return nil
}

// === Helpers ===

// cloneComment возвращает копию: вызывающий не должен видеть последующих
// мутаций множеств реакций под чужими запросами.
func cloneComment(c *domain.Comment) *domain.Comment {
	cp := *c
	cp.Likes = append([]string{}, c.Likes...)
	cp.Dislikes = append([]string{}, c.Dislikes...)
	return &cp
}

func cloneUser(u *domain.User) *domain.User {
	cp := *u
	cp.FavoriteGenres = append([]string{}, u.FavoriteGenres...)
	return &cp
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
