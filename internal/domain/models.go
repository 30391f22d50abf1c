package domain

import "time"

// User представляет учетную запись пользователя.
// PasswordHash никогда не сериализуется в ответах API.
type User struct {
	ID             string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username       string    `json:"username" gorm:"type:varchar(30);not null;uniqueIndex"`
	Email          string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash   string    `json:"-" gorm:"type:varchar(255);not null"`
	FavoriteGenres []string  `json:"favoriteGenres" gorm:"serializer:json"`
	CreatedAt      time.Time `json:"createdAt" gorm:"not null;default:now()"`
}

// Comment представляет комментарий к фильму.
// Username — снимок имени автора на момент создания: последующее переименование
// пользователя не затрагивает уже написанные комментарии.
type Comment struct {
	ID        string     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MovieID   int        `json:"movieId" gorm:"not null;index"`
	AuthorID  string     `json:"userId" gorm:"type:uuid;not null;index"`
	Username  string     `json:"username" gorm:"type:varchar(30);not null"`
	Text      string     `json:"text" gorm:"type:varchar(1000);not null"`
	ParentID  *string    `json:"parentCommentId" gorm:"type:uuid;index"`
	Likes     []string   `json:"likes" gorm:"serializer:json"`
	Dislikes  []string   `json:"dislikes" gorm:"serializer:json"`
	CreatedAt time.Time  `json:"createdAt" gorm:"not null;default:now()"`
	Replies   []*Comment `json:"replies,omitempty" gorm:"-"` // заполняется сервисом при выдаче списка
}

// Reaction — реакция пользователя на комментарий.
// Пользователь состоит не более чем в одном из множеств likes/dislikes.
type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// Valid сообщает, является ли значение допустимой реакцией.
func (r Reaction) Valid() bool {
	return r == ReactionLike || r == ReactionDislike
}

// WatchlistItem представляет фильм в списке «посмотреть позже» пользователя.
type WatchlistItem struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      string    `json:"userId" gorm:"type:uuid;not null;index:idx_watchlist_user_movie,unique"`
	MovieID     int       `json:"movieId" gorm:"not null;index:idx_watchlist_user_movie,unique"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	PosterPath  string    `json:"posterPath"`
	Overview    string    `json:"overview" gorm:"type:text"`
	ReleaseDate string    `json:"releaseDate"`
	Type        string    `json:"type" gorm:"type:varchar(10);not null;default:'movie'"`
	Watched     bool      `json:"watched" gorm:"not null;default:false"`
	UserRating  *int      `json:"userRating,omitempty"`
	AddedAt     time.Time `json:"addedAt" gorm:"not null;default:now()"`
}

// Recommendation представляет сохраненную рекомендацию фильма для пользователя.
type Recommendation struct {
	ID          string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      string    `json:"userId" gorm:"type:uuid;not null;index:idx_rec_user_movie,unique"`
	MovieID     int       `json:"movieId" gorm:"not null;index:idx_rec_user_movie,unique"`
	Title       string    `json:"title" gorm:"type:varchar(255);not null"`
	PosterPath  string    `json:"posterPath"`
	Overview    string    `json:"overview" gorm:"type:text"`
	ReleaseDate string    `json:"releaseDate"`
	Rating      float64   `json:"rating"`
	Genres      []string  `json:"genres" gorm:"serializer:json"`
	Viewed      bool      `json:"viewed" gorm:"not null;default:false"`
	UserRating  *int      `json:"userRating,omitempty"`
	CreatedAt   time.Time `json:"createdAt" gorm:"not null;default:now()"`
}
