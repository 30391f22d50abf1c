package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/UkralStul/movie-discovery-service/internal/service"
)

// Server связывает сервисы приложения с REST-маршрутами.
type Server struct {
	accounts        *service.Accounts
	comments        *service.Comments
	watchlist       *service.Watchlist
	recommendations *service.Recommendations
	observer        *service.Observer
	tokenSecret     []byte
	upgrader        websocket.Upgrader
}

// New создает HTTP-сервер поверх сервисов.
func New(
	accounts *service.Accounts,
	comments *service.Comments,
	watchlist *service.Watchlist,
	recommendations *service.Recommendations,
	observer *service.Observer,
	tokenSecret []byte,
) *Server {
	return &Server{
		accounts:        accounts,
		comments:        comments,
		watchlist:       watchlist,
		recommendations: recommendations,
		observer:        observer,
		tokenSecret:     tokenSecret,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Routes собирает дерево маршрутов под /api.
// Чтение комментариев и live-лента доступны без токена, все мутации — нет.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Get("/me", s.handleGetProfile)
				r.Put("/me", s.handleUpdateProfile)
				r.Delete("/me", s.handleDeleteAccount)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", s.handleListComments)
			r.Get("/live", s.handleCommentsLive)
			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/", s.handleCreateComment)
				r.Post("/{id}/reaction", s.handleReaction)
				r.Delete("/{id}", s.handleDeleteComment)
			})
		})

		r.Route("/watchlist", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleWatchlist)
			r.Post("/", s.handleAddToWatchlist)
			r.Put("/{id}", s.handleUpdateWatchlistItem)
			r.Delete("/{id}", s.handleRemoveFromWatchlist)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/saved", s.handleSavedRecommendations)
			r.Post("/", s.handleSaveRecommendation)
			r.Put("/{id}", s.handleUpdateRecommendation)
			r.Delete("/{id}", s.handleDeleteRecommendation)
		})
	})

	return r
}
