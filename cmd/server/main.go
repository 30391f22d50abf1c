package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/UkralStul/movie-discovery-service/internal/auth"
	"github.com/UkralStul/movie-discovery-service/internal/domain"
	"github.com/UkralStul/movie-discovery-service/internal/httpapi"
	"github.com/UkralStul/movie-discovery-service/internal/service"
	"github.com/UkralStul/movie-discovery-service/internal/storage"
	"github.com/UkralStul/movie-discovery-service/internal/storage/inmemory"
	"github.com/UkralStul/movie-discovery-service/internal/storage/postgres"
)

const defaultPort = "8080"

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Println("JWT_SECRET is not set, using insecure development secret")
		secret = "dev-secret-change-me"
	}

	storageType := flag.String("storage", "in-memory", "Storage type (in-memory or postgres)")
	flag.Parse()

	var store storage.Storage
	var err error

	log.Printf("Starting server with %s storage", *storageType)
	if *storageType == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			log.Fatal("DATABASE_URL must be set for postgres storage")
		}
		store, err = postgres.New(dsn)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
	} else {
		memStore := inmemory.New()
		fillWithDemoData(memStore)
		store = memStore
	}

	observer := service.NewObserver()
	comments := service.NewComments(store, observer)
	accounts := service.NewAccounts(store, comments, []byte(secret))
	watchlist := service.NewWatchlist(store)
	recommendations := service.NewRecommendations(store)

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	api := httpapi.New(accounts, comments, watchlist, recommendations, observer, []byte(secret))
	router.Mount("/", api.Routes())

	log.Printf("listening on http://localhost:%s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("server failed to start: %v", err)
	}
}

// fillWithDemoData наполняет in-memory хранилище данными для ручной проверки.
func fillWithDemoData(s storage.Storage) {
	ctx := context.Background()

	hash, err := auth.HashPassword("password123")
	if err != nil {
		log.Fatalf("fillWithDemoData: failed to hash password: %v", err)
	}

	user, err := s.CreateUser(ctx, &domain.User{
		Username:       "moviefan",
		Email:          "moviefan@example.com",
		PasswordHash:   hash,
		FavoriteGenres: []string{"Drama", "Thriller"},
	})
	if err != nil {
		log.Fatalf("fillWithDemoData: failed to create user: %v", err)
	}

	// Fight Club (TMDB id 550) с одним корневым комментарием и ответом
	c1, err := s.CreateComment(ctx, &domain.Comment{
		MovieID:  550,
		AuthorID: user.ID,
		Username: user.Username,
		Text:     "One of the best endings ever filmed.",
		Likes:    []string{},
		Dislikes: []string{},
	})
	if err != nil {
		log.Fatalf("fillWithDemoData: failed to create comment: %v", err)
	}

	_, err = s.CreateComment(ctx, &domain.Comment{
		MovieID:  550,
		ParentID: &c1.ID,
		AuthorID: user.ID,
		Username: user.Username,
		Text:     "Rewatched it last week, still holds up.",
		Likes:    []string{},
		Dislikes: []string{},
	})
	if err != nil {
		log.Fatalf("fillWithDemoData: failed to create reply: %v", err)
	}

	log.Printf("Demo data filled successfully. Demo user: %s / password123", user.Email)
}
