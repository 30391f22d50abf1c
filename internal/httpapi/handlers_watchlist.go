package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/UkralStul/movie-discovery-service/internal/domain"
)

func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	items, err := s.watchlist.List(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAddToWatchlist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MovieID     int    `json:"movieId"`
		Title       string `json:"title"`
		PosterPath  string `json:"posterPath"`
		Overview    string `json:"overview"`
		ReleaseDate string `json:"releaseDate"`
		Type        string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := s.watchlist.Add(r.Context(), userIDFrom(r.Context()), &domain.WatchlistItem{
		MovieID:     req.MovieID,
		Title:       req.Title,
		PosterPath:  req.PosterPath,
		Overview:    req.Overview,
		ReleaseDate: req.ReleaseDate,
		Type:        req.Type,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateWatchlistItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Watched    bool `json:"watched"`
		UserRating *int `json:"userRating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := s.watchlist.Update(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), req.Watched, req.UserRating)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleRemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	if err := s.watchlist.Remove(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Removed from watchlist")
}
