package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/UkralStul/movie-discovery-service/internal/domain"
)

func (s *Server) handleSavedRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.recommendations.Saved(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleSaveRecommendation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MovieID     int      `json:"movieId"`
		Title       string   `json:"title"`
		PosterPath  string   `json:"posterPath"`
		Overview    string   `json:"overview"`
		ReleaseDate string   `json:"releaseDate"`
		Rating      float64  `json:"rating"`
		Genres      []string `json:"genres"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := s.recommendations.Save(r.Context(), userIDFrom(r.Context()), &domain.Recommendation{
		MovieID:     req.MovieID,
		Title:       req.Title,
		PosterPath:  req.PosterPath,
		Overview:    req.Overview,
		ReleaseDate: req.ReleaseDate,
		Rating:      req.Rating,
		Genres:      req.Genres,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleUpdateRecommendation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Viewed     bool `json:"viewed"`
		UserRating *int `json:"userRating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := s.recommendations.Update(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id"), req.Viewed, req.UserRating)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteRecommendation(w http.ResponseWriter, r *http.Request) {
	if err := s.recommendations.Delete(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Recommendation deleted")
}
