package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/UkralStul/movie-discovery-service/internal/domain"
)

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.Atoi(r.URL.Query().Get("movie"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Movie id is required")
		return
	}

	comments, err := s.comments.ListForMovie(r.Context(), movieID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MovieID         int     `json:"movieId"`
		Text            string  `json:"text"`
		ParentCommentID *string `json:"parentCommentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := s.comments.Create(r.Context(), userIDFrom(r.Context()), req.MovieID, req.Text, req.ParentCommentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleReaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reaction string `json:"reaction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := s.comments.React(r.Context(), chi.URLParam(r, "id"), userIDFrom(r.Context()), domain.Reaction(req.Reaction))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := s.comments.Delete(r.Context(), chi.URLParam(r, "id"), userIDFrom(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Comment deleted")
}
