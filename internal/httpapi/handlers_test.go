package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UkralStul/movie-discovery-service/internal/domain"
	"github.com/UkralStul/movie-discovery-service/internal/service"
	"github.com/UkralStul/movie-discovery-service/internal/storage/inmemory"
)

var testSecret = []byte("test-secret")

// newTestServer собирает полный стек поверх in-memory хранилища.
func newTestServer(t *testing.T) (*Server, *inmemory.Store) {
	store := inmemory.New()
	observer := service.NewObserver()
	comments := service.NewComments(store, observer)
	accounts := service.NewAccounts(store, comments, testSecret)
	watchlist := service.NewWatchlist(store)
	recommendations := service.NewRecommendations(store)
	return New(accounts, comments, watchlist, recommendations, observer, testSecret), store
}

func doRequest(t *testing.T, srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

// registerUser регистрирует пользователя через API и возвращает его токен и id.
func registerUser(t *testing.T, srv *Server, username, email string) (token, id string) {
	rec := doRequest(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User.ID
}

func TestAuth_RegisterLoginMe(t *testing.T) {
	srv, _ := newTestServer(t)

	token, userID := registerUser(t, srv, "moviefan", "moviefan@example.com")

	rec := doRequest(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "moviefan@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me domain.User
	decodeBody(t, rec, &me)
	assert.Equal(t, userID, me.ID)
	assert.Equal(t, "moviefan", me.Username)

	// Пароль не утекает в JSON
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAuth_BadCredentials(t *testing.T) {
	srv, _ := newTestServer(t)
	registerUser(t, srv, "moviefan", "moviefan@example.com")

	rec := doRequest(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "moviefan@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuth_MiddlewareRejects(t *testing.T) {
	srv, _ := newTestServer(t)

	// Без токена
	rec := doRequest(t, srv, http.MethodPost, "/api/comments", "", map[string]interface{}{
		"movieId": 42, "text": "hi",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// С мусорным токеном
	rec = doRequest(t, srv, http.MethodPost, "/api/comments", "garbage", map[string]interface{}{
		"movieId": 42, "text": "hi",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestComments_CreateListDelete(t *testing.T) {
	srv, _ := newTestServer(t)
	token, userID := registerUser(t, srv, "moviefan", "moviefan@example.com")

	rec := doRequest(t, srv, http.MethodPost, "/api/comments", token, map[string]interface{}{
		"movieId": 42,
		"text":    "Great film",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var c1 domain.Comment
	decodeBody(t, rec, &c1)
	assert.Equal(t, userID, c1.AuthorID)
	assert.Equal(t, "moviefan", c1.Username)

	rec = doRequest(t, srv, http.MethodPost, "/api/comments", token, map[string]interface{}{
		"movieId":         42,
		"text":            "Agreed",
		"parentCommentId": c1.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var r1 domain.Comment
	decodeBody(t, rec, &r1)

	rec = doRequest(t, srv, http.MethodGet, "/api/comments?movie=42", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []*domain.Comment
	decodeBody(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, c1.ID, listed[0].ID)
	require.Len(t, listed[0].Replies, 1)
	assert.Equal(t, r1.ID, listed[0].Replies[0].ID)

	rec = doRequest(t, srv, http.MethodDelete, "/api/comments/"+c1.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/comments?movie=42", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed = nil
	decodeBody(t, rec, &listed)
	assert.Empty(t, listed)
}

func TestComments_Create_Validation(t *testing.T) {
	srv, _ := newTestServer(t)
	token, _ := registerUser(t, srv, "moviefan", "moviefan@example.com")

	rec := doRequest(t, srv, http.MethodPost, "/api/comments", token, map[string]interface{}{
		"movieId": 42,
		"text":    "   ",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComments_Reaction(t *testing.T) {
	srv, _ := newTestServer(t)
	token, userID := registerUser(t, srv, "moviefan", "moviefan@example.com")

	rec := doRequest(t, srv, http.MethodPost, "/api/comments", token, map[string]interface{}{
		"movieId": 42, "text": "react to me",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var comment domain.Comment
	decodeBody(t, rec, &comment)

	rec = doRequest(t, srv, http.MethodPost, fmt.Sprintf("/api/comments/%s/reaction", comment.ID), token, map[string]string{
		"reaction": "like",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated domain.Comment
	decodeBody(t, rec, &updated)
	assert.Contains(t, updated.Likes, userID)

	rec = doRequest(t, srv, http.MethodPost, fmt.Sprintf("/api/comments/%s/reaction", comment.ID), token, map[string]string{
		"reaction": "dislike",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated = domain.Comment{}
	decodeBody(t, rec, &updated)
	assert.NotContains(t, updated.Likes, userID)
	assert.Contains(t, updated.Dislikes, userID)

	rec = doRequest(t, srv, http.MethodPost, "/api/comments/no-such-id/reaction", token, map[string]string{
		"reaction": "like",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComments_Delete_Forbidden(t *testing.T) {
	srv, _ := newTestServer(t)
	authorToken, _ := registerUser(t, srv, "author", "author@example.com")
	intruderToken, _ := registerUser(t, srv, "intruder", "intruder@example.com")

	rec := doRequest(t, srv, http.MethodPost, "/api/comments", authorToken, map[string]interface{}{
		"movieId": 42, "text": "mine",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var comment domain.Comment
	decodeBody(t, rec, &comment)

	rec = doRequest(t, srv, http.MethodDelete, "/api/comments/"+comment.ID, intruderToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, srv, http.MethodDelete, "/api/comments/no-such-id", authorToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWatchlist_CRUD(t *testing.T) {
	srv, _ := newTestServer(t)
	token, _ := registerUser(t, srv, "moviefan", "moviefan@example.com")

	rec := doRequest(t, srv, http.MethodPost, "/api/watchlist", token, map[string]interface{}{
		"movieId": 550,
		"title":   "Fight Club",
		"type":    "movie",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var item domain.WatchlistItem
	decodeBody(t, rec, &item)

	// Дубликат того же фильма — 400
	rec = doRequest(t, srv, http.MethodPost, "/api/watchlist", token, map[string]interface{}{
		"movieId": 550,
		"title":   "Fight Club",
		"type":    "movie",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodPut, "/api/watchlist/"+item.ID, token, map[string]interface{}{
		"watched":    true,
		"userRating": 5,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updatedItem domain.WatchlistItem
	decodeBody(t, rec, &updatedItem)
	assert.True(t, updatedItem.Watched)

	rec = doRequest(t, srv, http.MethodDelete, "/api/watchlist/"+item.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/watchlist", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []*domain.WatchlistItem
	decodeBody(t, rec, &items)
	assert.Empty(t, items)
}

func TestRecommendations_SaveAndList(t *testing.T) {
	srv, _ := newTestServer(t)
	token, _ := registerUser(t, srv, "moviefan", "moviefan@example.com")

	rec := doRequest(t, srv, http.MethodPost, "/api/recommendations", token, map[string]interface{}{
		"movieId": 680,
		"title":   "Pulp Fiction",
		"rating":  8.9,
		"genres":  []string{"Crime", "Drama"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, srv, http.MethodGet, "/api/recommendations/saved", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var recs []*domain.Recommendation
	decodeBody(t, rec, &recs)
	require.Len(t, recs, 1)
	assert.Equal(t, "Pulp Fiction", recs[0].Title)
}

func TestAccount_DeleteCascadesComments(t *testing.T) {
	srv, store := newTestServer(t)
	token, userID := registerUser(t, srv, "moviefan", "moviefan@example.com")

	rec := doRequest(t, srv, http.MethodPost, "/api/comments", token, map[string]interface{}{
		"movieId": 42, "text": "to be removed",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, srv, http.MethodDelete, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := store.GetUserByID(context.Background(), userID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	rec = doRequest(t, srv, http.MethodGet, "/api/comments?movie=42", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []*domain.Comment
	decodeBody(t, rec, &listed)
	assert.Empty(t, listed)
}
