package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UkralStul/movie-discovery-service/internal/domain"
	"github.com/UkralStul/movie-discovery-service/internal/storage/inmemory"
)

// newTestComments создает сервис комментариев поверх in-memory
// хранилища и одного пользователя.
func newTestComments(t *testing.T) (*Comments, *inmemory.Store, *domain.User) {
	store := inmemory.New()
	user, err := store.CreateUser(context.Background(), &domain.User{
		Username:     "moviefan",
		Email:        "moviefan@example.com",
		PasswordHash: "hashed",
	})
	require.NoError(t, err)
	return NewComments(store, NewObserver()), store, user
}

func TestComments_CreateAndList(t *testing.T) {
	svc, _, user := newTestComments(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.ID, 42, "Great film", nil)
	require.NoError(t, err)
	assert.Equal(t, user.Username, created.Username)
	assert.Empty(t, created.Likes)
	assert.Empty(t, created.Dislikes)

	comments, err := svc.ListForMovie(ctx, 42)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, created.ID, comments[0].ID)
	assert.Empty(t, comments[0].Replies)
}

func TestComments_Create_Validation(t *testing.T) {
	svc, _, user := newTestComments(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, user.ID, 42, "   ", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, user.ID, 42, strings.Repeat("a", MaxCommentLength+1), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestComments_Create_AuthorNotFound(t *testing.T) {
	svc, _, _ := newTestComments(t)

	_, err := svc.Create(context.Background(), "no-such-user", 42, "hello", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestComments_Create_UsernameSnapshot(t *testing.T) {
	svc, store, user := newTestComments(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.ID, 42, "before rename", nil)
	require.NoError(t, err)

	user.Username = "renamed"
	_, err = store.UpdateUser(ctx, user)
	require.NoError(t, err)

	// Переименование не переписывает уже созданные комментарии
	comments, err := svc.ListForMovie(ctx, 42)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "moviefan", comments[0].Username)
	assert.Equal(t, created.ID, comments[0].ID)
}

func TestComments_Create_ReplyRules(t *testing.T) {
	svc, _, user := newTestComments(t)
	ctx := context.Background()

	parent, err := svc.Create(ctx, user.ID, 42, "parent", nil)
	require.NoError(t, err)
	reply, err := svc.Create(ctx, user.ID, 42, "reply", &parent.ID)
	require.NoError(t, err)

	// Ответ на ответ запрещен: поддерживается один уровень вложенности
	_, err = svc.Create(ctx, user.ID, 42, "too deep", &reply.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Родитель должен быть на том же фильме
	_, err = svc.Create(ctx, user.ID, 99, "wrong movie", &parent.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// Несуществующий родитель
	missing := "no-such-comment"
	_, err = svc.Create(ctx, user.ID, 42, "orphan", &missing)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestComments_ListForMovie_Shape(t *testing.T) {
	svc, _, user := newTestComments(t)
	ctx := context.Background()

	c1, err := svc.Create(ctx, user.ID, 42, "Great film", nil)
	require.NoError(t, err)
	r1, err := svc.Create(ctx, user.ID, 42, "Agreed", &c1.ID)
	require.NoError(t, err)
	c2, err := svc.Create(ctx, user.ID, 42, "Late take", nil)
	require.NoError(t, err)

	comments, err := svc.ListForMovie(ctx, 42)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	// Корневые от новых к старым, ответы хронологически
	assert.Equal(t, c2.ID, comments[0].ID)
	assert.Equal(t, c1.ID, comments[1].ID)
	require.Len(t, comments[1].Replies, 1)
	assert.Equal(t, r1.ID, comments[1].Replies[0].ID)
	assert.Empty(t, comments[0].Replies)
}

func TestComments_ListForMovie_Empty(t *testing.T) {
	svc, _, _ := newTestComments(t)

	comments, err := svc.ListForMovie(context.Background(), 12345)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestComments_React(t *testing.T) {
	svc, _, user := newTestComments(t)
	ctx := context.Background()

	comment, err := svc.Create(ctx, user.ID, 42, "react here", nil)
	require.NoError(t, err)

	liked, err := svc.React(ctx, comment.ID, "user-2", domain.ReactionLike)
	require.NoError(t, err)
	assert.Contains(t, liked.Likes, "user-2")
	assert.NotContains(t, liked.Dislikes, "user-2")

	switched, err := svc.React(ctx, comment.ID, "user-2", domain.ReactionDislike)
	require.NoError(t, err)
	assert.NotContains(t, switched.Likes, "user-2")
	assert.Contains(t, switched.Dislikes, "user-2")

	_, err = svc.React(ctx, comment.ID, "user-2", "meh")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.React(ctx, "no-such-comment", "user-2", domain.ReactionLike)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestComments_Delete_Scenario(t *testing.T) {
	svc, _, user := newTestComments(t)
	ctx := context.Background()

	c1, err := svc.Create(ctx, user.ID, 42, "Great film", nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, user.ID, 42, "Agreed", &c1.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, c1.ID, user.ID))

	comments, err := svc.ListForMovie(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestComments_Delete_NotAuthor(t *testing.T) {
	svc, _, user := newTestComments(t)
	ctx := context.Background()

	c1, err := svc.Create(ctx, user.ID, 42, "mine", nil)
	require.NoError(t, err)
	r1, err := svc.Create(ctx, user.ID, 42, "my reply", &c1.ID)
	require.NoError(t, err)

	err = svc.Delete(ctx, c1.ID, "intruder")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Комментарий и ответы не тронуты
	comments, err := svc.ListForMovie(ctx, 42)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Len(t, comments[0].Replies, 1)
	assert.Equal(t, r1.ID, comments[0].Replies[0].ID)
}

func TestComments_Delete_NotFound(t *testing.T) {
	svc, _, user := newTestComments(t)

	err := svc.Delete(context.Background(), "no-such-comment", user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestObserver_NotifyOnCreate(t *testing.T) {
	store := inmemory.New()
	observer := NewObserver()
	svc := NewComments(store, observer)
	ctx := context.Background()

	user, err := store.CreateUser(ctx, &domain.User{
		Username:     "moviefan",
		Email:        "moviefan@example.com",
		PasswordHash: "hashed",
	})
	require.NoError(t, err)

	ch, cancel := observer.Subscribe(42)
	defer cancel()
	otherMovie, cancelOther := observer.Subscribe(99)
	defer cancelOther()

	created, err := svc.Create(ctx, user.ID, 42, "live!", nil)
	require.NoError(t, err)

	select {
	case got := <-ch:
		assert.Equal(t, created.ID, got.ID)
	default:
		t.Fatal("expected a notification for movie 42")
	}

	select {
	case <-otherMovie:
		t.Fatal("subscriber of another movie must not be notified")
	default:
	}
}
