package blog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPostOwner(t *testing.T) {
	repo := newRepoMock()
	post := &Post{
		Title:    "owner check",
		Subtitle: "sub",
		Body:     "body",
		AuthorID: 42,
	}
	require.NoError(t, repo.AddPost(context.Background(), post))

	t.Run("owner allowed", func(t *testing.T) {
		assert.NoError(t, CheckPostOwner(context.Background(), repo, post.ID, 42))
	})

	t.Run("other user forbidden", func(t *testing.T) {
		assert.ErrorIs(t, CheckPostOwner(context.Background(), repo, post.ID, 43), ErrForbidden)
	})

	t.Run("anonymous forbidden", func(t *testing.T) {
		assert.ErrorIs(t, CheckPostOwner(context.Background(), repo, post.ID, 0), ErrForbidden)
		assert.ErrorIs(t, CheckPostOwner(context.Background(), repo, post.ID, -1), ErrForbidden)
	})

	t.Run("missing post", func(t *testing.T) {
		assert.ErrorIs(t, CheckPostOwner(context.Background(), repo, 999, 42), ErrPostNotFound)
	})
}
