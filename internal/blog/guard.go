package blog

import (
	"context"
)

type postGetter interface {
	GetPost(ctx context.Context, id int) (*Post, error)
}

// CheckPostOwner allows a post mutation only for the post's author.
// The post is loaded fresh from the db on every call, the author id is
// never taken from the request. Anonymous callers (callerID <= 0) are
// rejected before touching storage.
func CheckPostOwner(ctx context.Context, repo postGetter, postID, callerID int) error {
	if callerID <= 0 {
		return ErrForbidden
	}

	post, err := repo.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != callerID {
		return ErrForbidden
	}

	return nil
}
