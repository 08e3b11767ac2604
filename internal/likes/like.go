package likes

import "errors"

var (
	ErrLikeNotFound = errors.New("like not found")
	ErrPostGone     = errors.New("liked post not found")
)

type Like struct {
	ID       int `json:"id"`
	AuthorID int `json:"author_id"`
	PostID   int `json:"post_id"`
}
