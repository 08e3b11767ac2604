package comments

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

var _ commentsRepo = (*repoMock)(nil)

type repoMock struct {
	Comments map[int]*Comment
	nextID   int
	mutex    sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Comments: make(map[int]*Comment),
		nextID:   1,
	}
}

func (r *repoMock) Add(_ context.Context, comment *Comment) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if strings.TrimSpace(comment.Text) == "" {
		return ErrCommentEmpty
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	if comment.ID == 0 {
		comment.ID = r.nextID
		r.nextID++
	}

	r.Comments[comment.ID] = comment
	return nil
}

func (r *repoMock) Get(_ context.Context, id int) (*Comment, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	comment, ok := r.Comments[id]
	if !ok {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

func (r *repoMock) Delete(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Comments[id]; !ok {
		return ErrCommentNotFound
	}
	delete(r.Comments, id)
	return nil
}

func (r *repoMock) ForPost(_ context.Context, postID int) ([]*Comment, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var postComments []*Comment
	for _, comment := range r.Comments {
		if comment.PostID == postID {
			postComments = append(postComments, comment)
		}
	}
	sort.Slice(postComments, func(i, j int) bool {
		return postComments[i].ID < postComments[j].ID
	})
	return postComments, nil
}
