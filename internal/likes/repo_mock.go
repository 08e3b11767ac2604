package likes

import (
	"context"
	"sort"
	"sync"
)

var _ likesRepo = (*repoMock)(nil)

type repoMock struct {
	Likes  map[int]*Like
	nextID int
	mutex  sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Likes:  make(map[int]*Like),
		nextID: 1,
	}
}

func (r *repoMock) Add(_ context.Context, like *Like) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if like.ID == 0 {
		like.ID = r.nextID
		r.nextID++
	}
	r.Likes[like.ID] = like
	return nil
}

func (r *repoMock) Remove(_ context.Context, authorID, postID int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	// one row at a time, the lowest id first
	var ids []int
	for id, like := range r.Likes {
		if like.AuthorID == authorID && like.PostID == postID {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return ErrLikeNotFound
	}
	sort.Ints(ids)
	delete(r.Likes, ids[0])
	return nil
}

func (r *repoMock) CountForPost(_ context.Context, postID int) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	count := 0
	for _, like := range r.Likes {
		if like.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (r *repoMock) ForPost(_ context.Context, postID int) ([]*Like, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var postLikes []*Like
	for _, like := range r.Likes {
		if like.PostID == postID {
			postLikes = append(postLikes, like)
		}
	}
	sort.Slice(postLikes, func(i, j int) bool {
		return postLikes[i].ID < postLikes[j].ID
	})
	return postLikes, nil
}
