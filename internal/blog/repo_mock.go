package blog

import (
	"context"
	"sort"
	"sync"
	"time"
)

var _ postsRepo = (*repoMock)(nil)

type repoMock struct {
	Posts  map[int]*Post
	nextID int
	mutex  sync.Mutex
}

func newRepoMock() *repoMock {
	return &repoMock{
		Posts:  make(map[int]*Post),
		nextID: 1,
	}
}

func (r *repoMock) AddPost(_ context.Context, post *Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if post.Title == "" || post.Subtitle == "" || post.Body == "" {
		return ErrPostFieldsEmpty
	}

	for _, p := range r.Posts {
		if p.Title == post.Title {
			return ErrTitleTaken
		}
	}

	if post.ImageURL == "" {
		post.ImageURL = DefaultImageURL
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	if post.ID == 0 {
		post.ID = r.nextID
		r.nextID++
	}
	post.SetDisplayDate()

	r.Posts[post.ID] = post
	return nil
}

func (r *repoMock) UpdatePost(_ context.Context, id int, title, subtitle, body, imageURL string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if title == "" || subtitle == "" || body == "" {
		return ErrPostFieldsEmpty
	}

	post, ok := r.Posts[id]
	if !ok {
		return ErrPostNotFound
	}

	for _, p := range r.Posts {
		if p.ID != id && p.Title == title {
			return ErrTitleTaken
		}
	}

	if imageURL == "" {
		imageURL = DefaultImageURL
	}

	post.Title = title
	post.Subtitle = subtitle
	post.Body = body
	post.ImageURL = imageURL
	return nil
}

func (r *repoMock) DeletePost(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.Posts[id]; !ok {
		return ErrPostNotFound
	}

	delete(r.Posts, id)
	return nil
}

func (r *repoMock) GetPost(_ context.Context, id int) (*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	post, ok := r.Posts[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (r *repoMock) All(_ context.Context) ([]*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.allSorted(), nil
}

func (r *repoMock) PostsCount(_ context.Context) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.Posts), nil
}

func (r *repoMock) GetPostsPage(_ context.Context, page, size int) ([]*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	allPosts := r.allSorted()
	if len(allPosts) <= size {
		return allPosts, nil
	}

	startIndex := (page - 1) * size
	if startIndex >= len(allPosts) {
		return []*Post{}, nil
	}

	endIndex := startIndex + size
	if endIndex > len(allPosts) {
		endIndex = len(allPosts)
	}

	return allPosts[startIndex:endIndex], nil
}

func (r *repoMock) allSorted() []*Post {
	var posts []*Post
	for id := range r.Posts {
		posts = append(posts, r.Posts[id])
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].ID > posts[j].ID
	})
	return posts
}
