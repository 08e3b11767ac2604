package blog

import (
	"errors"
	"time"
)

var (
	ErrPostNotFound    = errors.New("blog post not found")
	ErrTitleTaken      = errors.New("blog post title already taken")
	ErrPostFieldsEmpty = errors.New("blog post title, subtitle or body empty")
	ErrForbidden       = errors.New("forbidden")
)

// DefaultImageURL is used when a post is created or edited with an empty image URL
const DefaultImageURL = "https://images.unsplash.com/photo-1586380951230-e6703d9f6833?ixlib=rb-4.0.3&ixid=" +
	"M3wxMjA3fDB8MHxwaG90by1wYWdlfHx8fGVufDB8fHx8fA%3D%3D&auto=format&fit=crop&w=1374&q=80"

const displayDateFormat = "January 02, 2006"

type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	Body      string    `json:"body"`
	ImageURL  string    `json:"image_url"`
	AuthorID  int       `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`

	// Date is the human readable form of CreatedAt, not stored in the db
	Date string `json:"date"`
}

func (p *Post) SetDisplayDate() {
	p.Date = p.CreatedAt.Format(displayDateFormat)
}
