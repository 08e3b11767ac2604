package blog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aneeqm/bloghub/internal/telemetry/tracing"
	"github.com/aneeqm/bloghub/pkg"
)

var _ postsRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) AddPost(ctx context.Context, post *Post) error {
	if post.Title == "" || post.Subtitle == "" || post.Body == "" {
		return ErrPostFieldsEmpty
	}

	if post.ImageURL == "" {
		post.ImageURL = DefaultImageURL
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO posts (title, subtitle, body, image_url, author_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		post.Title, post.Subtitle, post.Body, post.ImageURL, post.AuthorID, post.CreatedAt,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrTitleTaken
		}
		return err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrTitleTaken
		}
		return err
	}

	if !rows.Next() {
		return errors.New("unexpected error, failed to insert post")
	}

	if err := rows.Scan(&post.ID); err != nil {
		return fmt.Errorf("rows scan: %w", err)
	}

	post.SetDisplayDate()

	return nil
}

// UpdatePost will update the title, subtitle, body and image URL of the post.
// The author and creation date are never updated.
func (r *Repo) UpdatePost(ctx context.Context, id int, title, subtitle, body, imageURL string) error {
	if title == "" || subtitle == "" || body == "" {
		return ErrPostFieldsEmpty
	}

	if imageURL == "" {
		imageURL = DefaultImageURL
	}

	tag, err := r.db.Exec(
		ctx,
		`UPDATE posts SET title = $1, subtitle = $2, body = $3, image_url = $4 WHERE id = $5`,
		title, subtitle, body, imageURL, id,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrTitleTaken
		}
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}

	return nil
}

func (r *Repo) DeletePost(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *Repo) GetPost(ctx context.Context, id int) (*Post, error) {
	log.Tracef("getting post %d", id)

	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.GetPost")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	var post Post
	err := r.db.QueryRow(
		ctx,
		`SELECT id, title, subtitle, body, image_url, author_id, created_at FROM posts WHERE id = $1;`,
		id,
	).Scan(
		&post.ID, &post.Title, &post.Subtitle, &post.Body,
		&post.ImageURL, &post.AuthorID, &post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	post.SetDisplayDate()

	return &post, nil
}

func (r *Repo) All(ctx context.Context) ([]*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.All")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, subtitle, body, image_url, author_id, created_at FROM posts ORDER BY id DESC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return r.rows2posts(rows)
}

func (r *Repo) PostsCount(ctx context.Context) (int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.PostsCount")
	defer span.End()

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return -1, err
	}

	return count, nil
}

func (r *Repo) GetPostsPage(ctx context.Context, page, size int) ([]*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.GetPostsPage")
	span.SetAttributes(attribute.Int("page", page))
	span.SetAttributes(attribute.Int("size", size))
	defer span.End()

	limit := size
	offset := (page - 1) * size
	postsCount, err := r.PostsCount(ctx)
	if err != nil {
		return nil, err
	}

	if postsCount <= limit {
		return r.All(ctx)
	}

	if postsCount-offset < limit {
		offset = postsCount - limit
	}

	log.Tracef("getting posts, posts count %d, limit %d, offset %d", postsCount, limit, offset)

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, title, subtitle, body, image_url, author_id, created_at FROM posts
			ORDER BY id DESC
			LIMIT $1
			OFFSET $2;
		`,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return r.rows2posts(rows)
}

func (r *Repo) rows2posts(rows pgx.Rows) ([]*Post, error) {
	var posts []*Post
	for rows.Next() {
		var post Post
		if err := rows.Scan(
			&post.ID, &post.Title, &post.Subtitle, &post.Body,
			&post.ImageURL, &post.AuthorID, &post.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		post.SetDisplayDate()
		posts = append(posts, &post)
	}
	return posts, nil
}
