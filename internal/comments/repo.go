package comments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aneeqm/bloghub/internal/telemetry/tracing"
	"github.com/aneeqm/bloghub/pkg"
)

type Repo struct {
	db *pgxpool.Pool
}

var _ commentsRepo = (*Repo)(nil)

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, comment *Comment) error {
	if strings.TrimSpace(comment.Text) == "" {
		return ErrCommentEmpty
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	err := r.db.QueryRow(
		ctx,
		`INSERT INTO comments (text, author_id, post_id, created_at) VALUES ($1, $2, $3, $4) RETURNING id;`,
		comment.Text, comment.AuthorID, comment.PostID, comment.CreatedAt,
	).Scan(&comment.ID)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return ErrPostGone
		}
		return err
	}

	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (*Comment, error) {
	var comment Comment
	err := r.db.QueryRow(
		ctx,
		`SELECT id, text, author_id, post_id, created_at FROM comments WHERE id = $1;`,
		id,
	).Scan(&comment.ID, &comment.Text, &comment.AuthorID, &comment.PostID, &comment.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (r *Repo) ForPost(ctx context.Context, postID int) ([]*Comment, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "commentsRepo.ForPost")
	span.SetAttributes(attribute.Int("postID", postID))
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, text, author_id, post_id, created_at FROM comments WHERE post_id = $1 ORDER BY id;`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var postComments []*Comment
	for rows.Next() {
		var comment Comment
		if err := rows.Scan(
			&comment.ID, &comment.Text, &comment.AuthorID, &comment.PostID, &comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		postComments = append(postComments, &comment)
	}
	return postComments, nil
}
