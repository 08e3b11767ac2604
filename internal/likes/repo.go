package likes

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/aneeqm/bloghub/internal/telemetry/tracing"
	"github.com/aneeqm/bloghub/pkg"
)

type Repo struct {
	db *pgxpool.Pool
}

var _ likesRepo = (*Repo)(nil)

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Add inserts a like row unconditionally. A user liking the same post
// twice ends up with two rows, there is no uniqueness on (author, post).
func (r *Repo) Add(ctx context.Context, like *Like) error {
	err := r.db.QueryRow(
		ctx,
		`INSERT INTO likes (author_id, post_id) VALUES ($1, $2) RETURNING id;`,
		like.AuthorID, like.PostID,
	).Scan(&like.ID)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return ErrPostGone
		}
		return err
	}
	return nil
}

// Remove deletes exactly one like row for the given user and post, even
// when duplicates exist. Removing again keeps peeling rows off one by one.
func (r *Repo) Remove(ctx context.Context, authorID, postID int) error {
	tag, err := r.db.Exec(
		ctx,
		`
			DELETE FROM likes WHERE ctid IN (
				SELECT ctid FROM likes WHERE author_id = $1 AND post_id = $2 LIMIT 1
			);
		`,
		authorID, postID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLikeNotFound
	}
	return nil
}

func (r *Repo) CountForPost(ctx context.Context, postID int) (int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "likesRepo.CountForPost")
	span.SetAttributes(attribute.Int("postID", postID))
	defer span.End()

	var count int
	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM likes WHERE post_id = $1;`,
		postID,
	).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *Repo) ForPost(ctx context.Context, postID int) ([]*Like, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, author_id, post_id FROM likes WHERE post_id = $1 ORDER BY id;`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var postLikes []*Like
	for rows.Next() {
		var like Like
		if err := rows.Scan(&like.ID, &like.AuthorID, &like.PostID); err != nil {
			return nil, err
		}
		postLikes = append(postLikes, &like)
	}
	return postLikes, nil
}
