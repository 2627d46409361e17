package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/blog-api/internal/models"
	"github.com/lib/pq"
)

// CommentRepo persists comments. Comments are only ever read by post.
type CommentRepo struct {
	DB *sql.DB
}

func NewCommentRepo(db *sql.DB) *CommentRepo {
	return &CommentRepo{DB: db}
}

// Create adds a comment to postID in one transaction. The post row is share-locked
// first so the insert cannot race a removal; ErrNotFound means the post does not exist.
func (r *CommentRepo) Create(ctx context.Context, postID, userID int, content string) (models.Comment, error) {
	var c models.Comment

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return c, err
	}
	defer tx.Rollback()

	var id int
	err = tx.QueryRowContext(ctx, `SELECT id FROM posts WHERE id = $1 FOR SHARE`, postID).Scan(&id)
	if err != nil {
		return c, translate(err)
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO comments (post_id, user_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, post_id, user_id, content, created_at`,
		postID, userID, content,
	).Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt)
	if err != nil {
		return models.Comment{}, translate(err)
	}

	if err := tx.Commit(); err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

// ListByPost returns the comments on one post, oldest first.
func (r *CommentRepo) ListByPost(ctx context.Context, postID int) ([]models.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, post_id, user_id, content, created_at
		 FROM comments
		 WHERE post_id = $1
		 ORDER BY created_at, id`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// ListByPosts loads the comments of several posts in a single query, keyed by post id.
// Posts without comments are absent from the map.
func (r *CommentRepo) ListByPosts(ctx context.Context, postIDs []int) (map[int][]models.Comment, error) {
	out := make(map[int][]models.Comment)
	if len(postIDs) == 0 {
		return out, nil
	}

	ids := make([]int64, len(postIDs))
	for i, id := range postIDs {
		ids[i] = int64(id)
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, post_id, user_id, content, created_at
		 FROM comments
		 WHERE post_id = ANY($1)
		 ORDER BY post_id, created_at, id`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		out[c.PostID] = append(out[c.PostID], c)
	}
	return out, rows.Err()
}
