package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/blog-api/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

type PostRepo struct {
	DB *sql.DB
}

func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{DB: db}
}

// ========================
// CREATE POST
// ========================

// Create inserts a post authored by userID; created_at is set by the database.
// Returns ErrNotFound when userID does not reference a user.
func (r *PostRepo) Create(ctx context.Context, title, content string, userID int) (models.Post, error) {
	var post models.Post
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO posts (title, content, user_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, title, content, created_at, user_id`,
		title, content, userID,
	).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.CreatedAt,
		&post.UserID,
	)
	return post, translate(err)
}

// ========================
// GET POST BY ID
// ========================

func (r *PostRepo) GetByID(ctx context.Context, id int) (models.Post, error) {
	var post models.Post
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, title, content, created_at, user_id
		 FROM posts
		 WHERE id = $1`,
		id,
	).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.CreatedAt,
		&post.UserID,
	)
	return post, translate(err)
}

// ========================
// LIST ALL POSTS
// ========================

// List returns every post in id order. There is no pagination.
func (r *PostRepo) List(ctx context.Context) ([]models.Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, title, content, created_at, user_id FROM posts ORDER BY id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.CreatedAt, &p.UserID); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
