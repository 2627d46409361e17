package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func TestPostRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO posts \(title, content, user_id\)`).
		WithArgs("Hi", "World", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "created_at", "user_id"}).
			AddRow(10, "Hi", "World", now, 1))

	repo := NewPostRepo(db)
	post, err := repo.Create(context.Background(), "Hi", "World", 1)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if post.ID != 10 || post.UserID != 1 || !post.CreatedAt.Equal(now) {
		t.Errorf("unexpected post: %+v", post)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostRepo_Create_UnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs("Hi", "World", 42).
		WillReturnError(&pq.Error{Code: "23503"})

	repo := NewPostRepo(db)
	if _, err := repo.Create(context.Background(), "Hi", "World", 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, content, created_at, user_id\s+FROM posts\s+WHERE id = \$1`).
		WithArgs(999).
		WillReturnError(sql.ErrNoRows)

	repo := NewPostRepo(db)
	if _, err := repo.GetByID(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostRepo_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, title, content, created_at, user_id FROM posts ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "created_at", "user_id"}).
			AddRow(1, "a", "x", now, 1).
			AddRow(2, "b", "y", now, 2))

	repo := NewPostRepo(db)
	posts, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(posts) != 2 || posts[0].Title != "a" || posts[1].UserID != 2 {
		t.Errorf("unexpected posts: %+v", posts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostRepo_List_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM posts ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "created_at", "user_id"}))

	repo := NewPostRepo(db)
	posts, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if posts == nil || len(posts) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", posts)
	}
}
