package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestCommentRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM posts WHERE id = \$1 FOR SHARE`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(`INSERT INTO comments \(post_id, user_id, content\)`).
		WithArgs(3, 1, "nice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "content", "created_at"}).
			AddRow(7, 3, 1, "nice", now))
	mock.ExpectCommit()

	repo := NewCommentRepo(db)
	c, err := repo.Create(context.Background(), 3, 1, "nice")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID != 7 || c.PostID != 3 || c.UserID != 1 || c.Content != "nice" {
		t.Errorf("unexpected comment: %+v", c)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCommentRepo_Create_PostNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM posts WHERE id = \$1 FOR SHARE`).
		WithArgs(404).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	repo := NewCommentRepo(db)
	if _, err := repo.Create(context.Background(), 404, 1, "nice"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	// No INSERT expected: the transaction is rolled back before any comment row is written.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCommentRepo_ListByPost(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM comments\s+WHERE post_id = \$1\s+ORDER BY created_at, id`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "content", "created_at"}).
			AddRow(1, 3, 1, "first", now).
			AddRow(2, 3, 2, "second", now.Add(time.Second)))

	repo := NewCommentRepo(db)
	list, err := repo.ListByPost(context.Background(), 3)
	if err != nil {
		t.Fatalf("ListByPost: %v", err)
	}
	if len(list) != 2 || list[0].Content != "first" || list[1].UserID != 2 {
		t.Errorf("unexpected comments: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCommentRepo_ListByPosts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`WHERE post_id = ANY\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "content", "created_at"}).
			AddRow(1, 1, 1, "on one", now).
			AddRow(3, 2, 1, "on two", now).
			AddRow(4, 2, 2, "again on two", now.Add(time.Second)))

	repo := NewCommentRepo(db)
	byPost, err := repo.ListByPosts(context.Background(), []int{1, 2, 3})
	if err != nil {
		t.Fatalf("ListByPosts: %v", err)
	}
	if len(byPost[1]) != 1 || len(byPost[2]) != 2 || len(byPost[3]) != 0 {
		t.Errorf("unexpected grouping: %+v", byPost)
	}
	if byPost[2][1].Content != "again on two" {
		t.Errorf("order not preserved: %+v", byPost[2])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCommentRepo_ListByPosts_NoIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	repo := NewCommentRepo(db)
	byPost, err := repo.ListByPosts(context.Background(), nil)
	if err != nil || len(byPost) != 0 {
		t.Errorf("ListByPosts(nil): got %v, %v", byPost, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
