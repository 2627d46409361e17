package repo

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a row, or the parent row it references, does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken is returned when the users.username unique constraint rejects an insert.
	ErrUsernameTaken = errors.New("username already exists")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"

	usernameUniqueConstraint = "users_username_key"
)

// translate maps driver errors onto the package sentinels. Unknown errors pass through.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			if pqErr.Constraint == usernameUniqueConstraint {
				return ErrUsernameTaken
			}
		case pqForeignKeyViolation:
			return ErrNotFound
		}
	}
	return err
}
