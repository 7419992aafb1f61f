package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrUniqueViolation is returned when a write collides with a unique constraint
var ErrUniqueViolation = errors.New("unique constraint violation")

const uniqueViolationCode = "23505"

// MapError tags unique violations with ErrUniqueViolation and leaves other errors untouched
func MapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return errors.Join(ErrUniqueViolation, err)
	}
	return err
}
