package store

import (
	"database/sql"
	"errors"

	apperrors "github.com/AdamBeresnev/bracket-picks/internal/errors"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// notFound turns sql.ErrNoRows into a NotFound error and leaves everything else alone.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFoundf("%s not found", what)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// conflict turns a unique violation into a Conflict error.
func conflict(err error, msg string) error {
	if isUniqueViolation(err) {
		return apperrors.Wrap(err, apperrors.ErrConflict, msg)
	}
	return err
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFoundf("%s not found", what)
	}
	return nil
}
