// Package sqlstore is the relational backing store. The same queries run on
// SQLite and Postgres; sqlx rebinds placeholders for whichever driver the
// *sqlx.DB was opened with.
package sqlstore

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"

	"github.com/jdholdren/microblog/internal/microblog"
)

var _ microblog.Repository = Repo{}

const (
	userNamespace   = "-usr"
	postNamespace   = "-pst"
	followNamespace = "-flw"
	likeNamespace   = "-lk"
)

type Repo struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Repo {
	return Repo{db: db}
}

// Extended result codes from sqlite and SQLSTATEs from postgres.
const (
	sqliteConstraintCheck      = 275
	sqliteConstraintForeignKey = 787
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067

	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// Reports whether the error came from a unique or check constraint.
func isConflict(err error) bool {
	if sqliteErr := (&sqlite.Error{}); errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqliteConstraintUnique, sqliteConstraintPrimaryKey, sqliteConstraintCheck:
			return true
		}
	}
	if pgErr := (&pgconn.PgError{}); errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation || pgErr.Code == pgCheckViolation
	}

	return false
}

// Reports whether the error came from a reference to a missing row.
func isMissingReference(err error) bool {
	if sqliteErr := (&sqlite.Error{}); errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqliteConstraintForeignKey
	}
	if pgErr := (&pgconn.PgError{}); errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}

	return false
}
