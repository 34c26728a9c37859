package sqldb

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	internal_errors "github.com/mindgames-dev/mindgames/internal/errors"
)

const (
	mysqlDuplicateEntry   = 1062
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// MapError translates constraint violations and missing rows into errors
// carrying an http status. what names the record ("User", "Patient").
// Other errors are returned unchanged.
func MapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return internal_errors.NotFound(what + " not found")
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return internal_errors.Conflict(what + " already exists")
		case mysqlRowIsReferenced:
			return internal_errors.Conflict(what + " is still referenced")
		case mysqlNoReferencedRow:
			return internal_errors.BadRequest("Referenced record does not exist")
		}
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return internal_errors.Conflict(what + " already exists")
		case pgForeignKeyViolation:
			if strings.Contains(pqErr.Detail, "is still referenced") {
				return internal_errors.Conflict(what + " is still referenced")
			}
			return internal_errors.BadRequest("Referenced record does not exist")
		}
	}
	return err
}
