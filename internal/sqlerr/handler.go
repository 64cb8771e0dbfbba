package sqlerr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/locate-templates/internal/database"
	"github.com/deppfellow/locate-templates/internal/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the mapped sqlerr.Code for a given error.
//
// Behavior:
//   - If err wraps a *sqlerr.Error, return its Code.
//   - If err wraps a raw *pgconn.PgError, map its SQLSTATE.
//   - Otherwise return sqlerr.Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return MapCode(pgerr.Code)
	}
	return Other
}

// ConvertPgError converts a pgconn.PgError (raw Postgres error) into our custom sqlerr.Error.
//
// We map SQLSTATE + Severity into our enums for easier switching,
// and keep table/column/constraint metadata for logs.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// Describe produces a short operator-facing summary, e.g. "Unique Violation on line_locates.name".
// It is used in logs only; clients always receive the raw diagnostic.
func Describe(sqlErr *Error) string {
	kind := humanizeText(string(sqlErr.Code))
	switch {
	case sqlErr.TableName != "" && sqlErr.ColumnName != "":
		return fmt.Sprintf("%s on %s.%s", kind, sqlErr.TableName, sqlErr.ColumnName)
	case sqlErr.TableName != "":
		return fmt.Sprintf("%s on %s", kind, sqlErr.TableName)
	case sqlErr.ConstraintName != "":
		return fmt.Sprintf("%s (%s)", kind, sqlErr.ConstraintName)
	default:
		return kind
	}
}

// humanizeText converts snake_case identifiers into Title Case.
//
// Example:
//
//	"unique_violation" -> "Unique Violation"
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// HandleError converts a low-level database error into the application storage error.
//
// Output:
//   - nil stays nil
//   - an existing *errs.HTTPError is returned unchanged
//   - database.ErrPoolUninitialized becomes a 503 POOL_UNINITIALIZED
//   - a *pgconn.PgError becomes a 500 STORAGE_ERROR with the server's message and SQLSTATE
//   - anything else (dial failures, closed pool, decode failures) becomes a 500 STORAGE_ERROR
//     with the error text
//
// Constraint violations and connectivity failures deliberately share one shape;
// only the detail text tells them apart.
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	if errors.Is(err, database.ErrPoolUninitialized) {
		return errs.NewPoolUninitializedError()
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return errs.NewStorageError(pgerr.Error())
	}

	return errs.NewStorageError(err.Error())
}

// LogError attaches the classification of err to a log event, if it is a Postgres error.
func LogError(event *zerolog.Event, err error) *zerolog.Event {
	var pgerr *pgconn.PgError
	if !errors.As(err, &pgerr) {
		return event
	}

	sqlErr := ConvertPgError(pgerr)

	return event.
		Str("sql_state", sqlErr.DatabaseCode).
		Str("sql_error_class", string(sqlErr.Code)).
		Str("sql_severity", string(sqlErr.Severity)).
		Str("sql_table", sqlErr.TableName).
		Str("sql_constraint", sqlErr.ConstraintName).
		Str("sql_summary", Describe(sqlErr))
}
