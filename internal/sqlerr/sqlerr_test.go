package sqlerr_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/deppfellow/locate-templates/internal/database"
	"github.com/deppfellow/locate-templates/internal/errs"
	"github.com/deppfellow/locate-templates/internal/sqlerr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniqueViolation() *pgconn.PgError {
	return &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "line_locates_pkey"`,
		TableName:      "line_locates",
		ConstraintName: "line_locates_pkey",
	}
}

func TestMapCode(t *testing.T) {
	assert.Equal(t, sqlerr.UniqueViolation, sqlerr.MapCode("23505"))
	assert.Equal(t, sqlerr.InvalidText, sqlerr.MapCode("22P02"))
	assert.Equal(t, sqlerr.ConnectionFailure, sqlerr.MapCode("08006"))
	assert.Equal(t, sqlerr.Other, sqlerr.MapCode("XX000"))
}

func TestMapSeverity(t *testing.T) {
	assert.Equal(t, sqlerr.SeverityFatal, sqlerr.MapSeverity("FATAL"))
	assert.Equal(t, sqlerr.SeverityError, sqlerr.MapSeverity("whatever"))
}

func TestErrCode(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", uniqueViolation())
	assert.Equal(t, sqlerr.UniqueViolation, sqlerr.ErrCode(wrapped))
	assert.Equal(t, sqlerr.UniqueViolation, sqlerr.ErrCode(sqlerr.ConvertPgError(uniqueViolation())))
	assert.Equal(t, sqlerr.Other, sqlerr.ErrCode(errors.New("plain")))
}

func TestConvertPgError(t *testing.T) {
	src := uniqueViolation()
	converted := sqlerr.ConvertPgError(src)

	assert.Equal(t, sqlerr.UniqueViolation, converted.Code)
	assert.Equal(t, sqlerr.SeverityError, converted.Severity)
	assert.Equal(t, "line_locates", converted.TableName)
	assert.Equal(t, "line_locates_pkey", converted.ConstraintName)
	assert.Same(t, src, errors.Unwrap(converted))
	assert.Equal(t, "Unique Violation on line_locates", sqlerr.Describe(converted))
}

func TestHandleError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, sqlerr.HandleError(nil))
	})

	t.Run("http error passes through", func(t *testing.T) {
		in := errs.NewInvalidPayloadError("Invalid payload", nil)
		assert.Same(t, in, sqlerr.HandleError(in))
	})

	t.Run("pool uninitialized", func(t *testing.T) {
		err := sqlerr.HandleError(fmt.Errorf("list: %w", database.ErrPoolUninitialized))
		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, errs.CodePoolUninitialized, httpErr.Code)
		assert.Equal(t, 503, httpErr.Status)
	})

	t.Run("postgres error keeps server text", func(t *testing.T) {
		pgErr := uniqueViolation()
		err := sqlerr.HandleError(fmt.Errorf("insert: %w", pgErr))
		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, errs.CodeStorageError, httpErr.Code)
		assert.Equal(t, 500, httpErr.Status)
		assert.Equal(t, "Database error: "+pgErr.Error(), httpErr.Detail)
		assert.Contains(t, httpErr.Detail, "SQLSTATE 23505")
	})

	t.Run("other errors keep their text", func(t *testing.T) {
		err := sqlerr.HandleError(errors.New("closed pool"))
		var httpErr *errs.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, errs.CodeStorageError, httpErr.Code)
		assert.Equal(t, "Database error: closed pool", httpErr.Detail)
	})
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	sqlerr.LogError(logger.Error(), fmt.Errorf("insert: %w", uniqueViolation())).Msg("failed")

	out := buf.String()
	assert.Contains(t, out, `"sql_state":"23505"`)
	assert.Contains(t, out, `"sql_error_class":"unique_violation"`)
	assert.Contains(t, out, `"sql_constraint":"line_locates_pkey"`)

	buf.Reset()
	sqlerr.LogError(logger.Error(), errors.New("plain")).Msg("failed")
	assert.NotContains(t, buf.String(), "sql_state")
}
