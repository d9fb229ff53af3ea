package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-api/internal/domain"
)

func TestWrapErr_RetryableCodes(t *testing.T) {
	for _, code := range []string{codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable} {
		err := wrapErr("op", &pgconn.PgError{Code: code})
		assert.ErrorIs(t, err, domain.ErrConflict, code)
		var pgErr *pgconn.PgError
		assert.True(t, errors.As(err, &pgErr))
	}
}

func TestWrapErr_NonRetryable(t *testing.T) {
	err := wrapErr("op", &pgconn.PgError{Code: codeUniqueViolation})
	assert.NotErrorIs(t, err, domain.ErrConflict)
	assert.True(t, isUniqueViolation(err))
	assert.False(t, isUniqueViolation(errors.New("otro")))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_x`, escapeLike("50% off_x"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
}
