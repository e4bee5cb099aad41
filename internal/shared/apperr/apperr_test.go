package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	sentinel := New(KindConflict, "TST001", "already taken")

	wrapped := fmt.Errorf("accept: %w", sentinel.Wrap(errors.New("rows affected 0")))
	assert.True(t, errors.Is(wrapped, sentinel))
	assert.True(t, errors.Is(sentinel.WithMessage("request %d taken", 7), sentinel))
	assert.False(t, errors.Is(wrapped, ErrDuplicate))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{New(KindNotFound, "X", "x"), http.StatusNotFound},
		{ErrDuplicate, http.StatusConflict},
		{New(KindInsufficientBalance, "X", "x"), http.StatusUnprocessableEntity},
		{New(KindOutOfStock, "X", "x"), http.StatusUnprocessableEntity},
		{ErrTooManyTrials, http.StatusTooManyRequests},
		{errors.New("boom"), http.StatusInternalServerError},
		{fmt.Errorf("ctx: %w", ErrForbidden), http.StatusForbidden},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestFromPg(t *testing.T) {
	custom := New(KindConflict, "CAT002", "Category name already exists")

	err := FromPg(&pgconn.PgError{Code: "23505"}, custom)
	assert.True(t, errors.Is(err, custom))

	err = FromPg(&pgconn.PgError{Code: "23505"}, nil)
	assert.True(t, errors.Is(err, ErrDuplicate))

	err = FromPg(&pgconn.PgError{Code: "23503", Detail: `Key (id)=(1) is still referenced from table "donation_requests".`}, nil)
	assert.True(t, errors.Is(err, ErrInUse))

	err = FromPg(&pgconn.PgError{Code: "23503", Detail: `Key (address_id)=(1) is not present in table "addresses".`}, nil)
	assert.True(t, errors.Is(err, ErrReference))

	err = FromPg(&pgconn.PgError{Code: "22003"}, nil)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))

	plain := errors.New("connection reset")
	assert.Same(t, plain, FromPg(plain, nil))
}
