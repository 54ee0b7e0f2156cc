package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("finds code through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("load range: %w", New(CodeNotFound, "report not found"))
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeConflict))
	})

	t.Run("finds inner code under an outer coded error", func(t *testing.T) {
		inner := New(CodeArithmeticOverflow, "net position overflow")
		err := Wrap(inner, CodeInternal, "compute report")
		assert.True(t, HasCode(err, CodeArithmeticOverflow))
		assert.True(t, HasCode(err, CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(err))
	})

	t.Run("plain errors have no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestIsMatchesByCode(t *testing.T) {
	sentinel := &Error{Code: CodeInvalidMovementAmount}
	err := fmt.Errorf("movement 3: %w", New(CodeInvalidMovementAmount, "amount must not be negative"))
	assert.ErrorIs(t, err, sentinel)
	assert.NotErrorIs(t, err, &Error{Code: CodeArithmeticOverflow})
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:            http.StatusBadRequest,
		CodeInvalidMovementAmount: http.StatusBadRequest,
		CodeArithmeticOverflow:    http.StatusUnprocessableEntity,
		CodeNotFound:              http.StatusNotFound,
		CodeConflict:              http.StatusConflict,
		CodeUnauthorized:          http.StatusUnauthorized,
		CodeTimeout:               http.StatusGatewayTimeout,
		CodeInternal:              http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, ToHTTPStatus(code), code)
	}
}
