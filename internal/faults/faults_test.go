package faults

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(Conflict("version mismatch"))
	require.True(t, ok)
	assert.Equal(t, KindConflict, kind)

	wrapped := fmt.Errorf("saving expense: %w", NotFound("no such float"))
	kind, ok = KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestInvalidTransition_NamesBothStates(t *testing.T) {
	err := InvalidTransition("pending", "paid")

	assert.Contains(t, err.Error(), `"pending"`)
	assert.Contains(t, err.Error(), `"paid"`)
}

func TestToHTTP(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", Validation("bad amount"), fiber.StatusBadRequest},
		{"invalid transition", InvalidTransition("paid", "approved"), fiber.StatusBadRequest},
		{"out of range", OutOfRange("overdraft"), fiber.StatusBadRequest},
		{"unauthorized", Unauthorized("no"), fiber.StatusForbidden},
		{"conflict", Conflict("stale version"), fiber.StatusConflict},
		{"not found", NotFound("gone"), fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := ToHTTP(tt.err)
			var fe *fiber.Error
			require.ErrorAs(t, httpErr, &fe)
			assert.Equal(t, tt.code, fe.Code)
		})
	}
}

func TestToHTTP_PassesUnclassifiedThrough(t *testing.T) {
	plain := errors.New("disk full")

	assert.Equal(t, plain, ToHTTP(plain))
}
