package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	testCases := []struct {
		name    string
		err     *Error
		kind    Kind
		message string
	}{
		{name: "not found", err: NotFound("tournament not found"), kind: ErrNotFound, message: "tournament not found"},
		{name: "not found formatted", err: NotFoundf("team %d not found", 7), kind: ErrNotFound, message: "team 7 not found"},
		{name: "validation", err: Validation("bad slot"), kind: ErrValidation, message: "bad slot"},
		{name: "validation formatted", err: Validationf("round %d", 2), kind: ErrValidation, message: "round 2"},
		{name: "conflict", err: Conflict("slug taken"), kind: ErrConflict, message: "slug taken"},
		{name: "conflict formatted", err: Conflictf("%d active", 2), kind: ErrConflict, message: "2 active"},
		{name: "forbidden", err: Forbidden("admins only"), kind: ErrForbidden, message: "admins only"},
		{name: "unauthorized", err: Unauthorized("sign in"), kind: ErrUnauthorized, message: "sign in"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, tc.err.Kind)
			assert.Equal(t, tc.message, tc.err.Error())
			assert.Nil(t, tc.err.Unwrap())
		})
	}
}

func TestInternalAndWrap(t *testing.T) {
	cause := stderrors.New("disk full")

	internal := Internal(cause)
	assert.Equal(t, ErrInternal, internal.Kind)
	assert.Equal(t, "internal error: disk full", internal.Error())
	assert.ErrorIs(t, internal, cause)

	wrapped := Wrap(cause, ErrConflict, "saving pick")
	assert.Equal(t, "saving pick: disk full", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, ErrNotFound, KindOf(fmt.Errorf("loading: %w", NotFound("gone"))))
	assert.Equal(t, ErrInternal, KindOf(stderrors.New("plain")))
	assert.True(t, Is(Forbidden("no"), ErrForbidden))
	assert.False(t, Is(nil, ErrInternal))
	assert.Equal(t, "forbidden", ErrForbidden.String())
}
