package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	rulerr "github.com/KirkDiggler/dnd-rules-engine/internal/errors"
)

func TestWrapPreservesCodeAndMeta(t *testing.T) {
	inner := rulerr.UnknownCatalogEntry("feat", "dragon_fist")
	wrapped := rulerr.Wrap(inner, "failed to grant").WithMeta("operation", "GrantFeat")

	assert.True(t, rulerr.IsUnknownCatalogEntry(wrapped))
	assert.Equal(t, "failed to grant: unknown feat 'dragon_fist'", wrapped.Error())

	meta := rulerr.GetMeta(wrapped)
	assert.Equal(t, "dragon_fist", meta["key"])
	assert.Equal(t, "GrantFeat", meta["operation"])
	_, leaked := inner.Meta["operation"]
	assert.False(t, leaked, "wrapping copies metadata")
}

func TestWrapForeignError(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := rulerr.Wrapf(cause, "failed to load %s", "fighter-1")

	assert.Equal(t, rulerr.CodeUnknown, rulerr.GetCode(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Nil(t, rulerr.Wrap(nil, "nothing"))
	assert.Nil(t, rulerr.Wrapf(nil, "nothing %d", 1))
}

func TestWrapWithCode(t *testing.T) {
	wrapped := rulerr.WrapWithCode(errors.New("bad int"), rulerr.CodeInvalidArgument, "failed to parse")
	assert.True(t, rulerr.IsInvalidArgument(wrapped))
	assert.Nil(t, rulerr.WrapWithCode(nil, rulerr.CodeInternal, "x"))
}

func TestCodeChecks(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		code  rulerr.Code
	}{
		{"not found", rulerr.NotFoundf("character '%s' not found", "x"), rulerr.IsNotFound, rulerr.CodeNotFound},
		{"invalid argument", rulerr.InvalidArgument("bad"), rulerr.IsInvalidArgument, rulerr.CodeInvalidArgument},
		{"already exists", rulerr.AlreadyExistsf("dup %d", 1), rulerr.IsAlreadyExists, rulerr.CodeAlreadyExists},
		{"conflict", rulerr.Conflictf("stale"), rulerr.IsConflict, rulerr.CodeConflict},
		{"prerequisite", rulerr.PrerequisiteNotMetf("needs %s", "power_attack"), rulerr.IsPrerequisiteNotMet, rulerr.CodePrerequisiteNotMet},
		{"slot", rulerr.IllegalSlotAssignmentf("ring full"), rulerr.IsIllegalSlotAssignment, rulerr.CodeIllegalSlotAssignment},
		{"incomplete", rulerr.IncompleteVariableSelectionf("needs a skill"), rulerr.IsIncompleteVariableSelection, rulerr.CodeIncompleteVariableSelection},
		{"transition", rulerr.InvalidTransitionf("skills unspent"), rulerr.IsInvalidTransition, rulerr.CodeInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.True(t, tt.check(fmt.Errorf("outer: %w", tt.err)), "found through fmt wrapping")
			assert.Equal(t, tt.code, rulerr.GetCode(tt.err))
			assert.False(t, rulerr.Is(tt.err, rulerr.CodeInternal))
		})
	}

	assert.False(t, rulerr.IsNotFound(errors.New("plain")))
	assert.Nil(t, rulerr.GetMeta(errors.New("plain")))
}
