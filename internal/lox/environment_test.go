package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tok(name string) Token { return Token{Type: IDENTIFIER, Lexeme: name, Line: 1} }

func TestEnvironmentGetWalksAncestors(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("g", Number(1))
	local := NewEnvironment(global)

	v, err := local.Get(tok("g"))
	require.NoError(t, err)
	assert.Equal(t, Number(1), v)
}

func TestEnvironmentGetUndefinedIsRuntimeError(t *testing.T) {
	env := NewEnvironment(nil)
	_, err := env.Get(tok("missing"))
	require.Error(t, err)
	assert.IsType(t, &RuntimeError{}, err)
}

func TestEnvironmentAssignWritesNearestDefiningAncestor(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("x", Number(1))
	local := NewEnvironment(global)

	require.NoError(t, local.Assign(tok("x"), Number(2)))
	v, err := global.Get(tok("x"))
	require.NoError(t, err)
	assert.Equal(t, Number(2), v)
}

func TestEnvironmentShadowingCreatesADistinctSlot(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("x", Number(1))
	local := NewEnvironment(global)
	local.Define("x", Number(2))

	require.NoError(t, local.Assign(tok("x"), Number(3)))

	globalVal, err := global.Get(tok("x"))
	require.NoError(t, err)
	assert.Equal(t, Number(1), globalVal, "shadowing must not affect the outer binding")

	localVal, err := local.Get(tok("x"))
	require.NoError(t, err)
	assert.Equal(t, Number(3), localVal)
}

func TestEnvironmentGetAtAndAssignAtUseExactDistance(t *testing.T) {
	global := NewEnvironment(nil)
	middle := NewEnvironment(global)
	inner := NewEnvironment(middle)

	middle.Define("a", Number(1))
	assert.Equal(t, Number(1), inner.GetAt(1, "a"))

	inner.AssignAt(1, tok("a"), Number(2))
	assert.Equal(t, Number(2), inner.GetAt(1, "a"))
}
