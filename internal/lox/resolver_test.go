package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, source string) []Stmt {
	t.Helper()
	stmts, err := NewParser(mustScan(t, source)).Parse()
	require.NoError(t, err)
	return stmts
}

func TestResolverDistanceForShadowedLocal(t *testing.T) {
	stmts := mustParse(t, `
		var a = "global";
		{
			var a = "local";
			print a;
		}
	`)
	locals, err := NewResolver().Resolve(stmts)
	require.NoError(t, err)

	block := stmts[1].(*BlockStmt)
	printStmt := block.Stmts[1].(*PrintStmt)
	varExpr := printStmt.Expr.(*VarExpr)

	distance, ok := locals[varExpr.exprID()]
	require.True(t, ok, "the inner 'a' should resolve locally")
	assert.Equal(t, 0, distance)
}

func TestResolverGlobalIsAbsentFromDistanceMap(t *testing.T) {
	stmts := mustParse(t, "var g = 1; print g;")
	locals, err := NewResolver().Resolve(stmts)
	require.NoError(t, err)

	printStmt := stmts[1].(*PrintStmt)
	varExpr := printStmt.Expr.(*VarExpr)
	_, ok := locals[varExpr.exprID()]
	assert.False(t, ok, "globals carry no resolver distance")
}

func TestResolverRejectsSelfReferentialInitializer(t *testing.T) {
	stmts := mustParse(t, `{ var a = a; }`)
	_, err := NewResolver().Resolve(stmts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "own initializer")
}

func TestResolverRejectsDuplicateLocals(t *testing.T) {
	stmts := mustParse(t, `{ var a = 1; var a = 2; }`)
	_, err := NewResolver().Resolve(stmts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Already a variable with this name")
}

func TestResolverRejectsReturnOutsideFunction(t *testing.T) {
	stmts := mustParse(t, "return 1;")
	_, err := NewResolver().Resolve(stmts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't return from top-level code")
}

func TestResolverRejectsReturnValueInInitializer(t *testing.T) {
	stmts := mustParse(t, `class C { init() { return 1; } }`)
	_, err := NewResolver().Resolve(stmts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't return a value from an initializer")
}

func TestResolverAllowsBareReturnInInitializer(t *testing.T) {
	stmts := mustParse(t, `class C { init() { return; } }`)
	_, err := NewResolver().Resolve(stmts)
	require.NoError(t, err)
}

func TestResolverRejectsThisOutsideClass(t *testing.T) {
	stmts := mustParse(t, "print this;")
	_, err := NewResolver().Resolve(stmts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't use 'this' outside of a class")
}

func TestResolverRejectsSuperOutsideClass(t *testing.T) {
	stmts := mustParse(t, "print super.foo;")
	_, err := NewResolver().Resolve(stmts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't use 'super' outside of a class")
}

func TestResolverRejectsSuperInClassWithNoSuperclass(t *testing.T) {
	stmts := mustParse(t, `class A { m() { super.m(); } }`)
	_, err := NewResolver().Resolve(stmts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't use 'super' in a class with no superclass")
}

func TestResolverRejectsClassInheritingFromItself(t *testing.T) {
	stmts := mustParse(t, `class A < A {}`)
	_, err := NewResolver().Resolve(stmts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "A class can't inherit from itself")
}

func TestResolverIsIdempotent(t *testing.T) {
	stmts := mustParse(t, `
		class A { init(x) { this.x = x; } }
		class B < A { sum() { return this.x + super.m(); } }
	`)
	first, err := NewResolver().Resolve(stmts)
	require.NoError(t, err)
	second, err := NewResolver().Resolve(stmts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
