package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleExprStmt(t *testing.T, source string) Expr {
	t.Helper()
	stmts, err := NewParser(mustScan(t, source)).Parse()
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	return stmts[0].(*ExpressionStmt).Expr
}

func TestPrintASTParenthesizesPrefix(t *testing.T) {
	expr := singleExprStmt(t, "-1 + 2 * 3;")
	assert.Equal(t, "(+ (- 1) (* 2 3))", PrintAST(expr))
}

func TestPrintRPNIsPostfix(t *testing.T) {
	expr := singleExprStmt(t, "1 + 2 * 3;")
	assert.Equal(t, "1 2 3 * +", PrintRPN(expr))
}
