package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustScan(t *testing.T, source string) []Token {
	t.Helper()
	tokens, err := NewScanner(source).Scan()
	require.NoError(t, err)
	return tokens
}

func TestParserPrecedenceAndAssociativity(t *testing.T) {
	stmts, err := NewParser(mustScan(t, "1 + 2 * 3 - 4;")).Parse()
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	es := stmts[0].(*ExpressionStmt)
	assert.Equal(t, "(- (+ 1 (* 2 3)) 4)", es.Expr.String())
}

func TestParserAssignmentIsRightAssociative(t *testing.T) {
	stmts, err := NewParser(mustScan(t, "a = b = 1;")).Parse()
	require.NoError(t, err)
	es := stmts[0].(*ExpressionStmt)
	assign := es.Expr.(*AssignExpr)
	assert.Equal(t, "a", assign.Name.Lexeme)
	_, ok := assign.Value.(*AssignExpr)
	assert.True(t, ok, "expected nested assignment")
}

func TestParserInvalidAssignmentTargetIsReportedNotFatal(t *testing.T) {
	stmts, err := NewParser(mustScan(t, "1 + 2 = 3;")).Parse()
	require.Error(t, err)
	// parsing recovers and still yields a statement for the rest of the file
	assert.NotNil(t, stmts)
}

func TestParserForLoopDesugarsToWhile(t *testing.T) {
	stmts, err := NewParser(mustScan(t, "for (var i = 0; i < 3; i = i + 1) print i;")).Parse()
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	block, ok := stmts[0].(*BlockStmt)
	require.True(t, ok, "for loop should desugar into a block")
	require.Len(t, block.Stmts, 2)

	_, ok = block.Stmts[0].(*VarStmt)
	assert.True(t, ok, "first statement should be the initializer")

	while, ok := block.Stmts[1].(*WhileStmt)
	require.True(t, ok, "second statement should be the desugared while loop")

	body, ok := while.Body.(*BlockStmt)
	require.True(t, ok, "while body should be a block containing the original body and the increment")
	assert.Len(t, body.Stmts, 2)
}

func TestParserClassWithSuperclassAndMethods(t *testing.T) {
	stmts, err := NewParser(mustScan(t, `
		class B < A {
			init(x) { this.x = x; }
			sum() { return this.x; }
		}
	`)).Parse()
	require.NoError(t, err)
	require.Len(t, stmts, 1)

	class := stmts[0].(*ClassStmt)
	assert.Equal(t, "B", class.Name.Lexeme)
	require.NotNil(t, class.Superclass)
	assert.Equal(t, "A", class.Superclass.Name.Lexeme)
	require.Len(t, class.Methods, 2)
	assert.Equal(t, "init", class.Methods[0].Name.Lexeme)
}

func TestParserSynchronizesAfterErrorAndKeepsGoing(t *testing.T) {
	stmts, err := NewParser(mustScan(t, "var ; var y = 1;")).Parse()
	require.Error(t, err)
	require.Len(t, stmts, 1, "should recover and still parse the second declaration")
	varStmt := stmts[0].(*VarStmt)
	assert.Equal(t, "y", varStmt.Name.Lexeme)
}

func TestParserTooManyArgumentsIsReported(t *testing.T) {
	args := ""
	for i := 0; i < maxArgs+1; i++ {
		if i > 0 {
			args += ", "
		}
		args += "1"
	}
	_, err := NewParser(mustScan(t, "f("+args+");")).Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can't have more than 255 arguments")
}

func TestParserAssignsUniqueExpressionIDs(t *testing.T) {
	stmts, err := NewParser(mustScan(t, "a; b; c;")).Parse()
	require.NoError(t, err)
	require.Len(t, stmts, 3)

	ids := map[int]bool{}
	for _, s := range stmts {
		id := s.(*ExpressionStmt).Expr.(*VarExpr).exprID()
		assert.False(t, ids[id], "expression ids must be unique")
		ids[id] = true
	}
}
