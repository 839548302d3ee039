package lox

import "strings"

// PrintAST renders e as a fully parenthesized prefix expression, e.g.
// "(+ 1 (* 2 3))" for `1 + 2 * 3`. It exists for the `rlox print-ast`
// debug command and for tests that want to assert on tree shape without
// comparing Go struct literals.
func PrintAST(e Expr) string { return e.String() }

// PrintRPN renders e in Reverse Polish (postfix) notation, e.g.
// "1 2 3 * +" for `1 + 2 * 3`. Unlike PrintAST this isn't implementable
// as a per-node String() method without either duplicating every node's
// String() or threading a second formatter through ast.go, so it walks
// the tree itself.
func PrintRPN(e Expr) string {
	var sb strings.Builder
	rpn(&sb, e)
	return sb.String()
}

func rpn(sb *strings.Builder, e Expr) {
	switch ex := e.(type) {
	case *LiteralExpr:
		sb.WriteString(ex.Value.String())
	case *GroupingExpr:
		rpn(sb, ex.Inner)
	case *UnaryExpr:
		rpn(sb, ex.Right)
		sb.WriteByte(' ')
		sb.WriteString(ex.Op.Lexeme)
	case *BinaryExpr:
		rpn(sb, ex.Left)
		sb.WriteByte(' ')
		rpn(sb, ex.Right)
		sb.WriteByte(' ')
		sb.WriteString(ex.Op.Lexeme)
	case *LogicalExpr:
		rpn(sb, ex.Left)
		sb.WriteByte(' ')
		rpn(sb, ex.Right)
		sb.WriteByte(' ')
		sb.WriteString(ex.Op.Lexeme)
	case *VarExpr:
		sb.WriteString(ex.Name.Lexeme)
	default:
		// Assign/Call/Get/Set/This/Super have no RPN form in the original
		// printer; fall back to the prefix form rather than dropping output.
		sb.WriteString(e.String())
	}
}
