package lox

import "github.com/hashicorp/go-multierror"

type functionKind int

const (
	funcNone functionKind = iota
	funcFunction
	funcMethod
	funcInitializer
)

type classKind int

const (
	classNone classKind = iota
	classClass
	classSubclass
)

// Resolver performs the static pass between parsing and evaluation: for
// every Var/Assign/This/Super expression it records how many enclosing
// environments the interpreter must hop at runtime to find the binding,
// and it enforces the rules that don't depend on runtime values at all
// (return outside a function, this/super outside a class, duplicate
// locals, self-inheriting classes, return-with-value in an initializer).
type Resolver struct {
	locals          map[int]int
	scopes          []map[string]bool
	currentFunction functionKind
	currentClass    classKind
	errs            *multierror.Error
}

func NewResolver() *Resolver {
	return &Resolver{locals: make(map[int]int)}
}

// Resolve walks stmts and returns the distance map plus any accumulated
// static errors (nil if there were none).
func (r *Resolver) Resolve(stmts []Stmt) (map[int]int, error) {
	r.resolveStmts(stmts)
	return r.locals, r.errs.ErrorOrNil()
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, map[string]bool{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) resolveStmts(stmts []Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s Stmt) {
	switch st := s.(type) {
	case *BlockStmt:
		r.beginScope()
		r.resolveStmts(st.Stmts)
		r.endScope()
	case *VarStmt:
		r.declare(st.Name)
		if st.Initializer != nil {
			r.resolveExpr(st.Initializer)
		}
		r.define(st.Name)
	case *FunctionStmt:
		r.declare(st.Name)
		r.define(st.Name)
		r.resolveFunction(st, funcFunction)
	case *ExpressionStmt:
		r.resolveExpr(st.Expr)
	case *IfStmt:
		r.resolveExpr(st.Condition)
		r.resolveStmt(st.ThenBranch)
		if st.ElseBranch != nil {
			r.resolveStmt(st.ElseBranch)
		}
	case *PrintStmt:
		r.resolveExpr(st.Expr)
	case *ReturnStmt:
		if r.currentFunction == funcNone {
			r.errorAt(st.Keyword, "Can't return from top-level code.")
		}
		if st.Value != nil {
			if r.currentFunction == funcInitializer {
				r.errorAt(st.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(st.Value)
		}
	case *WhileStmt:
		r.resolveExpr(st.Condition)
		r.resolveStmt(st.Body)
	case *ClassStmt:
		r.resolveClass(st)
	default:
		panic("lox: resolver hit an unhandled statement type")
	}
}

func (r *Resolver) resolveClass(st *ClassStmt) {
	enclosingClass := r.currentClass
	r.currentClass = classClass
	defer func() { r.currentClass = enclosingClass }()

	r.declare(st.Name)
	r.define(st.Name)

	if st.Superclass != nil {
		if st.Superclass.Name.Lexeme == st.Name.Lexeme {
			r.errorAt(st.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpr(st.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range st.Methods {
		kind := funcMethod
		if method.Name.Lexeme == "init" {
			kind = funcInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope()

	if st.Superclass != nil {
		r.endScope()
	}
}

func (r *Resolver) resolveFunction(fn *FunctionStmt, kind functionKind) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	defer func() { r.currentFunction = enclosingFunction }()

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()
}

func (r *Resolver) resolveExpr(e Expr) {
	switch ex := e.(type) {
	case *VarExpr:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][ex.Name.Lexeme]; declared && !defined {
				r.errorAt(ex.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(ex.exprID(), ex.Name.Lexeme)
	case *AssignExpr:
		r.resolveExpr(ex.Value)
		r.resolveLocal(ex.exprID(), ex.Name.Lexeme)
	case *BinaryExpr:
		r.resolveExpr(ex.Left)
		r.resolveExpr(ex.Right)
	case *LogicalExpr:
		r.resolveExpr(ex.Left)
		r.resolveExpr(ex.Right)
	case *UnaryExpr:
		r.resolveExpr(ex.Right)
	case *GroupingExpr:
		r.resolveExpr(ex.Inner)
	case *LiteralExpr:
		// nothing to resolve
	case *CallExpr:
		r.resolveExpr(ex.Callee)
		for _, a := range ex.Args {
			r.resolveExpr(a)
		}
	case *GetExpr:
		r.resolveExpr(ex.Object)
	case *SetExpr:
		r.resolveExpr(ex.Value)
		r.resolveExpr(ex.Object)
	case *ThisExpr:
		if r.currentClass == classNone {
			r.errorAt(ex.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(ex.exprID(), ex.Keyword.Lexeme)
	case *SuperExpr:
		switch r.currentClass {
		case classNone:
			r.errorAt(ex.Keyword, "Can't use 'super' outside of a class.")
		case classClass:
			r.errorAt(ex.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(ex.exprID(), ex.Keyword.Lexeme)
	default:
		panic("lox: resolver hit an unhandled expression type")
	}
}

func (r *Resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.errorAt(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal searches the scope stack from the top down; the first scope
// that declares name fixes the distance. No match means the name is
// global, and no entry is recorded.
func (r *Resolver) resolveLocal(exprID int, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[exprID] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) errorAt(tok Token, message string) {
	r.errs = multierror.Append(r.errs, &ParseError{Line: tok.Line, Lexeme: tok.Lexeme, Message: message})
}
