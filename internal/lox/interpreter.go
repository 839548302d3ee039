package lox

import (
	"fmt"
	"io"
	"time"
)

// Interpreter walks a resolved AST and evaluates it directly, statement by
// statement, expression by expression. It owns the global environment, the
// environment currently in scope, and the distance map the resolver
// produced for every Var/Assign/This/Super expression.
type Interpreter struct {
	globals     *Environment
	environment *Environment
	locals      map[int]int
	out         io.Writer
}

// NewInterpreter returns an Interpreter that writes print output to out and
// defines the built-in clock() function in its global scope.
func NewInterpreter(out io.Writer) *Interpreter {
	globals := NewEnvironment(nil)
	globals.Define("clock", &NativeFunction{
		name:  "clock",
		arity: 0,
		fn: func(*Interpreter, []Object) (Object, error) {
			return Number(time.Now().UnixMilli()), nil
		},
	})
	return &Interpreter{globals: globals, environment: globals, locals: make(map[int]int), out: out}
}

// Resolve installs the distance map produced by a Resolver pass. Call it
// once, before the first Interpret, using the same AST.
func (i *Interpreter) Resolve(locals map[int]int) {
	i.locals = locals
}

// Interpret executes a program's statements in order. It stops at the
// first runtime error, per the Language's termination semantics.
func (i *Interpreter) Interpret(stmts []Stmt) error {
	for _, s := range stmts {
		if err := i.execute(s); err != nil {
			return err
		}
	}
	return nil
}

// echo writes v's textual form for the REPL's bare-expression convenience
// (see RunREPL), independent of an explicit print statement.
func (i *Interpreter) echo(v Object) {
	fmt.Fprintln(i.out, v.String())
}

func (i *Interpreter) execute(s Stmt) error {
	switch st := s.(type) {
	case *ExpressionStmt:
		_, err := i.evaluate(st.Expr)
		return err
	case *PrintStmt:
		v, err := i.evaluate(st.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(i.out, v.String())
		return nil
	case *VarStmt:
		var value Object = Nil{}
		if st.Initializer != nil {
			v, err := i.evaluate(st.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		i.environment.Define(st.Name.Lexeme, value)
		return nil
	case *BlockStmt:
		return i.executeBlock(st.Stmts, NewEnvironment(i.environment))
	case *IfStmt:
		cond, err := i.evaluate(st.Condition)
		if err != nil {
			return err
		}
		if IsTruthy(cond) {
			return i.execute(st.ThenBranch)
		}
		if st.ElseBranch != nil {
			return i.execute(st.ElseBranch)
		}
		return nil
	case *WhileStmt:
		for {
			cond, err := i.evaluate(st.Condition)
			if err != nil {
				return err
			}
			if !IsTruthy(cond) {
				return nil
			}
			if err := i.execute(st.Body); err != nil {
				return err
			}
		}
	case *FunctionStmt:
		fn := &Function{decl: st, closure: i.environment, isInitializer: false}
		i.environment.Define(st.Name.Lexeme, fn)
		return nil
	case *ReturnStmt:
		var value Object = Nil{}
		if st.Value != nil {
			v, err := i.evaluate(st.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return &returnSignal{value: value}
	case *ClassStmt:
		return i.executeClass(st)
	default:
		panic("lox: interpreter hit an unhandled statement type")
	}
}

func (i *Interpreter) executeClass(st *ClassStmt) error {
	var superclass *Class
	if st.Superclass != nil {
		sup, err := i.evaluate(st.Superclass)
		if err != nil {
			return err
		}
		sc, ok := sup.(*Class)
		if !ok {
			return newRuntimeError(st.Superclass.Name, "Superclass must be a class")
		}
		superclass = sc
	}

	i.environment.Define(st.Name.Lexeme, Nil{})

	declEnv := i.environment
	if st.Superclass != nil {
		declEnv = NewEnvironment(i.environment)
		declEnv.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(st.Methods))
	for _, m := range st.Methods {
		methods[m.Name.Lexeme] = &Function{decl: m, closure: declEnv, isInitializer: m.Name.Lexeme == "init"}
	}

	class := &Class{Name: st.Name.Lexeme, Superclass: superclass, Methods: methods}
	return i.environment.Assign(st.Name, class)
}

// executeBlock runs stmts with env as the active environment, restoring the
// caller's environment afterward whether or not an error (including a
// return signal) propagates out.
func (i *Interpreter) executeBlock(stmts []Stmt, env *Environment) error {
	previous := i.environment
	i.environment = env
	defer func() { i.environment = previous }()

	for _, s := range stmts {
		if err := i.execute(s); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) evaluate(e Expr) (Object, error) {
	switch ex := e.(type) {
	case *LiteralExpr:
		return ex.Value, nil
	case *GroupingExpr:
		return i.evaluate(ex.Inner)
	case *UnaryExpr:
		return i.evalUnary(ex)
	case *BinaryExpr:
		return i.evalBinary(ex)
	case *LogicalExpr:
		return i.evalLogical(ex)
	case *VarExpr:
		return i.lookUpVariable(ex.Name, ex.exprID())
	case *AssignExpr:
		return i.evalAssign(ex)
	case *CallExpr:
		return i.evalCall(ex)
	case *GetExpr:
		return i.evalGet(ex)
	case *SetExpr:
		return i.evalSet(ex)
	case *ThisExpr:
		return i.lookUpVariable(ex.Keyword, ex.exprID())
	case *SuperExpr:
		return i.evalSuper(ex)
	default:
		panic("lox: interpreter hit an unhandled expression type")
	}
}

func (i *Interpreter) evalUnary(ex *UnaryExpr) (Object, error) {
	right, err := i.evaluate(ex.Right)
	if err != nil {
		return nil, err
	}
	switch ex.Op.Type {
	case BANG:
		return Bool(!IsTruthy(right)), nil
	case MINUS:
		n, ok := right.(Number)
		if !ok {
			return nil, newRuntimeError(ex.Op, "Operands must be a number")
		}
		return -n, nil
	}
	panic("lox: unreachable unary operator")
}

func (i *Interpreter) evalBinary(ex *BinaryExpr) (Object, error) {
	left, err := i.evaluate(ex.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(ex.Right)
	if err != nil {
		return nil, err
	}

	switch ex.Op.Type {
	case MINUS:
		l, r, err := bothNumbers(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l - r, nil
	case STAR:
		l, r, err := bothNumbers(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		return l * r, nil
	case SLASH:
		l, r, err := bothNumbers(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		if r == 0 {
			return nil, newRuntimeError(ex.Op, "Cannot divide by zero")
		}
		return l / r, nil
	case PLUS:
		return evalPlus(ex.Op, left, right)
	case GREATER:
		l, r, err := bothNumbers(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l > r), nil
	case GREATER_EQUAL:
		l, r, err := bothNumbers(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l >= r), nil
	case LESS:
		l, r, err := bothNumbers(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l < r), nil
	case LESS_EQUAL:
		l, r, err := bothNumbers(ex.Op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l <= r), nil
	case BANG_EQUAL:
		return Bool(!isEqual(left, right)), nil
	case EQUAL_EQUAL:
		return Bool(isEqual(left, right)), nil
	}
	panic("lox: unreachable binary operator")
}

func bothNumbers(op Token, left, right Object) (Number, Number, error) {
	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		return 0, 0, newRuntimeError(op, "Operands must be a number")
	}
	return l, r, nil
}

func evalPlus(op Token, left, right Object) (Object, error) {
	if l, ok := left.(Number); ok {
		if r, ok := right.(Number); ok {
			return l + r, nil
		}
		if r, ok := right.(String); ok {
			return String(l.String()) + r, nil
		}
	}
	if l, ok := left.(String); ok {
		if r, ok := right.(String); ok {
			return l + r, nil
		}
		if r, ok := right.(Number); ok {
			return l + String(r.String()), nil
		}
	}
	return nil, newRuntimeError(op, "Operands must be a number")
}

func (i *Interpreter) evalLogical(ex *LogicalExpr) (Object, error) {
	left, err := i.evaluate(ex.Left)
	if err != nil {
		return nil, err
	}
	if ex.Op.Type == OR {
		if IsTruthy(left) {
			return left, nil
		}
	} else {
		if !IsTruthy(left) {
			return left, nil
		}
	}
	return i.evaluate(ex.Right)
}

func (i *Interpreter) evalAssign(ex *AssignExpr) (Object, error) {
	value, err := i.evaluate(ex.Value)
	if err != nil {
		return nil, err
	}
	if distance, ok := i.locals[ex.exprID()]; ok {
		i.environment.AssignAt(distance, ex.Name, value)
	} else if err := i.globals.Assign(ex.Name, value); err != nil {
		return nil, err
	}
	return value, nil
}

func (i *Interpreter) lookUpVariable(name Token, exprID int) (Object, error) {
	if distance, ok := i.locals[exprID]; ok {
		return i.environment.GetAt(distance, name.Lexeme), nil
	}
	return i.globals.Get(name)
}

func (i *Interpreter) evalCall(ex *CallExpr) (Object, error) {
	callee, err := i.evaluate(ex.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Object, len(ex.Args))
	for idx, a := range ex.Args {
		v, err := i.evaluate(a)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, newRuntimeError(ex.Paren, "Can only call functions and classes.")
	}
	if len(args) != callable.Arity() {
		return nil, newRuntimeError(ex.Paren, "Expected %d arguments but got %d.", callable.Arity(), len(args))
	}
	return callable.Call(i, args)
}

func (i *Interpreter) evalGet(ex *GetExpr) (Object, error) {
	obj, err := i.evaluate(ex.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*Instance)
	if !ok {
		return nil, newRuntimeError(ex.Name, "Only instances have properties.")
	}
	return instance.Get(ex.Name)
}

func (i *Interpreter) evalSet(ex *SetExpr) (Object, error) {
	obj, err := i.evaluate(ex.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*Instance)
	if !ok {
		return nil, newRuntimeError(ex.Name, "Only instances have properties.")
	}
	value, err := i.evaluate(ex.Value)
	if err != nil {
		return nil, err
	}
	instance.Set(ex.Name, value)
	return value, nil
}

func (i *Interpreter) evalSuper(ex *SuperExpr) (Object, error) {
	distance := i.locals[ex.exprID()]
	superclass := i.environment.GetAt(distance, "super").(*Class)
	instance := i.environment.GetAt(distance-1, "this").(*Instance)

	method := superclass.FindMethod(ex.Method.Lexeme)
	if method == nil {
		return nil, newRuntimeError(ex.Method, "Undefined property '%s'.", ex.Method.Lexeme)
	}
	return method.bind(instance), nil
}
