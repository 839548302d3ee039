package lox

// Callable is implemented by every Object that a CallExpr can invoke:
// user functions, native functions, and classes (whose "call" constructs
// an instance).
type Callable interface {
	Object
	Arity() int
	Call(i *Interpreter, args []Object) (Object, error)
}

// Call runs f's body in a fresh environment enclosing its closure, with
// parameters bound to args in order. A `return` inside the body unwinds
// here via returnSignal; falling off the end yields Nil. An initializer
// (a method named "init") always evaluates to the bound "this", regardless
// of how its body returns — the resolver has already rejected any
// `return <expr>;` inside one.
func (f *Function) Call(i *Interpreter, args []Object) (Object, error) {
	env := NewEnvironment(f.closure)
	for idx, param := range f.decl.Params {
		env.Define(param.Lexeme, args[idx])
	}

	err := i.executeBlock(f.decl.Body, env)
	if err != nil {
		if ret, ok := err.(*returnSignal); ok {
			if f.isInitializer {
				return f.closure.GetAt(0, "this"), nil
			}
			return ret.value, nil
		}
		return nil, err
	}

	if f.isInitializer {
		return f.closure.GetAt(0, "this"), nil
	}
	return Nil{}, nil
}

// Call constructs a fresh Instance, runs its initializer (if any) bound to
// that instance, and evaluates to the instance regardless of what, if
// anything, init returns.
func (c *Class) Call(i *Interpreter, args []Object) (Object, error) {
	instance := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.bind(instance).Call(i, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// returnSignal is the control-flow value a ReturnStmt produces. It
// satisfies the error interface purely so it can unwind through the
// ordinary `if err != nil { return err }` chain of execute calls; Function
// Call is the only place that ever inspects one instead of propagating it.
type returnSignal struct {
	value Object
}

func (r *returnSignal) Error() string { return "return outside of a function call" }
