package lox

import (
	"fmt"
	"strconv"
)

// ObjectType tags the dynamic type of a Lox value.
type ObjectType int

const (
	NilType ObjectType = iota
	BoolType
	NumberType
	StringType
	FunctionType
	ClassType
	InstanceType
)

// Object is the sum type of every runtime value the interpreter produces:
// nil, booleans, numbers, strings, functions (user-defined or native),
// classes, and class instances.
type Object interface {
	Type() ObjectType
	String() string
}

type Nil struct{}

func (Nil) Type() ObjectType { return NilType }
func (Nil) String() string   { return "nil" }

type Bool bool

func (b Bool) Type() ObjectType { return BoolType }
func (b Bool) String() string   { return strconv.FormatBool(bool(b)) }

// Number is the Language's only numeric type: a 64-bit float.
type Number float64

func (n Number) Type() ObjectType { return NumberType }

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

type String string

func (s String) Type() ObjectType { return StringType }
func (s String) String() string   { return string(s) }

// NativeFunction is a built-in callable implemented in Go, such as clock().
type NativeFunction struct {
	name  string
	arity int
	fn    func(i *Interpreter, args []Object) (Object, error)
}

func (f *NativeFunction) Type() ObjectType { return FunctionType }
func (f *NativeFunction) String() string   { return fmt.Sprintf("<native fn %s>", f.name) }
func (f *NativeFunction) Arity() int       { return f.arity }
func (f *NativeFunction) Call(i *Interpreter, args []Object) (Object, error) {
	return f.fn(i, args)
}

// Function is a user-defined function or method: a declaration closed over
// the environment in effect when it was declared.
type Function struct {
	decl          *FunctionStmt
	closure       *Environment
	isInitializer bool
}

func (f *Function) Type() ObjectType { return FunctionType }
func (f *Function) String() string   { return fmt.Sprintf("<fn %s>", f.decl.Name.Lexeme) }
func (f *Function) Arity() int       { return len(f.decl.Params) }

// bind returns a copy of f whose closure additionally binds "this" to
// instance, used both for ordinary method lookup and for super calls.
func (f *Function) bind(instance *Instance) *Function {
	env := NewEnvironment(f.closure)
	env.Define("this", instance)
	return &Function{decl: f.decl, closure: env, isInitializer: f.isInitializer}
}

// Class is a (possibly subclassed) bag of methods. Classes are immutable
// once constructed; a subclass owns its own boxed reference to its parent.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func (c *Class) Type() ObjectType { return ClassType }
func (c *Class) String() string   { return c.Name }

// FindMethod walks this class, then its superclass chain, looking for name.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Instance is a shared, mutably-fielded object with an immutable class
// reference. Every holder of an *Instance observes the same field writes.
type Instance struct {
	Class  *Class
	fields map[string]Object
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, fields: make(map[string]Object)}
}

func (i *Instance) Type() ObjectType { return InstanceType }
func (i *Instance) String() string   { return i.Class.Name + " instance" }

func (i *Instance) Get(name Token) (Object, error) {
	if v, ok := i.fields[name.Lexeme]; ok {
		return v, nil
	}
	if m := i.Class.FindMethod(name.Lexeme); m != nil {
		return m.bind(i), nil
	}
	return nil, newRuntimeError(name, "Undefined property '%s'.", name.Lexeme)
}

func (i *Instance) Set(name Token, value Object) {
	i.fields[name.Lexeme] = value
}

// IsTruthy implements the Language's truthiness rule: nil is false, a bool
// is itself, everything else is true.
func IsTruthy(obj Object) bool {
	switch v := obj.(type) {
	case Nil:
		return false
	case Bool:
		return bool(v)
	default:
		return true
	}
}

// isEqual implements == / != : nil equals only nil, mixed types are never
// equal, and same-type comparisons use Go's native equality.
func isEqual(a, b Object) bool {
	if _, aNil := a.(Nil); aNil {
		_, bNil := b.(Nil)
		return bNil
	}
	if _, bNil := b.(Nil); bNil {
		return false
	}

	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case *Instance:
		bv, ok := b.(*Instance)
		return ok && av == bv
	default:
		return a == b
	}
}
