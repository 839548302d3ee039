package lox

// Environment is a name-to-value map linked to an optional enclosing
// environment, forming the lexical scope chain. Blocks and function calls
// each push a fresh Environment around the scope they enclose.
type Environment struct {
	parent *Environment
	values map[string]Object
}

// NewEnvironment creates an environment enclosed by parent, or a global
// environment when parent is nil.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{parent: parent, values: make(map[string]Object)}
}

// Define binds name in this environment, overwriting any existing binding
// of the same name in this same environment (shadowing an ancestor's
// binding of the same name is a distinct, unrelated slot).
func (e *Environment) Define(name string, value Object) {
	e.values[name] = value
}

// Get looks up name starting at this environment and walking outward,
// raising a RuntimeError at tok's line if no ancestor defines it.
func (e *Environment) Get(tok Token) (Object, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[tok.Lexeme]; ok {
			return v, nil
		}
	}
	return nil, newRuntimeError(tok, "Undefined variable '%s'", tok.Lexeme)
}

// Assign writes value to the nearest ancestor (including this environment)
// that already defines name, raising a RuntimeError at tok's line if none
// does.
func (e *Environment) Assign(tok Token, value Object) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[tok.Lexeme]; ok {
			env.values[tok.Lexeme] = value
			return nil
		}
	}
	return newRuntimeError(tok, "Undefined variable '%s'", tok.Lexeme)
}

// ancestor walks exactly distance hops outward. The resolver guarantees
// the chain is that long whenever this is called.
func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads name at exactly distance hops out, bypassing the walk-until-
// found search Get does. The resolver guarantees presence; an absent name
// here is an interpreter bug, not a Lox-level runtime error.
func (e *Environment) GetAt(distance int, name string) Object {
	v, ok := e.ancestor(distance).values[name]
	if !ok {
		panic("lox: resolver distance pointed at an undefined binding for " + name)
	}
	return v
}

// AssignAt writes name at exactly distance hops out.
func (e *Environment) AssignAt(distance int, tok Token, value Object) {
	e.ancestor(distance).values[tok.Lexeme] = value
}
