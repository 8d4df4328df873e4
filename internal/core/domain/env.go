package domain

// BindingOp tells whether a binding sets or removes a variable.
type BindingOp uint8

const (
	// OpSet assigns a value to the variable.
	OpSet BindingOp = iota
	// OpUnset removes the variable from the environment.
	OpUnset
)

// Binding is a single, ordered environment instruction.
type Binding struct {
	Name  string
	Op    BindingOp
	Value string
	// Literal values are exported verbatim; other values expand variable references.
	Literal bool
}

// Set creates a binding that exports name with value.
// Variable references in value, such as "$ESY_EJECT__STORE", expand when the binding is sourced.
func Set(name, value string) Binding {
	return Binding{Name: name, Op: OpSet, Value: value}
}

// SetLiteral creates a binding that exports name with value taken verbatim.
func SetLiteral(name, value string) Binding {
	return Binding{Name: name, Op: OpSet, Value: value, Literal: true}
}

// Unset creates a binding that removes name.
func Unset(name string) Binding {
	return Binding{Name: name, Op: OpUnset}
}

// Environment is an ordered list of bindings. Later bindings shadow earlier ones.
type Environment []Binding

// Flatten resolves shadowing.
// Each variable keeps the position of its first occurrence and the value of its last one;
// variables whose last occurrence is an Unset are dropped.
func (e Environment) Flatten() Environment {
	index := make(map[string]int, len(e))
	out := make(Environment, 0, len(e))
	for _, b := range e {
		if i, ok := index[b.Name]; ok {
			out[i] = b
			continue
		}
		index[b.Name] = len(out)
		out = append(out, b)
	}

	flat := out[:0]
	for _, b := range out {
		if b.Op == OpUnset {
			continue
		}
		flat = append(flat, b)
	}
	return flat
}

// Lookup returns the effective value of name after shadowing.
func (e Environment) Lookup(name string) (string, bool) {
	for i := len(e) - 1; i >= 0; i-- {
		if e[i].Name != name {
			continue
		}
		if e[i].Op == OpUnset {
			return "", false
		}
		return e[i].Value, true
	}
	return "", false
}

// Without returns a copy of the environment with every binding of name removed.
func (e Environment) Without(name string) Environment {
	out := make(Environment, 0, len(e))
	for _, b := range e {
		if b.Name != name {
			out = append(out, b)
		}
	}
	return out
}
