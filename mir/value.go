package mir

// Value is an MIR operand: a temporary produced by an earlier instruction or
// a reference to a named variable slot.
type Value interface {
	// Repr returns the string representation of the value.
	Repr() string
}

// Temp references the result of an earlier instruction, eg. `%3`.
type Temp string

func (t Temp) Repr() string {
	return string(t)
}

// Var references a named variable slot.
type Var string

func (v Var) Repr() string {
	return string(v)
}
