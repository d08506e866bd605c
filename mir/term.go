package mir

import "fmt"

// Terminator is the interface for the instructions that end a block.  Every
// finalized block carries exactly one terminator.
type Terminator interface {
	// Repr returns the indented string representation of the terminator.
	Repr(preindent string) string
}

// Jump transfers control unconditionally to the target block.
type Jump struct {
	Target string
}

func (j *Jump) Repr(preindent string) string {
	return fmt.Sprintf("%sjump %s", preindent, j.Target)
}

// Branch transfers control to one of two blocks based on a boolean condition.
type Branch struct {
	Cond Value
	Then string
	Else string
}

func (b *Branch) Repr(preindent string) string {
	return fmt.Sprintf("%sif %s then %s else %s", preindent, b.Cond.Repr(), b.Then, b.Else)
}

// Return transfers control back to the caller.  Value is nil for functions
// that return nothing.
type Return struct {
	Value Value
}

func (r *Return) Repr(preindent string) string {
	if r.Value == nil {
		return preindent + "ret ()"
	}

	return fmt.Sprintf("%sret (%s)", preindent, r.Value.Repr())
}

// Unreachable marks a block end that control flow can never reach.
type Unreachable struct{}

func (u *Unreachable) Repr(preindent string) string {
	return preindent + "unreachable"
}
