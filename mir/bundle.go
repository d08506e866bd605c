package mir

import (
	"strings"

	"github.com/nynrathod/mylang/types"
)

// Bundle is the MIR representation of a whole Doo program: the functions
// lowered from every module of the build, in analysis order.
type Bundle struct {
	// The lowered functions of the program.
	Functions []*Function
}

// Repr returns the full textual representation of the bundle.
func (b *Bundle) Repr() string {
	sb := strings.Builder{}

	for _, fn := range b.Functions {
		sb.WriteString(fn.Repr())
		sb.WriteRune('\n')
	}

	return sb.String()
}

/* -------------------------------------------------------------------------- */

// Function is a single lowered function: a control-flow graph of basic
// blocks.  The entry block is always first.
type Function struct {
	// The link name of the function.
	Name string

	// The parameters of the function in declaration order.
	Params []Param

	// The return type of the function.
	ReturnType types.Type

	// The basic blocks of the function.
	Blocks []*Block

	// Whether the function is visible outside its defining module.
	Public bool
}

// Param is a single function parameter.
type Param struct {
	// The name of the parameter.
	Name string

	// The type of the parameter.
	Type types.Type
}

// Repr returns the textual representation of the function and its blocks.
func (fn *Function) Repr() string {
	sb := strings.Builder{}

	sb.WriteString("Function ")
	sb.WriteString(fn.Name)
	sb.WriteRune('(')

	for i, param := range fn.Params {
		sb.WriteString(param.Name)
		sb.WriteString(": ")
		sb.WriteString(param.Type.Repr())

		if i < len(fn.Params)-1 {
			sb.WriteString(", ")
		}
	}

	sb.WriteRune(')')

	if !types.Equals(fn.ReturnType, types.PrimTypeUnit) {
		sb.WriteString(" -> ")
		sb.WriteString(fn.ReturnType.Repr())
	}

	sb.WriteRune('\n')

	for _, block := range fn.Blocks {
		sb.WriteString(block.Repr("  "))
	}

	return sb.String()
}

/* -------------------------------------------------------------------------- */

// Block is a labeled straight-line sequence of instructions ending in exactly
// one terminator.
type Block struct {
	// The label of the block, eg. `Block3`.
	Label string

	// The instructions of the block in execution order.
	Instrs []Instr

	// The single terminator of the block.  This is nil only while the block
	// is still under construction.
	Term Terminator
}

// Repr returns the indented textual representation of the block.
func (b *Block) Repr(preindent string) string {
	sb := strings.Builder{}

	sb.WriteString(preindent)
	sb.WriteString(b.Label)
	sb.WriteString(":\n")

	for _, instr := range b.Instrs {
		sb.WriteString(instr.Repr(preindent + "  "))
		sb.WriteRune('\n')
	}

	if b.Term != nil {
		sb.WriteString(b.Term.Repr(preindent + "  "))
		sb.WriteRune('\n')
	}

	return sb.String()
}
