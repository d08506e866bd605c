package mir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nynrathod/mylang/types"
)

// Instr is the interface for all value-producing and effectful instructions
// that may appear in the body of a block.
type Instr interface {
	// Repr returns the indented string representation of the instruction.
	Repr(preindent string) string
}

// joinValues renders a list of operand values separated by commas.
func joinValues(values []Value) string {
	reprs := make([]string, len(values))
	for i, value := range values {
		reprs[i] = value.Repr()
	}

	return strings.Join(reprs, ", ")
}

/* -------------------------------------------------------------------------- */

// ConstInt materializes an integer constant.
type ConstInt struct {
	Dest  Temp
	Value int64
}

func (ci *ConstInt) Repr(preindent string) string {
	return fmt.Sprintf("%slet %s = %d", preindent, ci.Dest, ci.Value)
}

// ConstBool materializes a boolean constant.
type ConstBool struct {
	Dest  Temp
	Value bool
}

func (cb *ConstBool) Repr(preindent string) string {
	return fmt.Sprintf("%slet %s = %t", preindent, cb.Dest, cb.Value)
}

// ConstStr materializes a string constant.  A fresh string carries a
// reference count of one: its producer owns the creation reference.
type ConstStr struct {
	Dest  Temp
	Value string
}

func (cs *ConstStr) Repr(preindent string) string {
	return fmt.Sprintf("%slet %s = %s", preindent, cs.Dest, strconv.Quote(cs.Value))
}

/* -------------------------------------------------------------------------- */

// ArrayLit allocates a new array holding the given elements.  Empty literals
// still allocate a real RC header.
type ArrayLit struct {
	Dest     Temp
	Elems    []Value
	ElemType types.Type
}

func (al *ArrayLit) Repr(preindent string) string {
	return fmt.Sprintf("%slet %s = [%s]", preindent, al.Dest, joinValues(al.Elems))
}

// MapLitEntry is a single key-value pair of a map literal instruction.
type MapLitEntry struct {
	Key   Value
	Value Value
}

// MapLit allocates a new map holding the given entries.  Empty literals still
// allocate a real RC header.
type MapLit struct {
	Dest      Temp
	Entries   []MapLitEntry
	KeyType   types.Type
	ValueType types.Type
}

func (ml *MapLit) Repr(preindent string) string {
	entries := make([]string, len(ml.Entries))
	for i, entry := range ml.Entries {
		entries[i] = entry.Key.Repr() + ": " + entry.Value.Repr()
	}

	return fmt.Sprintf("%slet %s = { %s }", preindent, ml.Dest, strings.Join(entries, ", "))
}

// TupleLit builds a tuple from the given elements.
type TupleLit struct {
	Dest      Temp
	Elems     []Value
	ElemTypes []types.Type
}

func (tl *TupleLit) Repr(preindent string) string {
	return fmt.Sprintf("%slet %s = (%s)", preindent, tl.Dest, joinValues(tl.Elems))
}

/* -------------------------------------------------------------------------- */

// BinOp applies a binary operator to two operands of the same type.  The
// operand type selects the concrete runtime behavior: eg. `add` on `Str` is
// concatenation.
type BinOp struct {
	Dest Temp

	// The operation mnemonic: add, sub, mul, div, rem, lt, gt, le, ge, eq,
	// ne, and, or.
	Op string

	Lhs, Rhs Value

	// The static type of both operands.
	OperandType types.Type
}

func (bo *BinOp) Repr(preindent string) string {
	return fmt.Sprintf("%slet %s = %s %s, %s", preindent, bo.Dest, bo.Op, bo.Lhs.Repr(), bo.Rhs.Repr())
}

// Call invokes a declared function.  Dest is empty when the call's result is
// unused or the callee returns no value.
type Call struct {
	Dest Temp
	Func string
	Args []Value
}

func (c *Call) Repr(preindent string) string {
	if c.Dest == "" {
		return fmt.Sprintf("%s%s(%s)", preindent, c.Func, joinValues(c.Args))
	}

	return fmt.Sprintf("%slet %s = %s(%s)", preindent, c.Dest, c.Func, joinValues(c.Args))
}

// Print writes the given values to standard out followed by a newline.
type Print struct {
	Args     []Value
	ArgTypes []types.Type
}

func (p *Print) Repr(preindent string) string {
	return fmt.Sprintf("%sprint(%s)", preindent, joinValues(p.Args))
}

/* -------------------------------------------------------------------------- */

// Bind declares a new variable slot and stores a value into it.
type Bind struct {
	Name    string
	Value   Value
	Type    types.Type
	Mutable bool
}

func (b *Bind) Repr(preindent string) string {
	if b.Mutable {
		return fmt.Sprintf("%slet mut %s = %s", preindent, b.Name, b.Value.Repr())
	}

	return fmt.Sprintf("%slet %s = %s", preindent, b.Name, b.Value.Repr())
}

// Store writes a value into an existing variable slot.
type Store struct {
	Name  string
	Value Value
}

func (s *Store) Repr(preindent string) string {
	return fmt.Sprintf("%s%s = %s", preindent, s.Name, s.Value.Repr())
}

/* -------------------------------------------------------------------------- */

// ArrayLen reads the length of an array.
type ArrayLen struct {
	Dest  Temp
	Array Value
}

func (al *ArrayLen) Repr(preindent string) string {
	return fmt.Sprintf("%slet %s = len(%s)", preindent, al.Dest, al.Array.Repr())
}

// ArrayGet reads an element of an array.
type ArrayGet struct {
	Dest     Temp
	Array    Value
	Index    Value
	ElemType types.Type
}

func (ag *ArrayGet) Repr(preindent string) string {
	return fmt.Sprintf("%slet %s = %s[%s]", preindent, ag.Dest, ag.Array.Repr(), ag.Index.Repr())
}

// ArraySet writes an element of an array.
type ArraySet struct {
	Array    Value
	Index    Value
	Value    Value
	ElemType types.Type
}

func (as *ArraySet) Repr(preindent string) string {
	return fmt.Sprintf("%s%s[%s] = %s", preindent, as.Array.Repr(), as.Index.Repr(), as.Value.Repr())
}

/* -------------------------------------------------------------------------- */

// MapLen reads the number of entries of a map.
type MapLen struct {
	Dest Temp
	Map  Value
}

func (ml *MapLen) Repr(preindent string) string {
	return fmt.Sprintf("%slet %s = len(%s)", preindent, ml.Dest, ml.Map.Repr())
}

// MapGet reads the value stored under a key of a map.
type MapGet struct {
	Dest      Temp
	Map       Value
	Key       Value
	KeyType   types.Type
	ValueType types.Type
}

func (mg *MapGet) Repr(preindent string) string {
	return fmt.Sprintf("%slet %s = get(%s, %s)", preindent, mg.Dest, mg.Map.Repr(), mg.Key.Repr())
}

// MapSet writes a value under a key of a map.
type MapSet struct {
	Map       Value
	Key       Value
	Value     Value
	KeyType   types.Type
	ValueType types.Type
}

func (ms *MapSet) Repr(preindent string) string {
	return fmt.Sprintf("%sset(%s, %s, %s)", preindent, ms.Map.Repr(), ms.Key.Repr(), ms.Value.Repr())
}

// MapKeyAt reads the key at an iteration index of a map.
type MapKeyAt struct {
	Dest    Temp
	Map     Value
	Index   Value
	KeyType types.Type
}

func (mk *MapKeyAt) Repr(preindent string) string {
	return fmt.Sprintf("%slet %s = keyat(%s, %s)", preindent, mk.Dest, mk.Map.Repr(), mk.Index.Repr())
}

// MapValAt reads the value at an iteration index of a map.
type MapValAt struct {
	Dest      Temp
	Map       Value
	Index     Value
	ValueType types.Type
}

func (mv *MapValAt) Repr(preindent string) string {
	return fmt.Sprintf("%slet %s = valat(%s, %s)", preindent, mv.Dest, mv.Map.Repr(), mv.Index.Repr())
}

/* -------------------------------------------------------------------------- */

// TupleExtract reads an element of a tuple by index.
type TupleExtract struct {
	Dest   Temp
	Source Value
	Index  int
}

func (te *TupleExtract) Repr(preindent string) string {
	return fmt.Sprintf("%slet %s = extract(%s, %d)", preindent, te.Dest, te.Source.Repr(), te.Index)
}

/* -------------------------------------------------------------------------- */

// Retain increments the reference count of a heap-backed value.  The static
// type tag selects the concrete runtime routine during code generation.
type Retain struct {
	Value Value
	Type  types.Type
}

func (r *Retain) Repr(preindent string) string {
	return fmt.Sprintf("%sretain %s : %s", preindent, r.Value.Repr(), r.Type.Repr())
}

// Release decrements the reference count of a heap-backed value, freeing it
// when the count reaches zero.  The static type tag selects the concrete
// runtime routine during code generation.
type Release struct {
	Value Value
	Type  types.Type
}

func (r *Release) Repr(preindent string) string {
	return fmt.Sprintf("%srelease %s : %s", preindent, r.Value.Repr(), r.Type.Repr())
}
