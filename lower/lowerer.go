package lower

import (
	"strconv"

	"github.com/nynrathod/mylang/ast"
	"github.com/nynrathod/mylang/common"
	"github.com/nynrathod/mylang/depm"
	"github.com/nynrathod/mylang/mir"
	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/types"
)

// Lowerer is the construct responsible for converting analyzed ASTs into MIR.
// It lowers one function at a time, threading every heap-backed value through
// the reference counting discipline: a value is retained whenever a new
// owning location binds it, and every owning location is released exactly
// once on every path out of its scope.
type Lowerer struct {
	graph  *depm.Graph
	bundle *mir.Bundle

	// fn is the function currently being lowered.
	fn *mir.Function

	// block is the block currently receiving instructions.
	block *mir.Block

	// state is the scope-exit state of the current block.
	state blockState

	// tempCounter is the counter for temporary names.  It resets per
	// function; the first temporary of a function is `%1`.
	tempCounter int

	// blockCounter is the counter for block labels.  It resets per function;
	// the entry block of a function is `Block0`.
	blockCounter int

	// scopes is the stack of release scopes, innermost last.  Each scope
	// lists the heap-backed locations it owns in declaration order.
	scopes []rcScope

	// loops is the stack of enclosing loop contexts, innermost last.
	loops []*loopContext

	// pending is the stack of fresh heap-backed temporaries whose creation
	// references have not yet transferred to an owner.
	pending []pendingTemp

	// mirNames maps each local symbol to its slot name in the emitted MIR.
	mirNames map[*common.Symbol]string

	// nameCounts counts slot name uses so that shadowing bindings and hidden
	// variables always land on distinct slots.
	nameCounts map[string]int
}

// NewLowerer creates a new lowerer for a resolved module graph.
func NewLowerer(graph *depm.Graph) *Lowerer {
	return &Lowerer{
		graph:  graph,
		bundle: &mir.Bundle{},
	}
}

// LowerModule lowers every function of a module into the bundle.  Struct and
// enum declarations produce no MIR of their own: they only introduce types.
func (l *Lowerer) LowerModule(mod *depm.Module) {
	for _, def := range mod.Defs {
		if fd, ok := def.(*ast.FuncDecl); ok && fd.Sym != nil {
			l.lowerFuncDecl(fd)
		}
	}
}

// Bundle returns the bundle of functions lowered so far.
func (l *Lowerer) Bundle() *mir.Bundle {
	return l.bundle
}

/* -------------------------------------------------------------------------- */

// blockState tracks a block through scope-exit emission.  A block is open
// while straight-line instructions accumulate.  Reaching any terminator moves
// it to exiting: the only instructions an exiting block accepts are the
// releases that unwind the scopes the terminator leaves.  Appending the
// terminator itself closes the block for good.
type blockState int

const (
	blockOpen blockState = iota
	blockExiting
	blockClosed
)

// rcEntry is one heap-backed owning location tracked for release.
type rcEntry struct {
	value mir.Value
	typ   types.Type
}

// rcScope is the ordered list of heap-backed locations one lexical scope
// owns.
type rcScope []rcEntry

// pendingTemp is a fresh heap-backed temporary awaiting an owner.
type pendingTemp struct {
	value mir.Temp
	typ   types.Type
}

// loopContext records the jump targets and unwind baselines of a loop being
// lowered.
type loopContext struct {
	// breakTarget is the label of the block after the loop.
	breakTarget string

	// continueTarget is the label of the loop's latch block.
	continueTarget string

	// scopeIndex is the index of the loop's own scope on the scope stack.
	// `break` and `continue` release only the scopes above it: the loop
	// scope itself is released by the block after the loop, which both exits
	// reach, or by the unwind of a `return`.
	scopeIndex int

	// pendingBase is the height of the pending stack at loop entry.
	pendingBase int
}

/* -------------------------------------------------------------------------- */

// nextTemp allocates the next temporary name of the current function.
func (l *Lowerer) nextTemp() mir.Temp {
	l.tempCounter++
	return mir.Temp("%" + strconv.Itoa(l.tempCounter))
}

// newBlock creates the next block of the current function.  Blocks appear in
// the function in creation order; the entry block is created first.
func (l *Lowerer) newBlock() *mir.Block {
	block := &mir.Block{Label: "Block" + strconv.Itoa(l.blockCounter)}
	l.blockCounter++

	l.fn.Blocks = append(l.fn.Blocks, block)
	return block
}

// setCurrent makes block the target of subsequent instruction appends.
func (l *Lowerer) setCurrent(block *mir.Block) {
	l.block = block

	if block.Term == nil {
		l.state = blockOpen
	} else {
		l.state = blockClosed
	}
}

// appendInstr appends an instruction to the current block.  Exiting blocks
// accept only releases; closed blocks accept nothing.
func (l *Lowerer) appendInstr(instr mir.Instr) {
	switch l.state {
	case blockExiting:
		if _, ok := instr.(*mir.Release); !ok {
			report.ReportICE("non-release instruction appended to an exiting block")
		}
	case blockClosed:
		report.ReportICE("instruction appended to a closed block")
	}

	l.block.Instrs = append(l.block.Instrs, instr)
}

// beginExit moves the current block from open to exiting.
func (l *Lowerer) beginExit() {
	if l.state != blockOpen {
		report.ReportICE("exit begun on a block that is not open")
	}

	l.state = blockExiting
}

// seal appends the terminator to the current exiting block and closes it.
func (l *Lowerer) seal(term mir.Terminator) {
	if l.state != blockExiting {
		report.ReportICE("terminator appended to a block that is not exiting")
	}

	l.block.Term = term
	l.state = blockClosed
}

/* -------------------------------------------------------------------------- */

// pushScope opens a new release scope.
func (l *Lowerer) pushScope() {
	l.scopes = append(l.scopes, nil)
}

// popScope ends the innermost scope.  If the current block is still open,
// the scope's locations are released at the point of the pop; otherwise an
// exit already unwound them.
func (l *Lowerer) popScope() {
	if l.state == blockOpen {
		l.releaseScope(l.scopes[len(l.scopes)-1], nil)
	}

	l.scopes = l.scopes[:len(l.scopes)-1]
}

// track records a heap-backed owning location in the innermost scope.
func (l *Lowerer) track(value mir.Value, typ types.Type) {
	l.scopes[len(l.scopes)-1] = append(l.scopes[len(l.scopes)-1], rcEntry{value, typ})
}

// releaseScope emits releases for one scope's locations in reverse
// declaration order, skipping the location being returned, if any.
func (l *Lowerer) releaseScope(scope rcScope, skip mir.Value) {
	for i := len(scope) - 1; i >= 0; i-- {
		if skip != nil && scope[i].value == skip {
			continue
		}

		l.appendInstr(&mir.Release{Value: scope[i].value, Type: scope[i].typ})
	}
}

// releaseScopesAbove emits releases for every scope above stop on the scope
// stack, innermost first.  The scopes themselves stay on the stack: a jump
// releases through scopes without ending them for the paths that do not take
// it.
func (l *Lowerer) releaseScopesAbove(stop int, skip mir.Value) {
	for i := len(l.scopes) - 1; i > stop; i-- {
		l.releaseScope(l.scopes[i], skip)
	}
}

/* -------------------------------------------------------------------------- */

// stage records a fresh heap-backed temporary awaiting an owner.  If nothing
// consumes it by the end of the statement, the statement sweep releases it.
func (l *Lowerer) stage(t mir.Temp, typ types.Type) {
	l.pending = append(l.pending, pendingTemp{t, typ})
}

// consume transfers ownership of a staged temporary to a binding, argument,
// aggregate, or return value, removing it from the pending stack.
func (l *Lowerer) consume(t mir.Temp) {
	for i := len(l.pending) - 1; i >= 0; i-- {
		if l.pending[i].value == t {
			l.pending = append(l.pending[:i], l.pending[i+1:]...)
			return
		}
	}

	report.ReportICE("consumed temporary `%s` was never staged", t)
}

// releasePendingAbove emits releases for the staged temporaries above base in
// reverse creation order without unstaging them: they stay staged for the
// other static paths through the statement.
func (l *Lowerer) releasePendingAbove(base int) {
	for i := len(l.pending) - 1; i >= base; i-- {
		l.appendInstr(&mir.Release{Value: l.pending[i].value, Type: l.pending[i].typ})
	}
}

// sweepPending releases and unstages every staged temporary above base.
func (l *Lowerer) sweepPending(base int) {
	l.releasePendingAbove(base)
	l.pending = l.pending[:base]
}

/* -------------------------------------------------------------------------- */

// pushLoop enters a loop context.  The innermost scope must be the loop's
// own scope.
func (l *Lowerer) pushLoop(breakTarget, continueTarget string) {
	l.loops = append(l.loops, &loopContext{
		breakTarget:    breakTarget,
		continueTarget: continueTarget,
		scopeIndex:     len(l.scopes) - 1,
		pendingBase:    len(l.pending),
	})
}

// popLoop leaves the innermost loop context.
func (l *Lowerer) popLoop() {
	l.loops = l.loops[:len(l.loops)-1]
}

/* -------------------------------------------------------------------------- */

// mirName returns the function-unique slot name of a local symbol, assigning
// one on first use.  Shadowing bindings of a source name get numbered slots.
func (l *Lowerer) mirName(sym *common.Symbol) string {
	if name, ok := l.mirNames[sym]; ok {
		return name
	}

	name := l.claimName(sym.Name)
	l.mirNames[sym] = name
	return name
}

// claimName reserves a slot name, suffixing it if the base name is taken.
func (l *Lowerer) claimName(base string) string {
	count := l.nameCounts[base]
	l.nameCounts[base]++

	if count == 0 {
		return base
	}

	return base + "." + strconv.Itoa(count)
}
