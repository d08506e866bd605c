package lower

import (
	"bufio"
	"strings"
	"testing"

	"github.com/nynrathod/mylang/depm"
	"github.com/nynrathod/mylang/mir"
	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/syntax"
	"github.com/nynrathod/mylang/types"
	"github.com/nynrathod/mylang/walk"
)

// lowerSource parses, analyzes, and lowers src as the root module `main.doo`
// and returns the resulting bundle.  The source must analyze cleanly.
func lowerSource(t *testing.T, src string) *mir.Bundle {
	t.Helper()

	report.InitReporter(report.LogLevelSilent)
	report.ResetErrors()

	mod := depm.NewModule("/test/main.doo", "main.doo")
	syntax.NewParser(mod, bufio.NewReader(strings.NewReader(src))).Parse()

	graph := depm.NewGraph("/test", mod)
	walk.WalkModule(graph, mod)

	if report.AnyErrors() {
		t.Fatalf("source failed analysis with %d errors:\n%s", report.ErrorCount(), src)
	}

	l := NewLowerer(graph)
	l.LowerModule(mod)
	return l.Bundle()
}

// bundleFunc finds a lowered function by its link name.
func bundleFunc(t *testing.T, bundle *mir.Bundle, name string) *mir.Function {
	t.Helper()

	for _, fn := range bundle.Functions {
		if fn.Name == name {
			return fn
		}
	}

	t.Fatalf("no function named `%s` in the bundle:\n%s", name, bundle.Repr())
	return nil
}

// funcInstrs flattens the instructions of every block of fn in block order.
func funcInstrs(fn *mir.Function) []mir.Instr {
	var instrs []mir.Instr
	for _, block := range fn.Blocks {
		instrs = append(instrs, block.Instrs...)
	}

	return instrs
}

func countRetains(instrs []mir.Instr) int {
	n := 0
	for _, instr := range instrs {
		if _, ok := instr.(*mir.Retain); ok {
			n++
		}
	}

	return n
}

func countReleases(instrs []mir.Instr) int {
	n := 0
	for _, instr := range instrs {
		if _, ok := instr.(*mir.Release); ok {
			n++
		}
	}

	return n
}

// releasesOf counts the releases whose operand renders as repr.
func releasesOf(instrs []mir.Instr, repr string) int {
	n := 0
	for _, instr := range instrs {
		if release, ok := instr.(*mir.Release); ok && release.Value.Repr() == repr {
			n++
		}
	}

	return n
}

// instrDest returns the temporary defined by an instruction, if any.
func instrDest(instr mir.Instr) (mir.Temp, bool) {
	switch v := instr.(type) {
	case *mir.ConstInt:
		return v.Dest, true
	case *mir.ConstBool:
		return v.Dest, true
	case *mir.ConstStr:
		return v.Dest, true
	case *mir.BinOp:
		return v.Dest, true
	case *mir.ArrayLit:
		return v.Dest, true
	case *mir.MapLit:
		return v.Dest, true
	case *mir.TupleLit:
		return v.Dest, true
	case *mir.Call:
		return v.Dest, v.Dest != ""
	default:
		return "", false
	}
}

// returnTerm finds the single return terminator of fn.
func returnTerm(t *testing.T, fn *mir.Function) *mir.Return {
	t.Helper()

	var ret *mir.Return
	for _, block := range fn.Blocks {
		if r, ok := block.Term.(*mir.Return); ok {
			if ret != nil {
				t.Fatalf("function `%s` has more than one return:\n%s", fn.Name, fn.Repr())
			}

			ret = r
		}
	}

	if ret == nil {
		t.Fatalf("function `%s` has no return:\n%s", fn.Name, fn.Repr())
	}

	return ret
}

/* -------------------------------------------------------------------------- */

func TestBindingOwnership(t *testing.T) {
	bundle := lowerSource(t, `
fn main() {
	let s1 = "hello";
	let s2 = s1;
}
`)

	instrs := funcInstrs(bundleFunc(t, bundle, "main"))

	// The literal's creation reference moves into s1, so only the rebinding
	// of s1 into s2 copies a reference.
	if got := countRetains(instrs); got != 1 {
		t.Errorf("expected 1 retain, got %d", got)
	}

	if got := countReleases(instrs); got != 2 {
		t.Errorf("expected 2 releases, got %d", got)
	}

	// Scope cleanup runs in reverse declaration order.
	s2At, s1At := -1, -1
	for i, instr := range instrs {
		if release, ok := instr.(*mir.Release); ok {
			switch release.Value.Repr() {
			case "s1":
				s1At = i
			case "s2":
				s2At = i
			}
		}
	}

	if s2At == -1 || s1At == -1 || s2At > s1At {
		t.Errorf("expected s2 released before s1, got s2 at %d and s1 at %d", s2At, s1At)
	}
}

func TestSelfAssignSecuresBeforeRelease(t *testing.T) {
	bundle := lowerSource(t, `
fn main() {
	let mut s = "a";
	s = s;
}
`)

	instrs := funcInstrs(bundleFunc(t, bundle, "main"))

	firstRetain, firstRelease := -1, -1
	for i, instr := range instrs {
		switch instr.(type) {
		case *mir.Retain:
			if firstRetain == -1 {
				firstRetain = i
			}
		case *mir.Release:
			if firstRelease == -1 {
				firstRelease = i
			}
		}
	}

	if firstRetain == -1 || firstRelease == -1 || firstRetain > firstRelease {
		t.Fatalf("expected the incoming value retained before the displaced value is released, got retain at %d and release at %d", firstRetain, firstRelease)
	}

	if got := countRetains(instrs); got != 1 {
		t.Errorf("expected 1 retain, got %d", got)
	}

	// One release displacing the old value, one closing the scope.
	if got := countReleases(instrs); got != 2 {
		t.Errorf("expected 2 releases, got %d", got)
	}
}

func TestVarAssignReleasesDisplaced(t *testing.T) {
	bundle := lowerSource(t, `
fn main() {
	let mut s = "a";
	s = "b";
}
`)

	instrs := funcInstrs(bundleFunc(t, bundle, "main"))

	// Both literals transfer their creation references, so no retains at all.
	if got := countRetains(instrs); got != 0 {
		t.Errorf("expected 0 retains, got %d", got)
	}

	if got := releasesOf(instrs, "s"); got != 2 {
		t.Errorf("expected s released twice (displacement and scope end), got %d", got)
	}
}

func TestReturnOwnership(t *testing.T) {
	tests := []struct {
		name         string
		src          string
		fn           string
		wantRetains  int
		wantReleases int
		wantRet      string
	}{
		{
			name:         "returned local moves out of the frame",
			src:          "fn f() -> Str {\n\tlet s = \"a\";\n\treturn s;\n}\n",
			fn:           "main.f",
			wantRetains:  0,
			wantReleases: 0,
			wantRet:      "s",
		},
		{
			name:         "returned literal moves its creation reference",
			src:          "fn f() -> Str {\n\treturn \"a\";\n}\n",
			fn:           "main.f",
			wantRetains:  0,
			wantReleases: 0,
			wantRet:      "%1",
		},
		{
			name:         "returned parameter is not released by the callee",
			src:          "fn f(s: Str) -> Str {\n\treturn s;\n}\n",
			fn:           "main.f",
			wantRetains:  0,
			wantReleases: 0,
			wantRet:      "s",
		},
		{
			name:         "returned extraction is retained and its aggregate released",
			src:          "fn second(pair: (Int, Str)) -> Str {\n\tlet (_, s) = pair;\n\treturn s;\n}\n",
			fn:           "main.second",
			wantRetains:  1,
			wantReleases: 1,
			wantRet:      "s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle := lowerSource(t, tt.src)
			fn := bundleFunc(t, bundle, tt.fn)
			instrs := funcInstrs(fn)

			if got := countRetains(instrs); got != tt.wantRetains {
				t.Errorf("expected %d retains, got %d:\n%s", tt.wantRetains, got, fn.Repr())
			}

			if got := countReleases(instrs); got != tt.wantReleases {
				t.Errorf("expected %d releases, got %d:\n%s", tt.wantReleases, got, fn.Repr())
			}

			ret := returnTerm(t, fn)
			if ret.Value == nil || ret.Value.Repr() != tt.wantRet {
				t.Errorf("expected return of `%s`, got %v", tt.wantRet, ret.Value)
			}
		})
	}
}

func TestCalleeReleasesHeapParams(t *testing.T) {
	bundle := lowerSource(t, `
fn show(s: Str) {
	print(s);
}
`)

	fn := bundleFunc(t, bundle, "main.show")
	instrs := funcInstrs(fn)

	if got := countRetains(instrs); got != 0 {
		t.Errorf("expected 0 retains, got %d", got)
	}

	if got := releasesOf(instrs, "s"); got != 1 {
		t.Errorf("expected the parameter released once at function exit, got %d", got)
	}

	if ret := returnTerm(t, fn); ret.Value != nil {
		t.Errorf("expected a bare return, got %s", ret.Value.Repr())
	}
}

func TestCallArgumentOwnership(t *testing.T) {
	bundle := lowerSource(t, `
fn take(s: Str) {
}

fn main() {
	let s = "x";
	take(s);
	take("y");
}
`)

	instrs := funcInstrs(bundleFunc(t, bundle, "main"))

	// Passing the variable copies a reference for the callee; passing the
	// literal hands over its creation reference instead.
	if got := countRetains(instrs); got != 1 {
		t.Errorf("expected 1 retain, got %d", got)
	}

	if got := countReleases(instrs); got != 1 {
		t.Errorf("expected 1 release, got %d", got)
	}

	calls := 0
	for _, instr := range instrs {
		if call, ok := instr.(*mir.Call); ok {
			if call.Func != "main.take" {
				t.Errorf("expected call to `main.take`, got `%s`", call.Func)
			}

			calls++
		}
	}

	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestRangeLoopComparisons(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		wantOp string
	}{
		{
			name:   "exclusive range tests below the end",
			src:    "fn main() {\n\tfor i in 0..5 {\n\t}\n}\n",
			wantOp: "lt",
		},
		{
			name:   "inclusive range tests at the end",
			src:    "fn main() {\n\tfor i in 0..=5 {\n\t}\n}\n",
			wantOp: "le",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle := lowerSource(t, tt.src)
			fn := bundleFunc(t, bundle, "main")
			instrs := funcInstrs(fn)

			cmps, steps := 0, 0
			for _, instr := range instrs {
				if binop, ok := instr.(*mir.BinOp); ok {
					switch binop.Op {
					case tt.wantOp:
						cmps++
					case "add":
						steps++
					}
				}
			}

			if cmps != 1 {
				t.Errorf("expected 1 `%s` comparison, got %d:\n%s", tt.wantOp, cmps, fn.Repr())
			}

			if steps != 1 {
				t.Errorf("expected 1 increment, got %d:\n%s", steps, fn.Repr())
			}

			if got := countRetains(instrs) + countReleases(instrs); got != 0 {
				t.Errorf("expected no reference counting over Int, got %d operations", got)
			}
		})
	}
}

func TestArrayLoopShape(t *testing.T) {
	bundle := lowerSource(t, `
fn main() {
	let xs = [1, 2, 3];
	for x in xs {
		print(x);
	}
}
`)

	fn := bundleFunc(t, bundle, "main")
	instrs := funcInstrs(fn)

	lens, gets, idxBinds, idxSteps := 0, 0, 0, 0
	for _, instr := range instrs {
		switch v := instr.(type) {
		case *mir.ArrayLen:
			lens++
		case *mir.ArrayGet:
			gets++
		case *mir.Bind:
			if v.Name == "x__idx" {
				idxBinds++
			}
		case *mir.Store:
			if v.Name == "x__idx" {
				idxSteps++
			}
		}
	}

	if lens != 1 || gets != 1 || idxBinds != 1 || idxSteps != 1 {
		t.Errorf("expected 1 length, 1 element load, and a hidden counter, got len=%d get=%d bind=%d step=%d:\n%s",
			lens, gets, idxBinds, idxSteps, fn.Repr())
	}

	// The loop iterates a variable in place: only the array itself is
	// released, once, when the function scope closes.
	if got := countRetains(instrs); got != 0 {
		t.Errorf("expected 0 retains, got %d", got)
	}

	if got := releasesOf(instrs, "xs"); got != 1 {
		t.Errorf("expected xs released once, got %d", got)
	}

	if got := countReleases(instrs); got != 1 {
		t.Errorf("expected 1 release, got %d", got)
	}
}

func TestMapLoopShape(t *testing.T) {
	bundle := lowerSource(t, `
fn main() {
	let m = {1: "a", 2: "b"};
	for (k, v) in m {
		print(k, v);
	}
}
`)

	fn := bundleFunc(t, bundle, "main")
	instrs := funcInstrs(fn)

	lens, keys, vals := 0, 0, 0
	for _, instr := range instrs {
		switch instr.(type) {
		case *mir.MapLen:
			lens++
		case *mir.MapKeyAt:
			keys++
		case *mir.MapValAt:
			vals++
		}
	}

	if lens != 1 || keys != 1 || vals != 1 {
		t.Errorf("expected 1 length, 1 key load, and 1 value load, got len=%d key=%d val=%d:\n%s",
			lens, keys, vals, fn.Repr())
	}

	// Binding the Str value copies a reference out of the map; the Int key
	// needs nothing.
	if got := countRetains(instrs); got != 1 {
		t.Errorf("expected 1 retain, got %d", got)
	}

	if got := releasesOf(instrs, "v"); got != 1 {
		t.Errorf("expected v released once per iteration, got %d", got)
	}

	if got := releasesOf(instrs, "m"); got != 1 {
		t.Errorf("expected m released once, got %d", got)
	}
}

func TestBreakReleasesLoopLocals(t *testing.T) {
	bundle := lowerSource(t, `
fn main() {
	let s = "outer";
	for i in 0..10 {
		let t = "inner";
		break;
	}
}
`)

	instrs := funcInstrs(bundleFunc(t, bundle, "main"))

	// The break path cleans up the loop body's own locals; the enclosing
	// scope's variable waits for the function exit.
	if got := releasesOf(instrs, "t"); got != 1 {
		t.Errorf("expected t released once on the break path, got %d", got)
	}

	if got := releasesOf(instrs, "s"); got != 1 {
		t.Errorf("expected s released once at function exit, got %d", got)
	}

	if got := countReleases(instrs); got != 2 {
		t.Errorf("expected 2 releases, got %d", got)
	}
}

func TestIntOnlyFunctionHasNoReferenceCounting(t *testing.T) {
	bundle := lowerSource(t, `
fn main() {
	let a = 1;
	let mut b = a + 2;
	b = b * 3;
	if b > 5 {
		print(b);
	}
}
`)

	instrs := funcInstrs(bundleFunc(t, bundle, "main"))

	if got := countRetains(instrs) + countReleases(instrs); got != 0 {
		t.Errorf("expected no reference counting over scalars, got %d operations", got)
	}
}

func TestConcatSweepsOperandTemporaries(t *testing.T) {
	bundle := lowerSource(t, `
fn main() {
	let a = "x" + "y";
}
`)

	fn := bundleFunc(t, bundle, "main")
	instrs := funcInstrs(fn)

	var concat *mir.BinOp
	for _, instr := range instrs {
		if binop, ok := instr.(*mir.BinOp); ok {
			concat = binop
		}
	}

	if concat == nil || concat.Op != "add" || !types.Equals(concat.OperandType, types.PrimTypeStr) {
		t.Fatalf("expected a Str `add`, got %+v:\n%s", concat, fn.Repr())
	}

	if got := countRetains(instrs); got != 0 {
		t.Errorf("expected 0 retains, got %d", got)
	}

	// Concatenation borrows its operands, so both literal temporaries are
	// swept after the statement; the result is released at scope end.
	if got := countReleases(instrs); got != 3 {
		t.Errorf("expected 3 releases, got %d:\n%s", got, fn.Repr())
	}

	if got := releasesOf(instrs, "a"); got != 1 {
		t.Errorf("expected a released once, got %d", got)
	}
}

func TestElseIfConditionSweptInItsTestBlock(t *testing.T) {
	bundle := lowerSource(t, `
fn main() {
	let a = 2;
	if a == 2 {
		print(a);
	} else if "x" + "y" == "xy" {
		print(a);
	}
}
`)

	fn := bundleFunc(t, bundle, "main")

	// Map each temporary to the block defining it.
	defBlock := make(map[string]string)
	for _, block := range fn.Blocks {
		for _, instr := range block.Instrs {
			if dest, ok := instrDest(instr); ok {
				defBlock[dest.Repr()] = block.Label
			}
		}
	}

	// A released temporary must be released in the block that defined it: the
	// merge block is also reached from branches that never ran the second
	// condition, so a release there would have no matching creation on those
	// paths.
	releases := 0
	for _, block := range fn.Blocks {
		for _, instr := range block.Instrs {
			release, ok := instr.(*mir.Release)
			if !ok {
				continue
			}

			releases++
			repr := release.Value.Repr()
			if !strings.HasPrefix(repr, "%") {
				continue
			}

			if defBlock[repr] != block.Label {
				t.Errorf("temporary %s defined in %s but released in %s:\n%s",
					repr, defBlock[repr], block.Label, fn.Repr())
			}
		}
	}

	// The two operand literals, the concatenation, and the comparison literal.
	if releases != 4 {
		t.Errorf("expected 4 releases, got %d:\n%s", releases, fn.Repr())
	}
}

func TestTupleDestructureOwnership(t *testing.T) {
	bundle := lowerSource(t, `
fn pair() -> (Int, Str) {
	return (1, "a");
}

fn main() {
	let (a, b) = pair();
}
`)

	pair := bundleFunc(t, bundle, "main.pair")
	pairInstrs := funcInstrs(pair)

	// The literal's reference moves into the tuple and the tuple moves to
	// the caller.
	if got := countRetains(pairInstrs) + countReleases(pairInstrs); got != 0 {
		t.Errorf("expected no reference counting in pair, got %d operations:\n%s", got, pair.Repr())
	}

	fn := bundleFunc(t, bundle, "main")
	instrs := funcInstrs(fn)

	extracts := 0
	for _, instr := range instrs {
		if _, ok := instr.(*mir.TupleExtract); ok {
			extracts++
		}
	}

	if extracts != 2 {
		t.Errorf("expected 2 extractions, got %d:\n%s", extracts, fn.Repr())
	}

	// Binding the extracted Str copies a reference out of the aggregate.
	if got := countRetains(instrs); got != 1 {
		t.Errorf("expected 1 retain, got %d:\n%s", got, fn.Repr())
	}

	// The returned tuple is swept after the statement and b is released at
	// scope end.
	if got := countReleases(instrs); got != 2 {
		t.Errorf("expected 2 releases, got %d:\n%s", got, fn.Repr())
	}

	if got := releasesOf(instrs, "b"); got != 1 {
		t.Errorf("expected b released once, got %d", got)
	}

	swept := false
	for _, instr := range instrs {
		if release, ok := instr.(*mir.Release); ok && strings.HasPrefix(release.Value.Repr(), "%") {
			swept = true
		}
	}

	if !swept {
		t.Errorf("expected the returned tuple temporary swept:\n%s", fn.Repr())
	}
}

func TestLinkNames(t *testing.T) {
	bundle := lowerSource(t, `
fn helper() {
}

fn Shared() {
}

fn main() {
	helper();
	Shared();
}
`)

	main := bundleFunc(t, bundle, "main")

	if helper := bundleFunc(t, bundle, "main.helper"); helper.Public {
		t.Errorf("expected a lowercase function to be module private")
	}

	if shared := bundleFunc(t, bundle, "main.Shared"); !shared.Public {
		t.Errorf("expected an uppercase function to be public")
	}

	wantCalls := map[string]bool{"main.helper": false, "main.Shared": false}
	for _, instr := range funcInstrs(main) {
		if call, ok := instr.(*mir.Call); ok {
			wantCalls[call.Func] = true
		}
	}

	for name, seen := range wantCalls {
		if !seen {
			t.Errorf("expected main to call `%s`:\n%s", name, main.Repr())
		}
	}
}

func TestEveryBlockTerminates(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "branching returns",
			src: `
fn classify(n: Int) -> Str {
	if n < 0 {
		return "neg";
	} else if n == 0 {
		return "zero";
	} else {
		return "pos";
	}
}
`,
		},
		{
			name: "nested loops with break and continue",
			src: `
fn scan() {
	for i in 0..10 {
		for j in 0..10 {
			if j == 5 {
				continue;
			}
			if i + j > 12 {
				break;
			}
			print(i, j);
		}
	}
}
`,
		},
		{
			name: "infinite loop with conditional break",
			src: `
fn spin() -> Int {
	let mut n = 0;
	for {
		n = n + 1;
		if n > 3 {
			break;
		}
	}
	return n;
}
`,
		},
		{
			name: "short circuit conditions",
			src: `
fn gate(a: Bool, b: Bool) -> Bool {
	if a && b || !a {
		return true;
	}
	return false;
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bundle := lowerSource(t, tt.src)

			for _, fn := range bundle.Functions {
				if len(fn.Blocks) == 0 {
					t.Errorf("function `%s` has no blocks", fn.Name)
				}

				for _, block := range fn.Blocks {
					if block.Term == nil {
						t.Errorf("block %s of `%s` has no terminator:\n%s", block.Label, fn.Name, fn.Repr())
					}
				}
			}
		})
	}
}
