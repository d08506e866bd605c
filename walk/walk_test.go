package walk

import (
	"bufio"
	"strings"
	"testing"

	"github.com/nynrathod/mylang/depm"
	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/syntax"
)

// parseModule parses src as the module file at absPath.  Any syntax error
// fails the test: these tests exercise analysis, not parsing.
func parseModule(t *testing.T, absPath, reprPath, src string) *depm.Module {
	t.Helper()

	mod := depm.NewModule(absPath, reprPath)
	syntax.NewParser(mod, bufio.NewReader(strings.NewReader(src))).Parse()

	if report.AnyErrors() {
		t.Fatalf("source failed to parse:\n%s", src)
	}

	return mod
}

// analyze runs semantic analysis over src as a single root module and returns
// the number of errors reported.
func analyze(t *testing.T, src string) int {
	t.Helper()

	report.InitReporter(report.LogLevelSilent)
	report.ResetErrors()

	mod := parseModule(t, "/test/main.doo", "main.doo", src)

	graph := depm.NewGraph("/test", mod)
	WalkModule(graph, mod)

	return report.ErrorCount()
}

func TestAnalysisErrors(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantErrors int
	}{
		{
			name: "duplicate function",
			src: `
fn f() {
}

fn f() {
}
`,
			wantErrors: 1,
		},
		{
			name: "duplicate parameter",
			src: `
fn f(a: Int, a: Int) {
}
`,
			wantErrors: 1,
		},
		{
			name: "duplicate struct field",
			src: `
struct S {
	x: Int,
	x: Int,
}
`,
			wantErrors: 1,
		},
		{
			name: "duplicate enum variant",
			src: `
enum E {
	A,
	A,
}
`,
			wantErrors: 1,
		},
		{
			name: "duplicate local binding",
			src: `
fn f() {
	let x = 1;
	let x = 2;
}
`,
			wantErrors: 1,
		},
		{
			name: "function and struct sharing a name",
			src: `
fn S() {
}

struct S {
	x: Int,
}
`,
			wantErrors: 1,
		},
		{
			name: "undeclared symbol",
			src: `
fn f() {
	print(y);
}
`,
			wantErrors: 1,
		},
		{
			name: "assign to immutable binding",
			src: `
fn f() {
	let x = 1;
	x = 2;
}
`,
			wantErrors: 1,
		},
		{
			name: "assign to range loop variable",
			src: `
fn f() {
	for i in 0..10 {
		i = 5;
	}
}
`,
			wantErrors: 1,
		},
		{
			name: "assign to literal",
			src: `
fn f() {
	1 = 2;
}
`,
			wantErrors: 1,
		},
		{
			name: "declared type mismatch",
			src: `
fn f() {
	let x: Str = 1;
}
`,
			wantErrors: 1,
		},
		{
			name: "assignment type mismatch",
			src: `
fn f() {
	let mut x = 1;
	x = "a";
}
`,
			wantErrors: 1,
		},
		{
			name: "compound assignment operand mismatch",
			src: `
fn f() {
	let mut x = 1;
	x -= "a";
}
`,
			wantErrors: 1,
		},
		{
			name: "non-bool condition",
			src: `
fn f() {
	if 1 {
	}
}
`,
			wantErrors: 1,
		},
		{
			name: "return type mismatch",
			src: `
fn f() -> Int {
	return "a";
}
`,
			wantErrors: 1,
		},
		{
			name: "missing return in empty body",
			src: `
fn f() -> Int {
}
`,
			wantErrors: 1,
		},
		{
			name: "missing return after if without else",
			src: `
fn f() -> Int {
	if true {
		return 1;
	}
}
`,
			wantErrors: 1,
		},
		{
			name: "missing return after loop with break",
			src: `
fn f() -> Int {
	for {
		break;
	}
}
`,
			wantErrors: 1,
		},
		{
			name: "bare return from value function",
			src: `
fn f() -> Int {
	return;
}
`,
			wantErrors: 1,
		},
		{
			name: "value return from unit function",
			src: `
fn f() {
	return 1;
}
`,
			wantErrors: 1,
		},
		{
			name: "break outside loop",
			src: `
fn f() {
	break;
}
`,
			wantErrors: 1,
		},
		{
			name: "continue outside loop",
			src: `
fn f() {
	continue;
}
`,
			wantErrors: 1,
		},
		{
			name: "iterate over int",
			src: `
fn f() {
	for x in 10 {
	}
}
`,
			wantErrors: 1,
		},
		{
			name: "map iteration without pair pattern",
			src: `
fn f() {
	let m = {1: 2};
	for k in m {
	}
}
`,
			wantErrors: 1,
		},
		{
			name: "string range bounds",
			src: `
fn f() {
	for i in "a".."b" {
	}
}
`,
			wantErrors: 2,
		},
		{
			name: "add int and string",
			src: `
fn f() {
	let x = 1 + "a";
}
`,
			wantErrors: 1,
		},
		{
			name: "subtract strings",
			src: `
fn f() {
	let x = "a" - "b";
}
`,
			wantErrors: 1,
		},
		{
			name: "compare arrays for equality",
			src: `
fn f() {
	let a = [1];
	let b = [1];
	if a == b {
	}
}
`,
			wantErrors: 1,
		},
		{
			name: "logic on ints",
			src: `
fn f() {
	let x = 1 && 2;
}
`,
			wantErrors: 1,
		},
		{
			name: "negate string",
			src: `
fn f() {
	let x = -"a";
}
`,
			wantErrors: 1,
		},
		{
			name: "not on int",
			src: `
fn f() {
	let x = !1;
}
`,
			wantErrors: 1,
		},
		{
			name: "call arity mismatch",
			src: `
fn g(a: Int) {
}

fn f() {
	g();
}
`,
			wantErrors: 1,
		},
		{
			name: "call argument type mismatch",
			src: `
fn g(a: Int) {
}

fn f() {
	g("x");
}
`,
			wantErrors: 1,
		},
		{
			name: "call non-function value",
			src: `
fn f() {
	let x = 1;
	x();
}
`,
			wantErrors: 1,
		},
		{
			name: "function used as value",
			src: `
fn g() {
}

fn f() {
	let h = g;
}
`,
			wantErrors: 1,
		},
		{
			name: "type used as value",
			src: `
struct P {
	x: Int,
}

fn f() {
	let p = P;
}
`,
			wantErrors: 1,
		},
		{
			name: "bind unit call result",
			src: `
fn g() {
}

fn f() {
	let x = g();
}
`,
			wantErrors: 1,
		},
		{
			name: "print array",
			src: `
fn f() {
	let xs = [1];
	print(xs);
}
`,
			wantErrors: 1,
		},
		{
			name: "index int",
			src: `
fn f() {
	let x = 1;
	let y = x[0];
}
`,
			wantErrors: 1,
		},
		{
			name: "array index not int",
			src: `
fn f() {
	let xs = [1];
	let y = xs["a"];
}
`,
			wantErrors: 1,
		},
		{
			name: "map index key mismatch",
			src: `
fn f() {
	let m = {"a": 1};
	let v = m[0];
}
`,
			wantErrors: 1,
		},
		{
			name: "empty array without annotation",
			src: `
fn f() {
	let xs = [];
}
`,
			wantErrors: 1,
		},
		{
			name: "empty map without annotation",
			src: `
fn f() {
	let m = {};
}
`,
			wantErrors: 1,
		},
		{
			name: "tuple as array element",
			src: `
fn f() {
	let xs = [(1, 2)];
}
`,
			wantErrors: 1,
		},
		{
			name: "mixed array element types",
			src: `
fn f() {
	let xs = [1, "a", true];
}
`,
			wantErrors: 2,
		},
		{
			name: "array as map key",
			src: `
fn f() {
	let m = {[1]: 2};
}
`,
			wantErrors: 1,
		},
		{
			name: "struct in array label",
			src: `
struct P {
	x: Int,
}

fn f(ps: [P]) {
}
`,
			wantErrors: 1,
		},
		{
			name: "range used as value",
			src: `
fn f() {
	let r = 0..10;
}
`,
			wantErrors: 1,
		},
		{
			name: "tuple pattern against int",
			src: `
fn f() {
	let (a, b) = 1;
}
`,
			wantErrors: 1,
		},
		{
			name: "tuple pattern arity mismatch",
			src: `
fn f() {
	let (a, b) = (1, 2, 3);
}
`,
			wantErrors: 1,
		},
		{
			name: "integer literal overflow",
			src: `
fn f() {
	let x = 99999999999999999999;
}
`,
			wantErrors: 1,
		},
		{
			name: "field type declared later in file",
			src: `
struct B {
	a: A,
}

struct A {
	x: Int,
}
`,
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := analyze(t, tt.src); got != tt.wantErrors {
				t.Errorf("expected %d errors, got %d", tt.wantErrors, got)
			}
		})
	}
}

func TestWellTypedPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "forward function reference",
			src: `
fn main() {
	f();
}

fn f() {
}
`,
		},
		{
			name: "field type declared earlier in file",
			src: `
struct A {
	x: Int,
}

struct B {
	a: A,
}
`,
		},
		{
			name: "shadowing in nested scope",
			src: `
fn main() {
	let x = 1;
	if true {
		let x = 2;
		print(x);
	}
	print(x);
}
`,
		},
		{
			name: "if and else both return",
			src: `
fn f() -> Int {
	if true {
		return 1;
	} else {
		return 2;
	}
}
`,
		},
		{
			name: "infinite loop satisfies return",
			src: `
fn f() -> Int {
	for {
	}
}
`,
		},
		{
			name: "annotated empty containers",
			src: `
fn main() {
	let xs: [Int] = [];
	let m: {Str: Int} = {};
	print(xs[0] + m["a"]);
}
`,
		},
		{
			name: "unreachable code only warns",
			src: `
fn main() {
	return;
	print(1);
}
`,
		},
		{
			name: "wildcard bindings",
			src: `
fn main() {
	let _ = 1;
	let (_, a) = (1, 2);
	for _ in 0..3 {
		print(a);
	}
}
`,
		},
		{
			name: "loops maps and tuples",
			src: `
fn add(a: Int, b: Int) -> Int {
	return a + b;
}

fn greet(name: Str) -> Str {
	return "hello " + name;
}

fn main() {
	let mut total = 0;
	for i in 0..=10 {
		if i % 2 == 0 {
			total += i;
		} else {
			continue;
		}
	}

	let names = ["ana", "bo"];
	for n in names {
		print(greet(n));
	}

	let ages = {"ana": 31, "bo": 29};
	for (name, age) in ages {
		print(name, age);
	}

	let pair = (total, "done");
	let (sum, label) = pair;
	print(add(sum, 1), label);
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := analyze(t, tt.src); got != 0 {
				t.Errorf("expected no errors, got %d", got)
			}
		})
	}
}

func TestValidateMain(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantErrors int
	}{
		{
			name: "valid entry point",
			src: `
fn main() {
}
`,
			wantErrors: 0,
		},
		{
			name: "no main declared",
			src: `
fn helper() {
}
`,
			wantErrors: 1,
		},
		{
			name: "main is not a function",
			src: `
struct main {
	x: Int,
}
`,
			wantErrors: 1,
		},
		{
			name: "main takes parameters",
			src: `
fn main(x: Int) {
}
`,
			wantErrors: 1,
		},
		{
			name: "main returns a value",
			src: `
fn main() -> Int {
	return 0;
}
`,
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report.InitReporter(report.LogLevelSilent)
			report.ResetErrors()

			mod := parseModule(t, "/test/main.doo", "main.doo", tt.src)

			graph := depm.NewGraph("/test", mod)
			WalkModule(graph, mod)

			if report.AnyErrors() {
				t.Fatalf("source failed analysis with %d errors", report.ErrorCount())
			}

			ValidateMain(mod)

			if got := report.ErrorCount(); got != tt.wantErrors {
				t.Errorf("expected %d errors, got %d", tt.wantErrors, got)
			}
		})
	}
}

// analyzeWithImport analyzes rootSrc as the root module with libSrc available
// as the module `lib`, wiring the import resolution by hand.
func analyzeWithImport(t *testing.T, libSrc, rootSrc string) int {
	t.Helper()

	report.InitReporter(report.LogLevelSilent)
	report.ResetErrors()

	lib := parseModule(t, "/test/lib.doo", "lib.doo", libSrc)
	root := parseModule(t, "/test/main.doo", "main.doo", rootSrc)

	graph := depm.NewGraph("/test", root)
	graph.Modules[lib.AbsPath] = lib

	for _, imp := range root.Imports {
		imp.ResolvedPath = lib.AbsPath
	}

	// Imported modules are analyzed before their importers so that their
	// export tables are complete.
	WalkModule(graph, lib)
	WalkModule(graph, root)

	return report.ErrorCount()
}

func TestImportBinding(t *testing.T) {
	t.Run("exported symbol", func(t *testing.T) {
		got := analyzeWithImport(t, `
fn Helper() {
}
`, `
import lib::Helper;

fn main() {
	Helper();
}
`)

		if got != 0 {
			t.Errorf("expected no errors, got %d", got)
		}
	})

	t.Run("aliased symbol", func(t *testing.T) {
		got := analyzeWithImport(t, `
fn Helper() {
}
`, `
import lib::Helper as H;

fn main() {
	H();
}
`)

		if got != 0 {
			t.Errorf("expected no errors, got %d", got)
		}
	})

	t.Run("private symbol", func(t *testing.T) {
		got := analyzeWithImport(t, `
fn hidden() {
}
`, `
import lib::hidden;

fn main() {
}
`)

		if got != 1 {
			t.Errorf("expected 1 error, got %d", got)
		}
	})

	t.Run("import collides with local definition", func(t *testing.T) {
		got := analyzeWithImport(t, `
fn Helper() {
}
`, `
import lib::Helper;

fn Helper() {
}

fn main() {
	Helper();
}
`)

		if got != 1 {
			t.Errorf("expected 1 error, got %d", got)
		}
	})
}

func TestUnusedVariableWarning(t *testing.T) {
	tests := []struct {
		name         string
		src          string
		wantWarnings int
	}{
		{
			name: "unused local warns",
			src: `
fn main() {
	let x = 1;
}
`,
			wantWarnings: 1,
		},
		{
			name: "used local is quiet",
			src: `
fn main() {
	let x = 1;
	print(x);
}
`,
			wantWarnings: 0,
		},
		{
			name: "unused parameter is quiet",
			src: `
fn f(x: Int) {
}
`,
			wantWarnings: 0,
		},
		{
			name: "unused inner scope binding warns",
			src: `
fn main() {
	let cond = true;
	if cond {
		let y = "a";
	}
}
`,
			wantWarnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := analyze(t, tt.src); got != 0 {
				t.Fatalf("expected no errors, got %d", got)
			}

			if got := report.WarningCount(); got != tt.wantWarnings {
				t.Errorf("expected %d warnings, got %d", tt.wantWarnings, got)
			}
		})
	}
}
