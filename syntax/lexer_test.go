package syntax

import (
	"bufio"
	"reflect"
	"strings"
	"testing"
)

// lexAll tokenizes src and returns every token up to and including the EOF
// token.  Any lex error fails the test.
func lexAll(t *testing.T, src string) []*Token {
	t.Helper()

	lexer := NewLexer(bufio.NewReader(strings.NewReader(src)))

	var toks []*Token
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("unexpected lex error: %s", err)
		}

		toks = append(toks, tok)
		if tok.Kind == TOK_EOF {
			return toks
		}
	}
}

// lexError tokenizes src until the lexer reports an error and returns it.
func lexError(t *testing.T, src string) error {
	t.Helper()

	lexer := NewLexer(bufio.NewReader(strings.NewReader(src)))

	for {
		tok, err := lexer.NextToken()
		if err != nil {
			return err
		}

		if tok.Kind == TOK_EOF {
			t.Fatalf("expected a lex error, got a clean token stream")
		}
	}
}

func kindsOf(toks []*Token) []int {
	kinds := make([]int, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}

	return kinds
}

func TestTokenKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []int
	}{
		{
			name: "let binding",
			src:  "let mut x = 10;",
			want: []int{TOK_LET, TOK_MUT, TOK_IDENT, TOK_ASSIGN, TOK_INTLIT, TOK_SEMI, TOK_EOF},
		},
		{
			name: "range operators",
			src:  "0..5 0..=5",
			want: []int{TOK_INTLIT, TOK_RANGE, TOK_INTLIT, TOK_INTLIT, TOK_RANGEEQ, TOK_INTLIT, TOK_EOF},
		},
		{
			name: "compound assignments",
			src:  "x += 1; x -= 2; x *= 3; x /= 4; x %= 5;",
			want: []int{
				TOK_IDENT, TOK_PLUSASSIGN, TOK_INTLIT, TOK_SEMI,
				TOK_IDENT, TOK_MINUSASSIGN, TOK_INTLIT, TOK_SEMI,
				TOK_IDENT, TOK_STARASSIGN, TOK_INTLIT, TOK_SEMI,
				TOK_IDENT, TOK_DIVASSIGN, TOK_INTLIT, TOK_SEMI,
				TOK_IDENT, TOK_MODASSIGN, TOK_INTLIT, TOK_SEMI,
				TOK_EOF,
			},
		},
		{
			name: "function signature",
			src:  "fn f(a: Int) -> Str",
			want: []int{TOK_FN, TOK_IDENT, TOK_LPAREN, TOK_IDENT, TOK_COLON, TOK_IDENT, TOK_RPAREN, TOK_ARROW, TOK_IDENT, TOK_EOF},
		},
		{
			name: "import path",
			src:  "import a::b::C;",
			want: []int{TOK_IMPORT, TOK_IDENT, TOK_DBLCOLON, TOK_IDENT, TOK_DBLCOLON, TOK_IDENT, TOK_SEMI, TOK_EOF},
		},
		{
			name: "comparisons",
			src:  "a == b != c < d <= e > f >= g",
			want: []int{
				TOK_IDENT, TOK_EQ, TOK_IDENT, TOK_NEQ, TOK_IDENT, TOK_LT, TOK_IDENT,
				TOK_LTEQ, TOK_IDENT, TOK_GT, TOK_IDENT, TOK_GTEQ, TOK_IDENT, TOK_EOF,
			},
		},
		{
			name: "logical operators",
			src:  "a && b || !c",
			want: []int{TOK_IDENT, TOK_LAND, TOK_IDENT, TOK_LOR, TOK_NOT, TOK_IDENT, TOK_EOF},
		},
		{
			name: "comments are skipped",
			src:  "let x = 1; // trailing\n// a full line\nlet y = 2;",
			want: []int{
				TOK_LET, TOK_IDENT, TOK_ASSIGN, TOK_INTLIT, TOK_SEMI,
				TOK_LET, TOK_IDENT, TOK_ASSIGN, TOK_INTLIT, TOK_SEMI,
				TOK_EOF,
			},
		},
		{
			name: "container literals",
			src:  `[1, 2] {1: "a"} (x, y)`,
			want: []int{
				TOK_LBRACKET, TOK_INTLIT, TOK_COMMA, TOK_INTLIT, TOK_RBRACKET,
				TOK_LBRACE, TOK_INTLIT, TOK_COLON, TOK_STRINGLIT, TOK_RBRACE,
				TOK_LPAREN, TOK_IDENT, TOK_COMMA, TOK_IDENT, TOK_RPAREN,
				TOK_EOF,
			},
		},
		{
			name: "booleans",
			src:  "if true { } else if false { }",
			want: []int{TOK_IF, TOK_BOOLLIT, TOK_LBRACE, TOK_RBRACE, TOK_ELSE, TOK_IF, TOK_BOOLLIT, TOK_LBRACE, TOK_RBRACE, TOK_EOF},
		},
		{
			name: "division is not a comment",
			src:  "a / b /= c",
			want: []int{TOK_IDENT, TOK_DIV, TOK_IDENT, TOK_DIVASSIGN, TOK_IDENT, TOK_EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kindsOf(lexAll(t, tt.src))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("token kinds mismatch\nwant: %v\ngot:  %v", tt.want, got)
			}
		})
	}
}

func TestTokenValues(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "identifier",
			src:  "counter",
			want: "counter",
		},
		{
			name: "integer literal",
			src:  "42",
			want: "42",
		},
		{
			name: "string literal drops its quotes",
			src:  `"hello"`,
			want: "hello",
		},
		{
			name: "escape sequences stay raw",
			src:  `"a\nb\t\"q\""`,
			want: `a\nb\t\"q\"`,
		},
		{
			name: "boolean keeps its spelling",
			src:  "false",
			want: "false",
		},
		{
			name: "division assignment",
			src:  "/=",
			want: "/=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := lexAll(t, tt.src)
			if len(toks) != 2 {
				t.Fatalf("expected a single token before EOF, got %d", len(toks)-1)
			}

			if toks[0].Value != tt.want {
				t.Errorf("expected value %q, got %q", tt.want, toks[0].Value)
			}
		})
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "unknown rune",
			src:  "let $x = 1;",
			want: "unknown rune",
		},
		{
			name: "float literal",
			src:  "let x = 1.5;",
			want: "float literals are not supported",
		},
		{
			name: "unclosed string",
			src:  `"abc`,
			want: "unclosed string literal",
		},
		{
			name: "newline inside string",
			src:  "\"ab\ncd\"",
			want: "string cannot contain a newline",
		},
		{
			name: "unknown escape sequence",
			src:  `"a\qb"`,
			want: "unknown escape sequence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := lexError(t, tt.src)
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestTokenSpans(t *testing.T) {
	toks := lexAll(t, "let\n\tx")

	let := toks[0]
	if let.Span.StartLine != 0 || let.Span.StartCol != 0 || let.Span.EndLine != 0 || let.Span.EndCol != 3 {
		t.Errorf("unexpected span for `let`: %+v", *let.Span)
	}

	// A tab advances the display column by four.
	x := toks[1]
	if x.Span.StartLine != 1 || x.Span.StartCol != 4 || x.Span.EndCol != 5 {
		t.Errorf("unexpected span for `x`: %+v", *x.Span)
	}
}

func TestIntThenRangeLookahead(t *testing.T) {
	toks := lexAll(t, "1..2")

	want := []int{TOK_INTLIT, TOK_RANGE, TOK_INTLIT, TOK_EOF}
	if got := kindsOf(toks); !reflect.DeepEqual(got, want) {
		t.Errorf("token kinds mismatch\nwant: %v\ngot:  %v", want, got)
	}

	if toks[0].Value != "1" || toks[2].Value != "2" {
		t.Errorf("expected bounds 1 and 2, got %q and %q", toks[0].Value, toks[2].Value)
	}
}
