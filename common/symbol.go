package common

import (
	"unicode"
	"unicode/utf8"

	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/types"
)

// Symbol represents a semantic symbol: a named value or definition.
type Symbol struct {
	// The name of the symbol.
	Name string

	// The absolute path of the module which defines this symbol.
	ModulePath string

	// Where the symbol was defined.
	DefSpan *report.TextSpan

	// The type of the value stored in the symbol.
	Type types.Type

	// The symbol's kind: what kind of thing does this symbol represent.  This
	// must be one of the enumerated definition kinds.
	DefKind int

	// How the symbol is stored.  This must be one of the enumerated storage
	// kinds.
	Storage int

	// Whether or not the symbol can be reassigned after its declaration.
	Mutable bool

	// Whether or not the symbol is visible outside its defining module.
	Public bool

	// Whether or not the symbol was actually used.
	Used bool
}

// Enumeration of different symbol kinds.
const (
	DefKindValue = iota
	DefKindFunc
	DefKindType
)

// Enumeration of different storage kinds.
const (
	StorageLocal = iota
	StorageParam
	StorageGlobal
)

// IsPublicName returns whether a Doo identifier names a public symbol: public
// symbols begin with an uppercase letter; all others are module-private.
func IsPublicName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
