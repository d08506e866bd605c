package types

import "testing"

func TestEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{
			name: "identical primitives",
			a:    PrimTypeInt,
			b:    PrimTypeInt,
			want: true,
		},
		{
			name: "different primitives",
			a:    PrimTypeInt,
			b:    PrimTypeBool,
			want: false,
		},
		{
			name: "identical arrays",
			a:    &ArrayType{ElemType: PrimTypeInt},
			b:    &ArrayType{ElemType: PrimTypeInt},
			want: true,
		},
		{
			name: "arrays of different elements",
			a:    &ArrayType{ElemType: PrimTypeInt},
			b:    &ArrayType{ElemType: PrimTypeStr},
			want: false,
		},
		{
			name: "array against map",
			a:    &ArrayType{ElemType: PrimTypeInt},
			b:    &MapType{KeyType: PrimTypeInt, ValueType: PrimTypeInt},
			want: false,
		},
		{
			name: "identical maps",
			a:    &MapType{KeyType: PrimTypeInt, ValueType: PrimTypeStr},
			b:    &MapType{KeyType: PrimTypeInt, ValueType: PrimTypeStr},
			want: true,
		},
		{
			name: "maps with different keys",
			a:    &MapType{KeyType: PrimTypeInt, ValueType: PrimTypeStr},
			b:    &MapType{KeyType: PrimTypeStr, ValueType: PrimTypeStr},
			want: false,
		},
		{
			name: "identical tuples",
			a:    TupleType{PrimTypeInt, PrimTypeStr},
			b:    TupleType{PrimTypeInt, PrimTypeStr},
			want: true,
		},
		{
			name: "tuples of different lengths",
			a:    TupleType{PrimTypeInt, PrimTypeStr},
			b:    TupleType{PrimTypeInt, PrimTypeStr, PrimTypeBool},
			want: false,
		},
		{
			name: "identical function types",
			a:    &FuncType{ParamTypes: []Type{PrimTypeInt}, ReturnType: PrimTypeStr},
			b:    &FuncType{ParamTypes: []Type{PrimTypeInt}, ReturnType: PrimTypeStr},
			want: true,
		},
		{
			name: "functions with different returns",
			a:    &FuncType{ParamTypes: []Type{PrimTypeInt}, ReturnType: PrimTypeStr},
			b:    &FuncType{ParamTypes: []Type{PrimTypeInt}, ReturnType: PrimTypeUnit},
			want: false,
		},
		{
			name: "structs compare nominally not structurally",
			a:    NewStructType("Point", "/m/a.doo", []StructField{{Name: "x", Type: PrimTypeInt}}),
			b:    NewStructType("Point", "/m/a.doo", []StructField{{Name: "y", Type: PrimTypeStr}}),
			want: true,
		},
		{
			name: "same struct name in different modules",
			a:    NewStructType("Point", "/m/a.doo", nil),
			b:    NewStructType("Point", "/m/b.doo", nil),
			want: false,
		},
		{
			name: "different struct names",
			a:    NewStructType("Point", "/m/a.doo", nil),
			b:    NewStructType("Vec", "/m/a.doo", nil),
			want: false,
		},
		{
			name: "nil types",
			a:    nil,
			b:    nil,
			want: true,
		},
		{
			name: "nil against a type",
			a:    nil,
			b:    PrimTypeInt,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equals(tt.a, tt.b); got != tt.want {
				t.Errorf("expected %t, got %t", tt.want, got)
			}

			// Equality is symmetric.
			if got := Equals(tt.b, tt.a); got != tt.want {
				t.Errorf("expected %t for the flipped comparison, got %t", tt.want, got)
			}
		})
	}
}

func TestIsHeapBacked(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want bool
	}{
		{
			name: "unit",
			typ:  PrimTypeUnit,
			want: false,
		},
		{
			name: "int",
			typ:  PrimTypeInt,
			want: false,
		},
		{
			name: "bool",
			typ:  PrimTypeBool,
			want: false,
		},
		{
			name: "str",
			typ:  PrimTypeStr,
			want: true,
		},
		{
			name: "array of scalars",
			typ:  &ArrayType{ElemType: PrimTypeInt},
			want: true,
		},
		{
			name: "map of scalars",
			typ:  &MapType{KeyType: PrimTypeInt, ValueType: PrimTypeBool},
			want: true,
		},
		{
			name: "tuple of scalars",
			typ:  TupleType{PrimTypeInt, PrimTypeBool},
			want: false,
		},
		{
			name: "tuple holding a string",
			typ:  TupleType{PrimTypeInt, PrimTypeStr},
			want: true,
		},
		{
			name: "struct of scalars",
			typ: NewStructType("Point", "/m/a.doo", []StructField{
				{Name: "x", Type: PrimTypeInt},
				{Name: "y", Type: PrimTypeInt},
			}),
			want: false,
		},
		{
			name: "struct holding an array",
			typ: NewStructType("Lines", "/m/a.doo", []StructField{
				{Name: "rows", Type: &ArrayType{ElemType: PrimTypeStr}},
			}),
			want: true,
		},
		{
			name: "enum of bare variants",
			typ: NewEnumType("Color", "/m/a.doo", []EnumVariant{
				{Name: "Red"},
				{Name: "Blue"},
			}),
			want: false,
		},
		{
			name: "enum with a string payload",
			typ: NewEnumType("Result", "/m/a.doo", []EnumVariant{
				{Name: "Ok", Payload: PrimTypeStr},
				{Name: "Err"},
			}),
			want: true,
		},
		{
			name: "enum with only scalar payloads",
			typ: NewEnumType("Value", "/m/a.doo", []EnumVariant{
				{Name: "Num", Payload: PrimTypeInt},
				{Name: "Flag", Payload: PrimTypeBool},
			}),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHeapBacked(tt.typ); got != tt.want {
				t.Errorf("expected %t, got %t", tt.want, got)
			}
		})
	}
}

func TestIsHeapBackedRecursiveStructs(t *testing.T) {
	// A self-referential struct of scalars must terminate and stay
	// stack-backed.
	node := NewStructType("Node", "/m/a.doo", nil)
	node.Fields = []StructField{
		{Name: "value", Type: PrimTypeInt},
		{Name: "next", Type: node},
	}

	if IsHeapBacked(node) {
		t.Errorf("expected a scalar recursive struct to stay stack-backed")
	}

	// The same shape carrying a string anywhere is heap-backed.
	list := NewStructType("List", "/m/a.doo", nil)
	list.Fields = []StructField{
		{Name: "value", Type: PrimTypeStr},
		{Name: "next", Type: list},
	}

	if !IsHeapBacked(list) {
		t.Errorf("expected a recursive struct holding a string to be heap-backed")
	}
}

func TestRepr(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{
			name: "primitive",
			typ:  PrimTypeInt,
			want: "Int",
		},
		{
			name: "array",
			typ:  &ArrayType{ElemType: PrimTypeInt},
			want: "[Int]",
		},
		{
			name: "nested array",
			typ:  &ArrayType{ElemType: &ArrayType{ElemType: PrimTypeStr}},
			want: "[[Str]]",
		},
		{
			name: "map",
			typ:  &MapType{KeyType: PrimTypeStr, ValueType: PrimTypeBool},
			want: "{Str: Bool}",
		},
		{
			name: "tuple",
			typ:  TupleType{PrimTypeInt, PrimTypeStr},
			want: "(Int, Str)",
		},
		{
			name: "function",
			typ:  &FuncType{ParamTypes: []Type{PrimTypeInt, PrimTypeStr}, ReturnType: PrimTypeUnit},
			want: "fn (Int, Str)",
		},
		{
			name: "function with a return",
			typ:  &FuncType{ParamTypes: nil, ReturnType: PrimTypeInt},
			want: "fn () -> Int",
		},
		{
			name: "named type",
			typ:  NewStructType("Point", "/m/a.doo", nil),
			want: "Point",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.Repr(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
