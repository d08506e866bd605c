package codegen

import (
	"github.com/nynrathod/mylang/report"
	"github.com/nynrathod/mylang/types"

	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Runtime element kind tags.  These agree with the constants compiled into
// the runtime archive: the runtime uses them to retain, release, hash, and
// compare the slots a container stores.
const (
	kindPlain int64 = iota
	kindStr
	kindArray
	kindMap
)

// convType converts a Doo type to its LLVM representation.  Heap-backed
// containers and strings are opaque runtime handles; tuples and structs are
// unboxed aggregates; an enum value is its variant tag.
func (g *Generator) convType(typ types.Type) lltypes.Type {
	switch v := typ.(type) {
	case types.PrimitiveType:
		switch v {
		case types.PrimTypeUnit:
			return lltypes.Void
		case types.PrimTypeInt:
			return lltypes.I64
		case types.PrimTypeBool:
			return lltypes.I1
		case types.PrimTypeStr:
			return lltypes.I8Ptr
		}
	case *types.ArrayType, *types.MapType:
		return lltypes.I8Ptr
	case types.TupleType:
		elems := make([]lltypes.Type, len(v))
		for i, elem := range v {
			elems[i] = g.convType(elem)
		}

		return lltypes.NewStruct(elems...)
	case *types.StructType:
		fields := make([]lltypes.Type, len(v.Fields))
		for i, field := range v.Fields {
			fields[i] = g.convType(field.Type)
		}

		return lltypes.NewStruct(fields...)
	case *types.EnumType:
		return lltypes.I64
	}

	report.ReportICE("no LLVM representation for type `%s`", typ.Repr())
	return nil
}

// elemKind returns the runtime kind tag of a container element type.
func elemKind(typ types.Type) int64 {
	switch v := typ.(type) {
	case types.PrimitiveType:
		switch v {
		case types.PrimTypeInt, types.PrimTypeBool:
			return kindPlain
		case types.PrimTypeStr:
			return kindStr
		}
	case *types.ArrayType:
		return kindArray
	case *types.MapType:
		return kindMap
	}

	report.ReportICE("no element kind for type `%s`", typ.Repr())
	return 0
}

// kindConst returns the kind tag of an element type as an i64 constant.
func kindConst(typ types.Type) value.Value {
	return constant.NewInt(lltypes.I64, elemKind(typ))
}

/* -------------------------------------------------------------------------- */

// toSlot widens a container element value to the i64 slot the runtime
// stores.  Heap handles travel as their addresses.
func (g *Generator) toSlot(v value.Value, typ types.Type) value.Value {
	switch {
	case types.Equals(typ, types.PrimTypeInt):
		return v
	case types.Equals(typ, types.PrimTypeBool):
		return g.block.NewZExt(v, lltypes.I64)
	default:
		return g.block.NewPtrToInt(v, lltypes.I64)
	}
}

// fromSlot narrows an i64 slot returned by the runtime back to the element
// value it encodes.
func (g *Generator) fromSlot(slot value.Value, typ types.Type) value.Value {
	switch {
	case types.Equals(typ, types.PrimTypeInt):
		return slot
	case types.Equals(typ, types.PrimTypeBool):
		return g.block.NewTrunc(slot, lltypes.I1)
	default:
		return g.block.NewIntToPtr(slot, lltypes.I8Ptr)
	}
}
