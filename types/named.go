package types

// NamedType represents a user-defined type associated with a symbol: a struct
// or an enum.  Named types compare nominally: two named types are equal when
// they share a name and a defining module.
type NamedType interface {
	Type

	// The named type's name.
	Name() string

	// The absolute path of the module the named type is defined in.
	ModulePath() string
}

// NamedTypeBase is the base type for all named types.
type NamedTypeBase struct {
	// The named type's name.
	name string

	// The absolute path of the module the named type is defined in.
	modPath string
}

// NewNamedTypeBase creates a new named type base.
func NewNamedTypeBase(name, modPath string) NamedTypeBase {
	return NamedTypeBase{name: name, modPath: modPath}
}

func (nt *NamedTypeBase) equals(other Type) bool {
	if ont, ok := other.(NamedType); ok {
		return nt.name == ont.Name() && nt.modPath == ont.ModulePath()
	}

	return false
}

func (nt *NamedTypeBase) Repr() string {
	return nt.name
}

func (nt *NamedTypeBase) Name() string {
	return nt.name
}

func (nt *NamedTypeBase) ModulePath() string {
	return nt.modPath
}

// -----------------------------------------------------------------------------

// StructType represents a Doo struct type.
type StructType struct {
	NamedTypeBase

	// The ordered fields of the struct.
	Fields []StructField

	// The map of field names to their indices in the field list.
	fieldIndices map[string]int
}

// StructField represents a single field of a struct type.
type StructField struct {
	// The name of the field.
	Name string

	// The type of the field.
	Type Type
}

// NewStructType creates a new struct type with the given declared fields.
// Field names are assumed to already be validated as unique.
func NewStructType(name, modPath string, fields []StructField) *StructType {
	fieldIndices := make(map[string]int, len(fields))
	for i, field := range fields {
		fieldIndices[field.Name] = i
	}

	return &StructType{
		NamedTypeBase: NewNamedTypeBase(name, modPath),
		Fields:        fields,
		fieldIndices:  fieldIndices,
	}
}

// FieldIndex returns the index of the field with the given name and whether
// such a field exists.
func (st *StructType) FieldIndex(name string) (int, bool) {
	ndx, ok := st.fieldIndices[name]
	return ndx, ok
}

// -----------------------------------------------------------------------------

// EnumType represents a Doo enum type.
type EnumType struct {
	NamedTypeBase

	// The ordered variants of the enum.
	Variants []EnumVariant

	// The map of variant names to their indices in the variant list.
	variantIndices map[string]int
}

// EnumVariant represents a single variant of an enum type.
type EnumVariant struct {
	// The name of the variant.
	Name string

	// The payload type carried by the variant.  This is nil for variants
	// carrying no payload.
	Payload Type
}

// NewEnumType creates a new enum type with the given declared variants.
// Variant names are assumed to already be validated as unique.
func NewEnumType(name, modPath string, variants []EnumVariant) *EnumType {
	variantIndices := make(map[string]int, len(variants))
	for i, variant := range variants {
		variantIndices[variant.Name] = i
	}

	return &EnumType{
		NamedTypeBase:  NewNamedTypeBase(name, modPath),
		Variants:       variants,
		variantIndices: variantIndices,
	}
}

// VariantIndex returns the index of the variant with the given name and
// whether such a variant exists.
func (et *EnumType) VariantIndex(name string) (int, bool) {
	ndx, ok := et.variantIndices[name]
	return ndx, ok
}
