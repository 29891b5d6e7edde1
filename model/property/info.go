package property

import "strings"

// ReferenceMarker prefixes fully-qualified entity reference names.
const ReferenceMarker = `\`

// Semantic value types produced from column types.
const (
	TypeBoolean  = "boolean"
	TypeInteger  = "integer"
	TypeFloat    = "float"
	TypeString   = "string"
	TypeResource = "resource"
	TypeDateTime = "datetime"
	TypeArray    = "array"
	TypeObject   = "object"
)

type Classification int

const (
	Scalar Classification = iota
	Reference
	ReferenceCollection
)

func (c Classification) String() string {
	switch c {
	case Reference:
		return "reference"
	case ReferenceCollection:
		return "reference-collection"
	default:
		return "scalar"
	}
}

// Info accumulates the metadata of one entity property.
// Setters do no cross-field validation.
type Info struct {
	typ              string
	reference        bool
	nullable         bool
	unique           bool
	length           int
	precision        int
	scale            int
	fixedPointNumber bool
	integerSize      int
	collection       bool
	generateSet      bool
}

func New() *Info {
	return &Info{generateSet: true}
}

func (i *Info) Type() string {
	return i.typ
}

// SetType stores the type name; a name starting with ReferenceMarker marks the property as an entity reference.
func (i *Info) SetType(typ string) {
	i.typ = typ
	i.reference = strings.HasPrefix(typ, ReferenceMarker)
}

func (i *Info) IsReference() bool {
	return i.reference
}

// ReferenceName returns the reference type name without the marker.
func (i *Info) ReferenceName() string {
	if !i.reference {
		return ""
	}
	return strings.TrimPrefix(i.typ, ReferenceMarker)
}

func (i *Info) Nullable() bool {
	return i.nullable
}
func (i *Info) SetNullable(nullable bool) {
	i.nullable = nullable
}

func (i *Info) Unique() bool {
	return i.unique
}
func (i *Info) SetUnique(unique bool) {
	i.unique = unique
}

func (i *Info) Length() int {
	return i.length
}
func (i *Info) SetLength(length int) {
	i.length = length
}

func (i *Info) Precision() int {
	return i.precision
}
func (i *Info) SetPrecision(precision int) {
	i.precision = precision
}

func (i *Info) Scale() int {
	return i.scale
}
func (i *Info) SetScale(scale int) {
	i.scale = scale
}

func (i *Info) FixedPointNumber() bool {
	return i.fixedPointNumber
}
func (i *Info) SetFixedPointNumber(fixedPointNumber bool) {
	i.fixedPointNumber = fixedPointNumber
}

// IntegerSize is the bit width used by setter range checks; meaningful only for the integer type.
func (i *Info) IntegerSize() int {
	return i.integerSize
}
func (i *Info) SetIntegerSize(integerSize int) {
	i.integerSize = integerSize
}

func (i *Info) IsCollection() bool {
	return i.collection
}
func (i *Info) SetCollection(collection bool) {
	i.collection = collection
}

func (i *Info) GenerateSet() bool {
	return i.generateSet
}
func (i *Info) SetGenerateSet(generateSet bool) {
	i.generateSet = generateSet
}

func (i *Info) Classification() Classification {
	if !i.reference {
		return Scalar
	} else if i.collection {
		return ReferenceCollection
	}
	return Reference
}

type yamlView struct {
	Type             string `yaml:"type,omitempty"`
	Classification   string `yaml:"classification"`
	Nullable         bool   `yaml:"nullable"`
	Unique           bool   `yaml:"unique"`
	Length           int    `yaml:"length,omitempty"`
	FixedPointNumber bool   `yaml:"fixedPointNumber,omitempty"`
	Precision        int    `yaml:"precision,omitempty"`
	Scale            int    `yaml:"scale,omitempty"`
	IntegerSize      int    `yaml:"integerSize,omitempty"`
	Collection       bool   `yaml:"collection"`
	GenerateSet      bool   `yaml:"generateSet"`
}

func (i *Info) MarshalYAML() (any, error) {
	v := yamlView{
		Type:             i.typ,
		Classification:   i.Classification().String(),
		Nullable:         i.nullable,
		Unique:           i.unique,
		Length:           i.length,
		FixedPointNumber: i.fixedPointNumber,
		Collection:       i.collection,
		GenerateSet:      i.generateSet,
	}
	if i.fixedPointNumber {
		v.Precision, v.Scale = i.precision, i.scale
	}
	if i.typ == TypeInteger {
		v.IntegerSize = i.integerSize
	}
	return v, nil
}
