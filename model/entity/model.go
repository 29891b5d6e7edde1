package entity

import (
	"go/ast"
	"go/types"

	"github.com/m4gshm/ormaccessor/annotation"
	"github.com/m4gshm/ormaccessor/model/property"
	"github.com/m4gshm/ormaccessor/model/util"
)

const DefaultTagName = "orm"

type (
	// Model is an entity struct type with its mapped properties.
	Model struct {
		Typ        util.TypeNamedOrAlias
		TypFile    *ast.File
		OutPkgPath string
		Properties []*Property
	}

	Property struct {
		Name        string
		Type        types.Type
		Annotations []annotation.Annotation
		Info        *property.Info
		Relation    *Relation
	}

	Relation struct {
		annotation.Relation
		Kind annotation.Kind
		// Related is the Go type of one related entity, like *Customer.
		Related types.Type
		// Target is the struct type of the related entity; nil if it is not a struct.
		Target  util.TypeNamedOrAlias
		Inverse *InverseField
	}

	// InverseField is the field of the related entity that refers back to the owner.
	InverseField struct {
		Name       string
		Type       types.Type
		Collection bool
	}
)

func (m *Model) Package() *types.Package {
	return m.Typ.Obj().Pkg()
}

func (m *Model) TypeName() string {
	return m.Typ.Obj().Name()
}

func (m *Model) Property(name string) (*Property, bool) {
	for _, p := range m.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// IsSlice reports whether the Go field holds many values.
func (p *Property) IsSlice() bool {
	_, ok := util.GetElemType(p.Type)
	return ok
}

// IsPointer reports whether the Go field is a pointer.
func (p *Property) IsPointer() bool {
	_, ok := types.Unalias(p.Type).(*types.Pointer)
	return ok
}

// ElemType returns the slice element type or the field type itself.
func (p *Property) ElemType() types.Type {
	if elem, ok := util.GetElemType(p.Type); ok {
		return elem
	}
	return p.Type
}

// IsOwningSide reports whether the accessors of the property must update the inverse side.
func (p *Property) IsOwningSide() bool {
	return p.Relation != nil && p.Relation.Inverse != nil
}
