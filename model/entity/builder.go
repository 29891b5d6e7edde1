package entity

import (
	"fmt"
	"go/ast"
	"go/types"
	"reflect"
	"strings"

	"github.com/m4gshm/ormaccessor/annotation"
	"github.com/m4gshm/ormaccessor/logger"
	"github.com/m4gshm/ormaccessor/model/property"
	"github.com/m4gshm/ormaccessor/model/util"
	"github.com/m4gshm/ormaccessor/processor"
	"github.com/m4gshm/ormaccessor/use"
)

type builder struct {
	model   *Model
	tagName string
	parser  *annotation.Parser
}

// New builds the entity model of the struct type; only fields with the tag are mapped.
func New(outPkgPath string, typ util.TypeNamedOrAlias, typFile *ast.File, tagName string) (*Model, error) {
	if len(tagName) == 0 {
		tagName = DefaultTagName
	}
	typStruct, _ := util.GetTypeStruct(typ)
	if typStruct == nil {
		return nil, fmt.Errorf("'%s' is not a struct type", typ.Obj().Name())
	}
	b := &builder{
		model: &Model{
			Typ:        typ,
			TypFile:    typFile,
			OutPkgPath: outPkgPath,
		},
		tagName: tagName,
		parser:  annotation.NewParser(util.Constants(typ.Obj().Pkg())),
	}
	if err := b.populateByStruct(typStruct); err != nil {
		return nil, err
	}
	return b.model, nil
}

func (b *builder) populateByStruct(typ *types.Struct) error {
	typeName := b.model.TypeName()
	for i := 0; i < typ.NumFields(); i++ {
		fieldVar := typ.Field(i)
		fldName := fieldVar.Name()
		tag, ok := reflect.StructTag(typ.Tag(i)).Lookup(b.tagName)
		if !ok {
			logger.Debugf("no '%s' tag, skip field %s.%s", b.tagName, typeName, fldName)
			continue
		} else if fieldVar.Embedded() {
			logger.Debugf("embedded field %s.%s is not supported", typeName, fldName)
			continue
		}
		annotations, err := b.parser.Parse(tag)
		if err != nil {
			return use.FieldErr(typeName, fldName, err)
		}
		p := &Property{
			Name:        fldName,
			Type:        fieldVar.Type(),
			Annotations: annotations,
			Info:        processor.ProcessAll(property.New(), annotations...),
		}
		if p.Relation, err = b.relation(p); err != nil {
			return use.FieldErr(typeName, fldName, err)
		}
		b.checkType(p)
		logger.Debugw("property", "entity", typeName, "field", fldName, "type", p.Info.Type(), "classification", p.Info.Classification())
		b.model.Properties = append(b.model.Properties, p)
	}
	return nil
}

func (b *builder) relation(p *Property) (*Relation, error) {
	var (
		found bool
		r     = &Relation{}
	)
	for _, a := range p.Annotations {
		if rel, ok := annotation.RelationOf(a); ok {
			if found {
				return nil, fmt.Errorf("several relationships: %s and %s", r.Kind, a.Kind())
			}
			found = true
			r.Relation, r.Kind = rel, a.Kind()
		}
	}
	if !found {
		return nil, nil
	}
	r.Related = p.ElemType()
	if target, _ := util.GetTypeNamed(r.Related); target != nil {
		if s, _ := util.GetTypeStruct(target); s != nil {
			r.Target = target
		}
	}
	if r.Target == nil {
		logger.Warnf("related type %s of field %s.%s is not an entity struct", util.TypeString(r.Related, b.model.OutPkgPath), b.model.TypeName(), p.Name)
		return r, nil
	}
	if refName := shortName(p.Info.ReferenceName()); refName != r.Target.Obj().Name() {
		logger.Warnf("target entity %s differs from field type %s of %s.%s", refName, r.Target.Obj().Name(), b.model.TypeName(), p.Name)
	}
	if len(r.InversedBy) > 0 {
		targetStruct, _ := util.GetTypeStruct(r.Target)
		inverse, ok := util.FieldByName(targetStruct, r.InversedBy)
		if !ok {
			return nil, fmt.Errorf("inverse field '%s' not found in %s", r.InversedBy, r.Target.Obj().Name())
		}
		_, collection := util.GetElemType(inverse.Type())
		r.Inverse = &InverseField{Name: inverse.Name(), Type: inverse.Type(), Collection: collection}
	}
	return r, nil
}

func (b *builder) checkType(p *Property) {
	info := p.Info
	if info.IsReference() || len(info.Type()) == 0 {
		return
	}
	typ := types.Unalias(p.Type)
	if ptr, ok := typ.(*types.Pointer); ok {
		typ = ptr.Elem()
	}
	if !semanticTypeMatches(info, typ) {
		logger.Warnf("field %s.%s of type %s is mapped to %s", b.model.TypeName(), p.Name, util.TypeString(p.Type, b.model.OutPkgPath), info.Type())
	}
}

func semanticTypeMatches(info *property.Info, typ types.Type) bool {
	basic, _ := typ.Underlying().(*types.Basic)
	isBasic := func(flag types.BasicInfo) bool { return basic != nil && basic.Info()&flag != 0 }
	switch info.Type() {
	case property.TypeInteger:
		return isBasic(types.IsInteger)
	case property.TypeFloat:
		return isBasic(types.IsFloat) || (info.FixedPointNumber() && IsDecimal(typ))
	case property.TypeString:
		return isBasic(types.IsString)
	case property.TypeBoolean:
		return isBasic(types.IsBoolean)
	case property.TypeDateTime:
		return isNamed(typ, "time", "Time")
	default:
		return true
	}
}

// IsDecimal reports whether the type is shopspring decimal.Decimal.
func IsDecimal(typ types.Type) bool {
	return isNamed(typ, "github.com/shopspring/decimal", "Decimal")
}

func isNamed(typ types.Type, pkgPath, name string) bool {
	named, ok := types.Unalias(typ).(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == pkgPath && obj.Name() == name
}

func shortName(referenceName string) string {
	if i := strings.LastIndex(referenceName, property.ReferenceMarker); i >= 0 {
		return referenceName[i+1:]
	}
	return referenceName
}
