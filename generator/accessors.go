package generator

import (
	"go/types"

	"github.com/dave/jennifer/jen"
	"github.com/m4gshm/gollections/collection/mutable"
	"github.com/m4gshm/gollections/op"
	"github.com/pkg/errors"

	"github.com/m4gshm/ormaccessor/logger"
	"github.com/m4gshm/ormaccessor/model/entity"
	"github.com/m4gshm/ormaccessor/model/property"
	"github.com/m4gshm/ormaccessor/model/util"
	"github.com/m4gshm/ormaccessor/unique"
)

type accessors struct {
	g        *Generator
	model    *entity.Model
	receiver string
	// methods holds field names and generated method names of the entity type
	methods *mutable.Set[string]
}

func (a *accessors) property(p *entity.Property) error {
	suffix := IdentName(p.Name, true)
	if a.g.Getters {
		if err := a.getter(p, suffix); err != nil {
			return err
		}
	}
	info := p.Info
	switch {
	case info.IsReference() && p.IsSlice():
		if a.mappedBy(p) || !info.IsCollection() || !info.GenerateSet() {
			logger.Debugf("inverse side collection %s.%s is read only", a.model.TypeName(), p.Name)
		} else if a.g.Collections {
			return a.collection(p, suffix)
		}
	case info.GenerateSet():
		if a.g.Setters {
			return a.setter(p, suffix)
		}
	default:
		logger.Debugf("no setter for %s.%s", a.model.TypeName(), p.Name)
	}
	return nil
}

// mappedBy reports whether the property is the inverse side kept by the owning side of the relation.
func (a *accessors) mappedBy(p *entity.Property) bool {
	return p.Relation != nil && len(p.Relation.MappedBy) > 0
}

func (a *accessors) addMethod(name string) error {
	if !a.methods.AddNew(name) {
		return errors.Errorf("method %s clashes with a field or another method", name)
	}
	return nil
}

func (a *accessors) recv() *jen.Statement {
	return jen.Id(a.receiver).Add(a.ownerType())
}

func (a *accessors) ownerType() *jen.Statement {
	return jen.Op("*").Id(a.model.TypeName())
}

func (a *accessors) field(p *entity.Property) *jen.Statement {
	return jen.Id(a.receiver).Dot(p.Name)
}

func (a *accessors) getterName(p *entity.Property, suffix string) string {
	prefix := a.g.GetterPrefix
	if prefix == Autoname {
		prefix = op.IfElse(suffix == p.Name, "Get", "")
	}
	return IdentName(prefix+suffix, true)
}

// requiredReference is a single not nullable entity reference; its getter fails if the reference is not set.
func (a *accessors) requiredReference(p *entity.Property) bool {
	return p.Info.IsReference() && p.IsPointer() && !p.Info.Nullable()
}

func (a *accessors) getter(p *entity.Property, suffix string) error {
	name := a.getterName(p, suffix)
	if err := a.addMethod(name); err != nil {
		return err
	}
	r := a.receiver
	a.g.nolint()
	if a.requiredReference(p) {
		a.g.file.Func().Params(a.recv()).Id(name).Params().Params(a.g.typeCode(p.Type), jen.Error()).Block(
			jen.If(jen.Id(r).Op("==").Nil().Op("||").Add(a.field(p)).Op("==").Nil()).Block(
				jen.Return(jen.Nil(), jen.Qual(AccessorPkg, "NotFound").Call(jen.Lit(p.Name))),
			),
			jen.Return(a.field(p), jen.Nil()),
		)
		return nil
	}
	a.g.file.Func().Params(a.recv()).Id(name).Params().Add(a.g.typeCode(p.Type)).Block(
		jen.If(jen.Id(r).Op("!=").Nil()).Block(jen.Return(a.field(p))),
		jen.Var().Id("no").Add(a.g.typeCode(p.Type)),
		jen.Return(jen.Id("no")),
	)
	return nil
}

func (a *accessors) setter(p *entity.Property, suffix string) error {
	name := IdentName(a.g.SetterPrefix+suffix, true)
	if err := a.addMethod(name); err != nil {
		return err
	}
	arg := unique.NewNamesWith(unique.PreInit(a.receiver)).Get(LegalIdentName(IdentName(p.Name, false)))
	guards := a.guards(p, arg)
	var body []jen.Code
	if p.IsOwningSide() {
		inverseType, err := a.inverse(p)
		if err != nil {
			return err
		}
		body = append(body, jen.Qual(AccessorPkg, "Relink").Types(a.ownerType(), a.g.typeCode(p.Relation.Related)).Call(
			jen.Id(inverseType).Values(), jen.Id(a.receiver), a.field(p), jen.Id(arg),
		))
	}
	body = append(body, a.field(p).Op("=").Id(arg))

	a.g.nolint()
	fn := a.g.file.Func().Params(a.recv()).Id(name).Params(jen.Id(arg).Add(a.g.typeCode(p.Type)))
	if len(guards) == 0 {
		fn.Block(body...)
		return nil
	}
	fn.Error().Block(append(append(guards, body...), jen.Return(jen.Nil()))...)
	return nil
}

// guards returns the value checks of the setter argument.
func (a *accessors) guards(p *entity.Property, arg string) []jen.Code {
	info := p.Info
	if info.IsReference() {
		return nil
	}
	pointer := p.IsPointer()
	elem := types.Unalias(p.Type)
	if ptr, ok := elem.(*types.Pointer); ok {
		elem = ptr.Elem()
	}
	value := func() *jen.Statement {
		return op.IfElse(pointer, jen.Op("*").Id(arg), jen.Id(arg))
	}
	basic, _ := elem.Underlying().(*types.Basic)

	var checks []jen.Code
	if basic != nil && basic.Info()&types.IsInteger != 0 && info.Type() == property.TypeInteger && needsRangeCheck(basic, info.IntegerSize()) {
		if basic.Info()&types.IsUnsigned != 0 {
			checks = append(checks, check("CheckUnsignedIntegerSize", jen.Lit(p.Name), jen.Uint64().Parens(value()), jen.Lit(info.IntegerSize())))
		} else {
			checks = append(checks, check("CheckIntegerSize", jen.Lit(p.Name), jen.Int64().Parens(value()), jen.Lit(info.IntegerSize())))
		}
	}
	if basic != nil && basic.Info()&types.IsString != 0 && info.Length() > 0 {
		v := op.IfElse(types.Identical(elem, types.Typ[types.String]), value(), jen.String().Parens(value()))
		checks = append(checks, check("CheckLength", jen.Lit(p.Name), v, jen.Lit(info.Length())))
	}
	if info.FixedPointNumber() && info.Precision() > 0 && entity.IsDecimal(elem) {
		checks = append(checks, check("CheckDecimal", jen.Lit(p.Name), value(), jen.Lit(info.Precision()), jen.Lit(info.Scale())))
	}
	if !pointer {
		return checks
	} else if info.Nullable() {
		if len(checks) == 0 {
			return nil
		}
		return []jen.Code{jen.If(jen.Id(arg).Op("!=").Nil()).Block(checks...)}
	}
	return append([]jen.Code{check("CheckNotNil", jen.Lit(p.Name), jen.Id(arg))}, checks...)
}

func check(fn string, args ...jen.Code) jen.Code {
	return jen.If(
		jen.Err().Op(":=").Qual(AccessorPkg, fn).Call(args...),
		jen.Err().Op("!=").Nil(),
	).Block(jen.Return(jen.Err()))
}

// needsRangeCheck reports whether the Go integer type can hold values out of the column range.
// Columns are signed, so an unsigned type of the column width already overflows it.
func needsRangeCheck(basic *types.Basic, columnBits int) bool {
	if columnBits <= 0 {
		return false
	}
	bits, signed := intWidth(basic)
	if !signed {
		return bits >= columnBits
	}
	return columnBits < 64 && bits > columnBits
}

func intWidth(basic *types.Basic) (int, bool) {
	switch basic.Kind() {
	case types.Int8:
		return 8, true
	case types.Int16:
		return 16, true
	case types.Int32:
		return 32, true
	case types.Uint8:
		return 8, false
	case types.Uint16:
		return 16, false
	case types.Uint32:
		return 32, false
	case types.Uint, types.Uint64, types.Uintptr:
		return 64, false
	default:
		return 64, true
	}
}

func (a *accessors) collection(p *entity.Property, suffix string) error {
	elem := p.ElemType()
	if _, ok := types.Unalias(p.Type).Underlying().(*types.Slice); !ok {
		return errors.Errorf("collection field type %s is not a slice", p.Type)
	} else if !types.Comparable(elem) {
		return errors.Errorf("collection element %s is not comparable", elem)
	}
	single := Singular(suffix)
	addName, removeName := "Add"+single, "Remove"+single
	if err := a.addMethod(addName); err != nil {
		return err
	} else if err := a.addMethod(removeName); err != nil {
		return err
	}
	names := unique.NewNamesWith(unique.PreInit(a.receiver))
	arg := names.Get(LegalIdentName(IdentName(single, false)))
	changed := names.Get("changed")

	inverseType := ""
	if p.IsOwningSide() {
		var err error
		if inverseType, err = a.inverse(p); err != nil {
			return err
		}
	}
	emit := func(method, update, link string) {
		var body []jen.Code
		if len(inverseType) == 0 {
			body = append(body, jen.List(a.field(p), jen.Id("_")).Op("=").Qual(AccessorPkg, update).Call(a.field(p), jen.Id(arg)))
		} else {
			body = append(body, jen.Var().Id(changed).Bool(), jen.If(
				jen.List(a.field(p), jen.Id(changed)).Op("=").Qual(AccessorPkg, update).Call(a.field(p), jen.Id(arg)),
				jen.Id(changed),
			).Block(
				jen.Qual(AccessorPkg, link).Types(a.ownerType(), a.g.typeCode(elem)).Call(jen.Id(inverseType).Values(), jen.Id(a.receiver), jen.Id(arg)),
			))
		}
		a.g.nolint()
		a.g.file.Func().Params(a.recv()).Id(method).Params(jen.Id(arg).Add(a.g.typeCode(elem))).Block(body...)
	}
	emit(addName, "AddUnique", "Link")
	emit(removeName, "Remove", "Unlink")
	return nil
}

// inverse generates the implementation of accessor.Inverse that keeps the inverse field of the related entity.
func (a *accessors) inverse(p *entity.Property) (string, error) {
	rel := p.Relation
	inv := rel.Inverse
	owner := types.NewPointer(a.model.Typ)
	if _, ok := types.Unalias(rel.Related).(*types.Pointer); !ok {
		return "", errors.Errorf("owning side relation must refer to an entity pointer, not %s", rel.Related)
	}
	invElem := inv.Type
	if inv.Collection {
		if elem, ok := util.GetElemType(inv.Type); ok {
			invElem = elem
		}
	}
	if !types.Identical(invElem, owner) {
		return "", errors.Errorf("inverse field %s.%s must refer to %s", rel.Target.Obj().Name(), inv.Name, owner)
	} else if rel.Target.Obj().Pkg() != a.model.Package() && !IsExported(inv.Name) {
		return "", errors.Errorf("inverse field %s.%s is not exported", rel.Target.Obj().Name(), inv.Name)
	}
	name := IdentName(a.model.TypeName(), false) + IdentName(p.Name, true) + "Inverse"
	if a.model.Package().Scope().Lookup(name) != nil {
		return "", errors.Errorf("generated type %s clashes with a declaration of package %s", name, a.model.Package().Path())
	} else if err := a.g.addType(name); err != nil {
		return "", err
	}
	inverseField := func(v string) *jen.Statement { return jen.Id(v).Dot(inv.Name) }
	var clear, set jen.Code
	if inv.Collection {
		clear = jen.List(inverseField("old"), jen.Id("_")).Op("=").Qual(AccessorPkg, "Remove").Call(inverseField("old"), jen.Id("owner"))
		set = jen.List(inverseField("related"), jen.Id("_")).Op("=").Qual(AccessorPkg, "AddUnique").Call(inverseField("related"), jen.Id("owner"))
	} else {
		clear = jen.If(inverseField("old").Op("==").Id("owner")).Block(inverseField("old").Op("=").Nil())
		set = inverseField("related").Op("=").Id("owner")
	}
	f := a.g.file
	f.Type().Id(name).Struct()
	f.Var().Id("_").Qual(AccessorPkg, "Inverse").Types(a.ownerType(), a.g.typeCode(rel.Related)).Op("=").Id(name).Values()
	a.g.nolint()
	f.Func().Params(jen.Id(name)).Id("ClearInverse").Params(
		jen.Id("old").Add(a.g.typeCode(rel.Related)), jen.Id("owner").Add(a.ownerType()),
	).Block(clear)
	a.g.nolint()
	f.Func().Params(jen.Id(name)).Id("SetInverse").Params(
		jen.Id("related").Add(a.g.typeCode(rel.Related)), jen.Id("owner").Add(a.ownerType()),
	).Block(set)
	return name, nil
}
