package generator

import (
	"bytes"
	"fmt"
	"go/types"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/m4gshm/gollections/collection/mutable"
	"github.com/m4gshm/gollections/op"
	"github.com/pkg/errors"

	"github.com/m4gshm/ormaccessor/logger"
	"github.com/m4gshm/ormaccessor/model/entity"
	"github.com/m4gshm/ormaccessor/model/util"
)

// AccessorPkg is the runtime package used by generated code.
const AccessorPkg = "github.com/m4gshm/ormaccessor/accessor"

const (
	DefaultGetterPrefix = Autoname
	DefaultSetterPrefix = "Set"
)

type Generator struct {
	Name         string
	Args         []string
	OutPkgPath   string
	GetterPrefix string
	SetterPrefix string
	Nolint       bool

	// Getters, Setters and Collections select generated method kinds; Collections stands for add/remove methods.
	Getters     bool
	Setters     bool
	Collections bool

	file      *jen.File
	typeNames *mutable.Set[string]
	generated bool
}

func New(name string, args []string, outPkgPath, outPkgName string) *Generator {
	file := jen.NewFilePathName(outPkgPath, outPkgName)
	file.HeaderComment(fmt.Sprintf("Code generated by '%s'; DO NOT EDIT.", strings.TrimSpace(name+" "+strings.Join(args, " "))))
	file.ImportName(AccessorPkg, "accessor")
	return &Generator{
		Name:         name,
		Args:         args,
		OutPkgPath:   outPkgPath,
		GetterPrefix: DefaultGetterPrefix,
		SetterPrefix: DefaultSetterPrefix,
		Getters:      true,
		Setters:      true,
		Collections:  true,
		file:         file,
		typeNames:    mutable.NewSet[string](),
	}
}

// BuildTag adds the build constraint to the generated file.
func (g *Generator) BuildTag(constraint string) {
	if len(constraint) > 0 {
		g.file.HeaderComment("//go:build " + constraint)
	}
}

// Src renders the formatted generated file.
func (g *Generator) Src() ([]byte, error) {
	buf := bytes.Buffer{}
	if err := g.file.Render(&buf); err != nil {
		return nil, errors.Wrap(err, "render generated source")
	}
	return buf.Bytes(), nil
}

// GenerateAccessors adds accessor methods of all mapped properties of the entity.
func (g *Generator) GenerateAccessors(model *entity.Model) error {
	typeName := model.TypeName()
	if tparams := model.Typ.TypeParams(); tparams != nil && tparams.Len() > 0 {
		return errors.Errorf("generic entity %s is not supported", typeName)
	} else if entityPkg := model.Package().Path(); entityPkg != g.OutPkgPath {
		return errors.Errorf("entity %s of package %s must be generated into the same package, not %s", typeName, entityPkg, g.OutPkgPath)
	} else if !g.typeNames.AddNew(typeName) {
		return errors.Errorf("accessors of %s are already generated", typeName)
	}
	a := &accessors{
		g:        g,
		model:    model,
		receiver: TypeReceiverVar(typeName),
		methods:  mutable.NewSet[string](),
	}
	if s, _ := util.GetTypeStruct(model.Typ); s != nil {
		for i := 0; i < s.NumFields(); i++ {
			a.methods.Add(s.Field(i).Name())
		}
	}
	logger.Debugf("generate accessors: type %s, receiver %s, getterPrefix %s, setterPrefix %s", typeName, a.receiver, g.GetterPrefix, g.SetterPrefix)
	for _, p := range model.Properties {
		if err := a.property(p); err != nil {
			return errors.Wrapf(err, "%s.%s", typeName, p.Name)
		}
		g.generated = true
	}
	return nil
}

// Empty reports whether no accessor was generated.
func (g *Generator) Empty() bool {
	return !g.generated
}

func (g *Generator) addType(name string) error {
	if !g.typeNames.AddNew(name) {
		return errors.Errorf("type %s is already generated", name)
	}
	return nil
}

func (g *Generator) nolint() {
	if g.Nolint {
		g.file.Comment("//nolint")
	}
}

// typeCode converts the type to code; imported packages are qualified.
func (g *Generator) typeCode(typ types.Type) jen.Code {
	switch t := typ.(type) {
	case *types.Named:
		return g.namedCode(t.Obj(), t.TypeArgs())
	case *types.Alias:
		return g.namedCode(t.Obj(), t.TypeArgs())
	case *types.Pointer:
		return jen.Op("*").Add(g.typeCode(t.Elem()))
	case *types.Slice:
		return jen.Index().Add(g.typeCode(t.Elem()))
	case *types.Array:
		return jen.Index(jen.Lit(int(t.Len()))).Add(g.typeCode(t.Elem()))
	case *types.Map:
		return jen.Map(g.typeCode(t.Key())).Add(g.typeCode(t.Elem()))
	case *types.Basic:
		return jen.Id(t.Name())
	default:
		return jen.Id(util.TypeString(typ, g.OutPkgPath))
	}
}

func (g *Generator) namedCode(obj *types.TypeName, args *types.TypeList) jen.Code {
	pkg := obj.Pkg()
	code := op.IfElse(pkg == nil || pkg.Path() == g.OutPkgPath, jen.Id(obj.Name()), jen.Qual(pkgPath(pkg), obj.Name()))
	if args != nil && args.Len() > 0 {
		typeArgs := make([]jen.Code, args.Len())
		for i := range typeArgs {
			typeArgs[i] = g.typeCode(args.At(i))
		}
		code = code.Types(typeArgs...)
	}
	return code
}

func pkgPath(pkg *types.Package) string {
	if pkg == nil {
		return ""
	}
	return pkg.Path()
}
