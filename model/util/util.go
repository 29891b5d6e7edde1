package util

import (
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"

	"github.com/m4gshm/gollections/expr/use"
	"github.com/m4gshm/gollections/op"
	"github.com/m4gshm/gollections/slice"
	"golang.org/x/tools/go/packages"

	"github.com/m4gshm/ormaccessor/logger"
)

const packageMode = packages.NeedSyntax | packages.NeedName | packages.NeedTypesInfo | packages.NeedTypes | packages.NeedModule

func ExtractPackages(fileSet *token.FileSet, buildTags []string, fileName string) ([]*packages.Package, error) {
	if dir, err := GetDir(fileName); err != nil {
		return nil, err
	} else if pkgs, err := packages.Load(&packages.Config{
		Dir:        dir,
		Fset:       fileSet,
		Mode:       packageMode,
		BuildFlags: buildTagsArg(buildTags),
		Logf:       func(format string, args ...any) { logger.Debugf("packagesLoad: "+format, args...) },
	}, "."); err != nil {
		return nil, err
	} else {
		for _, pkg := range pkgs {
			for _, pkgErr := range pkg.Errors {
				logger.Debugf("package %s error; %v", pkg.PkgPath, pkgErr)
			}
		}
		return pkgs, nil
	}
}

func buildTagsArg(buildTags []string) []string {
	return []string{fmt.Sprintf("-tags=%s", strings.Join(buildTags, " "))}
}

func GetDir(fileName string) (string, error) {
	fileStat, err := os.Stat(fileName)
	isNoExists := errors.Is(err, os.ErrNotExist)
	if !isNoExists && err != nil {
		return "", err
	}
	return use.If(!isNoExists && fileStat.IsDir(), fileName).ElseGet(func() string { return filepath.Dir(fileName) }), nil
}

func FindTypePackageFile(typeName string, fileSet *token.FileSet, pkgs []*packages.Package) (TypeNamedOrAlias, *packages.Package, *ast.File, error) {
	for _, pkg := range pkgs {
		if lookup := pkg.Types.Scope().Lookup(typeName); lookup == nil {
			logger.Debugf("no type '%s' in package '%s'", typeName, pkg.Types.Name())
			continue
		} else if typeNamed, _ := GetTypeNamed(lookup.Type()); typeNamed == nil {
			return nil, nil, nil, fmt.Errorf("cannot detect type '%s'", typeName)
		} else {
			logger.Debugf("look package '%s', syntax file count %d", pkg.Name, len(pkg.Syntax))
			typFile, err := FindTypeFile(typeNamed, fileSet, pkg.Syntax)
			return typeNamed, pkg, typFile, err
		}
	}
	return nil, nil, nil, nil
}

func FindTypeFile(typeNamed TypeNamedOrAlias, fileSet *token.FileSet, files []*ast.File) (*ast.File, error) {
	typeObj := typeNamed.Obj()
	typTokenFile := fileSet.File(typeObj.Pos())
	if typTokenFile == nil {
		return nil, fmt.Errorf("type's position not found: type %s", typeObj.Id())
	}

	typFile, ok := slice.First(files, func(p *ast.File) bool {
		start := typTokenFile.Base()
		return p.FileStart == token.Pos(start) && p.FileEnd == token.Pos(start+typTokenFile.Size())
	})
	if !ok {
		return nil, fmt.Errorf("type's file not found: type %s", typeObj.Id())
	}
	logger.Debugf("found type file (type [%s], file [%s])'", typeObj.Id(), typTokenFile.Name())
	return typFile, nil
}

type TypeNamedOrAlias interface {
	types.Type
	Underlying() types.Type
	Obj() *types.TypeName
	TypeParams() *types.TypeParamList
}

var _ TypeNamedOrAlias = (*types.Named)(nil)
var _ TypeNamedOrAlias = (*types.Alias)(nil)

func GetTypeNamed(typ types.Type) (TypeNamedOrAlias, int) {
	switch ftt := typ.(type) {
	case *types.Named:
		return ftt, 0
	case *types.Alias:
		return ftt, 0
	case *types.Pointer:
		t, p := GetTypeNamed(ftt.Elem())
		return t, p + 1
	default:
		return nil, 0
	}
}

// GetElemType returns the element type of a slice or array and false otherwise.
func GetElemType(typ types.Type) (types.Type, bool) {
	switch t := types.Unalias(typ).Underlying().(type) {
	case *types.Slice:
		return t.Elem(), true
	case *types.Array:
		return t.Elem(), true
	default:
		return nil, false
	}
}

func GetTypeStruct(t types.Type) (*types.Struct, int) {
	return getType[*types.Struct](t, 1000)
}

func getType[T types.Type](t types.Type, depth int) (T, int) {
	if depth < 0 {
		panic(fmt.Sprintf("getType overflow %v", t))
	}
	var zero T
	switch tt := t.(type) {
	case T:
		return tt, 0
	case *types.Pointer:
		s, pc := getType[T](tt.Elem(), depth-1)
		return s, pc + 1
	case types.Type:
		underlying := tt.Underlying()
		if underlying == t {
			return zero, 0
		}
		return getType[T](underlying, depth-1)
	default:
		return zero, 0
	}
}

// FieldByName finds a direct field of the struct.
func FieldByName(s *types.Struct, name string) (*types.Var, bool) {
	for i := 0; i < s.NumFields(); i++ {
		if f := s.Field(i); f.Name() == name {
			return f, true
		}
	}
	return nil, false
}

// Constants returns the package level constants converted to Go values.
func Constants(pkg *types.Package) map[string]any {
	result := map[string]any{}
	if pkg == nil {
		return result
	}
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok {
			continue
		}
		val := c.Val()
		switch val.Kind() {
		case constant.Bool:
			result[name] = constant.BoolVal(val)
		case constant.String:
			result[name] = constant.StringVal(val)
		case constant.Int:
			if i, exact := constant.Int64Val(val); exact {
				result[name] = int(i)
			}
		case constant.Float:
			f, _ := constant.Float64Val(val)
			result[name] = f
		}
	}
	return result
}

func TypeString(typ types.Type, outPkgPath string) string {
	return types.TypeString(typ, basePackQ(outPkgPath))
}

func basePackQ(outPkgPath string) func(p *types.Package) string {
	return func(p *types.Package) string {
		return op.IfElse(p.Path() == outPkgPath, "", p.Name())
	}
}
