// Package typecheck type-checks in-memory sources; used by tests of the model and generator packages.
package typecheck

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"

	"github.com/m4gshm/ormaccessor/model/util"
)

// Stubs are minimal sources of the packages entity sources usually import.
var Stubs = map[string]string{
	"time": `package time

type Time struct{ wall uint64 }
`,
	"github.com/shopspring/decimal": `package decimal

type Decimal struct{ value *int; exp int32 }
`,
}

type Result struct {
	FileSet *token.FileSet
	File    *ast.File
	Pkg     *types.Package
}

// Lookup finds the named type declared in the checked package.
func (r *Result) Lookup(typeName string) (util.TypeNamedOrAlias, error) {
	obj := r.Pkg.Scope().Lookup(typeName)
	if obj == nil {
		return nil, fmt.Errorf("type %s not found", typeName)
	}
	named, _ := util.GetTypeNamed(obj.Type())
	if named == nil {
		return nil, fmt.Errorf("%s is not a named type", typeName)
	}
	return named, nil
}

// Check type-checks the source as the package with the path; imports are resolved by Stubs.
func Check(pkgPath, src string) (*Result, error) {
	fileSet := token.NewFileSet()
	imp := &importer{fileSet: fileSet, pkgs: map[string]*types.Package{}}
	file, err := parser.ParseFile(fileSet, "entity.go", src, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	pkg, err := (&types.Config{Importer: imp}).Check(pkgPath, fileSet, []*ast.File{file}, nil)
	if err != nil {
		return nil, err
	}
	return &Result{FileSet: fileSet, File: file, Pkg: pkg}, nil
}

type importer struct {
	fileSet *token.FileSet
	pkgs    map[string]*types.Package
}

func (i *importer) Import(path string) (*types.Package, error) {
	if pkg, ok := i.pkgs[path]; ok {
		return pkg, nil
	}
	src, ok := Stubs[path]
	if !ok {
		return nil, fmt.Errorf("no stub for package %s", path)
	}
	file, err := parser.ParseFile(i.fileSet, path+".go", src, 0)
	if err != nil {
		return nil, err
	}
	pkg, err := (&types.Config{Importer: i}).Check(path, i.fileSet, []*ast.File{file}, nil)
	if err != nil {
		return nil, err
	}
	i.pkgs[path] = pkg
	return pkg, nil
}
