package util

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const src = `package shop

const (
	NameLen = 64
	Currency = "EUR"
	Strict = true
	Ratio = 0.5
	Huge = 1 << 70
)

type Item struct {
	Name  string
	Price *int
}

type Items []*Item

type Ref = *Item
`

func check(t *testing.T) (*types.Package, *token.FileSet, *ast.File) {
	fileSet := token.NewFileSet()
	file, err := parser.ParseFile(fileSet, "shop.go", src, parser.ParseComments)
	require.NoError(t, err)
	pkg, err := (&types.Config{Importer: importer.Default()}).Check("example.com/shop", fileSet, []*ast.File{file}, nil)
	require.NoError(t, err)
	return pkg, fileSet, file
}

func Test_Constants(t *testing.T) {
	pkg, _, _ := check(t)
	constants := Constants(pkg)
	assert.Equal(t, 64, constants["NameLen"])
	assert.Equal(t, "EUR", constants["Currency"])
	assert.Equal(t, true, constants["Strict"])
	assert.Equal(t, 0.5, constants["Ratio"])
	assert.NotContains(t, constants, "Huge")
	assert.NotContains(t, constants, "Item")
	assert.Empty(t, Constants(nil))
}

func Test_TypeHelpers(t *testing.T) {
	pkg, fileSet, file := check(t)

	item := pkg.Scope().Lookup("Item").Type()
	named, refs := GetTypeNamed(types.NewPointer(item))
	require.NotNil(t, named)
	assert.Equal(t, "Item", named.Obj().Name())
	assert.Equal(t, 1, refs)

	s, _ := GetTypeStruct(item)
	require.NotNil(t, s)
	price, ok := FieldByName(s, "Price")
	require.True(t, ok)
	assert.Equal(t, "*int", TypeString(price.Type(), pkg.Path()))
	_, ok = FieldByName(s, "Absent")
	assert.False(t, ok)

	elem, ok := GetElemType(pkg.Scope().Lookup("Items").Type())
	require.True(t, ok)
	assert.Equal(t, "*Item", TypeString(elem, pkg.Path()))
	assert.Equal(t, "*shop.Item", TypeString(elem, "other"))
	_, ok = GetElemType(item)
	assert.False(t, ok)

	typFile, err := FindTypeFile(named, fileSet, []*ast.File{file})
	require.NoError(t, err)
	assert.Same(t, file, typFile)
}
