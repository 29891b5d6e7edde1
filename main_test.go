package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseCommands(t *testing.T) {
	commands, args, err := parseCommands(nil)
	require.NoError(t, err)
	require.Len(t, commands, 1)
	assert.Equal(t, "accessors", commands[0].Name())
	assert.Empty(t, args)

	commands, args, err = parseCommands([]string{"describe", "accessors", "-nolint", "./shop"})
	require.NoError(t, err)
	require.Len(t, commands, 2)
	assert.Equal(t, "describe", commands[0].Name())
	assert.Equal(t, "accessors", commands[1].Name())
	assert.Equal(t, []string{"./shop"}, args)

	_, _, err = parseCommands([]string{"unknown", "./shop"})
	assert.ErrorContains(t, err, "unexpected arguments")
}

func Test_newFilesCommentsConfig(t *testing.T) {
	fileSet := token.NewFileSet()
	file, err := parser.ParseFile(fileSet, "shop.go", `package shop

//go:generate ormaccessor
//go:ormaccessor -type Cart -tag db
//go:ormaccessor -type Customer

// Cart is a shop cart.
type Cart struct{}
`, parser.ParseComments)
	require.NoError(t, err)

	config, err := newFilesCommentsConfig([]*ast.File{file})
	require.NoError(t, err)
	require.NotNil(t, config)
	assert.Equal(t, []string{"Cart", "Customer"}, *config.Types)
	assert.Equal(t, "db", *config.TagName)

	config, err = newConfigComment("//go:ormaccessor -unknown")
	assert.Error(t, err)
	assert.Nil(t, config)

	config, err = newConfigComment("// regular comment")
	assert.NoError(t, err)
	assert.Nil(t, config)
}

func Test_outDir(t *testing.T) {
	dir, err := outDir(nil)
	require.NoError(t, err)
	assert.Empty(t, dir)

	tmp := t.TempDir()
	dir, err = outDir([]string{tmp})
	require.NoError(t, err)
	assert.Equal(t, tmp, dir)

	_, err = outDir([]string{filepath.Join(tmp, "absent")})
	assert.Error(t, err)
}
