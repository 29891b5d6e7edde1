package command

import (
	"fmt"
	"go/token"
	"io"

	"golang.org/x/tools/go/packages"

	"github.com/m4gshm/ormaccessor/generator"
	"github.com/m4gshm/ormaccessor/model/entity"
	"github.com/m4gshm/ormaccessor/model/util"
	"github.com/m4gshm/ormaccessor/params"
	"github.com/m4gshm/ormaccessor/use"
)

type Context struct {
	Settings  *params.Settings
	Generator *generator.Generator
	Packages  []*packages.Package
	FileSet   *token.FileSet
	// Out receives the command reports, like the describe output
	Out    io.Writer
	models []*entity.Model
}

// Models builds the entity models of all configured types.
func (c *Context) Models() ([]*entity.Model, error) {
	if c.models != nil {
		return c.models, nil
	}
	if len(c.Settings.Types) == 0 {
		return nil, use.Err("no type arg")
	}
	models := make([]*entity.Model, 0, len(c.Settings.Types))
	for _, typeName := range c.Settings.Types {
		typ, _, typFile, err := util.FindTypePackageFile(typeName, c.FileSet, c.Packages)
		if err != nil {
			return nil, err
		} else if typ == nil {
			return nil, use.Err(fmt.Sprintf("type not found, %s", typeName))
		}
		model, err := entity.New(c.Generator.OutPkgPath, typ, typFile, c.Settings.TagName)
		if err != nil {
			return nil, err
		}
		models = append(models, model)
	}
	c.models = models
	return models, nil
}
