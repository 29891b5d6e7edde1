package command

import (
	"flag"

	"github.com/m4gshm/flag/flagenum"
	"github.com/m4gshm/gollections/collection/immutable"
	"github.com/m4gshm/gollections/slice"

	"github.com/m4gshm/ormaccessor/generator"
	"github.com/m4gshm/ormaccessor/logger"
	"github.com/m4gshm/ormaccessor/params"
)

func toString[F ~string](from F) string { return string(from) }
func fromString[F ~string](s string) F  { return F(s) }

type accessorMethod string

const (
	getterMeth     accessorMethod = "getter"
	setterMeth     accessorMethod = "setter"
	collectionMeth accessorMethod = "collection"
)

func NewAccessors() *Command {
	const (
		cmdName = "accessors"
	)
	var (
		flagSet   = flag.NewFlagSet(cmdName, flag.ExitOnError)
		getPrefix = flagSet.String("getter-prefix", generator.DefaultGetterPrefix, "getter methods prefix; '"+generator.Autoname+"' means 'Get' for exported fields and no prefix for others")
		setPrefix = flagSet.String("setter-prefix", generator.DefaultSetterPrefix, "setter methods prefix")
		nolint    = params.Nolint(flagSet)
	)
	allMethods := slice.Of(getterMeth, setterMeth, collectionMeth)
	methods, err := flagenum.Multiple(flagSet, "methods", allMethods, allMethods, fromString[accessorMethod], toString[accessorMethod], "generated methods; 'collection' means add/remove methods of collection relations")
	if err != nil {
		panic(err)
	}
	return New(
		cmdName, "generates getters, setters, add/remove methods for entity types",
		flagSet,
		func(context *Context) error {
			models, err := context.Models()
			if err != nil {
				return err
			}
			selected := immutable.NewSet(*methods...)
			g := context.Generator
			g.GetterPrefix = *getPrefix
			g.SetterPrefix = *setPrefix
			g.Nolint = *nolint
			g.Getters = selected.Contains(getterMeth)
			g.Setters = selected.Contains(setterMeth)
			g.Collections = selected.Contains(collectionMeth)
			for _, model := range models {
				if len(model.Properties) == 0 {
					logger.Infof("no mapped fields in %s", model.TypeName())
					continue
				}
				if err := g.GenerateAccessors(model); err != nil {
					return err
				}
			}
			return nil
		},
	)
}
