package command

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/m4gshm/gollections/slice"
	"gopkg.in/yaml.v3"

	"github.com/m4gshm/ormaccessor/annotation"
	"github.com/m4gshm/ormaccessor/model/entity"
	"github.com/m4gshm/ormaccessor/model/property"
	"github.com/m4gshm/ormaccessor/model/util"
)

type (
	entityView struct {
		Entity     string         `yaml:"entity"`
		Package    string         `yaml:"package"`
		Properties []propertyView `yaml:"properties"`
	}
	propertyView struct {
		Name        string         `yaml:"name"`
		GoType      string         `yaml:"goType"`
		Annotations []string       `yaml:"annotations,flow"`
		Info        *property.Info `yaml:"info"`
		Relation    *relationView  `yaml:"relation,omitempty"`
	}
	relationView struct {
		Kind       string `yaml:"kind"`
		Target     string `yaml:"target"`
		MappedBy   string `yaml:"mappedBy,omitempty"`
		InversedBy string `yaml:"inversedBy,omitempty"`
		Owning     bool   `yaml:"owning"`
	}
)

func NewDescribe() *Command {
	const (
		cmdName = "describe"
	)
	var (
		flagSet = flag.NewFlagSet(cmdName, flag.ExitOnError)
		out     = flagSet.String("out", "", "output yaml file; stdout by default")
	)
	return New(
		cmdName, "prints the property metadata of entity types as yaml",
		flagSet,
		func(context *Context) error {
			models, err := context.Models()
			if err != nil {
				return err
			}
			if len(*out) == 0 {
				return Describe(context.Out, models)
			}
			file, err := os.Create(*out)
			if err != nil {
				return fmt.Errorf("describe output: %w", err)
			}
			defer file.Close()
			return Describe(file, models)
		},
	)
}

// Describe writes the models as a yaml sequence.
func Describe(w io.Writer, models []*entity.Model) error {
	if w == nil {
		w = os.Stdout
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(slice.Convert(models, newEntityView)); err != nil {
		return fmt.Errorf("encode describe output: %w", err)
	}
	return encoder.Close()
}

func newEntityView(m *entity.Model) entityView {
	pkgPath := m.Package().Path()
	return entityView{
		Entity:  m.TypeName(),
		Package: pkgPath,
		Properties: slice.Convert(m.Properties, func(p *entity.Property) propertyView {
			return propertyView{
				Name:   p.Name,
				GoType: util.TypeString(p.Type, pkgPath),
				Annotations: slice.Convert(p.Annotations, func(a annotation.Annotation) string {
					return string(a.Kind())
				}),
				Info:     p.Info,
				Relation: newRelationView(p),
			}
		}),
	}
}

func newRelationView(p *entity.Property) *relationView {
	r := p.Relation
	if r == nil {
		return nil
	}
	return &relationView{
		Kind:       string(r.Kind),
		Target:     p.Info.ReferenceName(),
		MappedBy:   r.MappedBy,
		InversedBy: r.InversedBy,
		Owning:     p.IsOwningSide(),
	}
}
