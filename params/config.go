package params

import (
	"flag"

	"github.com/m4gshm/ormaccessor/logger"
	"github.com/m4gshm/ormaccessor/model/entity"
)

const (
	Name                = "ormaccessor"
	DefaultFileSuffix   = "_" + Name + ".go"
	CommentConfigPrefix = "go:" + Name
	DebugEnv            = logger.DebugEnv
)

func NewConfig(flagSet *flag.FlagSet) *Config {
	return &Config{
		Types:          multiVal(flagSet, "type", []string{}, "entity type name; can be repeated, at least one must be set"),
		BuildTags:      multiVal(flagSet, "buildTag", []string{Name}, "include build tag"),
		Output:         flagSet.String("out", "", "output file name; default srcdir/<type>"+DefaultFileSuffix),
		Input:          multiVal(flagSet, "in", []string{}, "go source file"),
		PackagePattern: flagSet.String("package", ".", "used package"),
		OutBuildTags:   flagSet.String("outBuildTag", "", "add build tag to generated file"),
		TagName:        flagSet.String("tag", entity.DefaultTagName, "struct field tag with mapping annotations"),
		ConfigFile:     flagSet.String("config", "", "yaml config file; explicitly set flags take precedence"),
		Debug:          flagSet.Bool("debug", false, "debug logging; also enabled by the "+DebugEnv+" env variable"),
	}
}

func Nolint(flagSet *flag.FlagSet) *bool {
	return flagSet.Bool("nolint", false, "add //nolint comment")
}

type Config struct {
	Types          *[]string
	BuildTags      *[]string
	Output         *string
	Input          *[]string
	PackagePattern *string
	OutBuildTags   *string
	TagName        *string
	ConfigFile     *string
	Debug          *bool
}

// MergeWith fills the unset values by the src ones; type and input lists are joined.
func (c *Config) MergeWith(src *Config) *Config {
	logger.Debugw("config merging", "dest", c, "src", src)
	if src == nil {
		return c
	}
	types := appendUnique(*c.Types, *src.Types...)
	c.Types = &types
	input := appendUnique(*c.Input, *src.Input...)
	c.Input = &input
	if len(*c.Output) == 0 {
		c.Output = src.Output
	}
	if len(*c.OutBuildTags) == 0 {
		c.OutBuildTags = src.OutBuildTags
	}
	if len(*c.ConfigFile) == 0 {
		c.ConfigFile = src.ConfigFile
	}
	if *src.TagName != entity.DefaultTagName {
		c.TagName = src.TagName
	}
	if *src.Debug {
		c.Debug = src.Debug
	}
	logger.Debugw("config merged", "dest", c)
	return c
}

func appendUnique(values []string, elements ...string) []string {
	exists := make(map[string]struct{}, len(values))
	for _, v := range values {
		exists[v] = struct{}{}
	}
	for _, e := range elements {
		if _, ok := exists[e]; !ok {
			exists[e] = struct{}{}
			values = append(values, e)
		}
	}
	return values
}
