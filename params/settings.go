package params

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Settings is the resolved run configuration.
type Settings struct {
	Types          []string `yaml:"types" validate:"required,min=1,dive,required"`
	BuildTags      []string `yaml:"buildTags,omitempty"`
	Output         string   `yaml:"out,omitempty"`
	Input          []string `yaml:"in,omitempty" validate:"dive,required"`
	PackagePattern string   `yaml:"package,omitempty" validate:"required"`
	OutBuildTags   string   `yaml:"outBuildTag,omitempty"`
	TagName        string   `yaml:"tag,omitempty" validate:"required,excludesall= \"`"
	Debug          bool     `yaml:"debug,omitempty"`
}

func ParseSettingsFile(path string) (*Settings, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer file.Close()
	s, err := ParseSettings(file)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return s, nil
}

func ParseSettings(r io.Reader) (*Settings, error) {
	var s Settings
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil && err != io.EOF {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// Settings resolves the config values; a value of the yaml config file is used if the flag is not set explicitly.
func (c *Config) Settings(flagSet *flag.FlagSet) (*Settings, error) {
	s := &Settings{
		Types:          *c.Types,
		BuildTags:      *c.BuildTags,
		Output:         *c.Output,
		Input:          *c.Input,
		PackagePattern: *c.PackagePattern,
		OutBuildTags:   *c.OutBuildTags,
		TagName:        *c.TagName,
		Debug:          *c.Debug,
	}
	if path := *c.ConfigFile; len(path) > 0 {
		file, err := ParseSettingsFile(path)
		if err != nil {
			return nil, err
		}
		s = s.underlay(file, explicitFlags(flagSet))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) underlay(file *Settings, explicit map[string]bool) *Settings {
	s.Types = appendUnique(s.Types, file.Types...)
	s.Input = appendUnique(s.Input, file.Input...)
	if !explicit["buildTag"] && len(file.BuildTags) > 0 {
		s.BuildTags = file.BuildTags
	}
	if !explicit["out"] && len(file.Output) > 0 {
		s.Output = file.Output
	}
	if !explicit["package"] && len(file.PackagePattern) > 0 {
		s.PackagePattern = file.PackagePattern
	}
	if !explicit["outBuildTag"] && len(file.OutBuildTags) > 0 {
		s.OutBuildTags = file.OutBuildTags
	}
	if !explicit["tag"] && len(file.TagName) > 0 {
		s.TagName = file.TagName
	}
	if !explicit["debug"] {
		s.Debug = s.Debug || file.Debug
	}
	return s
}

func explicitFlags(flagSet *flag.FlagSet) map[string]bool {
	explicit := map[string]bool{}
	if flagSet != nil {
		flagSet.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	}
	return explicit
}
