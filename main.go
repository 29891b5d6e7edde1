package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/token"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/m4gshm/gollections/slice"
	"golang.org/x/tools/go/packages"

	"github.com/m4gshm/ormaccessor/command"
	"github.com/m4gshm/ormaccessor/generator"
	"github.com/m4gshm/ormaccessor/logger"
	"github.com/m4gshm/ormaccessor/model/util"
	"github.com/m4gshm/ormaccessor/params"
)

func usage() {
	out := flag.CommandLine.Output()
	_, _ = fmt.Fprintf(out, "Usage of %s:\n", params.Name)
	_, _ = fmt.Fprintf(out, "\t%s [flags] -type T [-type T2] [command [command flags]]... [directory]\n", params.Name)
	_, _ = fmt.Fprintf(out, "Flags:\n")
	flag.PrintDefaults()
	command.PrintUsage()
}

func main() {
	log.SetPrefix(params.Name + ": ")
	log.SetFlags(0)

	config := params.NewConfig(flag.CommandLine)
	flag.Usage = usage
	flag.Parse()

	logger.Init(*config.Debug)
	defer logger.Sync()

	if err := run(config, flag.CommandLine, flag.Args()); err != nil {
		logger.Sync()
		log.Fatal(err)
	}
}

func run(config *params.Config, flagSet *flag.FlagSet, args []string) error {
	commands, args, err := parseCommands(args)
	if err != nil {
		return err
	}
	if outputDir, err := outDir(args); err != nil {
		return err
	} else if len(outputDir) > 0 {
		if err := os.Chdir(outputDir); err != nil {
			return fmt.Errorf("out dir error: %w", err)
		}
	}

	fileSet := token.NewFileSet()
	pkgs, err := util.ExtractPackages(fileSet, *config.BuildTags, *config.PackagePattern)
	if err != nil {
		return err
	} else if len(pkgs) == 0 {
		return fmt.Errorf("no package found by '%s'", *config.PackagePattern)
	}

	commentConfig, err := newFilesCommentsConfig(syntax(pkgs))
	if err != nil {
		return err
	}
	settings, err := config.MergeWith(commentConfig).Settings(flagSet)
	if err != nil {
		return err
	}
	if settings.Debug && !*config.Debug {
		logger.Init(true)
	}
	logger.Debugw("using", "settings", settings)

	if pkgs, err = loadInputs(fileSet, settings.BuildTags, pkgs, settings.Input); err != nil {
		return err
	}

	outputName := settings.Output
	if len(outputName) == 0 {
		outputName = strings.ToLower(settings.Types[0] + params.DefaultFileSuffix)
	}
	if outputName, err = filepath.Abs(outputName); err != nil {
		return err
	}
	outPkg, err := outPackage(fileSet, settings.BuildTags, pkgs, outputName)
	if err != nil {
		return err
	}

	g := generator.New(params.Name, os.Args[1:], outPkg.PkgPath, outPkg.Name)
	g.BuildTag(settings.OutBuildTags)
	context := &command.Context{
		Settings:  settings,
		Generator: g,
		Packages:  pkgs,
		FileSet:   fileSet,
		Out:       os.Stdout,
	}
	for _, c := range commands {
		logger.Debugf("run command %s", c.Name())
		if err := c.Run(context); err != nil {
			return fmt.Errorf("command %s: %w", c.Name(), err)
		}
	}
	if g.Empty() {
		logger.Debugf("no accessors generated, skip writing %s", outputName)
		return nil
	}
	src, err := g.Src()
	if err != nil {
		return err
	}
	const userWriteOtherRead = fs.FileMode(0644)
	if err := os.WriteFile(outputName, src, userWriteOtherRead); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	logger.Infof("generated %s", outputName)
	return nil
}

// parseCommands reads the sequence of commands with their flags; the accessors command is used if none is set.
func parseCommands(args []string) ([]*command.Command, []string, error) {
	var commands []*command.Command
	for len(args) > 0 {
		c := command.Get(args[0])
		if c == nil {
			break
		}
		rest, err := c.Parse(args[1:])
		if err != nil {
			return nil, nil, err
		}
		commands = append(commands, c)
		args = rest
	}
	if len(commands) == 0 {
		commands = append(commands, command.Default())
	}
	if len(args) > 1 {
		return nil, nil, fmt.Errorf("unexpected arguments %v; supported commands %v", args, command.Supported())
	}
	return commands, args, nil
}

func syntax(pkgs []*packages.Package) []*ast.File {
	var files []*ast.File
	for _, pkg := range pkgs {
		files = append(files, pkg.Syntax...)
	}
	return files
}

func loadInputs(fileSet *token.FileSet, buildTags []string, pkgs []*packages.Package, inputs []string) ([]*packages.Package, error) {
	for _, input := range inputs {
		absInput, err := filepath.Abs(input)
		if err != nil {
			return nil, err
		}
		inputPkgs, err := util.ExtractPackages(fileSet, buildTags, absInput)
		if err != nil {
			return nil, err
		}
		for _, pkg := range inputPkgs {
			if _, loaded := slice.First(pkgs, func(p *packages.Package) bool { return p.PkgPath == pkg.PkgPath }); !loaded {
				pkgs = append(pkgs, pkg)
			}
		}
	}
	return pkgs, nil
}

func outPackage(fileSet *token.FileSet, buildTags []string, pkgs []*packages.Package, outputName string) (*packages.Package, error) {
	if stat, err := os.Stat(outputName); err == nil && stat.IsDir() {
		return nil, fmt.Errorf("output file %s is directory", outputName)
	}
	outDir := filepath.Dir(outputName)
	for _, pkg := range pkgs {
		for _, file := range pkg.GoFiles {
			if filepath.Dir(file) == outDir {
				return pkg, nil
			}
		}
	}
	outPkgs, err := util.ExtractPackages(fileSet, buildTags, outDir)
	if err != nil {
		return nil, err
	} else if len(outPkgs) == 0 {
		return nil, fmt.Errorf("cannot determine output package, path '%v'", outDir)
	}
	return outPkgs[0], nil
}

func newFilesCommentsConfig(files []*ast.File) (config *params.Config, err error) {
	for _, file := range files {
		if config, err = newFileCommentConfig(file, config); err != nil {
			return nil, err
		}
	}
	return config, nil
}

func newFileCommentConfig(file *ast.File, sharedConfig *params.Config) (*params.Config, error) {
	for _, commentGroup := range file.Comments {
		for _, comment := range commentGroup.List {
			commentConfig, err := newConfigComment(comment.Text)
			if err != nil {
				return nil, err
			} else if commentConfig == nil {
				continue
			} else if sharedConfig == nil {
				sharedConfig = commentConfig
			} else {
				sharedConfig = sharedConfig.MergeWith(commentConfig)
			}
		}
	}
	return sharedConfig, nil
}

func newConfigComment(text string) (*params.Config, error) {
	prefix := "//" + params.CommentConfigPrefix
	if !strings.HasPrefix(text, prefix+" ") {
		return nil, nil
	}
	args := strings.Fields(text[len(prefix):])
	if len(args) == 0 {
		return nil, nil
	}
	flagSet := flag.NewFlagSet(params.CommentConfigPrefix, flag.ContinueOnError)
	commentConfig := params.NewConfig(flagSet)
	if err := flagSet.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing config comment %v: %w", text, err)
	}
	return commentConfig, nil
}

func outDir(args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	last := args[len(args)-1]
	info, err := os.Stat(last)
	if err != nil {
		return "", err
	} else if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", last)
	}
	return last, nil
}
