package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/griffnb/core-schemagen/internal/console"
	"github.com/griffnb/core-schemagen/internal/gen"
	"github.com/griffnb/core-schemagen/internal/parser/field"
	"github.com/griffnb/core-schemagen/internal/schema"
	"github.com/griffnb/core-schemagen/internal/typemodel"
)

const (
	searchDirFlag        = "dir"
	modelFlag            = "model"
	typesFlag            = "types"
	excludeFlag          = "exclude"
	packagePrefixFlag    = "packagePrefix"
	recursiveFlag        = "recursive"
	tagsFlag             = "tags"
	propertyStrategyFlag = "propertyStrategy"
	outputFlag           = "output"
	outputTypesFlag      = "outputTypes"
	packageNameFlag      = "packageName"
	generatedTimeFlag    = "generatedTime"
	parseDependencyFlag  = "parseDependency"
	parseInternalFlag    = "parseInternal"
	parseDepthFlag       = "parseDepth"
	maxDepthFlag         = "maxDepth"
	parallelismFlag      = "parallelism"
	titleFlag            = "title"
	versionFlag          = "apiVersion"
	validateFlag         = "validate"
	envFileFlag          = "envFile"
	quietFlag            = "quiet"
	debugFlag            = "debug"
)

// env names the environment variable that backs a flag.
func env(flag string) []string {
	return []string{"SCHEMAGEN_" + strings.ToUpper(field.ToSnakeCase(flag))}
}

var initFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    quietFlag,
		Aliases: []string{"q"},
		Usage:   "Make the logger quiet.",
		EnvVars: env(quietFlag),
	},
	&cli.StringFlag{
		Name:    searchDirFlag,
		Aliases: []string{"d"},
		Value:   "./",
		Usage:   "Directories you want to parse, comma separated",
		EnvVars: env(searchDirFlag),
	},
	&cli.StringFlag{
		Name:    modelFlag,
		Aliases: []string{"m"},
		Usage:   "Type model file (.yaml, .json, .toml) used instead of Go sources",
		EnvVars: env(modelFlag),
	},
	&cli.StringFlag{
		Name:    typesFlag,
		Aliases: []string{"t"},
		Usage:   "Root types, comma separated. Defaults to every exported type of the searched packages",
		EnvVars: env(typesFlag),
	},
	&cli.StringFlag{
		Name:    excludeFlag,
		Usage:   "Exclude directories and packages when searching, comma separated",
		EnvVars: env(excludeFlag),
	},
	&cli.StringFlag{
		Name:    packagePrefixFlag,
		Usage:   "Read dependency docs only from packages whose import path match the given prefix, comma separated",
		EnvVars: env(packagePrefixFlag),
	},
	&cli.BoolFlag{
		Name:    recursiveFlag,
		Aliases: []string{"r"},
		Value:   true,
		Usage:   "Include subpackages of the search dirs",
		EnvVars: env(recursiveFlag),
	},
	&cli.StringFlag{
		Name:    tagsFlag,
		Usage:   "Build tags, comma separated",
		EnvVars: env(tagsFlag),
	},
	&cli.StringFlag{
		Name:    propertyStrategyFlag,
		Aliases: []string{"p"},
		Value:   field.CamelCase,
		Usage:   "Property Naming Strategy like " + field.SnakeCase + "," + field.CamelCase + "," + field.PascalCase,
		EnvVars: env(propertyStrategyFlag),
	},
	&cli.StringFlag{
		Name:    outputFlag,
		Aliases: []string{"o"},
		Value:   "./docs",
		Usage:   "Output directory for all the generated files",
		EnvVars: env(outputFlag),
	},
	&cli.StringFlag{
		Name:    outputTypesFlag,
		Aliases: []string{"ot"},
		Value:   "json,yaml",
		Usage:   "Output types of generated files like json,yaml,swagger,go",
		EnvVars: env(outputTypesFlag),
	},
	&cli.StringFlag{
		Name:    packageNameFlag,
		Usage:   "Package name of the generated docs.go, defaults to the output dir name",
		EnvVars: env(packageNameFlag),
	},
	&cli.BoolFlag{
		Name:    generatedTimeFlag,
		Usage:   "Write the generation time at the top of docs.go",
		EnvVars: env(generatedTimeFlag),
	},
	&cli.BoolFlag{
		Name:    parseDependencyFlag,
		Aliases: []string{"pd"},
		Usage:   "Read type docs from dependency packages, disabled by default",
		EnvVars: env(parseDependencyFlag),
	},
	&cli.BoolFlag{
		Name:    parseInternalFlag,
		Usage:   "Read internal dependency packages, disabled by default",
		EnvVars: env(parseInternalFlag),
	},
	&cli.IntFlag{
		Name:    parseDepthFlag,
		Value:   100,
		Usage:   "Dependency parse depth",
		EnvVars: env(parseDepthFlag),
	},
	&cli.IntFlag{
		Name:    maxDepthFlag,
		Value:   schema.DefaultMaxDepth,
		Usage:   "Nesting limit for types that recurse without a named field",
		EnvVars: env(maxDepthFlag),
	},
	&cli.IntFlag{
		Name:    parallelismFlag,
		Usage:   "Concurrent generation passes, defaults to the number of CPUs",
		EnvVars: env(parallelismFlag),
	},
	&cli.StringFlag{
		Name:    titleFlag,
		Value:   gen.DefaultTitle,
		Usage:   "Title written to the document info",
		EnvVars: env(titleFlag),
	},
	&cli.StringFlag{
		Name:    versionFlag,
		Value:   gen.DefaultVersion,
		Usage:   "Version written to the document info",
		EnvVars: env(versionFlag),
	},
	&cli.BoolFlag{
		Name:    validateFlag,
		Usage:   "Validate the generated OpenAPI document",
		EnvVars: env(validateFlag),
	},
	&cli.BoolFlag{
		Name:    debugFlag,
		Usage:   "Enable debug mode, disabled by default",
		EnvVars: env(debugFlag),
	},
}

func initAction(ctx *cli.Context) error {
	strategy := ctx.String(propertyStrategyFlag)

	switch strategy {
	case field.CamelCase, field.SnakeCase, field.PascalCase:
	default:
		return fmt.Errorf("not supported %s propertyStrategy", strategy)
	}

	if ctx.Bool(debugFlag) {
		console.Logger.DebugLevel = 1
	}

	outputTypes := strings.Split(ctx.String(outputTypesFlag), ",")
	if len(outputTypes) == 0 {
		return fmt.Errorf("no output types specified")
	}
	logger := log.New(os.Stdout, "", log.LstdFlags)
	if ctx.Bool(quietFlag) {
		logger = log.New(io.Discard, "", log.LstdFlags)
		console.Logger.SetOutput(io.Discard)
	}

	pdv := 0
	if ctx.Bool(parseDependencyFlag) {
		pdv = 1
	}

	return gen.New().Build(&gen.Config{
		SearchDir:          ctx.String(searchDirFlag),
		ModelFile:          ctx.String(modelFlag),
		Types:              ctx.String(typesFlag),
		Excludes:           ctx.String(excludeFlag),
		PackagePrefix:      ctx.String(packagePrefixFlag),
		Recursive:          ctx.Bool(recursiveFlag),
		BuildTags:          ctx.String(tagsFlag),
		PropNamingStrategy: strategy,
		OutputDir:          ctx.String(outputFlag),
		OutputTypes:        outputTypes,
		PackageName:        ctx.String(packageNameFlag),
		GeneratedTime:      ctx.Bool(generatedTimeFlag),
		ParseDependency:    pdv,
		ParseInternal:      ctx.Bool(parseInternalFlag),
		ParseDepth:         ctx.Int(parseDepthFlag),
		MaxDepth:           ctx.Int(maxDepthFlag),
		Parallelism:        ctx.Int(parallelismFlag),
		Title:              ctx.String(titleFlag),
		Version:            ctx.String(versionFlag),
		Validate:           ctx.Bool(validateFlag),
		Debugger:           logger,
	})
}

func modelSchemaAction(ctx *cli.Context) error {
	b, err := typemodel.JSONSchema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(ctx.App.Writer, string(b))
	return err
}

// loadEnv reads the env file named on the command line or in the
// environment. A missing default file is not an error.
func loadEnv(args []string) error {
	file := os.Getenv("SCHEMAGEN_ENV_FILE")
	explicit := file != ""
	for i, arg := range args {
		switch {
		case arg == "--"+envFileFlag && i+1 < len(args):
			file, explicit = args[i+1], true
		case strings.HasPrefix(arg, "--"+envFileFlag+"="):
			file, explicit = strings.TrimPrefix(arg, "--"+envFileFlag+"="), true
		}
	}
	if file == "" {
		file = ".env"
	}

	if err := godotenv.Load(file); err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not load env file %s: %w", file, err)
	}
	return nil
}

func main() {
	if err := loadEnv(os.Args[1:]); err != nil {
		log.Fatal(err)
	}

	app := cli.NewApp()
	app.Version = gen.Version
	app.Usage = "Generate OpenAPI component schemas from Go types or a type model file."
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  envFileFlag,
			Value: ".env",
			Usage: "Env file read before flags are parsed",
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:    "init",
			Aliases: []string{"i", "generate"},
			Usage:   "Generate component schemas",
			Action:  initAction,
			Flags:   initFlags,
		},
		{
			Name:   "model-schema",
			Usage:  "Print the JSON Schema of the type model file format",
			Action: modelSchemaAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
