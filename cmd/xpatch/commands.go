package main

import (
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/goccy/go-yaml"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "xpatch").
		WithSynopsis("xpatch [opts] command [opts]").
		WithDescription("xpatch applies declarative patch operations to xml documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return xpatchMain(cfg, cc, args)
		}).
		WithSubs(
			ApplyCommand(cfg),
			GetCommand(cfg),
			SubCommand(cfg),
			ViewCommand(cfg),
			ClassesCommand(cfg),
			BuildCommand(cfg))
}

func ApplyCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ApplyConfig{MainConfig: mainCfg, Env: map[string]any{}, Context: 3}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts,
		&cli.Opt{
			Name:        "p",
			Description: "patch file, may be repeated",
			Type: cli.NamedFuncOpt(cli.FuncOpt(func(_ *cli.Context, a string) (any, error) {
				cfg.Patches = append(cfg.Patches, a)
				return a, nil
			}), "(file)"),
		},
		&cli.Opt{
			Name:        "e",
			Description: "set env key to a yaml value",
			Type:        cli.NamedFuncOpt(cli.FuncOpt(envOptTypeFunc(cfg.Env)), "(path=val)"),
		})
	return cli.NewCommandAt(&cfg.Apply, "apply").
		WithAliases("a", "ap").
		WithSynopsis("apply -p patch.xml [-p patch2.xml ...] [-diff] [files]").
		WithDescription(applyDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return apply(cfg, cc, args)
		})
}

const applyDescription = `apply runs the operations of patch files against xml documents.

Each patch file holds a <Patch> element whose <Operation Class="..."> children
are decoded with the registered classes (see 'xpatch classes'). $[...]
expressions in patch files are expanded against the env set with -e before
decoding. Operations run in file order, deferred operations after all others.
A failing operation is logged and does not stop the others unless -strict is
given.`

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get [-t] <xpath> [files]").
		WithDescription("evaluate an xpath query against documents").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

func SubCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SubConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Sub, "sub").
		WithAliases("s").
		WithSynopsis("sub [-x xpath] <template> [files]").
		WithDescription("substitute {xpath} placeholders of a template against each context node").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return sub(cfg, cc, args)
		})
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.View, "view").
		WithAliases("v").
		WithSynopsis("view [files]").
		WithDescription("view xml documents in color").
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
}

func ClassesCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ClassesConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Classes, "classes").
		WithAliases("c").
		WithSynopsis("classes").
		WithDescription("list the registered operation classes").
		WithRun(func(cc *cli.Context, args []string) error {
			return classes(cfg, cc, args)
		})
}

func BuildCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &BuildConfig{MainConfig: mainCfg, Env: map[string]any{}}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, &cli.Opt{
		Name:        "e",
		Description: "set env key to a yaml value",
		Type:        cli.NamedFuncOpt(cli.FuncOpt(envOptTypeFunc(cfg.Env)), "(path=val)"),
	})
	return cli.NewCommandAt(&cfg.Build, "build").
		WithAliases("b").
		WithSynopsis("build [dir] [-l] [-p profile ] [ -- key=val ... ]").
		WithDescription(buildDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return build(cfg, cc, args)
		})
}

const buildDescription = `build patches a set of xml source documents.

Build operates on a build directory, which defaults to the current directory.

Build File

Build reads 'build.yaml' (or 'build.yml') in the following form:

  build:
    # root names the root element of the output, default Defs
    root: Defs

    # env holds the variables available to $[...] expressions and if
    # conditions. It can be overridden on the command line with
    # '-e key=val' or '-- key1=val1 key2=val2 ...' or with the environment
    # variable XPATCH_ENV holding a yaml merge patch such as '{debug: false}'.
    env:
      debug: true

    # optional destination directory; split writes one file per element
    destDir: out
    split: false

    # sources name the xml documents whose root children are gathered
    sources:
    - dir: defs          # every .xml file under defs, minus .buildignore
    - file: extra.xml
    - exec: ./gen-defs $[debug]
    - url: https://example.com/defs.xml

    # patches are applied in order to the gathered document
    patches:
    - dir: patches
    - file: debug.xml
      if: debug
    - ops:
      - class: PatchOperationSet
        xpath: /Defs/ThingDef[defName='Gun']/label
        value: rifle

Environment

Arguments take precedence over $XPATCH_ENV, and later arguments over earlier
ones. Both take precedence over the env of the build file.

Profiles

Profiles are yaml files under 'profiles/' whose 'env:' is a merge patch of
the build env. 'build -l' lists them, 'build -p <profile>' builds with one;
<profile> may also be a file path.

Show

'build -s' shows the resulting environment.`

func envOptTypeFunc(env map[string]any) func(cc *cli.Context, a string) (any, error) {
	return func(cc *cli.Context, a string) (any, error) {
		if err := envFunc(env, a); err != nil {
			return nil, err
		}
		return 0, nil
	}
}

// envFunc sets the dotted key of a "key=val" argument to val decoded as
// yaml.
func envFunc(env map[string]any, a string) error {
	key, val, ok := strings.Cut(a, "=")
	if !ok {
		return fmt.Errorf("%w: argument %q expected key=val", cli.ErrUsage, a)
	}
	var v any
	if err := yaml.Unmarshal([]byte(val), &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case uint64:
		v = int(x)
	case int64:
		v = int(x)
	}
	parts := strings.Split(key, ".")
	n := len(parts)
	tmpEnv := env
	for i, part := range parts {
		if i == n-1 {
			tmpEnv[part] = v
			break
		}
		next := tmpEnv[part]
		if next == nil {
			next = map[string]any{}
			tmpEnv[part] = next
		}
		nextEnv, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("cannot access %s, list or scalar", strings.Join(parts[:i+1], "."))
		}
		tmpEnv = nextEnv
	}
	return nil
}
