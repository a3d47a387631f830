package main

import (
	"io"
	"os"

	"github.com/signadot/xmlpatch/encode"
	"github.com/signadot/xmlpatch/parse"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	Color      bool `cli:"name=color desc='encode with color'"`
	Indent     int  `cli:"name=indent desc='indent element-only content n spaces per level'"`
	Decl       bool `cli:"name=decl desc='write an xml declaration'"`
	NoComments bool `cli:"name=nc desc='drop comments'"`
	Verbose    bool `cli:"name=v desc='log debug output'"`
	Quiet      bool `cli:"name=q desc='log errors only'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) parseOpts() []parse.ParseOption {
	return []parse.ParseOption{parse.ParseComments(!cfg.NoComments)}
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeIndent(cfg.Indent),
		encode.EncodeDecl(cfg.Decl),
		encode.EncodeComments(!cfg.NoComments),
	}
	if cfg.Color {
		return append(res, encode.EncodeColors(encode.NewColors()))
	}
	if cfg.optSet("color") {
		return res
	}
	if isTerminal(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

// colorOut reports whether output to w should be colored: -color was
// given, or it was not given and w is a terminal.
func (cfg *MainConfig) colorOut(w io.Writer) bool {
	if cfg.Color || cfg.optSet("color") {
		return cfg.Color
	}
	return isTerminal(w)
}

func (cfg *MainConfig) optSet(name string) bool {
	for _, opt := range cfg.Main.Opts {
		if opt.Name == name {
			return opt.Value != nil
		}
	}
	return false
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type ApplyConfig struct {
	*MainConfig
	Env map[string]any

	Patches []string
	Diff    bool `cli:"name=diff desc='output a diff instead of the result'"`
	Context int  `cli:"name=U desc='lines of context in diffs'"`
	Strict  bool `cli:"name=strict desc='fail when an operation fails'"`

	Apply *cli.Command
}

type GetConfig struct {
	*MainConfig
	Text bool `cli:"name=t desc='output the string value of results'"`

	Get *cli.Command
}

type SubConfig struct {
	*MainConfig
	XPath string `cli:"name=x desc='context query, default the document'"`

	Sub *cli.Command
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type ClassesConfig struct {
	*MainConfig

	Classes *cli.Command
}

type BuildConfig struct {
	*MainConfig
	Env map[string]any

	List    bool   `cli:"name=l aliases=list desc='list profiles'"`
	Profile string `cli:"name=p aliases=profile desc='profile to build'"`
	ShowEnv bool   `cli:"name=s aliases=show,sh desc='show environment'"`
	Report  bool   `cli:"name=r aliases=report desc='log a line per operation'"`

	Build *cli.Command
}
