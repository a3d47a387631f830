package main

import (
	"fmt"

	"github.com/signadot/xmlpatch/eval"
	"github.com/signadot/xmlpatch/ir"
	"github.com/signadot/xmlpatch/query"

	"github.com/scott-cotton/cli"
)

func sub(cfg *SubConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Sub.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: sub requires one argument, a template", cli.ErrUsage)
	}
	tmpl := args[0]
	for _, file := range inputs(args[1:]) {
		doc, err := cfg.readDoc(file, cc.In)
		if err != nil {
			return err
		}
		ctxs := []*ir.Node{doc}
		if cfg.XPath != "" {
			ctxs, err = query.Select(doc, cfg.XPath)
			if err != nil {
				return fmt.Errorf("error querying %s with %s: %w", file, cfg.XPath, err)
			}
		}
		for _, n := range ctxs {
			s, err := eval.Substitute(tmpl, n, eval.SubstLogger(theLog))
			if err != nil {
				return fmt.Errorf("at %s in %s: %w", n.Path(), file, err)
			}
			if _, err := fmt.Fprintln(cc.Out, s); err != nil {
				return err
			}
		}
	}
	return nil
}
