package main

import (
	"fmt"
	"io"

	"github.com/signadot/xmlpatch/encode"
	"github.com/signadot/xmlpatch/ir"
	"github.com/signadot/xmlpatch/query"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, an xpath query", cli.ErrUsage)
	}
	q := args[0]
	if _, err := query.Compile(q); err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	for _, file := range inputs(args[1:]) {
		doc, err := cfg.readDoc(file, cc.In)
		if err != nil {
			return err
		}
		res, err := query.Eval(doc, q)
		if err != nil {
			return fmt.Errorf("error querying %s with %s: %w", file, q, err)
		}
		if err := writeResult(cfg, cc.Out, res); err != nil {
			return err
		}
	}
	return nil
}

// writeResult writes each node of a node-set on its own line; scalars are
// written as text.
func writeResult(cfg *GetConfig, w io.Writer, res *query.Result) error {
	if res.Kind != query.NodeSetKind || cfg.Text {
		if res.Kind == query.NodeSetKind {
			for _, n := range res.Nodes {
				if _, err := fmt.Fprintln(w, n.InnerText()); err != nil {
					return err
				}
			}
			return nil
		}
		_, err := fmt.Fprintln(w, res.Text())
		return err
	}
	opts := cfg.encOpts(w)
	for _, n := range res.Nodes {
		var err error
		switch n.Type {
		case ir.AttrType:
			_, err = fmt.Fprintf(w, "%s=%q\n", n.Name, n.Text)
		case ir.TextType:
			_, err = fmt.Fprintln(w, n.Text)
		default:
			if err = encode.Encode(n, w, opts...); err == nil && cfg.Indent == 0 {
				_, err = io.WriteString(w, "\n")
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}
