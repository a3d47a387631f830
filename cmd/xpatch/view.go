package main

import (
	"fmt"

	"github.com/signadot/xmlpatch/encode"

	"github.com/scott-cotton/cli"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	opts := cfg.encOpts(cc.Out)
	if cfg.Indent == 0 {
		opts = append(opts, encode.EncodeIndent(2))
	}
	for _, file := range inputs(args) {
		doc, err := cfg.readDoc(file, cc.In)
		if err != nil {
			return err
		}
		if err := encode.Encode(doc, cc.Out, opts...); err != nil {
			return fmt.Errorf("error encoding %s: %w", file, err)
		}
	}
	return nil
}
