package main

import (
	"fmt"

	"github.com/signadot/xmlpatch"

	"github.com/scott-cotton/cli"
)

func classes(cfg *ClassesConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Classes.Parse(cc, args); err != nil {
		return err
	}
	for _, c := range xmlpatch.Classes() {
		if _, err := fmt.Fprintln(cc.Out, c); err != nil {
			return err
		}
	}
	return nil
}
