package main

import (
	"errors"
	"fmt"

	"github.com/signadot/xmlpatch"
	"github.com/signadot/xmlpatch/encode"
	"github.com/signadot/xmlpatch/eval"
	"github.com/signadot/xmlpatch/ir"
	"github.com/signadot/xmlpatch/libdiff"

	"github.com/scott-cotton/cli"
)

var errFailed = errors.New("operations failed")

func apply(cfg *ApplyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Apply.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(cfg.Patches) == 0 {
		return fmt.Errorf("%w: apply requires at least one -p patch file", cli.ErrUsage)
	}
	var ops []sourced
	for _, file := range cfg.Patches {
		fOps, err := loadPatch(cfg, file)
		if err != nil {
			return err
		}
		ops = append(ops, fOps...)
	}
	for _, file := range inputs(args) {
		if err := applyFile(cfg, cc, file, ops); err != nil {
			return err
		}
	}
	return nil
}

type sourced struct {
	op     xmlpatch.Operation
	source string
}

func loadPatch(cfg *ApplyConfig, file string) ([]sourced, error) {
	doc, err := cfg.readDoc(file, nil)
	if err != nil {
		return nil, err
	}
	if err := eval.ExpandEnv(doc, cfg.Env); err != nil {
		return nil, fmt.Errorf("error expanding env in %s: %w", file, err)
	}
	ops, err := xmlpatch.DecodeAll(doc, file)
	if err != nil {
		if cfg.Strict {
			return nil, err
		}
		theLog.Error("could not decode all operations", "file", file, "error", err)
	}
	res := make([]sourced, len(ops))
	for i, op := range ops {
		res[i] = sourced{op: op, source: file}
	}
	return res, nil
}

func applyFile(cfg *ApplyConfig, cc *cli.Context, file string, ops []sourced) error {
	doc, err := cfg.readDoc(file, cc.In)
	if err != nil {
		return err
	}
	var orig *ir.Node
	if cfg.Diff {
		orig = doc.Clone()
	}
	p := xmlpatch.NewPipeline(
		xmlpatch.PipelineLogger(theLog),
		xmlpatch.PipelineEnv(eval.Env(cfg.Env)),
	)
	for _, s := range ops {
		p.Enqueue(xmlpatch.PhasePatch, s.op, s.source)
	}
	report := p.Run(doc)
	theLog.Debug("applied", "file", file, "succeeded", report.Succeeded(), "failed", report.Failed())
	if cfg.Diff {
		if err := writeDiff(cfg, cc, file, orig, doc); err != nil {
			return err
		}
	} else if err := encode.Encode(doc, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	if cfg.Strict && report.Failed() != 0 {
		return fmt.Errorf("%w: %d of %d in %s", errFailed, report.Failed(), len(report.Outcomes), file)
	}
	return nil
}

func writeDiff(cfg *ApplyConfig, cc *cli.Context, file string, from, to *ir.Node) error {
	lines, err := libdiff.Diff(from, to)
	if err != nil {
		return err
	}
	return libdiff.Write(cc.Out, lines,
		libdiff.FormatContext(cfg.Context),
		libdiff.FormatColor(cfg.colorOut(cc.Out)),
		libdiff.FormatNames(file, file+" (patched)"))
}
