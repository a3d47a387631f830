package dirbuild

import (
	"context"
	"fmt"
	"io"

	"github.com/signadot/xmlpatch"
	"github.com/signadot/xmlpatch/debug"
	"github.com/signadot/xmlpatch/encode"
	"github.com/signadot/xmlpatch/ir"
)

// Run fetches the sources, applies the patches and writes the result to w,
// or under DestDir when w is nil. Operations that fail are logged and
// reported in the returned report; they do not make Run fail.
func (d *Dir) Run(ctx context.Context, w io.Writer, opts ...encode.EncodeOption) (*ir.Node, *xmlpatch.Report, error) {
	doc, report, err := d.Build(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := d.write(w, doc, opts...); err != nil {
		return nil, nil, fmt.Errorf("error writing docs: %w", err)
	}
	return doc, report, nil
}

// Build returns the patched document without writing it.
func (d *Dir) Build(ctx context.Context) (*ir.Node, *xmlpatch.Report, error) {
	docs, err := d.fetch(ctx)
	if err != nil {
		return nil, nil, err
	}
	doc, err := d.gather(docs)
	if err != nil {
		return nil, nil, err
	}
	p := xmlpatch.NewPipeline(
		xmlpatch.PipelineLogger(d.Log),
		xmlpatch.PipelineEnv(d.evalEnv()),
	)
	// load errors are already logged
	_ = d.enqueue(p)
	report := p.Run(doc)
	if debug.Apply() {
		debug.Logf("# built\n%v\n# %d succeeded, %d failed\n", doc, report.Succeeded(), report.Failed())
	}
	return doc, report, nil
}

// gather joins the source documents under one root element named d.Name.
// A source whose root has that name contributes its children, any other
// contributes its root.
func (d *Dir) gather(docs []*ir.Node) (*ir.Node, error) {
	doc := ir.NewDocument()
	root := ir.NewElement(d.Name)
	if err := doc.AppendChild(root); err != nil {
		return nil, err
	}
	for _, src := range docs {
		el := src.DocumentElement()
		if el == nil {
			continue
		}
		if el.Name != d.Name {
			if err := root.AppendChild(el.Clone()); err != nil {
				return nil, err
			}
			continue
		}
		for _, c := range el.Children {
			if c.Type == ir.TextType && c.IsBlank() {
				continue
			}
			if err := root.AppendChild(c.Clone()); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}
