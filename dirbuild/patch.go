package dirbuild

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/signadot/xmlpatch"
	"github.com/signadot/xmlpatch/debug"
	"github.com/signadot/xmlpatch/eval"
	"github.com/signadot/xmlpatch/ir"
	"github.com/signadot/xmlpatch/parse"
)

// DirPatch selects patch operations: those of a patch file, of every .xml
// file under a directory, or given inline. If, when set, is a condition over
// the build env deciding whether the patch is used at all.
type DirPatch struct {
	File string   `yaml:"file,omitempty"`
	Dir  string   `yaml:"dir,omitempty"`
	Ops  []OpSpec `yaml:"ops,omitempty"`
	If   string   `yaml:"if,omitempty"`
}

func (d *DirPatch) String() string {
	return fmt.Sprintf("file: %s dir: %s ops: %d if: %s", d.File, d.Dir, len(d.Ops), d.If)
}

// OpSpec is the YAML form of a single <Operation> element. Value is
// parsed as markup, so literal classes may give elements.
type OpSpec struct {
	Class       string `yaml:"class"`
	XPath       string `yaml:"xpath,omitempty"`
	Value       string `yaml:"value,omitempty"`
	Destination string `yaml:"destination,omitempty"`
	Order       string `yaml:"order,omitempty"`
	If          string `yaml:"if,omitempty"`
	Debug       bool   `yaml:"debug,omitempty"`
}

// Element returns the <Operation> element equivalent to s.
func (s *OpSpec) Element() (*ir.Node, error) {
	el := ir.NewElement("Operation")
	el.SetAttr("Class", s.Class)
	for _, f := range [][2]string{
		{"xpath", s.XPath},
		{"destination", s.Destination},
		{"order", s.Order},
		{"if", s.If},
	} {
		if f[1] == "" {
			continue
		}
		c := ir.NewElement(f[0])
		c.SetTextContent(f[1])
		if err := el.AppendChild(c); err != nil {
			return nil, err
		}
	}
	if s.Debug {
		c := ir.NewElement("debug")
		c.SetTextContent("true")
		if err := el.AppendChild(c); err != nil {
			return nil, err
		}
	}
	if s.Value != "" {
		nodes, err := parse.ParseNodes(s.Value)
		if err != nil {
			return nil, fmt.Errorf("error parsing value of %s: %w", s.Class, err)
		}
		v := ir.NewElement("value")
		for _, n := range nodes {
			if err := v.AppendChild(n); err != nil {
				return nil, err
			}
		}
		if err := el.AppendChild(v); err != nil {
			return nil, err
		}
	}
	return el, nil
}

// enqueue decodes the operations of every patch into p. Files that cannot
// be read or decoded are logged and skipped; the operations of a partially
// decodable file are kept.
func (d *Dir) enqueue(p *xmlpatch.Pipeline) error {
	var errs []error
	for i := range d.Patches {
		dp := &d.Patches[i]
		if debug.LoadEnv() {
			debug.Logf("patch %d: %s\n", i, dp)
		}
		files, err := d.patchFiles(dp)
		if err != nil {
			return err
		}
		for _, file := range files {
			ops, err := d.loadPatchFile(file)
			if err != nil {
				d.Log.Error("could not load patch file", "file", file, "error", err)
				errs = append(errs, err)
			}
			for _, op := range ops {
				p.Enqueue(xmlpatch.PhasePatch, op, file)
			}
		}
		for j := range dp.Ops {
			source := fmt.Sprintf("build.yaml:patches[%d].ops[%d]", i, j)
			el, err := dp.Ops[j].Element()
			if err == nil {
				err = eval.ExpandEnv(el, d.evalEnv())
			}
			if err == nil {
				var op xmlpatch.Operation
				op, err = xmlpatch.Decode(el, source)
				if err == nil {
					p.Enqueue(xmlpatch.PhasePatch, op, source)
					continue
				}
			}
			d.Log.Error("could not decode operation", "source", source, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", source, err))
		}
	}
	return errors.Join(errs...)
}

// patchFiles lists the files of dp relative to the build directory, a
// directory's files in lexical order.
func (d *Dir) patchFiles(dp *DirPatch) ([]string, error) {
	var res []string
	if dp.File != "" {
		f, err := eval.ExpandString(dp.File, d.evalEnv())
		if err != nil {
			return nil, fmt.Errorf("error expanding path %q: %w", dp.File, err)
		}
		res = append(res, f)
	}
	if dp.Dir == "" {
		return res, nil
	}
	dir, err := eval.ExpandString(dp.Dir, d.evalEnv())
	if err != nil {
		return nil, fmt.Errorf("error expanding path %q: %w", dp.Dir, err)
	}
	err = filepath.WalkDir(d.path(dir), func(path string, info fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".xml") {
			return nil
		}
		rel, err := filepath.Rel(d.Root, path)
		if err != nil {
			rel = path
		}
		res = append(res, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// loadPatchFile reads a <Patch> document, expands $[...] in it against the
// build env and decodes its operations.
func (d *Dir) loadPatchFile(file string) ([]xmlpatch.Operation, error) {
	doc, err := readDoc(d.path(file))
	if err != nil {
		return nil, err
	}
	if err := eval.ExpandEnv(doc, d.evalEnv()); err != nil {
		return nil, fmt.Errorf("error expanding env in %s: %w", file, err)
	}
	return xmlpatch.DecodeAll(doc, file)
}
