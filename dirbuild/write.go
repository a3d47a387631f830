package dirbuild

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/signadot/xmlpatch/encode"
	"github.com/signadot/xmlpatch/ir"
)

func (d *Dir) write(w io.Writer, doc *ir.Node, opts ...encode.EncodeOption) error {
	if w != nil || d.DestDir == "" {
		if w == nil {
			w = os.Stdout
		}
		bw := bufio.NewWriter(w)
		if err := encode.Encode(doc, bw, opts...); err != nil {
			return err
		}
		return bw.Flush()
	}
	destDir := d.path(d.DestDir)
	st, err := os.Stat(destDir)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		if err := os.MkdirAll(destDir, 0755); err != nil {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%s exists but is not a directory", destDir)
	}
	defer clear(d.nameCache)
	if !d.Split {
		return d.writeOut(destDir, d.Name, doc, opts...)
	}
	root := doc.DocumentElement()
	for _, c := range root.Children {
		if c.Type != ir.ElementType {
			continue
		}
		part := ir.NewDocument()
		proot := ir.NewElement(root.Name)
		if err := part.AppendChild(proot); err != nil {
			return err
		}
		if err := proot.AppendChild(c.Clone()); err != nil {
			return err
		}
		if err := d.writeOut(destDir, fileName(c), part, opts...); err != nil {
			return err
		}
	}
	return nil
}

// writeOut writes doc to destDir under name plus the suffix, numbering
// names already written.
func (d *Dir) writeOut(destDir, name string, doc *ir.Node, opts ...encode.EncodeOption) error {
	n := d.nameCache[name]
	d.nameCache[name] = n + 1
	if n != 0 {
		name += "-" + strconv.Itoa(n)
	}
	f, err := os.OpenFile(filepath.Join(destDir, name+d.Suffix), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	wc := &wc{f: f, w: bufio.NewWriter(f)}
	if err := encode.Encode(doc, wc, opts...); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// fileName names the file of a split-out element after its element name
// and its defName child or Name attribute.
func fileName(el *ir.Node) string {
	var id string
	if c := el.ChildNamed("defName"); c != nil {
		id = strings.TrimSpace(c.InnerText())
	} else if a := el.Attr("Name"); a != nil {
		id = a.Text
	}
	name := el.LocalName()
	if id != "" {
		name += "-" + id
	}
	return unsafeName.ReplaceAllString(name, "_")
}

type wc struct {
	f *os.File
	w *bufio.Writer
}

func (w *wc) Write(d []byte) (int, error) {
	return w.w.Write(d)
}

func (w *wc) Close() error {
	if err := w.w.Flush(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
