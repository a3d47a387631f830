// Package libdiff computes and renders line diffs of XML documents.
package libdiff

import (
	"bytes"
	"strings"

	"github.com/signadot/xmlpatch/encode"
	"github.com/signadot/xmlpatch/ir"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Line is one line of a diff, without its newline.
type Line struct {
	Op   Op
	Text string
}

// Diff serializes from and to with one element per line and diffs the
// results.
func Diff(from, to *ir.Node) ([]Line, error) {
	fs, err := layout(from)
	if err != nil {
		return nil, err
	}
	ts, err := layout(to)
	if err != nil {
		return nil, err
	}
	return DiffStrings(fs, ts), nil
}

func layout(node *ir.Node) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(node, buf, encode.EncodeIndent(2)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// DiffStrings diffs from and to line by line.
func DiffStrings(from, to string) []Line {
	dmp := diffpatch.New()
	fc, tc, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffMain(fc, tc, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)
	var res []Line
	for i := range diffs {
		diff := &diffs[i]
		var op Op
		switch diff.Type {
		case diffpatch.DiffInsert:
			op = Insert
		case diffpatch.DiffDelete:
			op = Delete
		default:
			op = Equal
		}
		for _, text := range splitLines(diff.Text) {
			res = append(res, Line{Op: op, Text: text})
		}
	}
	return res
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// Changed reports whether lines hold any insertion or deletion.
func Changed(lines []Line) bool {
	for i := range lines {
		if lines[i].Op != Equal {
			return true
		}
	}
	return false
}

// Stat counts the inserted and deleted lines.
func Stat(lines []Line) (ins, del int) {
	for i := range lines {
		switch lines[i].Op {
		case Insert:
			ins++
		case Delete:
			del++
		}
	}
	return
}
