package libdiff

import (
	"fmt"
	"strings"
)

// Patch applies lines to doc, which must hold the equal and deleted lines
// in order. It returns the text on the insert side.
func Patch(doc string, lines []Line) (string, error) {
	docLines := splitLines(doc)
	resLines := make([]string, 0, len(docLines))
	fi := 0
	for i := range lines {
		l := &lines[i]
		switch l.Op {
		case Insert:
			resLines = append(resLines, l.Text)
			continue
		case Equal, Delete:
		default:
			return "", fmt.Errorf("unexpected op %s at diff line %d", l.Op, i)
		}
		if fi >= len(docLines) {
			return "", fmt.Errorf("cannot patch, unexpected end of text, expected %q", l.Text)
		}
		if docLines[fi] != l.Text {
			return "", fmt.Errorf("cannot patch line %d, unexpected text %q, expected %q", fi+1, docLines[fi], l.Text)
		}
		if l.Op == Equal {
			resLines = append(resLines, l.Text)
		}
		fi++
	}
	resLines = append(resLines, docLines[fi:]...)
	if len(resLines) == 0 {
		return "", nil
	}
	return strings.Join(resLines, "\n") + "\n", nil
}
