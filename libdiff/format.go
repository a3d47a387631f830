package libdiff

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fatih/color"
)

type formatOpts struct {
	context int
	color   bool
	from    string
	to      string
}

type FormatOption func(*formatOpts)

// FormatContext sets the number of unchanged lines shown around each
// change. The default is 3; a negative value shows every line.
func FormatContext(n int) FormatOption {
	return func(o *formatOpts) { o.context = n }
}

func FormatColor(v bool) FormatOption {
	return func(o *formatOpts) { o.color = v }
}

// FormatNames sets the file names of the --- and +++ header. Without
// names no header is written.
func FormatNames(from, to string) FormatOption {
	return func(o *formatOpts) { o.from, o.to = from, to }
}

type hunk struct {
	fromStart, fromLen int
	toStart, toLen     int
	lines              []Line
}

// Write renders lines as a unified diff. Nothing is written when lines hold
// no change.
func Write(w io.Writer, lines []Line, opts ...FormatOption) error {
	o := &formatOpts{context: 3}
	for _, opt := range opts {
		opt(o)
	}
	if !Changed(lines) {
		return nil
	}
	var (
		ins  = colorFunc(o.color, color.FgGreen)
		del  = colorFunc(o.color, color.FgRed)
		head = colorFunc(o.color, color.FgCyan)
		bold = colorFunc(o.color, color.Bold)
	)
	bw := bufio.NewWriter(w)
	if o.from != "" || o.to != "" {
		fmt.Fprintln(bw, bold("--- "+o.from))
		fmt.Fprintln(bw, bold("+++ "+o.to))
	}
	for _, h := range hunks(lines, o.context) {
		fmt.Fprintln(bw, head(fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.fromStart, h.fromLen, h.toStart, h.toLen)))
		for _, l := range h.lines {
			s := l.Op.Prefix() + l.Text
			switch l.Op {
			case Insert:
				s = ins(s)
			case Delete:
				s = del(s)
			}
			fmt.Fprintln(bw, s)
		}
	}
	return bw.Flush()
}

func colorFunc(enabled bool, attr color.Attribute) func(string) string {
	if !enabled {
		return func(s string) string { return s }
	}
	c := color.New(attr)
	c.EnableColor()
	return func(s string) string { return c.Sprint(s) }
}

// hunks groups the changes of lines with ctx lines of context, merging
// groups whose context touches.
func hunks(lines []Line, ctx int) []hunk {
	if ctx < 0 {
		ctx = len(lines)
	}
	type span struct{ start, end int }
	var spans []span
	for i, l := range lines {
		if l.Op == Equal {
			continue
		}
		s := span{max(i-ctx, 0), min(i+ctx, len(lines)-1)}
		if n := len(spans); n != 0 && s.start <= spans[n-1].end+1 {
			spans[n-1].end = s.end
			continue
		}
		spans = append(spans, s)
	}
	// 1-based line numbers of lines[i] on each side
	fromLine, toLine := make([]int, len(lines)), make([]int, len(lines))
	f, t := 1, 1
	for i, l := range lines {
		fromLine[i], toLine[i] = f, t
		switch l.Op {
		case Equal:
			f++
			t++
		case Delete:
			f++
		case Insert:
			t++
		}
	}
	res := make([]hunk, 0, len(spans))
	for _, s := range spans {
		h := hunk{fromStart: fromLine[s.start], toStart: toLine[s.start]}
		for _, l := range lines[s.start : s.end+1] {
			h.add(l)
		}
		// an empty side names the line before it
		if h.fromLen == 0 {
			h.fromStart--
		}
		if h.toLen == 0 {
			h.toStart--
		}
		res = append(res, h)
	}
	return res
}

func (h *hunk) add(l Line) {
	h.lines = append(h.lines, l)
	switch l.Op {
	case Equal:
		h.fromLen++
		h.toLen++
	case Delete:
		h.fromLen++
	case Insert:
		h.toLen++
	}
}
