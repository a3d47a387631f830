package eval

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/signadot/xmlpatch/encode"
	"github.com/signadot/xmlpatch/ir"
	"github.com/signadot/xmlpatch/parse"
)

const substDoc = `<Root id="7"><Items><Item>a</Item><Item>b</Item><Item>c</Item><Item>d</Item><Item>e</Item></Items><Name>Bob</Name></Root>`

func substRoot(t *testing.T) *ir.Node {
	t.Helper()
	doc, err := parse.ParseString(substDoc)
	if err != nil {
		t.Fatal(err)
	}
	return doc.DocumentElement()
}

var quiet = SubstLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

func TestSubstitute(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{`<Amount>{count(Items/Item)}</Amount>`, `<Amount>5</Amount>`},
		{`<N>{Name}</N>`, `<N>Bob</N>`},
		{`<N>x{Name}</N>`, `<N>x<Name>Bob</Name></N>`},
		{`{Name}`, `<Name>Bob</Name>`},
		{`<V>{1 = 1}</V>`, `<V>true</V>`},
		{`<V>{1 div 2}</V>`, `<V>0.5</V>`},
		{`<V>{ @id }</V>`, `<V>7</V>`},
		{`<V>{concat(Name, '!')}</V>`, `<V>Bob!</V>`},
		{`\{x\}`, `{x}`},
		{`\{{Name}\}`, `{<Name>Bob</Name>}`},
		{`a{Missing}b`, `ab`},
		{`a{/Root[}b`, `ab`},
		{`{Items/Item[2]}-{Items/Item[4]}`, `<Item>b</Item>-<Item>d</Item>`},
		{`plain`, `plain`},
		{`<X>{Name}{count(Items/Item)}</X>`, `<X><Name>Bob</Name>5</X>`},
		{`<X>{count(Items/Item)}{Name}</X>`, `<X>5<Name>Bob</Name></X>`},
	}
	root := substRoot(t)
	for _, tc := range tests {
		got, err := Substitute(tc.in, root, quiet)
		if err != nil {
			t.Errorf("%q: %v", tc.in, err)
			continue
		}
		if got != tc.out {
			t.Errorf("got %q want %q", got, tc.out)
		}
	}
}

func TestSubstituteSoleContent(t *testing.T) {
	doc, err := parse.ParseString(`<Thing><count>5</count></Thing>`)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Substitute(`<Amount>{count}</Amount>`, doc.DocumentElement(), quiet)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<Amount>5</Amount>`; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestSubstituteAdjacent(t *testing.T) {
	doc, err := parse.ParseString(`<T><a>1</a><b>2</b></T>`)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Substitute(`<X>{a}{b}</X>`, doc.DocumentElement(), quiet)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<X><a>1</a><b>2</b></X>`; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestSubstituteBraceMismatch(t *testing.T) {
	for _, in := range []string{`{a`, `a}`, `{{a}}`, `<X>{Name</X>`, `\{a}`} {
		root := substRoot(t)
		_, err := Substitute(in, root, quiet)
		if !errors.Is(err, ErrBraceMismatch) {
			t.Errorf("%q: got %v want %v", in, err, ErrBraceMismatch)
		}
		if got := encode.MustString(root.Document()); got != substDoc {
			t.Errorf("%q: document changed to %s", in, got)
		}
	}
}

func TestSubstituteLogsMissing(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	l := slog.New(slog.NewTextHandler(buf, nil))
	if _, err := Substitute(`<X>{Nope}</X>`, substRoot(t), SubstLogger(l)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "selected nothing") {
		t.Errorf("got %q", buf.String())
	}
}

func TestSubstituteFragment(t *testing.T) {
	root := substRoot(t)
	n, err := SubstituteFragment(`<Thing><label>{Name}</label><n>{count(Items/*)}</n></Thing>`, root, quiet)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := encode.MustString(n), `<Thing><label>Bob</label><n>5</n></Thing>`; got != want {
		t.Errorf("got %s want %s", got, want)
	}
	if _, err := SubstituteFragment(`<a>{Name}`, root, quiet); !errors.Is(err, parse.ErrParse) {
		t.Errorf("got %v want %v", err, parse.ErrParse)
	}
}
