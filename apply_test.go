package xmlpatch

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/signadot/xmlpatch/encode"
	"github.com/signadot/xmlpatch/ir"
	"github.com/signadot/xmlpatch/mergeop"
	"github.com/signadot/xmlpatch/parse"
	"github.com/signadot/xmlpatch/query"
)

func quietContext() *Context {
	return &Context{Log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func literal(s string) *ir.Node {
	n, err := parse.ParseFragment("<value>" + s + "</value>")
	if err != nil {
		panic(err)
	}
	return n
}

type applyTest struct {
	name string
	doc  string
	op   Operation
	res  string
	ok   bool
	err  error
}

var applyTests = []applyTest{
	{
		name: "add",
		doc:  `<A><B>x</B></A>`,
		op: &Descriptor{
			XPath:       "/A",
			Literal:     literal(`<C>y</C>`),
			Destination: ".",
			Strategy:    mergeop.Strategy{Kind: mergeop.Add},
		},
		res: `<A><B>x</B><C>y</C></A>`,
		ok:  true,
	},
	{
		name: "insert prepend keeps order",
		doc:  `<L><I>1</I></L>`,
		op: &Descriptor{
			XPath:       "/L/I",
			Literal:     literal(`<I>a</I><I>b</I>`),
			Destination: ".",
			Strategy:    mergeop.Strategy{Kind: mergeop.Insert},
		},
		res: `<L><I>a</I><I>b</I><I>1</I></L>`,
		ok:  true,
	},
	{
		name: "set text only",
		doc:  `<A><B>old</B></A>`,
		op: &Descriptor{
			XPath:       "/A/B",
			Literal:     literal(`new`),
			Destination: ".",
			Strategy:    mergeop.Strategy{Kind: mergeop.Set},
		},
		res: `<A><B>new</B></A>`,
		ok:  true,
	},
	{
		name: "tryadd reports true without change",
		doc:  `<Stats><HP>10</HP></Stats>`,
		op: &Descriptor{
			XPath:       "/Stats",
			Literal:     literal(`<HP>20</HP>`),
			Destination: ".",
			Strategy:    mergeop.Strategy{Kind: mergeop.TryAdd},
		},
		res: `<Stats><HP>10</HP></Stats>`,
		ok:  true,
	},
	{
		name: "copy by query",
		doc:  `<Defs><A><hp>10</hp></A><B/></Defs>`,
		op: &Descriptor{
			XPath:       "/Defs/A",
			Value:       "hp",
			Destination: "/Defs/B",
			Strategy:    mergeop.Strategy{Kind: mergeop.Add},
		},
		res: `<Defs><A><hp>10</hp></A><B><hp>10</hp></B></Defs>`,
		ok:  true,
	},
	{
		name: "creates destination per context",
		doc:  `<Defs><T><n>x</n></T><T><n>y</n></T></Defs>`,
		op: &Descriptor{
			XPath:       "/Defs/T",
			Value:       "n/text()",
			Destination: "label",
			Strategy:    mergeop.Strategy{Kind: mergeop.Set},
		},
		res: `<Defs><T><n>x</n><label>x</label></T><T><n>y</n><label>y</label></T></Defs>`,
		ok:  true,
	},
	{
		name: "text into created attribute",
		doc:  `<Defs><T><n>x</n></T></Defs>`,
		op: &Descriptor{
			XPath:       "/Defs/T",
			Value:       "n/text()",
			Destination: "@Name",
			Strategy:    mergeop.Strategy{Kind: mergeop.Set},
		},
		res: `<Defs><T Name="x"><n>x</n></T></Defs>`,
		ok:  true,
	},
	{
		name: "scalar value",
		doc:  `<Defs><T><n>x</n><n>y</n></T></Defs>`,
		op: &Descriptor{
			XPath:       "/Defs/T",
			Value:       "count(n)",
			Destination: "c",
			Strategy:    mergeop.Strategy{Kind: mergeop.Set},
		},
		res: `<Defs><T><n>x</n><n>y</n><c>2</c></T></Defs>`,
		ok:  true,
	},
	{
		name: "no value",
		doc:  `<A/>`,
		op: &Descriptor{
			XPath:       "/A",
			Value:       "missing",
			Destination: "B",
			Strategy:    mergeop.Strategy{Kind: mergeop.Add},
		},
		res: `<A/>`,
	},
	{
		name: "no context",
		doc:  `<A/>`,
		op: &Descriptor{
			XPath:       "/B",
			Destination: "C",
			Strategy:    mergeop.Strategy{Kind: mergeop.Add},
		},
		res: `<A/>`,
	},
	{
		name: "replace existing",
		doc:  `<A><B>1</B><B>2</B></A>`,
		op: &Descriptor{
			Literal:     literal(`<C/>`),
			Destination: "/A/B",
			Strategy:    mergeop.Strategy{Kind: mergeop.Replace},
		},
		res: `<A><C/><C/></A>`,
		ok:  true,
	},
	{
		name: "replace never creates",
		doc:  `<A><B>1</B></A>`,
		op: &Descriptor{
			Literal:     literal(`<C/>`),
			Destination: "/A/X",
			Strategy:    mergeop.Strategy{Kind: mergeop.Replace},
		},
		res: `<A><B>1</B></A>`,
	},
	{
		name: "false guard skips",
		doc:  `<A/>`,
		op: &Descriptor{
			Literal:     literal(`<C/>`),
			Destination: "/A",
			Strategy:    mergeop.Strategy{Kind: mergeop.Add},
			If:          "exists('/A/B')",
		},
		res: `<A/>`,
		ok:  true,
	},
	{
		name: "true guard applies",
		doc:  `<A><B/></A>`,
		op: &Descriptor{
			Literal:     literal(`<C/>`),
			Destination: "/A",
			Strategy:    mergeop.Strategy{Kind: mergeop.Add},
			If:          "exists('/A/B')",
		},
		res: `<A><B/><C/></A>`,
		ok:  true,
	},
	{
		name: "missing destination",
		doc:  `<A/>`,
		op: &Descriptor{
			XPath:    "/A",
			Strategy: mergeop.Strategy{Kind: mergeop.Add},
		},
		res: `<A/>`,
		err: ErrMissingField,
	},
	{
		name: "bad xpath",
		doc:  `<A/>`,
		op: &Descriptor{
			XPath:       "/A[",
			Destination: "B",
			Strategy:    mergeop.Strategy{Kind: mergeop.Add},
		},
		res: `<A/>`,
		err: query.ErrSyntax,
	},
	{
		name: "snapshot survives removal",
		doc:  `<A><B/><B/><C/></A>`,
		op: &Descriptor{
			XPath:       "/A/B",
			Value:       "/A/C",
			Destination: "/A/B[2]",
			Strategy:    mergeop.Strategy{Kind: mergeop.Set},
		},
		res: `<A><B/><C/><C/></A>`,
		ok:  true,
	},
}

func TestApply(t *testing.T) {
	for _, tc := range applyTests {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := parse.ParseString(tc.doc)
			if err != nil {
				t.Fatal(err)
			}
			ok, err := tc.op.Apply(quietContext(), doc)
			if !errors.Is(err, tc.err) {
				t.Errorf("got error %v want %v", err, tc.err)
			}
			if ok != tc.ok {
				t.Errorf("got %t want %t", ok, tc.ok)
			}
			if got := encode.MustString(doc); got != tc.res {
				t.Errorf("got %s want %s", got, tc.res)
			}
		})
	}
}

func TestApplyIdempotentMatching(t *testing.T) {
	const src = `<Defs><T><n>1</n></T><T><n>2</n></T><U/></Defs>`
	op := &Descriptor{
		XPath:       "/Defs/T",
		Value:       "n",
		Destination: "copy",
		Strategy:    mergeop.Strategy{Kind: mergeop.Add},
	}
	var results []string
	for range 2 {
		doc, err := parse.ParseString(src)
		if err != nil {
			t.Fatal(err)
		}
		if !ApplyWith(quietContext(), doc, op) {
			t.Fatalf("apply failed")
		}
		results = append(results, encode.MustString(doc))
	}
	if results[0] != results[1] {
		t.Errorf("got %s then %s", results[0], results[1])
	}
}

func TestApplyErrorIsFalse(t *testing.T) {
	doc, err := parse.ParseString(`<A/>`)
	if err != nil {
		t.Fatal(err)
	}
	if ApplyWith(quietContext(), doc, &Descriptor{}) {
		t.Errorf("got true want false")
	}
}

func TestErrorContext(t *testing.T) {
	doc, err := parse.ParseString(`<A/>`)
	if err != nil {
		t.Fatal(err)
	}
	op := &Descriptor{Class: "Add", Source: "patches/a.xml", XPath: "/A[", Destination: "B"}
	_, err = op.Apply(quietContext(), doc)
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("got %v want *Error", err)
	}
	if pe.Source != "patches/a.xml" || pe.Query != "/A[" {
		t.Errorf("got source %q query %q", pe.Source, pe.Query)
	}
}
