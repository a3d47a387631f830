package mergeop

import (
	"testing"

	"github.com/signadot/xmlpatch/encode"
	"github.com/signadot/xmlpatch/ir"
	"github.com/signadot/xmlpatch/parse"
	"github.com/signadot/xmlpatch/query"
)

type mergeTest struct {
	name     string
	doc      string
	target   string
	values   []string // fragments; a bare string is a text node
	text     *string
	strategy Strategy
	want     string
	ok       bool
}

func str(s string) *string { return &s }

func nodes(t *testing.T, frags []string) []*ir.Node {
	t.Helper()
	var res []*ir.Node
	for _, f := range frags {
		ns, err := parse.ParseNodes(f)
		if err != nil {
			t.Fatal(err)
		}
		res = append(res, ns...)
	}
	return res
}

var mergeTests = []mergeTest{
	{
		name:     "add",
		doc:      `<A><B>x</B></A>`,
		target:   "/A",
		values:   []string{`<C>y</C>`},
		strategy: Strategy{Kind: Add},
		want:     `<A><B>x</B><C>y</C></A>`,
		ok:       true,
	},
	{
		name:     "add to attribute",
		doc:      `<A b="1"/>`,
		target:   "/A/@b",
		values:   []string{`<C/>`},
		strategy: Strategy{Kind: Add},
		want:     `<A b="1"/>`,
	},
	{
		name:     "add text",
		doc:      `<A>x<B/></A>`,
		target:   "/A",
		text:     str("y"),
		strategy: Strategy{Kind: Add},
		want:     `<A>xy<B/></A>`,
		ok:       true,
	},
	{
		name:     "add text to attribute",
		doc:      `<A b="1"/>`,
		target:   "/A/@b",
		text:     str("2"),
		strategy: Strategy{Kind: Add},
		want:     `<A b="12"/>`,
		ok:       true,
	},
	{
		name:     "empty text",
		doc:      `<A>x</A>`,
		target:   "/A",
		text:     str(""),
		strategy: Strategy{Kind: Set},
		want:     `<A>x</A>`,
	},
	{
		name:     "no values",
		doc:      `<A>x</A>`,
		target:   "/A",
		strategy: Strategy{Kind: Add},
		want:     `<A>x</A>`,
	},
	{
		name:     "insert prepend",
		doc:      `<L><I>1</I></L>`,
		target:   "/L/I",
		values:   []string{`<I>a</I>`, `<I>b</I>`},
		strategy: Strategy{Kind: Insert},
		want:     `<L><I>a</I><I>b</I><I>1</I></L>`,
		ok:       true,
	},
	{
		name:     "insert append",
		doc:      `<L><I>1</I><I>2</I></L>`,
		target:   "/L/I[1]",
		values:   []string{`<I>a</I>`, `<I>b</I>`},
		strategy: Strategy{Kind: Insert, Order: Append},
		want:     `<L><I>1</I><I>a</I><I>b</I><I>2</I></L>`,
		ok:       true,
	},
	{
		name:     "insert at root",
		doc:      `<L/>`,
		target:   "/",
		values:   []string{`<I/>`},
		strategy: Strategy{Kind: Insert},
		want:     `<L/>`,
	},
	{
		name:     "insert text prepend",
		doc:      `<A>old</A>`,
		target:   "/A",
		text:     str("new"),
		strategy: Strategy{Kind: Insert},
		want:     `<A>newold</A>`,
		ok:       true,
	},
	{
		name:     "insert text append",
		doc:      `<A>old</A>`,
		target:   "/A",
		text:     str("new"),
		strategy: Strategy{Kind: Insert, Order: Append},
		want:     `<A>oldnew</A>`,
		ok:       true,
	},
	{
		name:     "set text only",
		doc:      `<A><B>old</B></A>`,
		target:   "/A/B",
		values:   []string{`new`},
		strategy: Strategy{Kind: Set},
		want:     `<A><B>new</B></A>`,
		ok:       true,
	},
	{
		name:     "set text keeps elements",
		doc:      `<A>a<b/>c<d/></A>`,
		target:   "/A",
		values:   []string{`new`},
		strategy: Strategy{Kind: Set},
		want:     `<A><b/>new<d/></A>`,
		ok:       true,
	},
	{
		name:     "set text without text child",
		doc:      `<A><b/></A>`,
		target:   "/A",
		values:   []string{`new`},
		strategy: Strategy{Kind: Set},
		want:     `<A><b/>new</A>`,
		ok:       true,
	},
	{
		name:     "set splices",
		doc:      `<A><B/><C/><D/></A>`,
		target:   "/A/C",
		values:   []string{`<X/>`, `<Y/>`},
		strategy: Strategy{Kind: Set},
		want:     `<A><B/><X/><Y/><D/></A>`,
		ok:       true,
	},
	{
		name:     "set text scalar",
		doc:      `<A><B>old</B></A>`,
		target:   "/A/B",
		text:     str("new"),
		strategy: Strategy{Kind: Set},
		want:     `<A><B>new</B></A>`,
		ok:       true,
	},
	{
		name:     "replace",
		doc:      `<A><B>old</B></A>`,
		target:   "/A/B",
		values:   []string{`<C>new</C>`},
		strategy: Strategy{Kind: Replace},
		want:     `<A><C>new</C></A>`,
		ok:       true,
	},
	{
		name:     "tryadd present",
		doc:      `<Stats><HP>10</HP></Stats>`,
		target:   "/Stats",
		values:   []string{`<HP>20</HP>`},
		strategy: Strategy{Kind: TryAdd},
		want:     `<Stats><HP>10</HP></Stats>`,
		ok:       true,
	},
	{
		name:     "tryadd missing",
		doc:      `<Stats><HP>10</HP></Stats>`,
		target:   "/Stats",
		values:   []string{`<HP>20</HP>`, `<MP>5</MP>`},
		strategy: Strategy{Kind: TryAdd},
		want:     `<Stats><HP>10</HP><MP>5</MP></Stats>`,
		ok:       true,
	},
	{
		name:     "tryadd list",
		doc:      `<tags/>`,
		target:   "/tags",
		values:   []string{`<li>a</li>`, `<li>b</li>`},
		strategy: Strategy{Kind: TryAdd},
		want:     `<tags><li>a</li></tags>`,
		ok:       true,
	},
	{
		name:     "tryadd same name into empty",
		doc:      `<Stats/>`,
		target:   "/Stats",
		values:   []string{`<HP>1</HP>`, `<HP>2</HP>`},
		strategy: Strategy{Kind: TryAdd},
		want:     `<Stats><HP>1</HP></Stats>`,
		ok:       true,
	},
	{
		name:     "insert beside root",
		doc:      `<L/>`,
		target:   "/L",
		values:   []string{`<I/>`, `<J/>`},
		strategy: Strategy{Kind: Insert},
		want:     `<L/>`,
	},
	{
		name:     "insert append beside root",
		doc:      `<L/>`,
		target:   "/L",
		values:   []string{`<I/>`},
		strategy: Strategy{Kind: Insert, Order: Append},
		want:     `<L/>`,
	},
	{
		name:     "set root with several",
		doc:      `<L/>`,
		target:   "/L",
		values:   []string{`<I/>`, `<J/>`},
		strategy: Strategy{Kind: Set},
		want:     `<L/>`,
	},
	{
		name:     "set root with one",
		doc:      `<L><x/></L>`,
		target:   "/L",
		values:   []string{`<M/>`},
		strategy: Strategy{Kind: Set},
		want:     `<M/>`,
		ok:       true,
	},
	{
		name:     "replace keeps position",
		doc:      `<A><B/><C/><D/></A>`,
		target:   "/A/C",
		values:   []string{`<X/>`, `<Y/>`},
		strategy: Strategy{Kind: Replace},
		want:     `<A><B/><X/><Y/><D/></A>`,
		ok:       true,
	},
	{
		name:     "tryadd text replaces empty",
		doc:      `<A><B></B></A>`,
		target:   "/A/B",
		values:   []string{`x`},
		strategy: Strategy{Kind: TryAdd},
		want:     `<A><B>x</B></A>`,
		ok:       true,
	},
	{
		name:     "tryadd text present",
		doc:      `<A><B>y</B></A>`,
		target:   "/A/B",
		values:   []string{`x`},
		strategy: Strategy{Kind: TryAdd},
		want:     `<A><B>y</B></A>`,
		ok:       true,
	},
	{
		name:     "tryadd scalar on empty attribute",
		doc:      `<A b=""/>`,
		target:   "/A/@b",
		text:     str("x"),
		strategy: Strategy{Kind: TryAdd},
		want:     `<A b="x"/>`,
		ok:       true,
	},
	{
		name:     "tryadd scalar on set attribute",
		doc:      `<A b="y"/>`,
		target:   "/A/@b",
		text:     str("x"),
		strategy: Strategy{Kind: TryAdd},
		want:     `<A b="y"/>`,
	},
}

func TestStrategies(t *testing.T) {
	for _, mt := range mergeTests {
		t.Run(mt.name, func(t *testing.T) {
			doc, err := parse.ParseString(mt.doc)
			if err != nil {
				t.Fatal(err)
			}
			targets, err := query.Select(doc, mt.target)
			if err != nil {
				t.Fatal(err)
			}
			if mt.target == "/" {
				targets = []*ir.Node{doc}
			}
			if len(targets) != 1 {
				t.Fatalf("target %q: %d matches", mt.target, len(targets))
			}
			var ok bool
			if mt.text != nil {
				ok = mt.strategy.ApplyText(nil, *mt.text, targets[0])
			} else {
				ok = mt.strategy.ApplyNodes(nil, nodes(t, mt.values), targets[0])
			}
			if ok != mt.ok {
				t.Errorf("got %t want %t", ok, mt.ok)
			}
			if got := encode.MustString(doc); got != mt.want {
				t.Errorf("got %s want %s", got, mt.want)
			}
		})
	}
}

func TestValuesNeverAliased(t *testing.T) {
	doc, err := parse.ParseString(`<A><B/><C/></A>`)
	if err != nil {
		t.Fatal(err)
	}
	src, err := parse.ParseFragment(`<src><v>1</v></src>`)
	if err != nil {
		t.Fatal(err)
	}
	v := src.Children[0]
	targets, _ := query.Select(doc, "/A/*")
	for _, tgt := range targets {
		Strategy{Kind: Add}.ApplyNodes(nil, []*ir.Node{v}, tgt)
	}
	if v.Parent != src {
		t.Errorf("value was moved out of its tree")
	}
	if got, want := encode.MustString(doc), `<A><B><v>1</v></B><C><v>1</v></C></A>`; got != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestAddNothingLinked(t *testing.T) {
	doc, err := parse.ParseString(`<A/>`)
	if err != nil {
		t.Fatal(err)
	}
	vs := []*ir.Node{ir.NewAttr("b", "1"), ir.NewDocument()}
	if (Strategy{Kind: Add}).ApplyNodes(nil, vs, doc.DocumentElement()) {
		t.Errorf("got true want false")
	}
	if got, want := encode.MustString(doc), `<A/>`; got != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestApplyCoercesForAttr(t *testing.T) {
	doc, err := parse.ParseString(`<A id=""/>`)
	if err != nil {
		t.Fatal(err)
	}
	attr := doc.DocumentElement().Attr("id")
	v := query.Value{Nodes: []*ir.Node{ir.NewText("x")}}
	if !(Strategy{Kind: Set}).Apply(nil, v, attr) {
		t.Errorf("got false want true")
	}
	if attr.Text != "x" {
		t.Errorf("got %q want %q", attr.Text, "x")
	}
}

func TestKindText(t *testing.T) {
	for _, k := range Kinds() {
		d, _ := k.MarshalText()
		var got Kind
		if err := got.UnmarshalText(d); err != nil || got != k {
			t.Errorf("%s: got %s %v", k, got, err)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("Merge")); err == nil {
		t.Errorf("expected error for unknown kind")
	}
	var o Order
	if err := o.UnmarshalText([]byte("Append")); err != nil || o != Append {
		t.Errorf("got %s %v", o, err)
	}
}
