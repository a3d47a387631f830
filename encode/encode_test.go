package encode

import (
	"bytes"
	"testing"

	"github.com/signadot/xmlpatch/ir"
	"github.com/signadot/xmlpatch/parse"
)

func TestEncodeCompact(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`<A/>`, `<A/>`},
		{`<A><B>x</B></A>`, `<A><B>x</B></A>`},
		{`<A b="1" c="&lt;&amp;&quot;"/>`, `<A b="1" c="&lt;&amp;&quot;"/>`},
		{`<A>a &lt; b</A>`, `<A>a &lt; b</A>`},
		{`<A><!-- note --><B/></A>`, `<A><!-- note --><B/></A>`},
		{`<A><![CDATA[x<y]]></A>`, `<A>x&lt;y</A>`},
		{`<li:x xmlns:li="urn:x"><li:y/></li:x>`, `<li:x xmlns:li="urn:x"><li:y/></li:x>`},
		{"<?xml version=\"1.0\"?>\n<A>\n  <B>t</B>\n</A>", `<A><B>t</B></A>`},
	}
	for _, tt := range tests {
		doc, err := parse.ParseString(tt.in)
		if err != nil {
			t.Errorf("%s: %v", tt.in, err)
			continue
		}
		if got := MustString(doc); got != tt.want {
			t.Errorf("got %q want %q", got, tt.want)
		}
	}
}

func TestEncodeIndent(t *testing.T) {
	doc, err := parse.ParseString(`<Defs><ThingDef Name="A"><label>a <b>b</b></label><tags><li>x</li></tags></ThingDef></Defs>`)
	if err != nil {
		t.Fatal(err)
	}
	want := `<Defs>
  <ThingDef Name="A">
    <label>a <b>b</b></label>
    <tags>
      <li>x</li>
    </tags>
  </ThingDef>
</Defs>
`
	buf := bytes.NewBuffer(nil)
	if err := Encode(doc, buf, EncodeIndent(2)); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestEncodeEmptyText(t *testing.T) {
	el := ir.NewElement("B")
	el.AppendChild(ir.NewText(""))
	if got := MustString(el); got != "<B></B>" {
		t.Errorf("got %q want %q", got, "<B></B>")
	}
}

func TestEncodeBadComment(t *testing.T) {
	el := ir.NewElement("B")
	el.AppendChild(ir.NewComment("a--b"))
	if err := Encode(el, bytes.NewBuffer(nil)); err == nil {
		t.Errorf("expected error")
	}
}

func TestInnerXML(t *testing.T) {
	el, err := parse.ParseFragment(`<value><li>a</li>text<li>b</li></value>`)
	if err != nil {
		t.Fatal(err)
	}
	got, err := InnerXML(el)
	if err != nil {
		t.Fatal(err)
	}
	if want := `<li>a</li>text<li>b</li>`; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestColorsPlainWhenNil(t *testing.T) {
	el := ir.NewElement("B")
	buf := bytes.NewBuffer(nil)
	if err := Encode(el, buf, EncodeColors(nil)); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "<B/>" {
		t.Errorf("got %q", buf.String())
	}
}
