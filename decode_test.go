package xmlpatch

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/signadot/xmlpatch/encode"
	"github.com/signadot/xmlpatch/ir"
	"github.com/signadot/xmlpatch/mergeop"
	"github.com/signadot/xmlpatch/parse"
)

const patchFile = `<?xml version="1.0" encoding="utf-8"?>
<Patch>
  <!-- copies -->
  <Operation Class="CopyOperation.Insert">
    <xpath>/Defs/T</xpath>
    <value>n</value>
    <destination>list/li</destination>
    <order>Append</order>
    <debug>true</debug>
  </Operation>
  <Operation Class="PatchOperationSet">
    <xpath>/Defs/T/label</xpath>
    <value>hello</value>
  </Operation>
  <Operation Class="DefGenerator">
    <xpath>/Defs/T</xpath>
    <value>
      <Defs><D>{n}</D></Defs>
    </value>
  </Operation>
  <Operation Class="PostInheritanceOperation.Patch">
    <operation Class="Add">
      <xpath>/Defs</xpath>
      <value>T</value>
      <destination>.</destination>
    </operation>
  </Operation>
  <Operation Class="Sequence">
    <operations>
      <li Class="Set"><destination>x</destination><if>ready</if></li>
    </operations>
  </Operation>
</Patch>`

func TestDecodeAll(t *testing.T) {
	doc, err := parse.ParseString(patchFile)
	if err != nil {
		t.Fatal(err)
	}
	ops, err := DecodeAll(doc, "p.xml")
	if err != nil {
		t.Fatal(err)
	}
	want := []Operation{
		&Descriptor{
			Class:       "CopyOperation.Insert",
			Source:      "p.xml",
			XPath:       "/Defs/T",
			Value:       "n",
			Destination: "list/li",
			Strategy:    mergeop.Strategy{Kind: mergeop.Insert, Order: mergeop.Append},
			Debug:       true,
		},
		&Descriptor{
			Class:       "PatchOperationSet",
			Source:      "p.xml",
			Destination: "/Defs/T/label",
			Strategy:    mergeop.Strategy{Kind: mergeop.Set},
		},
		&Generator{
			Class:    "DefGenerator",
			Source:   "p.xml",
			XPath:    "/Defs/T",
			Template: `<Defs><D>{n}</D></Defs>`,
			Mode:     Defs,
		},
		&Deferred{
			Class:  "PostInheritanceOperation.Patch",
			Source: "p.xml",
			Op: &Descriptor{
				Class:       "Add",
				Source:      "p.xml",
				XPath:       "/Defs",
				Value:       "T",
				Destination: ".",
			},
		},
		&Sequence{
			Class:  "Sequence",
			Source: "p.xml",
			Ops: []Operation{
				&Descriptor{
					Class:       "Set",
					Source:      "p.xml",
					Destination: "x",
					Strategy:    mergeop.Strategy{Kind: mergeop.Set},
					If:          "ready",
				},
			},
		},
	}
	if diff := cmp.Diff(want, ops, cmpopts.IgnoreFields(Descriptor{}, "Literal")); diff != "" {
		t.Errorf("decode mismatch (-want +got):\n%s", diff)
	}
	lit := ops[1].(*Descriptor).Literal
	if got, _ := encode.InnerXML(lit); got != "hello" {
		t.Errorf("got %q want %q", got, "hello")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		in  string
		err error
	}{
		{`<Operation><xpath>/A</xpath></Operation>`, ErrDecode},
		{`<Operation Class="Merge"/>`, ErrUnknownClass},
		{`<Operation Class="Add"><debug>maybe</debug></Operation>`, ErrDecode},
		{`<Operation Class="Insert"><order>Middle</order></Operation>`, ErrDecode},
		{`<Operation Class="PatchOperationSet"><xpath>/A</xpath></Operation>`, ErrMissingField},
		{`<Operation Class="Sequence"/>`, ErrMissingField},
		{`<Operation Class="Deferred"><operation Class="Nope"/></Operation>`, ErrUnknownClass},
	}
	for _, tc := range tests {
		el, err := parse.ParseFragment(tc.in)
		if err != nil {
			t.Fatal(err)
		}
		_, err = Decode(el, "")
		if !errors.Is(err, tc.err) {
			t.Errorf("%s: got %v want %v", tc.in, err, tc.err)
		}
	}
}

func TestDecodeAllPartial(t *testing.T) {
	doc, err := parse.ParseString(`<Patch><Operation Class="Add"><destination>a</destination></Operation><Operation Class="Nope"/><Other/></Patch>`)
	if err != nil {
		t.Fatal(err)
	}
	ops, err := DecodeAll(doc, "p.xml")
	if len(ops) != 1 {
		t.Errorf("got %d operations want 1", len(ops))
	}
	if !errors.Is(err, ErrUnknownClass) || !errors.Is(err, ErrDecode) {
		t.Errorf("got %v", err)
	}
	if _, err := DecodeAll(ir.NewDocument(), "empty.xml"); !errors.Is(err, ErrDecode) {
		t.Errorf("got %v want %v", err, ErrDecode)
	}
}

func TestRegistry(t *testing.T) {
	if err := Register("Add", decodeDeferred); !errors.Is(err, ErrClassExists) {
		t.Errorf("got %v want %v", err, ErrClassExists)
	}
	classes := Classes()
	if !slices.IsSorted(classes) {
		t.Errorf("classes not sorted: %v", classes)
	}
	for _, c := range []string{"Add", "CopyOperation.TryAdd", "PatchOperationTryAdd", "Generator", "PatchGenerator", "Deferred"} {
		if !slices.Contains(classes, c) {
			t.Errorf("missing class %q", c)
		}
	}
	if Lookup("Nope") != nil {
		t.Errorf("unexpected decoder for Nope")
	}
}
