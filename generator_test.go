package xmlpatch

import (
	"errors"
	"testing"

	"github.com/signadot/xmlpatch/encode"
	"github.com/signadot/xmlpatch/eval"
	"github.com/signadot/xmlpatch/parse"
)

const genDoc = `<Defs><T Name="a"><n>1</n></T></Defs>`

var generatorTests = []applyTest{
	{
		name: "splice unwraps",
		doc:  genDoc,
		op: &Generator{
			XPath:    "/Defs/T",
			Template: `<Defs><U><from>{@Name}</from></U><V>{n}</V></Defs>`,
		},
		res: `<Defs><T Name="a"><n>1</n></T><U><from>a</from></U><V>1</V></Defs>`,
		ok:  true,
	},
	{
		name: "splice single element",
		doc:  `<Defs><T><n>1</n></T><T><n>2</n></T></Defs>`,
		op: &Generator{
			XPath:    "/Defs/T",
			Template: `<U>{n}</U>`,
		},
		res: `<Defs><T><n>1</n></T><U>1</U><T><n>2</n></T><U>2</U></Defs>`,
		ok:  true,
	},
	{
		name: "splice beside root fails",
		doc:  genDoc,
		op: &Generator{
			XPath:    "/Defs",
			Template: `<U/>`,
		},
		res: genDoc,
	},
	{
		name: "defs appends to root",
		doc:  genDoc,
		op: &Generator{
			XPath:    "/Defs/T/n",
			Template: `<Defs><D>{.}</D></Defs>`,
			Mode:     Defs,
		},
		res: `<Defs><T Name="a"><n>1</n></T><D>1</D></Defs>`,
		ok:  true,
	},
	{
		name: "custom wrapper",
		doc:  genDoc,
		op: &Generator{
			XPath:    "/Defs/T",
			Template: `<Items><I>{count(n)}</I></Items>`,
			Wrapper:  "Items",
		},
		res: `<Defs><T Name="a"><n>1</n></T><I>1</I></Defs>`,
		ok:  true,
	},
	{
		name: "empty wrapper fails",
		doc:  genDoc,
		op: &Generator{
			XPath:    "/Defs/T",
			Template: `<Defs></Defs>`,
		},
		res: genDoc,
	},
	{
		name: "no match",
		doc:  genDoc,
		op: &Generator{
			XPath:    "/Defs/X",
			Template: `<U/>`,
		},
		res: genDoc,
	},
	{
		name: "brace mismatch",
		doc:  genDoc,
		op: &Generator{
			XPath:    "/Defs/T",
			Template: `<U>{n</U>`,
		},
		res: genDoc,
		err: eval.ErrBraceMismatch,
	},
	{
		name: "fragment parse error",
		doc:  genDoc,
		op: &Generator{
			XPath:    "/Defs/T",
			Template: `<U>{n}`,
		},
		res: genDoc,
		err: parse.ErrParse,
	},
	{
		name: "missing template",
		doc:  genDoc,
		op:   &Generator{XPath: "/Defs/T"},
		res:  genDoc,
		err:  ErrMissingField,
	},
	{
		name: "nested patches",
		doc:  genDoc,
		op: &Generator{
			XPath: "/Defs/T",
			Mode:  Patch,
			Template: `<Patch><Operation Class="Add">` +
				`<xpath>/Defs/T[@Name='{string(@Name)}']</xpath>` +
				`<value>n</value><destination>copy</destination>` +
				`</Operation></Patch>`,
		},
		res: `<Defs><T Name="a"><n>1</n><copy><n>1</n></copy></T></Defs>`,
		ok:  true,
	},
	{
		name: "nested patch failure",
		doc:  genDoc,
		op: &Generator{
			XPath:    "/Defs/T",
			Mode:     Patch,
			Template: `<Patch><Operation Class="Add"><xpath>/Nope</xpath><destination>x</destination></Operation></Patch>`,
		},
		res: genDoc,
	},
}

func TestGenerator(t *testing.T) {
	for _, tc := range generatorTests {
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

func TestGenModeWrapper(t *testing.T) {
	for _, tc := range []struct {
		mode GenMode
		want string
	}{
		{Splice, "Defs"},
		{Defs, "Defs"},
		{Patch, "Patch"},
	} {
		if got := tc.mode.Wrapper(); got != tc.want {
			t.Errorf("%s: got %q want %q", tc.mode, got, tc.want)
		}
	}
}
