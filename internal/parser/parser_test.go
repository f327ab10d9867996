package parser

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
)

func mustParse(t *testing.T, src string) *File {
	t.Helper()
	f, err := ParseSource([]byte(src), "test.py")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	t.Cleanup(f.Close)
	return f
}

func TestParseSource_RejectsSyntaxErrors(t *testing.T) {
	if _, err := ParseSource([]byte("def broken(:\n"), "bad.py"); err == nil {
		t.Fatal("want parse error")
	}
}

func TestCallName(t *testing.T) {
	f := mustParse(t, "a = Job(name=\"x\")\nb = wg.pipeline.Job(name=\"y\")\n")
	var names []string
	f.Walk(func(n *sitter.Node) {
		if n.Type() == "call" {
			names = append(names, f.CallName(n))
		}
	})
	if len(names) != 2 || names[0] != "Job" || names[1] != "Job" {
		t.Fatalf("names = %v", names)
	}
}

func TestKeywordLookup(t *testing.T) {
	f := mustParse(t, `j = Job(name="build", stage="build", needs=["a", "b"])`)
	var call *sitter.Node
	f.EachCall("Job", func(n *sitter.Node) { call = n })
	if call == nil {
		t.Fatal("no Job call found")
	}
	if !f.HasKeyword(call, "stage") || f.HasKeyword(call, "when") {
		t.Error("keyword presence wrong")
	}
	if v, ok := f.StringValue(f.Keyword(call, "name")); !ok || v != "build" {
		t.Errorf("name = %q ok=%v", v, ok)
	}
	if deps, ok := f.StringList(f.Keyword(call, "needs")); !ok || len(deps) != 2 {
		t.Errorf("needs = %v ok=%v", deps, ok)
	}
}

func TestStringValue_QuoteVariants(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`s = Job(name="double")`, "double"},
		{`s = Job(name='single')`, "single"},
		{`s = Job(name="""triple""")`, "triple"},
		{`s = Job(name=r"raw")`, "raw"},
	}
	for _, tc := range cases {
		f := mustParse(t, tc.src)
		var got string
		f.EachCall("Job", func(call *sitter.Node) {
			got, _ = f.StringValue(f.Keyword(call, "name"))
		})
		if got != tc.want {
			t.Errorf("%s: got %q want %q", tc.src, got, tc.want)
		}
	}
}

func TestStringValue_RejectsFStrings(t *testing.T) {
	cases := []string{
		`s = Job(name=f"{env}")`,
		`s = Job(name=F"deploy-{env}")`,
		`s = Job(name=f'{env}-job')`,
	}
	for _, src := range cases {
		f := mustParse(t, src)
		var got string
		var ok bool
		f.EachCall("Job", func(call *sitter.Node) {
			got, ok = f.StringValue(f.Keyword(call, "name"))
		})
		if ok {
			t.Errorf("%s: formatted string extracted as literal %q", src, got)
		}
	}
}

func TestWhenValue(t *testing.T) {
	f := mustParse(t, `j = Job(when=When.MANUAL)
k = Job(when="always")`)
	var got []string
	f.EachCall("Job", func(call *sitter.Node) {
		if v, ok := f.WhenValue(f.Keyword(call, "when")); ok {
			got = append(got, v)
		}
	})
	if len(got) != 2 || got[0] != "manual" || got[1] != "always" {
		t.Fatalf("got %v", got)
	}
}

func TestStringMap_WrapperCall(t *testing.T) {
	f := mustParse(t, `j = Job(variables=Variables(FOO="bar", NUM=1))`)
	var m map[string]string
	f.EachCall("Job", func(call *sitter.Node) {
		m, _ = f.StringMap(f.Keyword(call, "variables"))
	})
	if m["FOO"] != "bar" {
		t.Errorf("FOO = %q", m["FOO"])
	}
	if _, ok := m["NUM"]; ok {
		t.Error("non-string value should be dropped")
	}
}
