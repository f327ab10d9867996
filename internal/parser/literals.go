package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// StringValue extracts a literal string. Non-string nodes (names,
// calls, numbers) and f-strings yield ok=false: an f-string's value
// depends on runtime context, so treating `f"{env}"` as the text
// `{env}` would mislead every rule built on literal comparison.
func (f *File) StringValue(n *sitter.Node) (string, bool) {
	if n == nil || n.Type() != "string" {
		return "", false
	}
	if isFString(f, n) {
		return "", false
	}
	return unquote(f.Text(n)), true
}

// isFString detects formatted string literals, either by the f prefix
// on the token or by interpolation children in the parse tree.
func isFString(f *File, n *sitter.Node) bool {
	raw := f.Text(n)
	if i := strings.IndexAny(raw, `"'`); i > 0 {
		if strings.ContainsAny(raw[:i], "fF") {
			return true
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if n.NamedChild(i).Type() == "interpolation" {
			return true
		}
	}
	return false
}

// StringList extracts the literal string elements of a list node.
// Non-literal elements are silently dropped; ok is false when the node
// is not a list at all.
func (f *File) StringList(n *sitter.Node) ([]string, bool) {
	if n == nil || n.Type() != "list" {
		return nil, false
	}
	var out []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if v, ok := f.StringValue(n.NamedChild(i)); ok {
			out = append(out, v)
		}
	}
	return out, true
}

// StringMap extracts string keys and values from a dictionary literal,
// or from the keyword arguments of a wrapper call such as
// Variables(FOO="bar"). Entries without literal string values are
// dropped.
func (f *File) StringMap(n *sitter.Node) (map[string]string, bool) {
	if n == nil {
		return nil, false
	}
	switch n.Type() {
	case "dictionary":
		out := map[string]string{}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			pair := n.NamedChild(i)
			if pair.Type() != "pair" {
				continue
			}
			k, kok := f.StringValue(pair.ChildByFieldName("key"))
			v, vok := f.StringValue(pair.ChildByFieldName("value"))
			if kok && vok {
				out[k] = v
			}
		}
		return out, true
	case "call":
		args := n.ChildByFieldName("arguments")
		if args == nil {
			return nil, false
		}
		out := map[string]string{}
		for i := 0; i < int(args.NamedChildCount()); i++ {
			kw := args.NamedChild(i)
			if kw.Type() != "keyword_argument" {
				continue
			}
			if v, ok := f.StringValue(kw.ChildByFieldName("value")); ok {
				out[f.Text(kw.ChildByFieldName("name"))] = v
			}
		}
		return out, true
	}
	return nil, false
}

// WhenValue normalizes an execution condition: a literal string is
// taken as-is, a dotted reference collapses to its lower-cased member
// name (When.MANUAL -> "manual").
func (f *File) WhenValue(n *sitter.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	if s, ok := f.StringValue(n); ok {
		return s, true
	}
	if n.Type() == "attribute" {
		return strings.ToLower(f.Text(n.ChildByFieldName("attribute"))), true
	}
	return "", false
}

// IsDottedMember reports whether n is a qualified reference ending in
// the given member name, e.g. When.MANUAL for member "MANUAL".
func (f *File) IsDottedMember(n *sitter.Node, member string) bool {
	return n != nil && n.Type() == "attribute" &&
		f.Text(n.ChildByFieldName("attribute")) == member
}

// unquote strips Python quoting from a raw string token, including
// prefix letters (r, b, f, u) and triple quotes.
func unquote(raw string) string {
	if i := strings.IndexAny(raw, `"'`); i > 0 {
		raw = raw[i:]
	}
	if strings.HasPrefix(raw, `"""`) && strings.HasSuffix(raw, `"""`) && len(raw) >= 6 {
		return raw[3 : len(raw)-3]
	}
	if strings.HasPrefix(raw, "'''") && strings.HasSuffix(raw, "'''") && len(raw) >= 6 {
		return raw[3 : len(raw)-3]
	}
	return strings.Trim(raw, `"'`)
}
