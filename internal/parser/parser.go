package parser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrParse marks a file the front end could not turn into a usable tree.
// Callers treat it as "no declarations, no issues", never as a fatal error.
var ErrParse = errors.New("source could not be parsed")

// File is one parsed source file. Root is the module node of a
// tree-sitter concrete syntax tree over Source.
type File struct {
	Path   string
	Source []byte
	Root   *sitter.Node

	tree *sitter.Tree
}

// ParseSource parses Python source text. A tree with syntax errors is
// rejected wholesale so that downstream counts stay deterministic.
func ParseSource(src []byte, name string) (*File, error) {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())

	tree, err := p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, ErrParse
	}
	root := tree.RootNode()
	if root == nil || root.HasError() {
		tree.Close()
		return nil, ErrParse
	}
	return &File{Path: name, Source: src, Root: root, tree: tree}, nil
}

// ParseFile reads and parses one file. Non-Python paths and unreadable
// files report ErrParse like any other unparseable input.
func ParseFile(path string) (*File, error) {
	if !strings.EqualFold(filepath.Ext(path), ".py") {
		return nil, ErrParse
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrParse
	}
	return ParseSource(src, path)
}

// Close releases the underlying tree. Safe on nil receivers.
func (f *File) Close() {
	if f != nil && f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// Text returns the source slice covered by a node.
func (f *File) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(f.Source[n.StartByte():n.EndByte()])
}

// Line is the 1-based line of a node's start.
func Line(n *sitter.Node) int { return int(n.StartPoint().Row) + 1 }

// Column is the 0-based column of a node's start.
func Column(n *sitter.Node) int { return int(n.StartPoint().Column) }

// Walk visits every named node in the tree, parents before children.
func (f *File) Walk(fn func(n *sitter.Node)) {
	walk(f.Root, fn)
}

func walk(n *sitter.Node, fn func(*sitter.Node)) {
	fn(n)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walk(n.NamedChild(i), fn)
	}
}

// CallName returns the constructor name of a call node: the bare
// identifier, or the final member of a qualified access. Empty for
// anything else.
func (f *File) CallName(n *sitter.Node) string {
	if n == nil || n.Type() != "call" {
		return ""
	}
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	switch fn.Type() {
	case "identifier":
		return f.Text(fn)
	case "attribute":
		return f.Text(fn.ChildByFieldName("attribute"))
	}
	return ""
}

// IsCall reports whether n is a call to the named constructor, matched
// by bare name or by a qualified access ending in that name.
func (f *File) IsCall(n *sitter.Node, name string) bool {
	return f.CallName(n) == name
}

// Keyword returns the value node of a keyword argument, or nil.
func (f *File) Keyword(call *sitter.Node, name string) *sitter.Node {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		kw := args.NamedChild(i)
		if kw.Type() != "keyword_argument" {
			continue
		}
		if f.Text(kw.ChildByFieldName("name")) == name {
			return kw.ChildByFieldName("value")
		}
	}
	return nil
}

// HasKeyword reports whether the call carries the keyword argument.
func (f *File) HasKeyword(call *sitter.Node, name string) bool {
	return f.Keyword(call, name) != nil
}

// EachCall walks the tree and invokes fn for every call to the named
// constructor.
func (f *File) EachCall(name string, fn func(call *sitter.Node)) {
	f.Walk(func(n *sitter.Node) {
		if n.Type() == "call" && f.CallName(n) == name {
			fn(n)
		}
	})
}
