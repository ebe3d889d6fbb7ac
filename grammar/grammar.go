package grammar

import "github.com/alecthomas/participle/v2/lexer"

// Dump is a whole AST dump file: a sequence of S-expressions, normally a
// single translation-unit node.
type Dump struct {
	Nodes []*Node `@@*`
}

// Node is one parenthesized form. Head names the node kind, items are its
// attributes and child nodes in source order.
type Node struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Head   string  `"(" @Ident`
	Items  []*Item `@@* ")"`
}

type Item struct {
	Node *Node `  @@`
	Attr *Attr `| @@`
}

// Attr is either key=value or a bare flag.
type Attr struct {
	Pos   lexer.Position
	Key   string `@Ident`
	Value *Value `( "=" @@ )?`
}

type Value struct {
	Loc   *Loc    `  @@`
	Str   *string `| @String`
	Int   *int64  `| @Int`
	Ident *string `| @Ident`
}

// Loc is a source location written as <line:col>, <"file":line:col> or a
// macro location <#expansion+offset>.
type Loc struct {
	Pos   lexer.Position
	Macro *MacroLoc `  "<" @@ ">"`
	File  *FileLoc  `| "<" @@ ">"`
}

type MacroLoc struct {
	Expansion int64 `"#" @Int`
	Offset    int64 `( "+" @Int )?`
}

type FileLoc struct {
	File   string `( @String ":" )?`
	Line   int64  `@Int ":"`
	Column int64  `@Int`
}

// Children returns the child nodes of n in order.
func (n *Node) Children() []*Node {
	var out []*Node
	for _, it := range n.Items {
		if it.Node != nil {
			out = append(out, it.Node)
		}
	}
	return out
}

// Attrs returns the attributes of n in order.
func (n *Node) Attrs() []*Attr {
	var out []*Attr
	for _, it := range n.Items {
		if it.Attr != nil {
			out = append(out, it.Attr)
		}
	}
	return out
}

// Attr looks up the first attribute named key.
func (n *Node) Attr(key string) *Attr {
	for _, it := range n.Items {
		if it.Attr != nil && it.Attr.Key == key {
			return it.Attr
		}
	}
	return nil
}

// Flag reports whether a bare flag (or a key=true attribute) is present.
func (n *Node) Flag(key string) bool {
	a := n.Attr(key)
	if a == nil {
		return false
	}
	if a.Value == nil {
		return true
	}
	if a.Value.Ident != nil {
		return *a.Value.Ident == "true"
	}
	if a.Value.Int != nil {
		return *a.Value.Int != 0
	}
	return false
}

// Text returns the attribute value as text for string, identifier and
// integer values.
func (a *Attr) Text() (string, bool) {
	if a == nil || a.Value == nil {
		return "", false
	}
	switch {
	case a.Value.Str != nil:
		return *a.Value.Str, true
	case a.Value.Ident != nil:
		return *a.Value.Ident, true
	case a.Value.Int != nil:
		return lexerInt(*a.Value.Int), true
	}
	return "", false
}
