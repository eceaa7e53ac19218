package analysis

import (
	"sort"
	"unicode"

	"github.com/nedpals/enumcomplete/completion"
	sitter "github.com/smacker/go-tree-sitter"
)

// Node wraps a tree-sitter node with its parent link, its kind in the
// completion model and the names it binds.
type Node struct {
	file     *SourceFile
	ts       *sitter.Node
	typ      string
	kind     completion.SyntaxKind
	start    int
	end      int
	parent   *Node
	children []*Node
	locals   *SymbolTable
}

func (n *Node) Kind() completion.SyntaxKind { return n.kind }

// Type returns the tree-sitter node type, for example "enum_declaration".
func (n *Node) Type() string { return n.typ }

func (n *Node) Text() string {
	return string(n.file.content[n.start:n.end])
}

func (n *Node) Span() completion.TextSpan {
	return completion.NewTextSpan(n.start, n.end)
}

func (n *Node) Parent() completion.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Locals() completion.SymbolTable {
	if n.locals == nil {
		return nil
	}
	return n.locals
}

func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) IsNamed() bool {
	return n.ts.IsNamed()
}

// Field returns the child stored under the grammar field name, or nil.
func (n *Node) Field(name string) *Node {
	child := n.ts.ChildByFieldName(name)
	if child == nil {
		return nil
	}
	return n.childFor(child)
}

func (n *Node) childFor(ts *sitter.Node) *Node {
	start, end, typ := int(ts.StartByte()), int(ts.EndByte()), ts.Type()
	for _, child := range n.children {
		if child.start == start && child.end == end && child.typ == typ {
			return child
		}
	}
	return nil
}

// NamedChildren returns the children that are not anonymous tokens or
// comments.
func (n *Node) NamedChildren() []*Node {
	named := make([]*Node, 0, len(n.children))
	for _, child := range n.children {
		if child.IsNamed() && child.kind != completion.CommentKind {
			named = append(named, child)
		}
	}
	return named
}

// HasChild reports whether n has an anonymous child token with the given
// text, for example "const" in `const enum`.
func (n *Node) HasChild(token string) bool {
	for _, child := range n.children {
		if !child.IsNamed() && child.typ == token {
			return true
		}
	}
	return false
}

func syntaxKindOf(ts *sitter.Node) completion.SyntaxKind {
	switch ts.Type() {
	case "identifier", "type_identifier":
		return completion.IdentifierKind
	case "private_property_identifier":
		return completion.PrivateIdentifierKind
	case "string", "string_fragment", "escape_sequence", "template_string", "regex", "regex_pattern":
		return completion.StringLiteralKind
	case "number":
		return completion.NumericLiteralKind
	case "comment", "html_comment":
		return completion.CommentKind
	case "member_expression":
		return completion.PropertyAccessExpressionKind
	case "subscript_expression":
		return completion.ElementAccessExpressionKind
	case "nested_identifier", "nested_type_identifier":
		return completion.QualifiedNameKind
	case "program":
		return completion.SourceFileKind
	case "statement_block":
		return completion.BlockKind
	}

	if !ts.IsNamed() {
		for _, r := range ts.Type() {
			if !unicode.IsLetter(r) {
				return completion.PunctuationKind
			}
		}
		return completion.KeywordKind
	}

	return completion.OtherKind
}

func (f *SourceFile) buildNode(ts *sitter.Node, parent *Node) *Node {
	node := &Node{
		file:   f,
		ts:     ts,
		typ:    ts.Type(),
		kind:   syntaxKindOf(ts),
		start:  int(ts.StartByte()),
		end:    int(ts.EndByte()),
		parent: parent,
	}

	count := int(ts.ChildCount())
	if count == 0 {
		// missing nodes inserted by error recovery have no text
		if node.end > node.start {
			f.tokens = append(f.tokens, node)
		}
		return node
	}

	node.children = make([]*Node, 0, count)
	for i := 0; i < count; i++ {
		child := ts.Child(i)
		if child == nil {
			continue
		}
		node.children = append(node.children, f.buildNode(child, node))
	}
	return node
}

// PrecedingToken returns the rightmost token that starts before offset.
// Comments are skipped unless offset falls inside one.
func (f *SourceFile) PrecedingToken(offset int) completion.Node {
	i := sort.Search(len(f.tokens), func(i int) bool {
		return f.tokens[i].start >= offset
	}) - 1

	for ; i >= 0; i-- {
		token := f.tokens[i]
		if token.kind != completion.CommentKind || offset <= token.end {
			return token
		}
	}
	return nil
}
