package completion

import "unicode"

type mockTable struct {
	names   []string
	symbols map[string]Symbol
}

func newTable(symbols ...*mockSymbol) *mockTable {
	t := &mockTable{symbols: map[string]Symbol{}}
	for _, sym := range symbols {
		t.put(sym.name, sym)
	}
	return t
}

func (t *mockTable) put(name string, sym Symbol) {
	if _, found := t.symbols[name]; !found {
		t.names = append(t.names, name)
	}
	t.symbols[name] = sym
}

func (t *mockTable) Len() int { return len(t.names) }

func (t *mockTable) Has(name string) bool {
	_, found := t.symbols[name]
	return found
}

func (t *mockTable) Get(name string) Symbol { return t.symbols[name] }

func (t *mockTable) Each(fn func(sym Symbol)) {
	for _, name := range t.names {
		fn(t.symbols[name])
	}
}

// brokenTable claims to contain every name but never returns a symbol.
type brokenTable struct{}

func (brokenTable) Len() int               { return 1 }
func (brokenTable) Has(name string) bool   { return true }
func (brokenTable) Get(name string) Symbol { return nil }
func (brokenTable) Each(fn func(Symbol))   {}

type mockSymbol struct {
	name    string
	flags   SymbolFlags
	exports SymbolTable
	target  *mockSymbol
}

func (s *mockSymbol) Name() string       { return s.name }
func (s *mockSymbol) Flags() SymbolFlags { return s.flags }
func (s *mockSymbol) Exports() SymbolTable {
	if s.exports == nil {
		return nil
	}
	return s.exports
}

func enumSymbol(name string, members ...string) *mockSymbol {
	exports := newTable()
	for _, m := range members {
		exports.put(m, &mockSymbol{name: m, flags: EnumMemberFlag})
	}
	return &mockSymbol{name: name, flags: RegularEnumFlag, exports: exports}
}

func aliasOf(name string, target *mockSymbol) *mockSymbol {
	return &mockSymbol{name: name, flags: AliasFlag, target: target}
}

type mockNode struct {
	kind   SyntaxKind
	text   string
	span   TextSpan
	parent *mockNode
	locals *mockTable
}

func (n *mockNode) Kind() SyntaxKind { return n.kind }
func (n *mockNode) Text() string     { return n.text }
func (n *mockNode) Span() TextSpan   { return n.span }

func (n *mockNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *mockNode) Locals() SymbolTable {
	if n.locals == nil {
		return nil
	}
	return n.locals
}

func scopeNode(parent *mockNode, symbols ...*mockSymbol) *mockNode {
	return &mockNode{kind: BlockKind, parent: parent, locals: newTable(symbols...)}
}

func identifier(parent *mockNode, text string, start int) *mockNode {
	return &mockNode{
		kind:   IdentifierKind,
		text:   text,
		span:   TextSpan{Start: start, Length: len(text)},
		parent: parent,
	}
}

type mockChecker struct{}

func (mockChecker) AliasedSymbol(sym Symbol) Symbol {
	if alias, ok := sym.(*mockSymbol); ok && alias.target != nil {
		return alias.target
	}
	return &mockSymbol{name: "unknown"}
}

func (mockChecker) IsIdentifierText(name string, target ScriptTarget, variant LanguageVariant) bool {
	if len(name) == 0 {
		return false
	}
	for i, r := range name {
		if r == '$' || r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		if variant == JSXVariant && i > 0 && (r == '-' || r == ':') {
			continue
		}
		return false
	}
	return true
}

type mockFile struct {
	name   string
	kind   ScriptKind
	tokens []*mockNode
}

func (f *mockFile) FileName() string       { return f.name }
func (f *mockFile) ScriptKind() ScriptKind { return f.kind }

func (f *mockFile) PrecedingToken(offset int) Node {
	var found *mockNode
	for _, tok := range f.tokens {
		if tok.span.Start < offset {
			found = tok
		}
	}
	if found == nil {
		return nil
	}
	return found
}

type mockProgram struct {
	files   map[string]*mockFile
	options CompilerOptions
}

func (p *mockProgram) SourceFile(name string) (SourceFile, bool) {
	f, ok := p.files[name]
	if !ok {
		return nil, false
	}
	return f, true
}

func (p *mockProgram) TypeChecker() TypeChecker         { return mockChecker{} }
func (p *mockProgram) CompilerOptions() CompilerOptions { return p.options }

type mockService struct {
	program *mockProgram
}

func (s mockService) Program() (Program, bool) {
	if s.program == nil {
		return nil, false
	}
	return s.program, true
}
