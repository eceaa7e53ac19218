package analysis

import "github.com/nedpals/enumcomplete/completion"

// Symbol is a named entity bound by a declaration. Symbols are only ever
// handled by pointer so that identity can be used for deduplication.
type Symbol struct {
	name         string
	flags        completion.SymbolFlags
	declarations []*Node
	exports      *SymbolTable
	parent       *Symbol
	alias        *aliasTarget
}

// aliasTarget describes what an import or export alias points to. Either
// module is set (an import from another file) or entity is set (a local
// entity name such as `A.B`, looked up starting at scope).
type aliasTarget struct {
	file   *SourceFile
	module string
	name   string
	entity []string
	scope  *Node
}

const (
	defaultExportName   = "default"
	namespaceImportName = "*"
)

var unknownSymbol = &Symbol{name: "unknown"}

func newSymbol(name string, flags completion.SymbolFlags, decl *Node) *Symbol {
	sym := &Symbol{name: name, flags: flags}
	if decl != nil {
		sym.declarations = append(sym.declarations, decl)
	}
	return sym
}

func (s *Symbol) Name() string                  { return s.name }
func (s *Symbol) Flags() completion.SymbolFlags { return s.flags }

func (s *Symbol) Exports() completion.SymbolTable {
	if s.exports == nil {
		return nil
	}
	return s.exports
}

func (s *Symbol) Declarations() []*Node {
	return s.declarations
}

// Parent returns the enum or namespace symbol that exports s.
func (s *Symbol) Parent() *Symbol {
	return s.parent
}

func (s *Symbol) IsUnknown() bool {
	return s == unknownSymbol
}

func (s *Symbol) ensureExports() *SymbolTable {
	if s.exports == nil {
		s.exports = newSymbolTable()
	}
	return s.exports
}

// SymbolTable maps names to symbols and remembers insertion order.
type SymbolTable struct {
	names   []string
	symbols map[string]*Symbol
}

func newSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: map[string]*Symbol{}}
}

func (t *SymbolTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

func (t *SymbolTable) Has(name string) bool {
	return t.Lookup(name) != nil
}

func (t *SymbolTable) Get(name string) completion.Symbol {
	if sym := t.Lookup(name); sym != nil {
		return sym
	}
	return nil
}

func (t *SymbolTable) Lookup(name string) *Symbol {
	if t == nil {
		return nil
	}
	return t.symbols[name]
}

func (t *SymbolTable) Each(fn func(sym completion.Symbol)) {
	if t == nil {
		return
	}
	for _, name := range t.names {
		fn(t.symbols[name])
	}
}

func (t *SymbolTable) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.names...)
}

func (t *SymbolTable) set(name string, sym *Symbol) {
	if _, found := t.symbols[name]; !found {
		t.names = append(t.names, name)
	}
	t.symbols[name] = sym
}

// declare binds name in t. Declarations of the same name merge into one
// symbol the way TypeScript merges enums and namespaces, unless either side
// is an alias, in which case the first binding wins and the new declaration
// gets a detached symbol.
func (t *SymbolTable) declare(name string, flags completion.SymbolFlags, decl *Node) *Symbol {
	existing := t.Lookup(name)
	if existing == nil {
		sym := newSymbol(name, flags, decl)
		t.set(name, sym)
		return sym
	}

	if existing.flags.Has(completion.AliasFlag) || flags.Has(completion.AliasFlag) {
		return newSymbol(name, flags, decl)
	}

	existing.flags |= flags
	if decl != nil {
		existing.declarations = append(existing.declarations, decl)
	}
	return existing
}
