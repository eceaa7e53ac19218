package completion

// VisibleSymbol is a symbol reachable by unqualified lookup together with
// the name it is bound to at the lookup position.
type VisibleSymbol struct {
	Symbol    Symbol
	LocalName string
}

// SymbolSet is an insertion ordered set of symbols keyed by identity.
type SymbolSet struct {
	items []VisibleSymbol
	index map[Symbol]int
}

func NewSymbolSet() *SymbolSet {
	return &SymbolSet{index: map[Symbol]int{}}
}

// Add inserts sym under localName. It returns false when sym is already in
// the set, in which case the first local name is kept.
func (s *SymbolSet) Add(sym Symbol, localName string) bool {
	if sym == nil {
		return false
	} else if _, found := s.index[sym]; found {
		return false
	}

	s.index[sym] = len(s.items)
	s.items = append(s.items, VisibleSymbol{Symbol: sym, LocalName: localName})
	return true
}

func (s *SymbolSet) Contains(sym Symbol) bool {
	_, found := s.index[sym]
	return found
}

func (s *SymbolSet) Len() int {
	return len(s.items)
}

func (s *SymbolSet) Symbols() []VisibleSymbol {
	return s.items
}

// CollectVisibleSymbols walks from token up to the root and gathers every
// local binding of each enclosing scope. Aliases are resolved to their
// targets before they are added, so an alias and its target collapse into
// one entry.
func CollectVisibleSymbols(token Node, checker TypeChecker) *SymbolSet {
	symbols := NewSymbolSet()

	for node := token; node != nil; node = node.Parent() {
		locals := node.Locals()
		if locals == nil {
			continue
		}

		locals.Each(func(local Symbol) {
			symbol := local
			if local.Flags().Has(AliasFlag) {
				symbol = checker.AliasedSymbol(local)
			}
			symbols.Add(symbol, local.Name())
		})
	}

	return symbols
}
