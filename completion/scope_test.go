package completion

import "testing"

func TestCollectVisibleSymbols(t *testing.T) {
	color := enumSymbol("Color", "Red", "Green")
	status := enumSymbol("Status", "Active")
	local := &mockSymbol{name: "x", flags: BlockScopedVariableFlag}

	root := scopeNode(nil, color)
	fn := scopeNode(root, status)
	block := scopeNode(fn, local)
	token := identifier(block, "Red", 40)

	symbols := CollectVisibleSymbols(token, mockChecker{})
	if symbols.Len() != 3 {
		t.Fatalf("Expected 3 symbols, got %d", symbols.Len())
	}

	expected := []string{"x", "Status", "Color"}
	for i, visible := range symbols.Symbols() {
		if visible.Symbol.Name() != expected[i] {
			t.Errorf("Expected %v at %d, got %v", expected[i], i, visible.Symbol.Name())
		}
	}
}

func TestCollectVisibleSymbols_SiblingScope(t *testing.T) {
	hidden := enumSymbol("Hidden", "Red")
	root := scopeNode(nil)
	sibling := scopeNode(root, hidden)
	current := scopeNode(root)
	token := identifier(current, "Red", 10)

	symbols := CollectVisibleSymbols(token, mockChecker{})
	if symbols.Contains(hidden) {
		t.Error("Expected enum declared in a sibling scope to not be visible")
	}

	// the sibling is visible from inside itself
	if !CollectVisibleSymbols(identifier(sibling, "Red", 0), mockChecker{}).Contains(hidden) {
		t.Error("Expected enum to be visible from its own scope")
	}
}

func TestCollectVisibleSymbols_ResolvesAliases(t *testing.T) {
	color := enumSymbol("Color", "Red")
	root := scopeNode(nil, aliasOf("C", color))
	token := identifier(root, "Red", 0)

	symbols := CollectVisibleSymbols(token, mockChecker{})
	if symbols.Len() != 1 {
		t.Fatalf("Expected 1 symbol, got %d", symbols.Len())
	}

	visible := symbols.Symbols()[0]
	if visible.Symbol != Symbol(color) {
		t.Errorf("Expected alias to resolve to %v, got %v", color.name, visible.Symbol.Name())
	}

	if visible.LocalName != "C" {
		t.Errorf("Expected local name %v, got %v", "C", visible.LocalName)
	}
}

func TestCollectVisibleSymbols_Deduplicates(t *testing.T) {
	color := enumSymbol("Color", "Red")
	root := scopeNode(nil, color)
	inner := scopeNode(root, aliasOf("Hue", color))
	innermost := scopeNode(inner, color)
	token := identifier(innermost, "Red", 0)

	symbols := CollectVisibleSymbols(token, mockChecker{})
	if symbols.Len() != 1 {
		t.Fatalf("Expected 1 symbol, got %d", symbols.Len())
	}

	if name := symbols.Symbols()[0].LocalName; name != "Color" {
		t.Errorf("Expected innermost binding %v to win, got %v", "Color", name)
	}
}

func TestCollectVisibleSymbols_NoLocals(t *testing.T) {
	root := &mockNode{kind: SourceFileKind}
	expr := &mockNode{kind: OtherKind, parent: root}
	token := identifier(expr, "Red", 0)

	if symbols := CollectVisibleSymbols(token, mockChecker{}); symbols.Len() != 0 {
		t.Errorf("Expected no symbols, got %d", symbols.Len())
	}
}

func TestSymbolSet(t *testing.T) {
	set := NewSymbolSet()
	color := enumSymbol("Color")

	if !set.Add(color, "Color") {
		t.Error("Expected first add to succeed")
	}

	if set.Add(color, "C") {
		t.Error("Expected duplicate add to be rejected")
	}

	if set.Add(nil, "nothing") {
		t.Error("Expected nil symbol to be rejected")
	}

	if set.Len() != 1 {
		t.Errorf("Expected 1, got %d", set.Len())
	}
}
