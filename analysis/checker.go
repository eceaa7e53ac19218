package analysis

import (
	"path/filepath"
	"strings"

	"github.com/nedpals/enumcomplete/completion"
)

// Checker resolves aliases across the files of a program.
type Checker struct {
	program *Program
}

func (c *Checker) IsIdentifierText(name string, target completion.ScriptTarget, variant completion.LanguageVariant) bool {
	return IsIdentifierText(name, target, variant)
}

// AliasedSymbol follows an alias to the symbol it finally refers to. Aliases
// that cannot be resolved, including cyclic ones, yield the unknown symbol.
func (c *Checker) AliasedSymbol(s completion.Symbol) completion.Symbol {
	sym, ok := s.(*Symbol)
	if !ok || sym == nil {
		return unknownSymbol
	}
	return c.resolveAlias(sym, 0)
}

// maxAliasDepth bounds the nesting of entity name lookups, which can refer
// back to each other through qualified names.
const maxAliasDepth = 64

func (c *Checker) resolveAlias(sym *Symbol, depth int) *Symbol {
	if depth > maxAliasDepth {
		return unknownSymbol
	}

	seen := map[*Symbol]bool{}
	for sym.flags.Has(completion.AliasFlag) {
		if seen[sym] || sym.alias == nil {
			return unknownSymbol
		}
		seen[sym] = true

		target := c.aliasTarget(sym.alias, depth)
		if target == nil {
			return unknownSymbol
		}
		sym = target
	}
	return sym
}

func (c *Checker) aliasTarget(alias *aliasTarget, depth int) *Symbol {
	if len(alias.entity) != 0 {
		return c.resolveEntityName(alias.scope, alias.entity, depth)
	}

	file := c.program.resolveModule(alias.file, alias.module)
	if file == nil {
		return nil
	}

	if alias.name == namespaceImportName {
		return file.symbol
	}
	return c.exportOf(file, alias.name, map[*SourceFile]bool{})
}

// exportOf looks up name in the exports of file, then through its
// `export *` re-exports. Default exports are never re-exported by `export *`.
func (c *Checker) exportOf(file *SourceFile, name string, seen map[*SourceFile]bool) *Symbol {
	if seen[file] {
		return nil
	}
	seen[file] = true

	if sym := file.symbol.exports.Lookup(name); sym != nil {
		return sym
	}

	if name == defaultExportName {
		return nil
	}

	for _, module := range file.starExports {
		target := c.program.resolveModule(file, module)
		if target == nil {
			continue
		}
		if sym := c.exportOf(target, name, seen); sym != nil {
			return sym
		}
	}
	return nil
}

// resolveEntityName resolves a dotted name such as `NS.Color` as seen from
// scope.
func (c *Checker) resolveEntityName(scope *Node, names []string, depth int) *Symbol {
	sym := lookupName(scope, names[0])
	for _, name := range names[1:] {
		if sym == nil {
			return nil
		}
		sym = c.resolveAlias(sym, depth+1)
		sym = sym.exports.Lookup(name)
	}
	return sym
}

func lookupName(scope *Node, name string) *Symbol {
	for node := scope; node != nil; node = node.parent {
		if sym := node.locals.Lookup(name); sym != nil {
			return sym
		}
	}
	return nil
}

var moduleExtensions = []string{".ts", ".tsx", ".d.ts", ".mts", ".cts", ".js", ".jsx"}

func isRelativeModule(module string) bool {
	return strings.HasPrefix(module, "./") || strings.HasPrefix(module, "../") ||
		module == "." || module == ".." || filepath.IsAbs(module)
}

// moduleCandidates lists the file paths a relative module specifier may
// refer to, in lookup order.
func moduleCandidates(from string, module string) []string {
	base := module
	if !filepath.IsAbs(module) {
		base = filepath.Join(filepath.Dir(from), module)
	}

	candidates := []string{}
	switch ext := filepath.Ext(base); ext {
	case ".js", ".jsx", ".mjs", ".cjs":
		// imports of emitted js files refer to their typescript sources
		stem := strings.TrimSuffix(base, ext)
		switch ext {
		case ".mjs":
			candidates = append(candidates, stem+".mts", stem+".d.mts")
		case ".cjs":
			candidates = append(candidates, stem+".cts", stem+".d.cts")
		default:
			candidates = append(candidates, stem+".ts", stem+".tsx", stem+".d.ts")
		}
		candidates = append(candidates, base)
	case ".ts", ".tsx", ".mts", ".cts":
		candidates = append(candidates, base)
	}

	for _, ext := range moduleExtensions {
		candidates = append(candidates, base+ext)
	}
	for _, ext := range moduleExtensions {
		candidates = append(candidates, filepath.Join(base, "index"+ext))
	}
	return candidates
}
