package analysis

import "github.com/nedpals/enumcomplete/completion"

type binder struct {
	file       *SourceFile
	namespaces map[*Node]*Symbol
}

func newBinder(file *SourceFile) *binder {
	return &binder{file: file, namespaces: map[*Node]*Symbol{}}
}

func (b *binder) bind() {
	b.file.root.locals = newSymbolTable()
	b.bindChildren(b.file.root)
}

func (b *binder) bindChildren(n *Node) {
	for _, child := range n.children {
		b.bindNode(child)
	}
}

// bindNode binds n and its descendants and returns the symbols declared by
// n itself.
func (b *binder) bindNode(n *Node) []*Symbol {
	var declared []*Symbol

	switch n.typ {
	case "enum_declaration":
		return b.bindEnum(n)
	case "lexical_declaration":
		declared = b.bindVariables(n, b.blockContainer(n), completion.BlockScopedVariableFlag)
	case "variable_declaration":
		declared = b.bindVariables(n, b.functionContainer(n), completion.FunctionScopedVariableFlag)
	case "function_declaration", "generator_function_declaration", "function_signature":
		declared = b.declareName(n, completion.FunctionFlag)
		b.bindParameters(n)
	case "function", "function_expression", "generator_function", "arrow_function", "method_definition":
		b.bindParameters(n)
	case "class_declaration", "abstract_class_declaration":
		declared = b.declareName(n, completion.ClassFlag)
	case "interface_declaration":
		declared = b.declareName(n, completion.InterfaceFlag)
	case "type_alias_declaration":
		declared = b.declareName(n, completion.TypeAliasFlag)
	case "internal_module", "module":
		declared = b.bindNamespace(n)
	case "ambient_declaration":
		for _, child := range n.children {
			declared = append(declared, b.bindNode(child)...)
		}
		return declared
	case "import_statement":
		b.bindImport(n)
		return nil
	case "import_alias":
		return b.bindImportAlias(n)
	case "export_statement":
		b.bindExport(n)
		return nil
	case "for_in_statement":
		b.bindForIn(n)
	case "catch_clause":
		for _, name := range patternNames(n.Field("parameter")) {
			b.localsOf(n).declare(name.Text(), completion.BlockScopedVariableFlag, n)
		}
	}

	b.bindChildren(n)
	return declared
}

func isFunctionLike(n *Node) bool {
	switch n.typ {
	case "function_declaration", "generator_function_declaration", "function",
		"function_expression", "generator_function", "arrow_function", "method_definition":
		return true
	}
	return false
}

func isNamespaceBody(n *Node) bool {
	return n.typ == "statement_block" && n.parent != nil &&
		(n.parent.typ == "internal_module" || n.parent.typ == "module")
}

func isBlockContainer(n *Node) bool {
	switch n.typ {
	case "program", "for_statement", "for_in_statement", "catch_clause", "switch_body", "class_static_block":
		return true
	case "statement_block":
		// a function body shares the scope of its parameters
		return n.parent == nil || !isFunctionLike(n.parent)
	}
	return isFunctionLike(n)
}

func isFunctionContainer(n *Node) bool {
	return n.typ == "program" || isFunctionLike(n) || isNamespaceBody(n)
}

func (b *binder) blockContainer(n *Node) *Node {
	for p := n.parent; p != nil; p = p.parent {
		if isBlockContainer(p) {
			return p
		}
	}
	return b.file.root
}

func (b *binder) functionContainer(n *Node) *Node {
	for p := n.parent; p != nil; p = p.parent {
		if isFunctionContainer(p) {
			return p
		}
	}
	return b.file.root
}

func (b *binder) localsOf(n *Node) *SymbolTable {
	if n.locals == nil {
		n.locals = newSymbolTable()
	}
	return n.locals
}

func (b *binder) declareName(n *Node, flags completion.SymbolFlags) []*Symbol {
	name := n.Field("name")
	if name == nil {
		return nil
	}
	return []*Symbol{b.localsOf(b.blockContainer(n)).declare(name.Text(), flags, n)}
}

func (b *binder) bindEnum(n *Node) []*Symbol {
	name := n.Field("name")
	if name == nil {
		return nil
	}

	flags := completion.RegularEnumFlag
	if n.HasChild("const") {
		flags = completion.ConstEnumFlag
	}

	sym := b.localsOf(b.blockContainer(n)).declare(name.Text(), flags, n)
	members := sym.ensureExports()

	body := n.Field("body")
	if body == nil {
		return []*Symbol{sym}
	}

	for _, m := range body.NamedChildren() {
		nameNode := m
		if m.typ == "enum_assignment" {
			nameNode = m.Field("name")
		}

		memberName, ok := propertyName(nameNode)
		if !ok || members.Lookup(memberName) != nil {
			continue
		}

		member := newSymbol(memberName, completion.EnumMemberFlag, m)
		member.parent = sym
		members.set(memberName, member)
	}

	return []*Symbol{sym}
}

// propertyName returns the static name of an enum member. Numeric and
// computed names are not valid enum member names.
func propertyName(n *Node) (string, bool) {
	if n == nil {
		return "", false
	}

	switch n.typ {
	case "property_identifier", "identifier":
		return n.Text(), true
	case "string":
		return unquoteString(n.Text()), true
	}
	return "", false
}

func (b *binder) bindVariables(n *Node, container *Node, flags completion.SymbolFlags) []*Symbol {
	var declared []*Symbol
	for _, decl := range n.NamedChildren() {
		if decl.typ != "variable_declarator" {
			continue
		}

		for _, name := range patternNames(decl.Field("name")) {
			declared = append(declared, b.localsOf(container).declare(name.Text(), flags, decl))
		}
	}
	return declared
}

// patternNames returns the identifiers bound by a binding pattern.
func patternNames(n *Node) []*Node {
	if n == nil {
		return nil
	}

	switch n.typ {
	case "identifier", "shorthand_property_identifier_pattern":
		return []*Node{n}
	case "pair_pattern":
		return patternNames(n.Field("value"))
	case "assignment_pattern", "object_assignment_pattern":
		return patternNames(n.Field("left"))
	case "required_parameter", "optional_parameter":
		return patternNames(n.Field("pattern"))
	case "object_pattern", "array_pattern", "rest_pattern":
		var names []*Node
		for _, child := range n.NamedChildren() {
			names = append(names, patternNames(child)...)
		}
		return names
	}
	return nil
}

func (b *binder) bindParameters(fn *Node) {
	if param := fn.Field("parameter"); param != nil {
		b.localsOf(fn).declare(param.Text(), completion.FunctionScopedVariableFlag, param)
	}

	params := fn.Field("parameters")
	if params == nil {
		return
	}

	for _, param := range params.NamedChildren() {
		for _, name := range patternNames(param) {
			b.localsOf(fn).declare(name.Text(), completion.FunctionScopedVariableFlag, param)
		}
	}
}

func (b *binder) bindForIn(n *Node) {
	kind := n.Field("kind")
	if kind == nil {
		return
	}

	container, flags := n, completion.BlockScopedVariableFlag
	if kind.Text() == "var" {
		container, flags = b.functionContainer(n), completion.FunctionScopedVariableFlag
	}

	for _, name := range patternNames(n.Field("left")) {
		b.localsOf(container).declare(name.Text(), flags, n)
	}
}

func (b *binder) bindNamespace(n *Node) []*Symbol {
	name := n.Field("name")
	if name == nil || name.typ == "string" {
		// ambient external module declarations bind no local name
		return nil
	}

	parts := entityNameParts(name)
	if len(parts) == 0 {
		return nil
	}

	flags := completion.NamespaceModuleFlag | completion.ValueModuleFlag
	outer := b.localsOf(b.blockContainer(n)).declare(parts[0], flags, n)

	sym := outer
	for _, part := range parts[1:] {
		inner := sym.ensureExports().declare(part, flags, n)
		inner.parent = sym
		sym = inner
	}
	sym.ensureExports()

	if body := n.Field("body"); body != nil {
		b.namespaces[body] = sym
	}
	return []*Symbol{outer}
}

// entityNameParts splits a dotted name such as `A.B.C` into its parts.
func entityNameParts(n *Node) []string {
	switch n.typ {
	case "identifier", "type_identifier", "property_identifier":
		return []string{n.Text()}
	}

	var parts []string
	for _, child := range n.NamedChildren() {
		parts = append(parts, entityNameParts(child)...)
	}
	return parts
}

func (b *binder) declareAlias(container *Node, name string, decl *Node, target *aliasTarget) *Symbol {
	sym := b.localsOf(container).declare(name, completion.AliasFlag, decl)
	sym.alias = target
	return sym
}

func (b *binder) bindImport(n *Node) {
	container := b.blockContainer(n)
	module := ""
	if source := n.Field("source"); source != nil {
		module = unquoteString(source.Text())
	}

	for _, child := range n.NamedChildren() {
		switch child.typ {
		case "import_clause":
			b.bindImportClause(child, container, module)
		case "import_require_clause":
			names := child.NamedChildren()
			source := child.Field("source")
			if source == nil {
				source = findChild(child, "string")
			}
			if source == nil || len(names) == 0 || names[0].typ != "identifier" {
				continue
			}
			b.declareAlias(container, names[0].Text(), child, &aliasTarget{
				file:   b.file,
				module: unquoteString(source.Text()),
				name:   namespaceImportName,
			})
		}
	}
}

func (b *binder) bindImportClause(clause *Node, container *Node, module string) {
	for _, child := range clause.NamedChildren() {
		switch child.typ {
		case "identifier":
			b.declareAlias(container, child.Text(), child, &aliasTarget{
				file: b.file, module: module, name: defaultExportName,
			})
		case "namespace_import":
			for _, id := range child.NamedChildren() {
				if id.typ != "identifier" {
					continue
				}
				b.declareAlias(container, id.Text(), child, &aliasTarget{
					file: b.file, module: module, name: namespaceImportName,
				})
			}
		case "named_imports":
			for _, spec := range child.NamedChildren() {
				if spec.typ != "import_specifier" {
					continue
				}

				imported := moduleExportName(spec.Field("name"))
				local := imported
				if alias := spec.Field("alias"); alias != nil {
					local = moduleExportName(alias)
				}
				if len(imported) == 0 || len(local) == 0 {
					continue
				}

				b.declareAlias(container, local, spec, &aliasTarget{
					file: b.file, module: module, name: imported,
				})
			}
		}
	}
}

func (b *binder) bindImportAlias(n *Node) []*Symbol {
	names := n.NamedChildren()
	if len(names) < 2 || names[0].typ != "identifier" {
		return nil
	}

	entity := entityNameParts(names[1])
	if len(entity) == 0 {
		return nil
	}

	if names[1].typ == "identifier" && names[1].Text() == "require" {
		return nil
	}

	sym := b.declareAlias(b.blockContainer(n), names[0].Text(), n, &aliasTarget{
		file: b.file, entity: entity, scope: n,
	})
	return []*Symbol{sym}
}

// exportsFor returns the export table that an export statement adds to: the
// file's, or that of the enclosing namespace.
func (b *binder) exportsFor(n *Node) *SymbolTable {
	if n.parent == nil {
		return nil
	}
	if n.parent == b.file.root {
		return b.file.symbol.exports
	}
	if ns := b.namespaces[n.parent]; ns != nil {
		return ns.ensureExports()
	}
	return nil
}

func (b *binder) bindExport(n *Node) {
	exports := b.exportsFor(n)
	isDefault := n.HasChild("default")

	if decl := n.Field("declaration"); decl != nil {
		for _, sym := range b.bindNode(decl) {
			if exports == nil {
				continue
			}
			if isDefault {
				exports.set(defaultExportName, sym)
			} else {
				exports.set(sym.name, sym)
			}
		}
		return
	}

	if value := n.Field("value"); value != nil {
		b.bindNode(value)
		if isDefault && exports != nil && value.typ == "identifier" {
			exports.set(defaultExportName, exportAlias(defaultExportName, value, &aliasTarget{
				file: b.file, entity: []string{value.Text()}, scope: n,
			}))
		}
		return
	}

	module := ""
	source := n.Field("source")
	if source != nil {
		module = unquoteString(source.Text())
	}

	namespaceExport := false
	for _, child := range n.NamedChildren() {
		switch child.typ {
		case "export_clause":
			if exports == nil {
				continue
			}
			for _, spec := range child.NamedChildren() {
				if spec.typ != "export_specifier" {
					continue
				}

				local := moduleExportName(spec.Field("name"))
				exported := local
				if alias := spec.Field("alias"); alias != nil {
					exported = moduleExportName(alias)
				}
				if len(local) == 0 || len(exported) == 0 {
					continue
				}

				target := &aliasTarget{file: b.file}
				if source != nil {
					target.module, target.name = module, local
				} else {
					target.entity, target.scope = []string{local}, n
				}
				exports.set(exported, exportAlias(exported, spec, target))
			}
		case "namespace_export":
			namespaceExport = true
			for _, id := range child.NamedChildren() {
				name := moduleExportName(id)
				if exports == nil || source == nil || len(name) == 0 {
					continue
				}
				exports.set(name, exportAlias(name, child, &aliasTarget{
					file: b.file, module: module, name: namespaceImportName,
				}))
			}
		}
	}

	if source != nil && !namespaceExport && n.HasChild("*") && n.parent == b.file.root {
		b.file.starExports = append(b.file.starExports, module)
	}
}

func exportAlias(name string, decl *Node, target *aliasTarget) *Symbol {
	sym := newSymbol(name, completion.AliasFlag, decl)
	sym.alias = target
	return sym
}

func findChild(n *Node, typ string) *Node {
	for _, child := range n.children {
		if child.typ == typ {
			return child
		}
	}
	return nil
}

// moduleExportName returns the name in an import or export specifier, which
// may be written as a string literal.
func moduleExportName(n *Node) string {
	if n == nil {
		return ""
	}
	if n.typ == "string" {
		return unquoteString(n.Text())
	}
	return n.Text()
}
