package analysis

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/nedpals/enumcomplete/completion"
	sitter "github.com/smacker/go-tree-sitter"
)

// SourceFile is a parsed and bound source unit.
type SourceFile struct {
	fileName    string
	content     []byte
	language    *Language
	tree        *sitter.Tree
	root        *Node
	tokens      []*Node
	symbol      *Symbol
	starExports []string
}

func Parse(fileName string, content []byte, lang *Language) (*SourceFile, error) {
	if lang == nil || lang.SitterLanguage == nil {
		return nil, errors.Newf("unsupported language for %s", fileName)
	}

	p := sitter.NewParser()
	p.SetLanguage(lang.SitterLanguage)
	tree, err := p.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", fileName)
	}

	file := &SourceFile{
		fileName: filepath.Clean(fileName),
		content:  content,
		language: lang,
		tree:     tree,
	}
	file.symbol = newSymbol(`"`+file.fileName+`"`, completion.ValueModuleFlag, nil)
	file.symbol.exports = newSymbolTable()
	file.root = file.buildNode(tree.RootNode(), nil)

	newBinder(file).bind()
	return file, nil
}

func (f *SourceFile) FileName() string { return f.fileName }

func (f *SourceFile) ScriptKind() completion.ScriptKind {
	return f.language.ScriptKind
}

func (f *SourceFile) Language() *Language { return f.language }

func (f *SourceFile) Content() []byte { return f.content }

func (f *SourceFile) Root() *Node { return f.root }

// Locals returns the names bound at the top level of the file.
func (f *SourceFile) Locals() *SymbolTable { return f.root.locals }

// Exports returns the names the file exports directly. Names reachable
// only through `export * from` are not included.
func (f *SourceFile) Exports() *SymbolTable { return f.symbol.exports }

// Symbol returns the module symbol of the file, the target of namespace
// imports.
func (f *SourceFile) Symbol() *Symbol { return f.symbol }

// HasErrors reports whether the parser had to recover from syntax errors.
func (f *SourceFile) HasErrors() bool {
	return f.root.ts.HasError()
}
