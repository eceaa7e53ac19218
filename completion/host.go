package completion

import "fmt"

// LanguageService gives access to the host's current program.
type LanguageService interface {
	Program() (Program, bool)
}

type Program interface {
	SourceFile(fileName string) (SourceFile, bool)
	TypeChecker() TypeChecker
	CompilerOptions() CompilerOptions
}

type SourceFile interface {
	FileName() string
	ScriptKind() ScriptKind
	// PrecedingToken returns the token immediately preceding offset, or nil.
	PrecedingToken(offset int) Node
}

// Node is a syntax node owned by the host. Parent returns nil at the root
// and Locals returns nil when the node binds no names.
type Node interface {
	Kind() SyntaxKind
	Text() string
	Span() TextSpan
	Parent() Node
	Locals() SymbolTable
}

// Symbol implementations must be comparable, symbols are deduplicated by
// identity.
type Symbol interface {
	Name() string
	Flags() SymbolFlags
	Exports() SymbolTable
}

type SymbolTable interface {
	Len() int
	Has(name string) bool
	Get(name string) Symbol
	// Each visits the symbols in declaration order.
	Each(fn func(sym Symbol))
}

type IdentifierChecker interface {
	IsIdentifierText(name string, target ScriptTarget, variant LanguageVariant) bool
}

type TypeChecker interface {
	IdentifierChecker
	AliasedSymbol(sym Symbol) Symbol
}

type TextSpan struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

func (s TextSpan) End() int {
	return s.Start + s.Length
}

func NewTextSpan(start, end int) TextSpan {
	return TextSpan{Start: start, Length: end - start}
}

type SyntaxKind int

const (
	UnknownKind SyntaxKind = iota
	IdentifierKind
	PrivateIdentifierKind
	StringLiteralKind
	NumericLiteralKind
	KeywordKind
	PunctuationKind
	CommentKind
	PropertyAccessExpressionKind
	ElementAccessExpressionKind
	QualifiedNameKind
	SourceFileKind
	BlockKind
	OtherKind
)

var syntaxKindNames = map[SyntaxKind]string{
	UnknownKind:                  "Unknown",
	IdentifierKind:               "Identifier",
	PrivateIdentifierKind:        "PrivateIdentifier",
	StringLiteralKind:            "StringLiteral",
	NumericLiteralKind:           "NumericLiteral",
	KeywordKind:                  "Keyword",
	PunctuationKind:              "Punctuation",
	CommentKind:                  "Comment",
	PropertyAccessExpressionKind: "PropertyAccessExpression",
	ElementAccessExpressionKind:  "ElementAccessExpression",
	QualifiedNameKind:            "QualifiedName",
	SourceFileKind:               "SourceFile",
	BlockKind:                    "Block",
	OtherKind:                    "Other",
}

func (k SyntaxKind) String() string {
	if name, ok := syntaxKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("SyntaxKind(%d)", int(k))
}

type SymbolFlags uint32

const (
	NoneFlag                   SymbolFlags = 0
	FunctionScopedVariableFlag SymbolFlags = 1 << iota
	BlockScopedVariableFlag
	PropertyFlag
	EnumMemberFlag
	FunctionFlag
	ClassFlag
	InterfaceFlag
	ConstEnumFlag
	RegularEnumFlag
	ValueModuleFlag
	NamespaceModuleFlag
	TypeLiteralFlag
	TypeParameterFlag
	TypeAliasFlag
	AliasFlag

	EnumFlag     = RegularEnumFlag | ConstEnumFlag
	VariableFlag = FunctionScopedVariableFlag | BlockScopedVariableFlag
	ModuleFlag   = ValueModuleFlag | NamespaceModuleFlag
)

func (f SymbolFlags) Has(mask SymbolFlags) bool {
	return f&mask != 0
}

// ScriptTarget is the ECMAScript version code is compiled to.
type ScriptTarget int

const (
	ES3 ScriptTarget = iota
	ES5
	ES2015
	ES2016
	ES2017
	ES2018
	ES2019
	ES2020
	ES2021
	ES2022
	ES2023
	ESNext

	DefaultTarget = ES5
	LatestTarget  = ESNext
)

var scriptTargetNames = [...]string{
	"ES3", "ES5", "ES2015", "ES2016", "ES2017", "ES2018",
	"ES2019", "ES2020", "ES2021", "ES2022", "ES2023", "ESNext",
}

func (t ScriptTarget) String() string {
	if t < ES3 || t > ESNext {
		return fmt.Sprintf("ScriptTarget(%d)", int(t))
	}
	return scriptTargetNames[t]
}

type ScriptKind int

const (
	UnknownScript ScriptKind = iota
	JSScript
	JSXScript
	TSScript
	TSXScript
)

type LanguageVariant int

const (
	StandardVariant LanguageVariant = iota
	JSXVariant
)

func LanguageVariantFor(kind ScriptKind) LanguageVariant {
	switch kind {
	case TSXScript, JSXScript, JSScript:
		// js files may contain jsx
		return JSXVariant
	default:
		return StandardVariant
	}
}

type JSXEmit int

const (
	JSXNone JSXEmit = iota
	JSXPreserve
	JSXReact
	JSXReactNative
	JSXReactJSX
	JSXReactJSXDev
)

type CompilerOptions struct {
	Target ScriptTarget `json:"target"`
	JSX    JSXEmit      `json:"jsx"`
}
