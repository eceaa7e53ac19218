package analysis

import (
	"path/filepath"
	"strings"

	"github.com/nedpals/enumcomplete/completion"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

var UnknownLanguage = &Language{
	Id:             "unknown",
	ScriptKind:     completion.UnknownScript,
	FileExtensions: []string{},
}

type Language struct {
	Id             string
	SitterLanguage *sitter.Language
	ScriptKind     completion.ScriptKind
	FileExtensions []string
}

type LanguageList []*Language

func (langs LanguageList) DetectByPath(path string) *Language {
	gotExt := strings.ToLower(filepath.Ext(path))

	for _, lang := range langs {
		for _, ext := range lang.FileExtensions {
			if gotExt == ext {
				return lang
			}
		}
	}

	return UnknownLanguage
}

func (langs LanguageList) IsSupported(path string) bool {
	return langs.DetectByPath(path) != UnknownLanguage
}

var TypescriptLanguage = &Language{
	Id:             "typescript",
	SitterLanguage: typescript.GetLanguage(),
	ScriptKind:     completion.TSScript,
	FileExtensions: []string{".ts", ".mts", ".cts"},
}

var TSXLanguage = &Language{
	Id:             "typescriptreact",
	SitterLanguage: tsx.GetLanguage(),
	ScriptKind:     completion.TSXScript,
	FileExtensions: []string{".tsx"},
}

var JavascriptLanguage = &Language{
	Id:             "javascript",
	SitterLanguage: javascript.GetLanguage(),
	ScriptKind:     completion.JSScript,
	FileExtensions: []string{".js", ".mjs", ".cjs"},
}

var JSXLanguage = &Language{
	Id:             "javascriptreact",
	SitterLanguage: javascript.GetLanguage(),
	ScriptKind:     completion.JSXScript,
	FileExtensions: []string{".jsx"},
}

var SupportedLangs = LanguageList{
	TypescriptLanguage,
	TSXLanguage,
	JavascriptLanguage,
	JSXLanguage,
}
