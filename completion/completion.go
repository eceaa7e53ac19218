// Package completion offers enum member completions for bare identifiers.
//
// Typing `Red` where `enum Color { Red }` is visible yields a completion that
// replaces the identifier with `Color.Red`. Members whose names are not valid
// identifiers are completed with bracket access, eg. `Weird["not valid"]`.
// The package is a query layer over a program model owned by the host; it
// never parses or mutates anything and keeps no state between requests.
package completion

import (
	"go.uber.org/zap"
)

// CompletionInfo is the completion list returned to the host.
type CompletionInfo struct {
	IsGlobalCompletion      bool              `json:"isGlobalCompletion"`
	IsNewIdentifierLocation bool              `json:"isNewIdentifierLocation"`
	IsMemberCompletion      bool              `json:"isMemberCompletion"`
	Entries                 []CompletionEntry `json:"entries"`
}

type Plugin struct {
	service LanguageService
	logger  *zap.Logger
}

type Option func(*Plugin)

func WithLogger(logger *zap.Logger) Option {
	return func(p *Plugin) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func New(service LanguageService, opts ...Option) *Plugin {
	p := &Plugin{
		service: service,
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// GetCompletionsAtPosition returns enum member completions for the
// identifier preceding offset in fileName. A nil result means the plugin has
// no opinion and the host should use its own results.
func (p *Plugin) GetCompletionsAtPosition(fileName string, offset int) *CompletionInfo {
	log := p.logger.With(zap.String("file", fileName), zap.Int("offset", offset))
	log.Debug("getCompletionsAtPosition")

	program, ok := p.service.Program()
	if !ok {
		log.Debug("cannot find program")
		return nil
	}

	file, ok := program.SourceFile(fileName)
	if !ok {
		log.Debug("cannot find source file")
		return nil
	}

	token := file.PrecedingToken(offset)
	if reason := rejectReason(token); len(reason) != 0 {
		log.Debug("token check failed", zap.String("reason", reason))
		return nil
	}

	checker := program.TypeChecker()
	symbols := CollectVisibleSymbols(token, checker)
	enums := NewSymbolSet()
	for _, visible := range symbols.Symbols() {
		if visible.Symbol.Flags().Has(EnumFlag) {
			enums.Add(visible.Symbol, visible.LocalName)
		}
	}

	if enums.Len() == 0 {
		log.Debug("enum symbols check failed", zap.Int("symbols", symbols.Len()))
		return nil
	}

	entries := ResolveCompletions(enums, TokenOf(token), file, program.CompilerOptions().Target, checker)
	log.Debug("resolved enum member completions",
		zap.String("text", token.Text()),
		zap.Int("enums", enums.Len()),
		zap.Int("entries", len(entries)))

	return &CompletionInfo{
		IsGlobalCompletion:      false,
		IsNewIdentifierLocation: false,
		IsMemberCompletion:      false,
		Entries:                 entries,
	}
}
