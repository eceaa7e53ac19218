package completion

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

type ScriptElementKind string

const EnumMemberElement ScriptElementKind = "enum member"

type SortText string

const (
	LocalDeclarationPriority         SortText = "10"
	LocationPriority                 SortText = "11"
	OptionalMember                   SortText = "12"
	MemberDeclaredBySpreadAssignment SortText = "13"
	SuggestedClassMembers            SortText = "14"
	GlobalsOrKeywords                SortText = "15"
	AutoImportSuggestions            SortText = "16"
)

type CompletionEntry struct {
	Name            string            `json:"name"`
	InsertText      string            `json:"insertText"`
	ReplacementSpan TextSpan          `json:"replacementSpan"`
	Kind            ScriptElementKind `json:"kind"`
	SortText        SortText          `json:"sortText"`
}

// Token is the text typed by the user and where it sits in the file.
type Token struct {
	Text string
	Span TextSpan
}

func TokenOf(node Node) Token {
	return Token{Text: node.Text(), Span: node.Span()}
}

// ResolveCompletions returns one entry per visible enum exporting a member
// named exactly typed.Text.
func ResolveCompletions(symbols *SymbolSet, typed Token, file SourceFile, target ScriptTarget, names IdentifierChecker) []CompletionEntry {
	entries := []CompletionEntry{}
	variant := LanguageVariantFor(file.ScriptKind())

	for _, visible := range symbols.Symbols() {
		symbol := visible.Symbol
		if !symbol.Flags().Has(EnumFlag) {
			continue
		}

		exports := symbol.Exports()
		if exports == nil || !exports.Has(typed.Text) {
			continue
		}

		member := exports.Get(typed.Text)
		if member == nil {
			panic(errors.AssertionFailedf("enum %s reports member %q but has no symbol for it", symbol.Name(), typed.Text))
		}

		if !member.Flags().Has(EnumMemberFlag) {
			continue
		}

		parentName := visible.LocalName
		if len(parentName) == 0 {
			parentName = symbol.Name()
		}

		isIdentifier := names.IsIdentifierText(member.Name(), target, variant)
		text := completionText(member.Name(), parentName, isIdentifier)
		entries = append(entries, CompletionEntry{
			Name:            text,
			InsertText:      text,
			ReplacementSpan: typed.Span,
			Kind:            EnumMemberElement,
			SortText:        LocationPriority,
		})
	}

	return entries
}

func completionText(name, parent string, isIdentifier bool) string {
	if isIdentifier {
		return parent + "." + name
	}
	return fmt.Sprintf("%s[%s]", parent, quoteString(name))
}

// quoteString writes s as a double quoted ECMAScript string literal.
func quoteString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\v':
			sb.WriteString(`\v`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}

	sb.WriteByte('"')
	return sb.String()
}
