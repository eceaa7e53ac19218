package analysis

import (
	"unicode"
	"unicode/utf8"

	"github.com/nedpals/enumcomplete/completion"
)

const (
	zeroWidthNonJoiner = 0x200C
	zeroWidthJoiner    = 0x200D
)

var (
	es5IdentifierStart = []*unicode.RangeTable{unicode.L, unicode.Nl}
	es5IdentifierPart  = []*unicode.RangeTable{unicode.L, unicode.Nl, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc}

	idStart    = []*unicode.RangeTable{unicode.L, unicode.Nl, unicode.Other_ID_Start}
	idContinue = []*unicode.RangeTable{unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue}
	idExcluded = []*unicode.RangeTable{unicode.Pattern_Syntax, unicode.Pattern_White_Space}
)

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func IsIdentifierStart(r rune, target completion.ScriptTarget) bool {
	if r < utf8.RuneSelf {
		return isASCIILetter(r) || r == '$' || r == '_'
	}

	if target >= completion.ES2015 {
		return unicode.In(r, idStart...) && !unicode.In(r, idExcluded...)
	}
	return r <= 0xFFFF && unicode.In(r, es5IdentifierStart...)
}

func IsIdentifierPart(r rune, target completion.ScriptTarget, variant completion.LanguageVariant) bool {
	if r < utf8.RuneSelf {
		if isASCIILetter(r) || (r >= '0' && r <= '9') || r == '$' || r == '_' {
			return true
		}
		// jsx attribute and tag names
		return variant == completion.JSXVariant && (r == '-' || r == ':')
	}

	if target >= completion.ES2015 {
		if r == zeroWidthNonJoiner || r == zeroWidthJoiner {
			return true
		}
		return IsIdentifierStart(r, target) ||
			(unicode.In(r, idContinue...) && !unicode.In(r, idExcluded...))
	}
	return r <= 0xFFFF && unicode.In(r, es5IdentifierPart...)
}

// IsIdentifierText reports whether name can be written as a bare identifier
// when compiling to target.
func IsIdentifierText(name string, target completion.ScriptTarget, variant completion.LanguageVariant) bool {
	if len(name) == 0 {
		return false
	}

	for i, r := range name {
		if r == utf8.RuneError {
			return false
		}
		if i == 0 {
			if !IsIdentifierStart(r, target) {
				return false
			}
		} else if !IsIdentifierPart(r, target, variant) {
			return false
		}
	}
	return true
}
