package analysis

import (
	"testing"

	"github.com/nedpals/enumcomplete/completion"
)

func TestIsIdentifierText(t *testing.T) {
	tests := []struct {
		name     string
		target   completion.ScriptTarget
		variant  completion.LanguageVariant
		expected bool
	}{
		{"Red", completion.ES5, completion.StandardVariant, true},
		{"$dollar", completion.ES5, completion.StandardVariant, true},
		{"_", completion.ES5, completion.StandardVariant, true},
		{"a1", completion.ES5, completion.StandardVariant, true},
		{"1st", completion.ES5, completion.StandardVariant, false},
		{"", completion.ES5, completion.StandardVariant, false},
		{"not valid", completion.ES2015, completion.StandardVariant, false},
		{"data-id", completion.ES2015, completion.StandardVariant, false},
		{"data-id", completion.ES2015, completion.JSXVariant, true},
		{"xlink:href", completion.ES2015, completion.JSXVariant, true},
		{"-data", completion.ES2015, completion.JSXVariant, false},
		{"ünïcödé", completion.ES5, completion.StandardVariant, true},
		{"𐐀", completion.ES5, completion.StandardVariant, false},
		{"𐐀", completion.ES2015, completion.StandardVariant, true},
		{"℘", completion.ES5, completion.StandardVariant, false},
		{"℘", completion.ES2015, completion.StandardVariant, true},
		{"a\u200d", completion.ES2015, completion.StandardVariant, true},
		{"\u200da", completion.ES2015, completion.StandardVariant, false},
		{"a·b", completion.ES2015, completion.StandardVariant, true},
		{"\xff", completion.ESNext, completion.StandardVariant, false},
	}

	for _, tt := range tests {
		if got := IsIdentifierText(tt.name, tt.target, tt.variant); got != tt.expected {
			t.Errorf("%q (%v): Expected %v, got %v", tt.name, tt.target, tt.expected, got)
		}
	}
}

func TestParseScriptTarget(t *testing.T) {
	tests := map[string]completion.ScriptTarget{
		"":         completion.DefaultTarget,
		"ES3":      completion.ES3,
		"es5":      completion.ES5,
		"ES6":      completion.ES2015,
		"es2020":   completion.ES2020,
		"ESNext":   completion.ESNext,
		" es2022 ": completion.ES2022,
	}

	for value, expected := range tests {
		got, err := ParseScriptTarget(value)
		if err != nil {
			t.Errorf("%q: %v", value, err)
			continue
		}

		if got != expected {
			t.Errorf("%q: Expected %v, got %v", value, expected, got)
		}
	}

	if _, err := ParseScriptTarget("es1999"); err == nil {
		t.Error("Expected an error for an unknown target")
	}
}

func TestParseJSXEmit(t *testing.T) {
	if emit, err := ParseJSXEmit("react-jsx"); err != nil || emit != completion.JSXReactJSX {
		t.Errorf("Expected %v, got %v (%v)", completion.JSXReactJSX, emit, err)
	}

	if _, err := ParseJSXEmit("vue"); err == nil {
		t.Error("Expected an error for an unknown jsx option")
	}
}

func TestUnquoteString(t *testing.T) {
	tests := map[string]string{
		`"plain"`:          "plain",
		`'single'`:         "single",
		`"say \"hi\""`:     `say "hi"`,
		`"a\nb"`:           "a\nb",
		`"\x41B"`:          "AB",
		`"\u{1F600}"`:      "\U0001F600",
		`"back\\slash"`:    `back\slash`,
		`"bad\uZZZZ"`:      `bad\uZZZZ`,
		"\"line\\\ncont\"": "linecont",
		`unquoted`:         "unquoted",
	}

	for in, expected := range tests {
		if got := unquoteString(in); got != expected {
			t.Errorf("%s: Expected %q, got %q", in, expected, got)
		}
	}
}
