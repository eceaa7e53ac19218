package analysis

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/nedpals/enumcomplete/completion"
)

var scriptTargets = map[string]completion.ScriptTarget{
	"es3":    completion.ES3,
	"es5":    completion.ES5,
	"es6":    completion.ES2015,
	"es2015": completion.ES2015,
	"es2016": completion.ES2016,
	"es2017": completion.ES2017,
	"es2018": completion.ES2018,
	"es2019": completion.ES2019,
	"es2020": completion.ES2020,
	"es2021": completion.ES2021,
	"es2022": completion.ES2022,
	"es2023": completion.ES2023,
	"esnext": completion.ESNext,
	"latest": completion.LatestTarget,
}

var jsxEmits = map[string]completion.JSXEmit{
	"preserve":     completion.JSXPreserve,
	"react":        completion.JSXReact,
	"react-native": completion.JSXReactNative,
	"react-jsx":    completion.JSXReactJSX,
	"react-jsxdev": completion.JSXReactJSXDev,
}

// ParseScriptTarget parses a tsconfig "target" value. An empty value
// yields the default target.
func ParseScriptTarget(value string) (completion.ScriptTarget, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if len(value) == 0 {
		return completion.DefaultTarget, nil
	}

	if target, ok := scriptTargets[value]; ok {
		return target, nil
	}
	return completion.DefaultTarget, errors.Newf("unknown script target %q", value)
}

func ParseJSXEmit(value string) (completion.JSXEmit, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if len(value) == 0 {
		return completion.JSXNone, nil
	}

	if emit, ok := jsxEmits[value]; ok {
		return emit, nil
	}
	return completion.JSXNone, errors.Newf("unknown jsx option %q", value)
}
