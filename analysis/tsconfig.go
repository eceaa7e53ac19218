package analysis

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/nedpals/enumcomplete/completion"
	"github.com/tailscale/hujson"
)

const ConfigFileName = "tsconfig.json"

type tsconfig struct {
	Extends         json.RawMessage `json:"extends"`
	CompilerOptions struct {
		Target *string `json:"target"`
		JSX    *string `json:"jsx"`
	} `json:"compilerOptions"`
}

// FindConfigFile looks for a tsconfig.json in dir and each of its parents.
func FindConfigFile(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	for {
		path := filepath.Join(dir, ConfigFileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LoadCompilerOptions reads the compiler options of a tsconfig.json file,
// following its "extends" chain.
func LoadCompilerOptions(path string) (completion.CompilerOptions, error) {
	options := completion.CompilerOptions{Target: completion.DefaultTarget}

	var target, jsx *string
	if err := loadConfig(path, map[string]bool{}, func(cfg *tsconfig) {
		if cfg.CompilerOptions.Target != nil {
			target = cfg.CompilerOptions.Target
		}
		if cfg.CompilerOptions.JSX != nil {
			jsx = cfg.CompilerOptions.JSX
		}
	}); err != nil {
		return options, err
	}

	if target != nil {
		parsed, err := ParseScriptTarget(*target)
		if err != nil {
			return options, errors.Wrapf(err, "read %s", path)
		}
		options.Target = parsed
	}

	if jsx != nil {
		parsed, err := ParseJSXEmit(*jsx)
		if err != nil {
			return options, errors.Wrapf(err, "read %s", path)
		}
		options.JSX = parsed
	}

	return options, nil
}

// loadConfig calls apply for each config in the extends chain of path, base
// configs first.
func loadConfig(path string, seen map[string]bool, apply func(cfg *tsconfig)) error {
	path = filepath.Clean(path)
	if seen[path] {
		return errors.Newf("circular extends in %s", path)
	}
	seen[path] = true
	defer delete(seen, path)

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}

	standard, err := hujson.Standardize(content)
	if err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}

	cfg := &tsconfig{}
	if err := json.Unmarshal(standard, cfg); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}

	extends, err := extendsList(cfg.Extends)
	if err != nil {
		return errors.Wrapf(err, "decode extends of %s", path)
	}

	for _, base := range extends {
		basePath, ok := resolveExtends(filepath.Dir(path), base)
		if !ok {
			return errors.Newf("cannot find base config %q of %s", base, path)
		}
		if err := loadConfig(basePath, seen, apply); err != nil {
			return err
		}
	}

	apply(cfg)
	return nil
}

func extendsList(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// resolveExtends finds the file an "extends" entry refers to. Package names
// are looked up in node_modules directories from dir upwards.
func resolveExtends(dir string, base string) (string, bool) {
	var candidates []string
	if isRelativeModule(base) {
		path := base
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, base)
		}
		candidates = append(candidates, path, path+".json")
	} else {
		for d := dir; ; d = filepath.Dir(d) {
			path := filepath.Join(d, "node_modules", filepath.FromSlash(base))
			candidates = append(candidates, path, path+".json", filepath.Join(path, ConfigFileName))
			if filepath.Dir(d) == d {
				break
			}
		}
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// HasConfigExtension reports whether path looks like a tsconfig file, for
// example "tsconfig.json" or "tsconfig.build.json".
func HasConfigExtension(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, "tsconfig") && strings.HasSuffix(base, ".json")
}
