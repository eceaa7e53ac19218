package analysis

import (
	"path/filepath"
	"sort"
	"sync"

	"github.com/nedpals/enumcomplete/completion"
	"golang.org/x/exp/maps"
)

// FileLoader provides source files that are part of the project but were
// not handed to the program up front, such as files that are not open in
// the editor.
type FileLoader interface {
	LoadFile(path string) (*SourceFile, bool)
}

// Program is a snapshot of a set of source files and the options they are
// compiled with.
type Program struct {
	options completion.CompilerOptions
	loader  FileLoader
	checker *Checker

	mu     sync.Mutex
	files  map[string]*SourceFile
	loaded map[string]*SourceFile
	missed map[string]bool
}

func NewProgram(files []*SourceFile, options completion.CompilerOptions, loader FileLoader) *Program {
	p := &Program{
		options: options,
		loader:  loader,
		files:   make(map[string]*SourceFile, len(files)),
		loaded:  map[string]*SourceFile{},
		missed:  map[string]bool{},
	}
	for _, file := range files {
		p.files[file.fileName] = file
	}
	p.checker = &Checker{program: p}
	return p
}

func (p *Program) SourceFile(fileName string) (completion.SourceFile, bool) {
	file, ok := p.File(fileName)
	if !ok {
		return nil, false
	}
	return file, true
}

// File returns a source file of the program, including files loaded while
// resolving imports.
func (p *Program) File(fileName string) (*SourceFile, bool) {
	fileName = filepath.Clean(fileName)

	p.mu.Lock()
	defer p.mu.Unlock()

	if file, ok := p.files[fileName]; ok {
		return file, true
	}
	file, ok := p.loaded[fileName]
	return file, ok
}

// Files returns the source files handed to the program, sorted by name.
func (p *Program) Files() []*SourceFile {
	names := maps.Keys(p.files)
	sort.Strings(names)

	files := make([]*SourceFile, 0, len(names))
	for _, name := range names {
		files = append(files, p.files[name])
	}
	return files
}

func (p *Program) TypeChecker() completion.TypeChecker { return p.checker }

func (p *Program) Checker() *Checker { return p.checker }

func (p *Program) CompilerOptions() completion.CompilerOptions { return p.options }

// fileForModule returns the source file at path, asking the loader for
// files the program does not know yet.
func (p *Program) fileForModule(path string) *SourceFile {
	if file, ok := p.File(path); ok {
		return file
	}

	p.mu.Lock()
	missed := p.missed[path]
	p.mu.Unlock()
	if missed || p.loader == nil {
		return nil
	}

	file, ok := p.loader.LoadFile(path)

	p.mu.Lock()
	defer p.mu.Unlock()
	if !ok {
		p.missed[path] = true
		return nil
	}
	p.loaded[path] = file
	return file
}

func (p *Program) resolveModule(from *SourceFile, module string) *SourceFile {
	if from == nil || !isRelativeModule(module) {
		return nil
	}

	for _, candidate := range moduleCandidates(from.fileName, module) {
		if file := p.fileForModule(filepath.Clean(candidate)); file != nil {
			return file
		}
	}
	return nil
}

// ResolveModule returns the file that a module specifier written in from
// refers to. Only relative specifiers are resolved.
func (p *Program) ResolveModule(from *SourceFile, module string) (*SourceFile, bool) {
	file := p.resolveModule(from, module)
	return file, file != nil
}
