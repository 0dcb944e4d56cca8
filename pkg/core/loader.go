package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"sync"

	"golang.org/x/tools/go/packages"
)

// LoadMode is what the loader requests from go/packages
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo |
	packages.NeedTypesSizes

// LoadResult is the outcome of loading a project
type LoadResult struct {
	Packages []*packages.Package
	FileSet  *token.FileSet

	// Type errors do not stop the load; affected files carry partial info
	TypeErrors []error
}

// Loader produces type-checked syntax for analysis
type Loader struct {
	tests bool

	// Cache for single files checked with ParseSource
	cache   map[string]*FileContext
	cacheMu sync.RWMutex
}

// NewLoader creates a loader; tests also loads _test.go files
func NewLoader(tests bool) *Loader {
	return &Loader{
		tests: tests,
		cache: make(map[string]*FileContext),
	}
}

// Load type-checks the packages matching patterns below dir
func (l *Loader) Load(ctx context.Context, dir string, patterns ...string) (*LoadResult, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	fset := token.NewFileSet()
	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     dir,
		Fset:    fset,
		Tests:   l.tests,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("packages.Load: %w", err)
	}

	result := &LoadResult{Packages: pkgs, FileSet: fset}
	for _, pkg := range pkgs {
		for _, pkgErr := range pkg.Errors {
			result.TypeErrors = append(result.TypeErrors, fmt.Errorf("%s: %s", pkg.PkgPath, pkgErr.Msg))
		}
	}
	return result, nil
}

// NewTypesInfo allocates the maps the log-call checker reads
func NewTypesInfo() *types.Info {
	return &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
	}
}

// ParseSource parses and type-checks content as a single-file package.
// Imports resolve through the installed toolchain. The context is returned
// even when type checking fails so callers can analyze what was resolved.
// A cached context is reused only while content is unchanged.
func (l *Loader) ParseSource(path string, content []byte) (*FileContext, error) {
	l.cacheMu.RLock()
	if cached, ok := l.cache[path]; ok && bytes.Equal(cached.Content, content) {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, content, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	info := NewTypesInfo()
	var typeErrs []error
	conf := types.Config{
		Importer: importer.ForCompiler(fset, "gc", nil),
		Error:    func(err error) { typeErrs = append(typeErrs, err) },
	}
	pkg, _ := conf.Check(file.Name.Name, fset, []*ast.File{file}, info)

	ctx := NewFileContext(path, "/", content, nil)
	ctx.RelPath = path
	ctx.SetSyntax(fset, file, pkg, info)

	if len(typeErrs) > 0 {
		return ctx, errors.Join(typeErrs...)
	}

	l.cacheMu.Lock()
	l.cache[path] = ctx
	l.cacheMu.Unlock()

	return ctx, nil
}

// ClearCache clears the source cache
func (l *Loader) ClearCache() {
	l.cacheMu.Lock()
	l.cache = make(map[string]*FileContext)
	l.cacheMu.Unlock()
}

// CacheSize returns the number of cached files
func (l *Loader) CacheSize() int {
	l.cacheMu.RLock()
	defer l.cacheMu.RUnlock()
	return len(l.cache)
}
