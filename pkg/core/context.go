package core

import (
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"
)

// FileContext contains all information about a file being analyzed
type FileContext struct {
	// Path information
	Path        string // Absolute path
	RelPath     string // Relative to project root
	ProjectRoot string // Project root directory

	// File content
	Content []byte   // Raw file content
	Lines   []string // Lines for positional access

	// Syntax and type information. Info may be partial when the
	// package had type errors.
	File    *ast.File
	FileSet *token.FileSet
	Package *types.Package
	Info    *types.Info

	// Configuration
	Config *Config
}

// NewFileContext creates a new file context
func NewFileContext(path, projectRoot string, content []byte, cfg *Config) *FileContext {
	relPath, err := filepath.Rel(projectRoot, path)
	if err != nil {
		relPath = path
	}

	return &FileContext{
		Path:        path,
		RelPath:     filepath.ToSlash(relPath),
		ProjectRoot: projectRoot,
		Content:     content,
		Lines:       strings.Split(string(content), "\n"),
		Config:      cfg,
	}
}

// IsTestFile returns true for _test.go files
func (ctx *FileContext) IsTestFile() bool {
	return strings.HasSuffix(ctx.Path, "_test.go")
}

// HasTypes returns true when syntax and type information are attached
func (ctx *FileContext) HasTypes() bool {
	return ctx.File != nil && ctx.Info != nil
}

// SetSyntax attaches the parsed file and its type information
func (ctx *FileContext) SetSyntax(fset *token.FileSet, file *ast.File, pkg *types.Package, info *types.Info) {
	ctx.FileSet = fset
	ctx.File = file
	ctx.Package = pkg
	ctx.Info = info
}

// GetLine returns a specific line (1-based index)
func (ctx *FileContext) GetLine(lineNum int) string {
	if lineNum < 1 || lineNum > len(ctx.Lines) {
		return ""
	}
	return ctx.Lines[lineNum-1]
}

// PositionFor returns the position for a given ast.Node
func (ctx *FileContext) PositionFor(node ast.Node) token.Position {
	if ctx.FileSet == nil {
		return token.Position{}
	}
	return ctx.FileSet.Position(node.Pos())
}

// EndPositionFor returns the position just past node
func (ctx *FileContext) EndPositionFor(node ast.Node) token.Position {
	if ctx.FileSet == nil {
		return token.Position{}
	}
	return ctx.FileSet.Position(node.End())
}

// Source returns the source text of node, or "" when it is out of range
func (ctx *FileContext) Source(node ast.Node) string {
	start, end := ctx.PositionFor(node).Offset, ctx.EndPositionFor(node).Offset
	if ctx.FileSet == nil || start < 0 || end > len(ctx.Content) || start > end {
		return ""
	}
	return string(ctx.Content[start:end])
}
