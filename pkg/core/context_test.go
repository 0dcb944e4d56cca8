package core

import (
	"go/ast"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileContext(t *testing.T) {
	content := []byte("package main\n\nfunc main() {}")
	cfg := DefaultConfig()

	ctx := NewFileContext("/project/cmd/main.go", "/project", content, cfg)

	assert.Equal(t, "/project/cmd/main.go", ctx.Path)
	assert.Equal(t, "cmd/main.go", ctx.RelPath)
	assert.Equal(t, "/project", ctx.ProjectRoot)
	assert.Equal(t, content, ctx.Content)
	assert.Len(t, ctx.Lines, 3)
	assert.Same(t, cfg, ctx.Config)
	assert.False(t, ctx.HasTypes())
}

func TestFileContextIsTestFile(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"/project/main.go", false},
		{"/project/main_test.go", true},
		{"/project/testing.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ctx := &FileContext{Path: tt.path}
			assert.Equal(t, tt.expected, ctx.IsTestFile())
		})
	}
}

func TestFileContextGetLine(t *testing.T) {
	ctx := NewFileContext("/p/a.go", "/p", []byte("line1\nline2\nline3"), nil)

	assert.Equal(t, "line1", ctx.GetLine(1))
	assert.Equal(t, "line3", ctx.GetLine(3))
	assert.Equal(t, "", ctx.GetLine(0))
	assert.Equal(t, "", ctx.GetLine(4))
}

func TestFileContextPositions(t *testing.T) {
	src := "package main\n\nvar msg = \"a\" + \"b\"\n"
	ctx, err := NewLoader(false).ParseSource("main.go", []byte(src))
	require.NoError(t, err)

	var bin *ast.BinaryExpr
	ast.Inspect(ctx.File, func(n ast.Node) bool {
		if b, ok := n.(*ast.BinaryExpr); ok {
			bin = b
		}
		return true
	})
	require.NotNil(t, bin)

	pos := ctx.PositionFor(bin)
	assert.Equal(t, 3, pos.Line)
	assert.Equal(t, 11, pos.Column)
	assert.Equal(t, `"a" + "b"`, ctx.Source(bin))
	assert.Equal(t, 20, ctx.EndPositionFor(bin).Column)
}

func TestFileContextWithoutFileSet(t *testing.T) {
	ctx := &FileContext{}
	assert.Equal(t, 0, ctx.PositionFor(&ast.Ident{}).Line)
	assert.Equal(t, "", ctx.Source(&ast.Ident{}))
}
