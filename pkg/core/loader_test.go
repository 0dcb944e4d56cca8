package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderParseSource(t *testing.T) {
	loader := NewLoader(false)

	src := `package demo

import "log/slog"

func run(logger *slog.Logger) { logger.Info("ready") }
`
	ctx, err := loader.ParseSource("demo.go", []byte(src))
	require.NoError(t, err)

	assert.True(t, ctx.HasTypes())
	assert.Equal(t, "demo", ctx.Package.Name())
	assert.NotEmpty(t, ctx.Info.Selections)
	assert.Equal(t, 1, loader.CacheSize())

	cached, err := loader.ParseSource("demo.go", []byte(src))
	require.NoError(t, err)
	assert.Same(t, ctx, cached)

	loader.ClearCache()
	assert.Equal(t, 0, loader.CacheSize())
}

func TestLoaderParseSourceChangedContent(t *testing.T) {
	loader := NewLoader(false)

	first, err := loader.ParseSource("demo.go", []byte("package demo\n\nfunc a() {}\n"))
	require.NoError(t, err)

	second, err := loader.ParseSource("demo.go", []byte("package demo\n\nfunc b() {}\n"))
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.NotNil(t, second.Package.Scope().Lookup("b"))
	assert.Nil(t, second.Package.Scope().Lookup("a"))
	assert.Equal(t, 1, loader.CacheSize())
}

func TestLoaderParseSourceTypeErrors(t *testing.T) {
	loader := NewLoader(false)

	ctx, err := loader.ParseSource("bad.go", []byte("package bad\n\nfunc f() { missing() }\n"))
	require.Error(t, err)
	require.NotNil(t, ctx)
	assert.True(t, ctx.HasTypes())
	assert.Equal(t, 0, loader.CacheSize())
}

func TestLoaderParseSourceSyntaxError(t *testing.T) {
	_, err := NewLoader(false).ParseSource("broken.go", []byte("package broken\n\nfunc {"))
	assert.Error(t, err)
}

func TestLoaderLoad(t *testing.T) {
	root := writeModule(t, map[string]string{
		"main.go": "package main\n\nimport \"log\"\n\nfunc main() { log.Print(\"x\") }\n",
	})

	result, err := NewLoader(false).Load(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, result.Packages, 1)
	pkg := result.Packages[0]
	assert.Equal(t, "example.com/demo", pkg.PkgPath)
	assert.NotNil(t, pkg.TypesInfo)
	assert.Len(t, pkg.Syntax, 1)
	assert.Empty(t, result.TypeErrors)
}
