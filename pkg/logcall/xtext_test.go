package logcall_test

import (
	"context"
	"go/ast"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aiseeq/logcheck/pkg/core"
	"github.com/aiseeq/logcheck/pkg/logcall"
)

func TestDefaultFormatting_XTextPrinter(t *testing.T) {
	result, err := core.NewLoader(false).Load(context.Background(), ".", "./testdata/xtext")
	require.NoError(t, err)
	require.Empty(t, result.TypeErrors)
	require.Len(t, result.Packages, 1)

	pkg := result.Packages[0]
	c := logcall.NewDefault()

	var got []string
	for _, file := range pkg.Syntax {
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			if res, ok := c.Inspect(call, pkg.TypesInfo); ok {
				got = append(got, res.Verdict.String())
				return false
			}
			return true
		})
	}

	assert.Equal(t, []string{"format-call", "format-call", "method-call", "ok"}, got)
}
