package logcall

import (
	"go/parser"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeLiterals(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
		ok   bool
	}{
		{"two literals", `"user " + "login"`, `"user login"`, true},
		{"chain", `"a" + "b" + "c"`, `"abc"`, true},
		{"parenthesized", `("a" + ("b"))`, `"ab"`, true},
		{"raw string", "\"x\" + `y\\n`", `"xy\\n"`, true},
		{"escapes", `"tab\t" + "quote\""`, `"tab\tquote\""`, true},
		{"with identifier", `"a" + name`, "", false},
		{"single literal", `"a"`, "", false},
		{"call", `f("a" + "b")`, "", false},
		{"numeric", `1 + 2`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := parser.ParseExpr(tt.expr)
			require.NoError(t, err)

			got, ok := MergeLiterals(expr)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
