package logcall

import (
	"go/ast"
	"go/token"
	"strconv"
	"strings"
)

// MergeLiterals folds a pure literal concatenation such as "a" + `b` into a
// single quoted literal. ok is false when expr is anything else.
func MergeLiterals(expr ast.Expr) (string, bool) {
	bin, isBin := ast.Unparen(expr).(*ast.BinaryExpr)
	if !isBin || bin.Op != token.ADD || !IsPureLiteralConcatenation(bin) {
		return "", false
	}

	var sb strings.Builder
	if !appendLiterals(&sb, bin) {
		return "", false
	}
	return strconv.Quote(sb.String()), true
}

func appendLiterals(sb *strings.Builder, expr ast.Expr) bool {
	switch e := ast.Unparen(expr).(type) {
	case *ast.BasicLit:
		s, err := strconv.Unquote(e.Value)
		if err != nil {
			return false
		}
		sb.WriteString(s)
		return true
	case *ast.BinaryExpr:
		return appendLiterals(sb, e.X) && appendLiterals(sb, e.Y)
	}
	return false
}
