package logcall

import (
	"go/ast"
	"go/token"
	"go/types"
)

// Kind is the syntactic shape of a message argument
type Kind int

const (
	KindOther Kind = iota
	KindStringLiteral
	KindIdentifier
	KindPlus
	KindInvocation
	KindMethodReference
)

func (k Kind) String() string {
	switch k {
	case KindStringLiteral:
		return "string-literal"
	case KindIdentifier:
		return "identifier"
	case KindPlus:
		return "plus"
	case KindInvocation:
		return "invocation"
	case KindMethodReference:
		return "method-reference"
	default:
		return "other"
	}
}

// Verdict is the classification of a log message argument
type Verdict int

const (
	OK Verdict = iota
	ConcatStringOnly
	ConcatWithObject
	FormatCall
	GenericMethodCall
)

func (v Verdict) String() string {
	switch v {
	case OK:
		return "ok"
	case ConcatStringOnly:
		return "concat-string-only"
	case ConcatWithObject:
		return "concat-with-object"
	case FormatCall:
		return "format-call"
	case GenericMethodCall:
		return "method-call"
	default:
		return "unknown"
	}
}

// IsFinding reports whether the verdict is reported
func (v Verdict) IsFinding() bool {
	return v != OK
}

// Finding messages
const (
	MsgConcatStringOnly = "Avoid String concatenating in log messages"
	MsgConcatWithObject = "Avoid Object concatenating in log messages"
	MsgFormatCall       = "%s() should not be used as a log message"
	MsgMethodCall       = "Avoid method call as a log message"
)

// KindOf returns the shape of expr. Parentheses are looked through.
// info may be nil, in which case selectors are never method references.
func KindOf(expr ast.Expr, info *types.Info) Kind {
	switch e := ast.Unparen(expr).(type) {
	case *ast.BasicLit:
		if e.Kind == token.STRING {
			return KindStringLiteral
		}
	case *ast.Ident:
		return KindIdentifier
	case *ast.BinaryExpr:
		if e.Op == token.ADD && !isNumeric(e, info) {
			return KindPlus
		}
	case *ast.CallExpr:
		if info != nil {
			if tv, ok := info.Types[e.Fun]; ok && tv.IsType() {
				// conversion
				return KindOther
			}
		}
		return KindInvocation
	case *ast.SelectorExpr:
		if info == nil {
			return KindOther
		}
		if sel, ok := info.Selections[e]; ok {
			if sel.Kind() == types.MethodVal || sel.Kind() == types.MethodExpr {
				return KindMethodReference
			}
			return KindOther
		}
		if _, ok := info.Uses[e.Sel].(*types.Func); ok {
			return KindMethodReference
		}
	}
	return KindOther
}

func isNumeric(e ast.Expr, info *types.Info) bool {
	if info == nil {
		return false
	}
	t := info.TypeOf(e)
	if t == nil {
		return false
	}
	basic, ok := t.Underlying().(*types.Basic)
	return ok && basic.Info()&types.IsNumeric != 0
}

// IsPureLiteralConcatenation reports whether every leaf of the + chain is a
// string literal. The left operand is checked first; the right one only when
// the left qualifies.
func IsPureLiteralConcatenation(bin *ast.BinaryExpr) bool {
	if !isLiteralOperand(bin.X) {
		return false
	}
	return isLiteralOperand(bin.Y)
}

func isLiteralOperand(expr ast.Expr) bool {
	switch e := ast.Unparen(expr).(type) {
	case *ast.BasicLit:
		return e.Kind == token.STRING
	case *ast.BinaryExpr:
		return e.Op == token.ADD && IsPureLiteralConcatenation(e)
	}
	return false
}

// Classify decides the verdict for a log message argument.
// formatting lists the signatures that count as a formatting call.
func Classify(expr ast.Expr, info *types.Info, formatting []Signature) Verdict {
	v, _ := classify(expr, info, formatting)
	return v
}

// classify also returns the formatting function when the verdict is FormatCall.
func classify(expr ast.Expr, info *types.Info, formatting []Signature) (Verdict, *types.Func) {
	if expr == nil {
		return OK, nil
	}
	inner := ast.Unparen(expr)

	switch KindOf(inner, info) {
	case KindPlus:
		// KindOf guarantees the shape; a failed assertion is a broken tree.
		if IsPureLiteralConcatenation(inner.(*ast.BinaryExpr)) {
			return ConcatStringOnly, nil
		}
		return ConcatWithObject, nil
	case KindInvocation:
		call := inner.(*ast.CallExpr)
		fn, recv := Callee(call, info)
		if fn != nil && anyFuncMatch(fn, recv, info, formatting) {
			return FormatCall, fn
		}
		return GenericMethodCall, nil
	case KindMethodReference:
		fn, recv := funcOf(inner, info)
		if fn != nil && anyFuncMatch(fn, recv, info, formatting) {
			return FormatCall, fn
		}
		return GenericMethodCall, nil
	default:
		return OK, nil
	}
}
