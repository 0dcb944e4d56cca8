package logcall

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/types/typeutil"
)

// Owner names the declaring side of a call.
// Type empty means a package-level function of Package.
// Package empty means any owner.
type Owner struct {
	Package string
	Type    string
}

// IsAny reports whether the owner is unconstrained
func (o Owner) IsAny() bool {
	return o.Package == ""
}

// IsPackage reports whether the owner is a package rather than a type
func (o Owner) IsPackage() bool {
	return o.Package != "" && o.Type == ""
}

func (o Owner) String() string {
	switch {
	case o.IsAny():
		return AnyType
	case o.IsPackage():
		return o.Package
	default:
		return o.Package + "." + o.Type
	}
}

// Signature describes one acceptable call shape. Values are immutable once built.
type Signature struct {
	Owner  Owner
	Method string // empty or "*" accepts any name
	Params []TypeRef
}

// NewSignature builds a signature owned by the type pkg.typ
func NewSignature(pkg, typ, method string, params ...TypeRef) Signature {
	return Signature{
		Owner:  Owner{Package: pkg, Type: typ},
		Method: method,
		Params: params,
	}
}

// NewFuncSignature builds a signature for a package-level function
func NewFuncSignature(pkg, name string, params ...TypeRef) Signature {
	return Signature{
		Owner:  Owner{Package: pkg},
		Method: name,
		Params: params,
	}
}

// Shape builds an owner-less signature that only constrains parameters
func Shape(params ...TypeRef) Signature {
	return Signature{Params: params}
}

func (s Signature) anyMethod() bool {
	return s.Method == "" || s.Method == AnyType
}

// Matches reports whether call is an invocation this signature accepts.
// Calls whose callee or types cannot be resolved never match.
func (s Signature) Matches(call *ast.CallExpr, info *types.Info) bool {
	fn, recv := Callee(call, info)
	if fn == nil {
		return false
	}
	return s.matchesFunc(fn, recv, info)
}

// MatchesAny reports whether call matches at least one of sigs
func MatchesAny(call *ast.CallExpr, info *types.Info, sigs []Signature) bool {
	fn, recv := Callee(call, info)
	if fn == nil {
		return false
	}
	return anyFuncMatch(fn, recv, info, sigs)
}

func anyFuncMatch(fn *types.Func, recv ast.Expr, info *types.Info, sigs []Signature) bool {
	for _, sig := range sigs {
		if sig.matchesFunc(fn, recv, info) {
			return true
		}
	}
	return false
}

func (s Signature) matchesFunc(fn *types.Func, recv ast.Expr, info *types.Info) bool {
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return false
	}

	if !s.anyMethod() && fn.Name() != s.Method {
		return false
	}
	if !s.matchesOwner(fn, sig, recv, info) {
		return false
	}

	params := sig.Params()
	if params.Len() != len(s.Params) {
		return false
	}
	for i, want := range s.Params {
		if !want.compatible(params.At(i).Type(), fn.Pkg()) {
			return false
		}
	}
	return true
}

func (s Signature) matchesOwner(fn *types.Func, sig *types.Signature, recv ast.Expr, info *types.Info) bool {
	if s.Owner.IsAny() {
		return true
	}

	if s.Owner.IsPackage() {
		return sig.Recv() == nil && fn.Pkg() != nil && fn.Pkg().Path() == s.Owner.Package
	}

	if sig.Recv() == nil {
		return false
	}
	owner := Type(s.Owner.Package, s.Owner.Type)

	candidates := []types.Type{sig.Recv().Type()}
	if recv != nil && info != nil {
		if t := info.TypeOf(recv); t != nil {
			candidates = append(candidates, t)
		}
	}
	for _, t := range candidates {
		if owner.compatible(t, fn.Pkg()) || owner.compatible(t, packageOf(t)) {
			return true
		}
	}
	return false
}

// Callee resolves the function a call invokes and, for method calls, the
// receiver expression. Explicit instantiations such as F[int](x) resolve to
// the generic function. It returns nil when the callee is not a known
// function or method, and for method expressions (T.M), whose receiver is
// passed as the first argument.
func Callee(call *ast.CallExpr, info *types.Info) (*types.Func, ast.Expr) {
	if call == nil || info == nil || info.Types == nil || info.Uses == nil {
		return nil, nil
	}
	fn, ok := typeutil.Callee(info, call).(*types.Func)
	if !ok {
		return nil, nil
	}

	sel := selectorOf(call.Fun)
	if sel == nil {
		return fn, nil
	}
	selection, ok := info.Selections[sel]
	if !ok {
		// Qualified identifier: pkg.Func
		return fn, nil
	}
	if selection.Kind() != types.MethodVal {
		return nil, nil
	}
	return fn, sel.X
}

// selectorOf returns the selector a call expression names, looking through
// parentheses and type arguments.
func selectorOf(expr ast.Expr) *ast.SelectorExpr {
	switch e := ast.Unparen(expr).(type) {
	case *ast.IndexExpr:
		expr = e.X
	case *ast.IndexListExpr:
		expr = e.X
	}
	sel, _ := ast.Unparen(expr).(*ast.SelectorExpr)
	return sel
}

// funcOf resolves a method value (u.String) or qualified function value
// (pkg.Func) used without a call.
func funcOf(expr ast.Expr, info *types.Info) (*types.Func, ast.Expr) {
	sel, ok := ast.Unparen(expr).(*ast.SelectorExpr)
	if !ok || info == nil {
		return nil, nil
	}
	if selection, ok := info.Selections[sel]; ok {
		if selection.Kind() != types.MethodVal {
			return nil, nil
		}
		fn, _ := selection.Obj().(*types.Func)
		return fn, sel.X
	}
	fn, _ := info.Uses[sel.Sel].(*types.Func)
	return fn, nil
}

func packageOf(t types.Type) *types.Package {
	if ptr, ok := types.Unalias(t).(*types.Pointer); ok {
		t = ptr.Elem()
	}
	if named, ok := types.Unalias(t).(*types.Named); ok {
		return named.Obj().Pkg()
	}
	return nil
}
