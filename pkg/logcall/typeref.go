package logcall

import (
	"fmt"
	"go/types"
	"strings"
)

// AnyType is the wildcard type name accepted by every parameter
const AnyType = "*"

// TypeRef names a Go type by package path and type name.
// An empty Package refers to a predeclared type such as string.
type TypeRef struct {
	Package string
	Name    string
}

// Any returns the wildcard type reference
func Any() TypeRef {
	return TypeRef{Name: AnyType}
}

// Type returns a reference to pkg.name
func Type(pkg, name string) TypeRef {
	return TypeRef{Package: pkg, Name: name}
}

// Builtin returns a reference to a predeclared type
func Builtin(name string) TypeRef {
	return TypeRef{Name: name}
}

// ParseTypeRef parses "*", "string", "context.Context" or "gopkg.in/yaml.v3.Node".
// Type names never contain dots, so the reference is split at the last one.
func ParseTypeRef(s string) (TypeRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TypeRef{}, fmt.Errorf("empty type reference")
	}
	if s == AnyType {
		return Any(), nil
	}

	idx := strings.LastIndex(s, ".")
	if idx < 0 {
		if types.Universe.Lookup(s) == nil {
			return TypeRef{}, fmt.Errorf("unknown predeclared type %q", s)
		}
		return Builtin(s), nil
	}

	pkg, name := s[:idx], s[idx+1:]
	if pkg == "" || name == "" || strings.HasSuffix(pkg, "/") {
		return TypeRef{}, fmt.Errorf("malformed type reference %q", s)
	}
	return Type(pkg, name), nil
}

// IsAny reports whether the reference is the wildcard
func (r TypeRef) IsAny() bool {
	return r.Package == "" && r.Name == AnyType
}

// String returns the textual form accepted by ParseTypeRef
func (r TypeRef) String() string {
	if r.Package == "" {
		return r.Name
	}
	return r.Package + "." + r.Name
}

// is reports whether t is exactly the named type r, looking through one pointer.
func (r TypeRef) is(t types.Type) bool {
	if t == nil {
		return false
	}
	if r.Package == "" {
		obj := types.Universe.Lookup(r.Name)
		return obj != nil && types.Identical(t, obj.Type())
	}

	if ptr, ok := types.Unalias(t).(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == r.Package && obj.Name() == r.Name
}

// resolve finds the types.Type for r among pkg and everything it imports.
func (r TypeRef) resolve(pkg *types.Package) types.Type {
	if r.Package == "" {
		if obj := types.Universe.Lookup(r.Name); obj != nil {
			return obj.Type()
		}
		return nil
	}

	target := findPackage(pkg, r.Package, make(map[*types.Package]bool))
	if target == nil {
		return nil
	}
	obj, ok := target.Scope().Lookup(r.Name).(*types.TypeName)
	if !ok {
		return nil
	}
	return obj.Type()
}

// compatible reports whether t is r, or implements r when r is an interface.
// A nil t never matches.
func (r TypeRef) compatible(t types.Type, pkg *types.Package) bool {
	if r.IsAny() {
		return t != nil
	}
	if t == nil {
		return false
	}
	if r.is(t) {
		return true
	}
	if r.Package == "" {
		return false
	}

	want := r.resolve(pkg)
	if want == nil {
		return false
	}
	iface, ok := want.Underlying().(*types.Interface)
	if !ok {
		return false
	}
	if types.Implements(t, iface) {
		return true
	}
	if _, isPtr := t.(*types.Pointer); !isPtr {
		return types.Implements(types.NewPointer(t), iface)
	}
	return false
}

func findPackage(pkg *types.Package, path string, seen map[*types.Package]bool) *types.Package {
	if pkg == nil || seen[pkg] {
		return nil
	}
	seen[pkg] = true
	if pkg.Path() == path {
		return pkg
	}
	for _, imp := range pkg.Imports() {
		if found := findPackage(imp, path, seen); found != nil {
			return found
		}
	}
	return nil
}
