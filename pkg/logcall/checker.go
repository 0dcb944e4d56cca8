// Package logcall recognizes log calls in type-checked Go code and
// classifies how their message argument is built.
//
// A log call is any call matching one of the configured logging
// signatures. Its message is argument 0, or argument 1 when the callee's
// leading parameter is a correlation marker such as context.Context. The
// message is then classified:
//
//	log.Printf("user %s", name)            // ok
//	slog.Info("user " + "login")           // concat-string-only
//	slog.InfoContext(ctx, "user " + name)  // concat-with-object
//	log.Print(fmt.Sprintf("user %s", name)) // format-call
//	slog.Info(user.String())               // method-call
//
// Checker holds only immutable tables and is safe for concurrent use.
package logcall

import (
	"fmt"
	"go/ast"
	"go/types"
)

// Reporter receives a finding anchored at node
type Reporter func(node ast.Node, message string)

// Config lists the signatures a Checker recognizes
type Config struct {
	Logging    []Signature
	Markers    []TypeRef
	Formatting []Signature
}

// DefaultConfig returns the standard library facades and fmt.Sprintf
func DefaultConfig() Config {
	return Config{
		Logging:    DefaultLoggingSignatures(),
		Markers:    DefaultMarkers(),
		Formatting: DefaultFormattingSignatures(),
	}
}

// Result describes one classified log call
type Result struct {
	Call      *ast.CallExpr
	Message   ast.Expr
	Verdict   Verdict
	Formatter *types.Func // set for FormatCall
}

// Text returns the finding message for the result
func (r Result) Text() string {
	switch r.Verdict {
	case ConcatStringOnly:
		return MsgConcatStringOnly
	case ConcatWithObject:
		return MsgConcatWithObject
	case FormatCall:
		return fmt.Sprintf(MsgFormatCall, FuncName(r.Formatter))
	case GenericMethodCall:
		return MsgMethodCall
	default:
		return ""
	}
}

// Checker classifies log calls
type Checker struct {
	logging    []Signature
	markers    []Signature
	formatting []Signature
}

// New creates a checker from cfg
func New(cfg Config) *Checker {
	return &Checker{
		logging:    append([]Signature(nil), cfg.Logging...),
		markers:    MarkerShapes(cfg.Markers),
		formatting: append([]Signature(nil), cfg.Formatting...),
	}
}

// NewDefault creates a checker with DefaultConfig
func NewDefault() *Checker {
	return New(DefaultConfig())
}

// IsLoggingCall reports whether call matches a logging signature
func (c *Checker) IsLoggingCall(call *ast.CallExpr, info *types.Info) bool {
	return MatchesAny(call, info, c.logging)
}

// SelectMessageArgument returns the argument carrying the log message of a
// call already known to be a log call. It returns nil when the call does not
// spell that argument out, e.g. log.Print(args...).
func (c *Checker) SelectMessageArgument(call *ast.CallExpr, info *types.Info) ast.Expr {
	idx := 0
	if fn, _ := Callee(call, info); fn != nil && anyFuncMatch(fn, nil, info, c.markers) {
		idx = 1
	}

	if idx >= len(call.Args) {
		return nil
	}
	if call.Ellipsis.IsValid() && idx == len(call.Args)-1 {
		return nil
	}
	return call.Args[idx]
}

// Inspect runs signature matching, message selection and classification.
// ok is false when call is not a log call.
func (c *Checker) Inspect(call *ast.CallExpr, info *types.Info) (Result, bool) {
	if !c.IsLoggingCall(call, info) {
		return Result{}, false
	}

	res := Result{Call: call, Message: c.SelectMessageArgument(call, info)}
	res.Verdict, res.Formatter = classify(res.Message, info, c.formatting)
	return res, true
}

// Check inspects call and reports a finding on the message argument when the
// verdict calls for one.
func (c *Checker) Check(call *ast.CallExpr, info *types.Info, report Reporter) {
	res, ok := c.Inspect(call, info)
	if !ok || !res.Verdict.IsFinding() {
		return
	}
	report(res.Message, res.Text())
}

// FuncName returns pkg.Func or pkg.Type.Method for fn
func FuncName(fn *types.Func) string {
	if fn == nil {
		return ""
	}
	prefix := ""
	if fn.Pkg() != nil {
		prefix = fn.Pkg().Name() + "."
	}

	sig, ok := fn.Type().(*types.Signature)
	if ok && sig.Recv() != nil {
		t := sig.Recv().Type()
		if ptr, isPtr := types.Unalias(t).(*types.Pointer); isPtr {
			t = ptr.Elem()
		}
		if named, isNamed := types.Unalias(t).(*types.Named); isNamed {
			prefix += named.Obj().Name() + "."
		}
	}
	return prefix + fn.Name()
}
