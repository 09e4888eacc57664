// Package errors implements the failure taxonomy:
// ProgramError, RuntimeFoldError, InternalError and Cancelled, plus a
// Reporter that formats them the way this project's error codes
// (E09xx, reserved for the optimizer — see codes.go) are formatted
// elsewhere in the pack: a coded header, a location line, a source
// snippet, and here a chain of enclosing scope openers in place of a
// generic call stack.
package errors

import (
	"fmt"

	"abc/internal/ast"
)

// Severity mirrors the ErrorLevel distinctions the reporter renders
// with. RuntimeFoldError diagnostics (DivideByZero, ModuloByZero) are
// advisory and carry SeverityWarning; every other constructor here
// uses SeverityError.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Kind distinguishes the four failure classes Only
// ProgramError and InternalError abort a pass; RuntimeFoldError is
// recovered at the folding site, and Cancelled is a cooperative
// acknowledgment rather than a bug.
type Kind int

const (
	KindProgramError Kind = iota
	KindRuntimeFoldError
	KindInternalError
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindProgramError:
		return "ProgramError"
	case KindRuntimeFoldError:
		return "RuntimeFoldError"
	case KindInternalError:
		return "InternalError"
	case KindCancelled:
		return "Cancelled"
	default:
		return "UnknownError"
	}
}

// Diagnostic is the concrete error value for every failure this
// engine raises. It is returned (not panicked) from engine entry
// points; InternalError uses it only as a defensive last resort
// because requires internal invariant
// violations to abort the pass without partial mutation, which is
// easiest to guarantee with a normal error return unwound by the
// caller rather than a panic/recover dance in the middle of a mutating
// walk.
type Diagnostic struct {
	Kind       Kind
	Code       Code
	Severity   Severity
	Message    string
	Pos        ast.Position
	NodeID     ast.NodeID
	SourceText string
	// ScopeChain lists the enclosing scope openers at the point of
	// failure, innermost first, as built by scope.Chain
	// (e.g. ["For#7", "Block#5", "Function(f)#1", "Root#0"]).
	ScopeChain []string
}

func (d *Diagnostic) Error() string {
	if d.NodeID != 0 {
		return fmt.Sprintf("%s[%s]: %s (node #%d)", d.Kind, d.Code, d.Message, d.NodeID)
	}
	return fmt.Sprintf("%s[%s]: %s", d.Kind, d.Code, d.Message)
}

// Fatal reports whether this diagnostic must abort the owning pass,
// per the propagation policy
func (d *Diagnostic) Fatal() bool {
	return d.Kind == KindProgramError || d.Kind == KindInternalError
}

func newProgram(code Code, pos ast.Position, nodeID ast.NodeID, sourceText string, chain []string, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Kind: KindProgramError, Code: code, Severity: SeverityError,
		Message: fmt.Sprintf(format, args...), Pos: pos, NodeID: nodeID,
		SourceText: sourceText, ScopeChain: chain,
	}
}

// Unbound reports resolution failure for an identifier with no
// enclosing declaration).
func Unbound(pos ast.Position, nodeID ast.NodeID, sourceText string, chain []string, name string) *Diagnostic {
	return newProgram(CodeUnbound, pos, nodeID, sourceText, chain, "unbound identifier %q", name)
}

// Redeclaration reports a name declared twice within the exact same
// scope (shadowing an outer scope is not an error).
func Redeclaration(pos ast.Position, nodeID ast.NodeID, sourceText string, chain []string, name string) *Diagnostic {
	return newProgram(CodeRedeclaration, pos, nodeID, sourceText, chain, "%q is already declared in this scope", name)
}

// TypeMismatch reports an operator applied to operands whose
// primitive types don't agree.
func TypeMismatch(pos ast.Position, nodeID ast.NodeID, sourceText string, chain []string, left, right ast.Primitive) *Diagnostic {
	return newProgram(CodeTypeMismatch, pos, nodeID, sourceText, chain, "type mismatch: %s vs %s", left, right)
}

// ArityMismatch reports a Call whose argument count disagrees with
// the callee's declared parameter count.
func ArityMismatch(pos ast.Position, nodeID ast.NodeID, sourceText string, chain []string, callee string, want, got int) *Diagnostic {
	return newProgram(CodeArityMismatch, pos, nodeID, sourceText, chain, "%s expects %d argument(s), got %d", callee, want, got)
}

// DivideByZero and ModuloByZero are soft RuntimeFoldError diagnostics:
// the engine declines to fold the offending expression and leaves it
// intact for the runtime, recovering locally at the folding site
// rather than aborting the pass.
func DivideByZero(pos ast.Position, nodeID ast.NodeID, sourceText string) *Diagnostic {
	return &Diagnostic{Kind: KindRuntimeFoldError, Code: CodeDivideByZero, Severity: SeverityWarning,
		Message: "division by zero is not folded at compile time", Pos: pos, NodeID: nodeID, SourceText: sourceText}
}

func ModuloByZero(pos ast.Position, nodeID ast.NodeID, sourceText string) *Diagnostic {
	return &Diagnostic{Kind: KindRuntimeFoldError, Code: CodeModuloByZero, Severity: SeverityWarning,
		Message: "modulo by zero is not folded at compile time", Pos: pos, NodeID: nodeID, SourceText: sourceText}
}

// Internal builds an InternalError for assertion-class engine bugs:
// scope-stack underflow, a resolved identifier with no environment
// entry, a node arity violation. These always abort the pass with no
// partial mutation of the caller's tree.
func Internal(code Code, pos ast.Position, nodeID ast.NodeID, chain []string, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Kind: KindInternalError, Code: code, Severity: SeverityError,
		Message: fmt.Sprintf(format, args...), Pos: pos, NodeID: nodeID, ScopeChain: chain,
	}
}

// Cancelled is returned by the block walker once a cancellation token
// is observed between statements.
var Cancelled = &Diagnostic{Kind: KindCancelled, Code: CodeCancelled, Message: "pass cancelled"}
