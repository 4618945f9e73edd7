package semantic

import (
	"fmt"

	"github.com/hulklang/hulkcore/internal/token"
	"github.com/hulklang/hulkcore/internal/types"
)

// SemanticErrorKind is the error taxonomy (spec.md §7). Names are labels,
// not distinct Go types - each stage constructs a *SemanticError carrying
// one of these.
type SemanticErrorKind string

const (
	AlreadyDefined       SemanticErrorKind = "AlreadyDefined"
	Undefined            SemanticErrorKind = "Undefined"
	CircularInheritance  SemanticErrorKind = "CircularInheritance"
	ArityMismatch        SemanticErrorKind = "ArityMismatch"
	NotAssignable        SemanticErrorKind = "NotAssignable"
	ProtocolInstantiation SemanticErrorKind = "ProtocolInstantiation"
	OverrideMismatch     SemanticErrorKind = "OverrideMismatch"
	TypeMismatch         SemanticErrorKind = "TypeMismatch"
	NonBooleanCondition  SemanticErrorKind = "NonBooleanCondition"
	NonNumericOperand    SemanticErrorKind = "NonNumericOperand"
	UninferrableType     SemanticErrorKind = "UninferrableType"
	InvalidCallTarget    SemanticErrorKind = "InvalidCallTarget"
	IndexTargetNotVector SemanticErrorKind = "IndexTargetNotVector"
	IndexNotNumber       SemanticErrorKind = "IndexNotNumber"
	BaseMisuse           SemanticErrorKind = "BaseMisuse"
	UndefinedMember      SemanticErrorKind = "UndefinedMember"
)

// SemanticError is the structured error every stage reports - a kind, a
// one-line message, and the offending node's position (spec.md §7:
// "the driver prints each error with a one-line description prefixed by
// the stage name").
type SemanticError struct {
	Kind    SemanticErrorKind
	Stage   string
	Message string
	Pos     token.Position
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s: %s at %s: %s", e.Stage, e.Kind, e.Pos.String(), e.Message)
}

func newErr(stage string, kind SemanticErrorKind, pos token.Position, format string, args ...interface{}) *SemanticError {
	return &SemanticError{Stage: stage, Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func errAlreadyDefined(stage string, pos token.Position, name string) *SemanticError {
	return newErr(stage, AlreadyDefined, pos, "%q is already defined", name)
}

func errUndefined(stage string, pos token.Position, name string) *SemanticError {
	return newErr(stage, Undefined, pos, "%q is not defined", name)
}

func errCircularInheritance(stage string, pos token.Position, name string) *SemanticError {
	return newErr(stage, CircularInheritance, pos, "inheritance cycle through %q", name)
}

func errArityMismatch(stage string, pos token.Position, name string, want, got int) *SemanticError {
	return newErr(stage, ArityMismatch, pos, "%q expects %d argument(s), got %d", name, want, got)
}

func errNotAssignable(stage string, pos token.Position) *SemanticError {
	return newErr(stage, NotAssignable, pos, "mutation target is not assignable")
}

func errProtocolInstantiation(stage string, pos token.Position, name string) *SemanticError {
	return newErr(stage, ProtocolInstantiation, pos, "cannot instantiate protocol %q", name)
}

func errOverrideMismatch(stage string, pos token.Position, name string) *SemanticError {
	return newErr(stage, OverrideMismatch, pos, "method %q does not match the parent's signature", name)
}

func errTypeMismatch(stage string, pos token.Position, want, got types.Type) *SemanticError {
	gotName := "?"
	if got != nil {
		gotName = got.Name()
	}
	wantName := "?"
	if want != nil {
		wantName = want.Name()
	}
	return newErr(stage, TypeMismatch, pos, "expected %s, got %s", wantName, gotName)
}

func errNonBooleanCondition(stage string, pos token.Position) *SemanticError {
	return newErr(stage, NonBooleanCondition, pos, "condition must be Boolean")
}

func errNonNumericOperand(stage string, pos token.Position, op string) *SemanticError {
	return newErr(stage, NonNumericOperand, pos, "operand of %q must be Number", op)
}

func errUninferrableType(stage string, pos token.Position, what string) *SemanticError {
	return newErr(stage, UninferrableType, pos, "%s has no inferable type", what)
}

func errInvalidCallTarget(stage string, pos token.Position) *SemanticError {
	return newErr(stage, InvalidCallTarget, pos, "call target must be an identifier or member access")
}

func errIndexTargetNotVector(stage string, pos token.Position) *SemanticError {
	return newErr(stage, IndexTargetNotVector, pos, "indexing target is not a Vector")
}

func errIndexNotNumber(stage string, pos token.Position) *SemanticError {
	return newErr(stage, IndexNotNumber, pos, "index must be a Number")
}

func errBaseMisuse(stage string, pos token.Position) *SemanticError {
	return newErr(stage, BaseMisuse, pos, "base(...) used outside a method, or the enclosing type has no parent")
}

func errUndefinedMember(stage string, pos token.Position, typeName, member string) *SemanticError {
	return newErr(stage, UndefinedMember, pos, "%s has no method or attribute %q", typeName, member)
}
