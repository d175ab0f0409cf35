package diag

import (
	"fmt"

	"github.com/veltra-lang/veltc/internal/ast"
)

// The functions below build the canonical message wording for each
// diagnostic. Passes call these instead of formatting ad hoc strings, so
// the same mistake always reads the same way regardless of which pass
// caught it.

func UnexpectedToken(phase string, span ast.Span, got, wanted string) *Report {
	return New(SynUnexpectedToken, phase, span,
		fmt.Sprintf("unexpected token %s, expected %s", got, wanted))
}

func UnexpectedEOF(phase string, span ast.Span, wanted string) *Report {
	return New(SynUnexpectedEOF, phase, span,
		fmt.Sprintf("unexpected end of input, expected %s", wanted))
}

func UndefinedLocal(phase string, span ast.Span, name string) *Report {
	return New(NameUndefinedLocal, phase, span,
		fmt.Sprintf("undefined local '%s'", name)).WithData("name", name)
}

func UndefinedAttribute(phase string, span ast.Span, name string) *Report {
	return New(NameUndefinedAttribute, phase, span,
		fmt.Sprintf("undefined attribute '@%s'", name)).WithData("name", name)
}

func UndefinedConstant(phase string, span ast.Span, name string) *Report {
	return New(NameUndefinedConstant, phase, span,
		fmt.Sprintf("undefined constant '%s'", name)).WithData("name", name)
}

func UndefinedMethod(phase string, span ast.Span, receiver, name string) *Report {
	return New(NameUndefinedMethod, phase, span,
		fmt.Sprintf("undefined method '%s' for %s", name, receiver)).
		WithData("name", name).WithData("receiver", receiver)
}

func Redefined(phase string, span ast.Span, kind, name string) *Report {
	return New(NameRedefined, phase, span,
		fmt.Sprintf("%s '%s' is already defined", kind, name)).WithData("name", name)
}

func ImmutableReassign(phase string, span ast.Span, name string) *Report {
	return New(NameImmutableReassign, phase, span,
		fmt.Sprintf("cannot reassign immutable local '%s'", name)).WithData("name", name)
}

func ReservedConstantRedefined(phase string, span ast.Span, name string) *Report {
	return New(NameReservedConstant, phase, span,
		fmt.Sprintf("'%s' is a reserved constant and cannot be redefined", name)).WithData("name", name)
}

func UndefinedReassign(phase string, span ast.Span, name string) *Report {
	return New(NameUndefinedReassign, phase, span,
		fmt.Sprintf("cannot reassign undefined local '%s'", name)).WithData("name", name)
}

func ImportNotExported(phase string, span ast.Span, module, symbol string) *Report {
	return New(NameImportNotExported, phase, span,
		fmt.Sprintf("module '%s' does not export '%s'", module, symbol)).
		WithData("module", module).WithData("symbol", symbol)
}

func TypeMismatchReport(phase string, span ast.Span, expected, found string) *Report {
	return New(TypeMismatch, phase, span,
		fmt.Sprintf("type mismatch: expected %s, found %s", expected, found)).
		WithData("expected", expected).WithData("found", found)
}

func ReturnTypeMismatch(phase string, span ast.Span, expected, found string) *Report {
	return New(TypeReturnMismatch, phase, span,
		fmt.Sprintf("return type mismatch: expected %s, found %s", expected, found)).
		WithData("expected", expected).WithData("found", found)
}

func GenericArityMismatch(phase string, span ast.Span, typeName string, want, got int) *Report {
	return New(TypeGenericArity, phase, span,
		fmt.Sprintf("%s expects %d type argument(s), got %d", typeName, want, got)).
		WithData("want", want).WithData("got", got)
}

func ArgumentCountOutOfRange(phase string, span ast.Span, method string, min, max, got int) *Report {
	msg := fmt.Sprintf("%s expects %d argument(s), got %d", method, min, got)
	if max != min {
		msg = fmt.Sprintf("%s expects %d..%d arguments, got %d", method, min, max, got)
	}
	return New(TypeArgumentCount, phase, span, msg).WithData("got", got)
}

// ArgumentCountBelowMinimum reports an arity failure against an unbounded
// range — a method taking a `*rest` parameter (testable property 10's
// "(min, infinity)" case, where ArgumentCountOutOfRange's fixed max
// doesn't apply).
func ArgumentCountBelowMinimum(phase string, span ast.Span, method string, min, got int) *Report {
	return New(TypeArgumentCount, phase, span,
		fmt.Sprintf("%s expects at least %d argument(s), got %d", method, min, got)).WithData("got", got)
}

func UnknownKeywordArgument(phase string, span ast.Span, method, name string) *Report {
	return New(TypeUnknownKeywordArg, phase, span,
		fmt.Sprintf("'%s' has no parameter named '%s'", method, name)).
		WithData("method", method).WithData("name", name)
}

func TraitNotImplemented(phase string, span ast.Span, typeName, traitName string) *Report {
	return New(TypeTraitNotImplemented, phase, span,
		fmt.Sprintf("%s does not implement trait %s", typeName, traitName)).
		WithData("type", typeName).WithData("trait", traitName)
}

func RequiredMethodMissing(phase string, span ast.Span, traitName, methodName string) *Report {
	return New(TypeRequiredMethodMissing, phase, span,
		fmt.Sprintf("required method '%s' of trait %s not implemented", methodName, traitName)).
		WithData("trait", traitName).WithData("method", methodName)
}

func RequiredTraitMissing(phase string, span ast.Span, typeName, traitName string) *Report {
	return New(TypeRequiredTraitMissing, phase, span,
		fmt.Sprintf("%s implements a trait that requires %s, which is not implemented", typeName, traitName)).
		WithData("type", typeName).WithData("trait", traitName)
}

func ThrowAtTopLevel(phase string, span ast.Span) *Report {
	return New(CtrlThrowAtTopLevel, phase, span, "throw is not allowed at module top level")
}

func ThrowWithoutDeclaredType(phase string, span ast.Span) *Report {
	return New(CtrlThrowWithoutType, phase, span,
		"throw used in a block with no declared throw type")
}

func MissingTry(phase string, span ast.Span, method string) *Report {
	return New(CtrlMissingTry, phase, span,
		fmt.Sprintf("call to throwing method '%s' must be wrapped in try", method)).
		WithData("method", method)
}

func UnusedThrowType(phase string, span ast.Span) *Report {
	return New(CtrlUnusedThrowType, phase, span,
		"block declares a throw type but never throws")
}

func UnreachableCode(phase string, span ast.Span) *Report {
	return New(CtrlUnreachableCode, phase, span,
		"unreachable code after a terminating expression")
}

func ModuleNotFound(phase string, span ast.Span, path string) *Report {
	return New(IOModuleNotFound, phase, span,
		fmt.Sprintf("module not found: %s", path)).WithData("path", path)
}
