package errors

// Code identifies a diagnostic with a short, stable string used in
// messages and docs.
//
// This engine reserves the E0900-E0949 range, leaving E0001-E0899 free
// for a front-end parser or semantic analyzer sharing the same
// diagnostic surface.
type Code string

const (
	// ProgramError codes: user-visible, caused by the
	// input program.
	CodeUnbound        Code = "E0901"
	CodeRedeclaration  Code = "E0902"
	CodeTypeMismatch   Code = "E0903"
	CodeArityMismatch  Code = "E0904"

	// RuntimeFoldError codes: soft, recovered locally at the folding
	// site.
	CodeDivideByZero Code = "E0910"
	CodeModuloByZero Code = "E0911"

	// InternalError codes: assertion-class engine bugs.
	CodeScopeUnderflow   Code = "E0920"
	CodeMissingScope     Code = "E0921"
	CodeMissingEnvEntry  Code = "E0922"
	CodeNodeArity        Code = "E0923"
	CodeUnrollInvariant  Code = "E0924"

	// Cancellation.
	CodeCancelled Code = "E0930"
)
