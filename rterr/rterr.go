// Package rterr defines the error taxonomy shared by every stage of
// template evaluation: extraction, expression analysis, dependency
// resolution, variable evaluation and content rendering. Each type
// implements error and Unwrap so callers can use errors.As/errors.Is
// the way Caddy's module lifecycle surfaces wrapped configuration
// errors.
package rterr

import "fmt"

// UnmatchedBraces is returned by the interpolation extractor when a
// "${" placeholder has no matching "}".
type UnmatchedBraces struct {
	Offset int
}

func (e *UnmatchedBraces) Error() string {
	return fmt.Sprintf("unmatched braces starting at offset %d", e.Offset)
}

// EmptyExpression is returned when an expression body has no
// statements at all.
type EmptyExpression struct{}

func (e *EmptyExpression) Error() string { return "expression body is empty" }

// InvalidImport is returned when a prelude statement is not a bare
// import declaration.
type InvalidImport struct {
	Detail string
}

func (e *InvalidImport) Error() string {
	return fmt.Sprintf("invalid import statement: %s", e.Detail)
}

// DisallowedConstruct is returned when an expression body contains a
// construct the safety policy forbids: plain assignment, a type
// (class) declaration, or a named function declaration.
type DisallowedConstruct struct {
	Construct string
}

func (e *DisallowedConstruct) Error() string {
	return fmt.Sprintf("disallowed construct in expression: %s", e.Construct)
}

// NotAnExpression is returned when the trailing statement of an
// expression body is not itself an expression statement.
type NotAnExpression struct{}

func (e *NotAnExpression) Error() string { return "last statement is not an expression" }

// UnboundAcrossTemplate is returned by the resolver when a variable
// references an identifier that is not the name of any declared
// variable in the template.
type UnboundAcrossTemplate struct {
	Names []string
}

func (e *UnboundAcrossTemplate) Error() string {
	return fmt.Sprintf("unbound across template: %v", e.Names)
}

// CyclicDependency is returned by the resolver when the variable
// dependency graph contains a cycle.
type CyclicDependency struct {
	Cycle []string
}

func (e *CyclicDependency) Error() string {
	return fmt.Sprintf("cyclic dependency: %v", e.Cycle)
}

// DuplicateName is returned when two variables in the same template
// share a name.
type DuplicateName struct {
	Name string
}

func (e *DuplicateName) Error() string {
	return fmt.Sprintf("duplicated variable name: %s", e.Name)
}

// ExpectedSingleExpression is returned when a plot/table column's
// string value interpolates to other than exactly one expression.
type ExpectedSingleExpression struct {
	Column string
	Got    int
}

func (e *ExpectedSingleExpression) Error() string {
	return fmt.Sprintf("column %q: expected exactly one interpolated expression, got %d", e.Column, e.Got)
}

// RuntimeError wraps an error raised while evaluating a specific
// variable, attaching the variable's name the way the original
// resolver attached `var` to the raised RuntimeError.
type RuntimeError struct {
	Variable string
	Cause    error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("failed to evaluate variable %q: %v", e.Variable, e.Cause)
}

func (e *RuntimeError) Unwrap() error { return e.Cause }

// VerifyFailed is returned when a variable's validator rejects its
// value, or when a data source's payload fails its JSON Schema. A
// failed expected-type check is reported as TypeMismatch instead.
type VerifyFailed struct {
	Name  string
	Cause error
}

func (e *VerifyFailed) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("verification failed for %q: %v", e.Name, e.Cause)
	}
	return fmt.Sprintf("verification failed for %q", e.Name)
}

func (e *VerifyFailed) Unwrap() error { return e.Cause }

// TypeMismatch is returned when a value does not satisfy an
// expression's or variable's declared expected type.
type TypeMismatch struct {
	Name     string
	Expected string
	Got      string
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("%q: expected type %s, got %s", e.Name, e.Expected, e.Got)
}

// InvalidFormatter is returned when a formatter/validator/preprocessor
// expression evaluates to a value that is not callable.
type InvalidFormatter struct {
	Name string
	Got  string
}

func (e *InvalidFormatter) Error() string {
	return fmt.Sprintf("%q: formatter must evaluate to a callable, got %s", e.Name, e.Got)
}

// PreprocessFailed wraps an error raised inside a PathVariable's
// preprocessor.
type PreprocessFailed struct {
	Name  string
	Cause error
}

func (e *PreprocessFailed) Error() string {
	return fmt.Sprintf("preprocessing failed for %q: %v", e.Name, e.Cause)
}

func (e *PreprocessFailed) Unwrap() error { return e.Cause }

// NoMatch is returned when a JSONPath expression matches nothing.
type NoMatch struct {
	Path string
}

func (e *NoMatch) Error() string { return fmt.Sprintf("no match found for json path %q", e.Path) }

// InvalidPath is returned when a JSONPath expression fails to parse.
type InvalidPath struct {
	Path  string
	Cause error
}

func (e *InvalidPath) Error() string { return fmt.Sprintf("invalid json path %q: %v", e.Path, e.Cause) }

func (e *InvalidPath) Unwrap() error { return e.Cause }

// SourceLoadFailed wraps an error surfaced verbatim from a
// SourceLoader collaborator.
type SourceLoadFailed struct {
	Source string
	Cause  error
}

func (e *SourceLoadFailed) Error() string {
	return fmt.Sprintf("failed to load source %q: %v", e.Source, e.Cause)
}

func (e *SourceLoadFailed) Unwrap() error { return e.Cause }
