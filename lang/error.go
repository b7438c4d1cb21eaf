package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Error is the base error carried by every failure kind in this package.
// It holds a message, an optional wrapped cause, and structured attributes,
// and implements slog.LogValuer so callers can log it richly.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes for structured logging, returning a new instance.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// LexError reports a scanning failure with its source position.
// Lexing failures abort compilation.
type LexError struct {
	base   *Error
	Offset int
	Line   int
	Column int
}

func newLexError(
	offset, line, column int,
	format string, args ...any,
) *LexError {
	return &LexError{
		base: NewError(fmt.Sprintf(format, args...)).With(
			slog.Int("line", line),
			slog.Int("column", column),
		),
		Offset: offset,
		Line:   line,
		Column: column,
	}
}

// Error implements the error interface with the source position prefixed.
func (e *LexError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.base.Error())
	}

	return e.base.Error()
}

// Unwrap exposes the base Error for errors.Is/As.
func (e *LexError) Unwrap() error { return e.base }

// LogValue implements slog.LogValuer.
func (e *LexError) LogValue() slog.Value { return e.base.LogValue() }

// ParseError reports a syntax failure at a specific token.
// Parse failures abort compilation.
type ParseError struct {
	base  *Error
	Token Token
}

func newParseError(tok Token, format string, args ...any) *ParseError {
	return &ParseError{
		base: NewError(fmt.Sprintf(format, args...)).
			With(positionAttrs(tok)...),
		Token: tok,
	}
}

// Error implements the error interface with the token position prefixed.
func (e *ParseError) Error() string {
	if e.Token.Line > 0 {
		return fmt.Sprintf(
			"%d:%d: %s", e.Token.Line, e.Token.Column, e.base.Error(),
		)
	}

	return e.base.Error()
}

// Unwrap exposes the base Error for errors.Is/As.
func (e *ParseError) Unwrap() error { return e.base }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value { return e.base.LogValue() }

// SemanticError reports a resolution failure: duplicate or undefined names,
// cyclic macro references, tag collisions, or unknown option tags. When the
// failure involves a name with a close match among the defined names, the
// Suggestion field carries it.
type SemanticError struct {
	base       *Error
	Name       string
	Suggestion string
}

func newSemanticError(name string, format string, args ...any) *SemanticError {
	e := &SemanticError{
		base: NewError(fmt.Sprintf(format, args...)),
		Name: name,
	}

	if name != "" {
		e.base = e.base.With(slog.String("name", name))
	}

	return e
}

// suggesting records a "did you mean" candidate on the error.
func (e *SemanticError) suggesting(candidate string) *SemanticError {
	if candidate == "" {
		return e
	}

	e.Suggestion = candidate
	e.base = e.base.With(slog.String("suggestion", candidate))

	return e
}

// Error implements the error interface, appending any suggestion.
func (e *SemanticError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf(
			"%s (did you mean %q?)", e.base.Error(), e.Suggestion,
		)
	}

	return e.base.Error()
}

// Unwrap exposes the base Error for errors.Is/As.
func (e *SemanticError) Unwrap() error { return e.base }

// LogValue implements slog.LogValuer.
func (e *SemanticError) LogValue() slog.Value { return e.base.LogValue() }

// EvaluationError reports an infrastructure failure during evaluation, such
// as an unreachable registry or a malformed version surfacing at runtime.
// Absence of a module, feature, include, library, or program is never an
// EvaluationError; it is an ordinary false value. The program remains valid
// and may be re-evaluated against a fresh environment.
type EvaluationError struct {
	base *Error
}

func newEvaluationError(
	err error,
	format string, args ...any,
) *EvaluationError {
	return &EvaluationError{
		base: NewError(fmt.Sprintf(format, args...)).Wrap(err),
	}
}

// With adds structured attributes, returning the same error for chaining.
func (e *EvaluationError) With(attrs ...slog.Attr) *EvaluationError {
	e.base = e.base.With(attrs...)

	return e
}

// Error implements the error interface.
func (e *EvaluationError) Error() string { return e.base.Error() }

// Unwrap exposes the base Error for errors.Is/As.
func (e *EvaluationError) Unwrap() error { return e.base }

// LogValue implements slog.LogValuer.
func (e *EvaluationError) LogValue() slog.Value { return e.base.LogValue() }
