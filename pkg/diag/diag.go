// Package diag implements the compiler's structured-diagnostics layer: every
// phase of the pipeline (lexer, parser, validator, resolver, cycle detector,
// codec) raises a *Diagnostic instead of a bare error, so callers can branch
// on Kind() while the external boundary (pkg/compile, cmd/resourcec) still
// only ever sees a flat, single-line error string.
package diag

import (
	"fmt"

	"github.com/samber/oops"
)

// Kind is the fixed taxonomy of compiler error categories.
type Kind string

const (
	Lexical    Kind = "lexical"
	Syntactic  Kind = "syntactic"
	Naming     Kind = "naming"
	Resolution Kind = "resolution"
	Cyclic     Kind = "cyclic"
	Encoding   Kind = "encoding"
)

// Diagnostic is a *Kind*-tagged error. It implements error, so it can be
// returned and compared with errors.As/errors.Is anywhere in the pipeline,
// but its Error() text is always the single flattened line the external
// boundary requires - no oops context leaks past it as structured fields.
type Diagnostic struct {
	kind Kind
	oops error
}

func (d *Diagnostic) Error() string { return d.oops.Error() }
func (d *Diagnostic) Unwrap() error { return d.oops }
func (d *Diagnostic) Kind() Kind    { return d.kind }

// New builds a Diagnostic of the given kind with no location context.
func New(kind Kind, format string, args ...any) *Diagnostic {
	return &Diagnostic{kind: kind, oops: oops.Code(string(kind)).Errorf(format, args...)}
}

// At builds a Diagnostic of the given kind, tagging it with the source
// position it was raised at. The line/column are folded into the message
// text itself (not left as structured oops fields) so Error() alone is
// always sufficient to report the failure.
func At(kind Kind, line, column int, format string, args ...any) *Diagnostic {
	msg := fmt.Sprintf(format, args...)
	return &Diagnostic{
		kind: kind,
		oops: oops.Code(string(kind)).With("line", line).With("column", column).
			Errorf("line %d, column %d: %s", line, column, msg),
	}
}

// Wrap builds a Diagnostic of the given kind from an existing error, the way
// holomush-holomush's cmd/holomush/migrate.go wraps lower-level failures.
func Wrap(kind Kind, err error, format string, args ...any) *Diagnostic {
	msg := fmt.Sprintf(format, args...)
	return &Diagnostic{kind: kind, oops: oops.Code(string(kind)).Wrapf(err, "%s", msg)}
}
