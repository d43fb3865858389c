package fragment

import (
	"fmt"

	perr "jmnedict/internal/platform/errors"
)

// Violation kinds, usable with errors.Is
var (
	ErrSyntax      = perr.New(perr.ErrorCodeDecode, "malformed xml")
	ErrRoot        = perr.New(perr.ErrorCodeDecode, "bad fragment root")
	ErrUndeclared  = perr.New(perr.ErrorCodeDecode, "undeclared element")
	ErrRepeated    = perr.New(perr.ErrorCodeDecode, "repeated singular element")
	ErrOrder       = perr.New(perr.ErrorCodeDecode, "element out of declared order")
	ErrMissing     = perr.New(perr.ErrorCodeDecode, "required element missing")
	ErrAttribute   = perr.New(perr.ErrorCodeDecode, "attribute violation")
	ErrText        = perr.New(perr.ErrorCodeDecode, "unexpected text")
	ErrScalar      = perr.New(perr.ErrorCodeDecode, "bad scalar value")
	ErrUnbound     = perr.New(perr.ErrorCodeDecode, "no destination for element")
	ErrPolymorphic = perr.New(perr.ErrorCodeDecode, "unresolved polymorphic element")
)

// Violation pinpoints one decode failure inside a fragment
type Violation struct {
	Kind   error
	Path   string
	Offset int64
	Detail string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%v at %s (offset %d): %s", v.Kind, v.Path, v.Offset, v.Detail)
}

// Unwrap exposes the kind sentinel
func (v *Violation) Unwrap() error { return v.Kind }

// wrap turns a Violation into the coded error returned to callers
func wrap(v *Violation) error {
	return perr.WithField(perr.Wrap(v, perr.ErrorCodeDecode, "fragment: structural decode failed"), v.Path)
}
