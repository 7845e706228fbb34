package domain

import "errors"

// ErrMalformedType is returned for a description that violates the
// structural preconditions of its kind.
var ErrMalformedType = errors.New("malformed type description")
