package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Components wrap these so transports can classify a failure without
// inspecting SDK error types.
var (
	ErrMalformedEnvelope = errors.New("malformed envelope")
	ErrMissingConfig     = errors.New("missing configuration")
	ErrDependency        = errors.New("dependency failure")
)

var (
	ErrTableNotDefined = fmt.Errorf("table name is not defined: %w", ErrMissingConfig)
	ErrIndexNotDefined = fmt.Errorf("index name is not defined: %w", ErrMissingConfig)
)

// Kind is the coarse category of a failed invocation.
type Kind string

const (
	KindNone              Kind = ""
	KindMalformedEnvelope Kind = "malformed_envelope"
	KindMissingConfig     Kind = "missing_config"
	KindDependency        Kind = "dependency"
	KindUnknown           Kind = "unknown"
)

// KindOf reports which sentinel err wraps.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrMalformedEnvelope):
		return KindMalformedEnvelope
	case errors.Is(err, ErrMissingConfig):
		return KindMissingConfig
	case errors.Is(err, ErrDependency):
		return KindDependency
	default:
		return KindUnknown
	}
}
