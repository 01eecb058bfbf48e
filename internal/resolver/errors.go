package resolver

import (
	"fmt"
	"time"

	"github.com/rohmanhakim/parks-explorer/internal/metadata"
	"github.com/rohmanhakim/parks-explorer/pkg/failure"
)

type ResolveErrorCause string

const (
	ErrCauseShapeMismatch ResolveErrorCause = "cached value has unexpected shape"
	ErrCauseBadURL        ResolveErrorCause = "malformed URL"
)

type ResolveError struct {
	Message string
	Cause   ResolveErrorCause
	Key     string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolver error: %s (key %q)", e.Cause, e.Key)
}

func (e *ResolveError) Severity() failure.Severity {
	return failure.SeverityFatal
}

// shapeMismatch reports a cache key holding a value of a different kind
// than the resolver expected. With the tagged variant store this can only
// come from a hand-edited or foreign cache file.
func (r *Resolver) shapeMismatch(callerMethod string, key string) failure.ClassifiedError {
	resolveErr := &ResolveError{
		Message: "stored value kind does not match the resolver's request shape",
		Cause:   ErrCauseShapeMismatch,
		Key:     key,
	}
	r.recordResolveError(callerMethod, resolveErr)
	return resolveErr
}

func (r *Resolver) recordResolveError(callerMethod string, err *ResolveError) {
	cause := metadata.CauseUnknown
	if err.Cause == ErrCauseShapeMismatch {
		cause = metadata.CauseInvariantViolation
	}
	r.metadataSink.RecordError(
		time.Now(),
		"resolver",
		callerMethod,
		cause,
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrKey, err.Key),
		},
	)
}
