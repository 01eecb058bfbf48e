package metadata

import (
	"fmt"
	"io"
	"time"
)

/*
Metadata Collected
- Cache hits per key
- Fetch timestamps and HTTP status codes
- Failure diagnostics

Determinism guarantees:
 - Metadata does not affect control flow
 - No component may read metadata to influence resolution decisions

Metadata is write-only.
*/

/*
Recorder captures structured resolution events.

This tool has no separate log channel: the user-facing output stream is the
only diagnostics surface, so the recorder prints a terse progress line for
every cache hit and live fetch. Errors are not printed here; the component
that surfaces them to the user owns that line.

It must not:
- perform I/O decisions
- affect control flow
Ordering guarantees:
- Events are recorded synchronously in the order they occur; resolution is
  single-threaded so ordering is total.
*/
type Recorder struct {
	out io.Writer
}

func NewRecorder(out io.Writer) Recorder {
	return Recorder{
		out: out,
	}
}

func (r *Recorder) RecordCacheHit(key string) {
	fmt.Fprintln(r.out, "Using Cache")
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
) {
	fmt.Fprintln(r.out, "Fetching")
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
}

type MetadataSink interface {
	RecordCacheHit(key string)

	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
	)

	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)
}

// NoopSink, struct that implements metadata.MetadataSink but does nothing.
// The resolver (or Test) can decide whether to inject Recorder or NoopSink.
// Purpose is to make metadata orthogonal.

type NoopSink struct{}

func (n *NoopSink) RecordCacheHit(key string) {}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
) {
}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
}
