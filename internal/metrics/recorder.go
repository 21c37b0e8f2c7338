package metrics

import "time"

// ParseOutcome enumerates the results of importing a document.
type ParseOutcome string

const (
	ParseExtracted ParseOutcome = "extracted"
	ParseEmpty     ParseOutcome = "empty"
	ParseRejected  ParseOutcome = "rejected"
	ParseLiteral   ParseOutcome = "literal"
)

// Recorder defines observability hooks for the editor, the branding client
// and the relay. All methods must be safe to call on the NoopRecorder.
type Recorder interface {
	IncRender(category string)
	IncParseOutcome(outcome ParseOutcome)
	IncValidation(category string, ok bool)
	ObserveRemoteCall(operation string, d time.Duration, success bool)
	ObserveRelayRequest(method string, status int, d time.Duration)
	IncPreviewReload()
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncRender(string)                               {}
func (NoopRecorder) IncParseOutcome(ParseOutcome)                   {}
func (NoopRecorder) IncValidation(string, bool)                     {}
func (NoopRecorder) ObserveRemoteCall(string, time.Duration, bool)  {}
func (NoopRecorder) ObserveRelayRequest(string, int, time.Duration) {}
func (NoopRecorder) IncPreviewReload()                              {}
