package telemetry

import (
	"fmt"
)

// API is the logging/metrics surface every component reports through, it exists so tests can
// assert on what a component reported.
//
// note: fault injection point
type API interface {
	// ReportBroken reports a component that broke in a way someone should look at.
	//
	// `id` names the component (not the line of code) that broke. If the pcso client fails to
	// fetch the results page the id is `client.results-page`, the fact that it was a timeout
	// rather than a 503 belongs in the params or in a wrapped error.
	//
	// Formatting rules:
	// 1) all lowercase
	// 2) underscores for large components
	// 3) dashes for methods of a component
	//
	// Use ScopedAPI to prefix the package so ids only need `<struct>.<method>`.
	ReportBroken(id string, params ...any)

	// ReportWarning reports something that is not necessarily broken but may need a look, like a
	// remote cache that timed out and was treated as a miss.
	//
	// `id` follows the same rules as ReportBroken.
	ReportWarning(id string, params ...any)

	// ReportDebug reports information that is only useful while developing.
	ReportDebug(msg string, params ...any)

	// ReportCount reports the current value of a counter, values are points over time and
	// should not be summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with a namespace, like a sub-logger.
type ScopedAPI struct {
	namespace string
	inner     API
}

// NewScopedAPI creates a ScopedAPI out of a given namespace and another api.
func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(fmt.Sprintf("%s: %s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(fmt.Sprintf("%s: %s", s.namespace, msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(fmt.Sprintf("%s: %s", s.namespace, id), count)
}
