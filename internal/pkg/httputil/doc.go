// Package httputil provides shared HTTP response/request utilities for handlers.
//
// Every handler should use these helpers instead of writing raw
// http.ResponseWriter calls. This keeps JSON formatting, error envelopes and
// the business/technical error mapping consistent across all endpoints.
package httputil
