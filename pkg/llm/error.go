// Package llm provides the boundary between this codebase and a remote text
// generation capability: the request value, the typed result, and the
// classification of failures into a small set of reasons.
package llm

// ErrorResponse is the JSON error body returned by the HTTP API.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
