package llm

import (
	"fmt"
	"strings"
)

// Reason classifies where a failed generation call went wrong.
type Reason string

const (
	ReasonConfiguration  Reason = "configuration"  // missing or invalid project, region, model or credential
	ReasonAuthentication Reason = "authentication" // credential rejected, expired or lacking permission
	ReasonNetwork        Reason = "network"        // endpoint unreachable or timed out
	ReasonService        Reason = "service"        // quota, API not enabled, unknown model
	ReasonResponse       Reason = "response"       // unexpected or empty response
	ReasonUnknown        Reason = "unknown"
)

// Failure is the failure variant of a Result. Code and Status are set when the
// underlying client exposes them.
type Failure struct {
	Reason  Reason
	Message string
	Code    int
	Status  string
	Err     error
}

func (f *Failure) Error() string {
	if f.Message != "" {
		return f.Message
	}
	if f.Err != nil {
		return f.Err.Error()
	}
	return string(f.Reason) + " failure"
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Diagnostic renders the failure as a single line.
func (f *Failure) Diagnostic() string {
	msg := strings.Join(strings.Fields(f.Error()), " ")
	switch {
	case f.Code != 0 && f.Status != "":
		return fmt.Sprintf("[%s] %d %s: %s", f.Reason, f.Code, f.Status, msg)
	case f.Code != 0:
		return fmt.Sprintf("[%s] %d: %s", f.Reason, f.Code, msg)
	default:
		return fmt.Sprintf("[%s] %s", f.Reason, msg)
	}
}

// Result is the outcome of one generation call: either Text, or a Failure.
type Result struct {
	Text    string
	Failure *Failure
}

// Success returns a successful Result carrying text.
func Success(text string) Result {
	return Result{Text: text}
}

// Failed returns a failed Result.
func Failed(f *Failure) Result {
	return Result{Failure: f}
}

// OK reports whether the call produced text.
func (r Result) OK() bool {
	return r.Failure == nil
}
