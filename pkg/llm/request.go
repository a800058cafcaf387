package llm

import (
	"errors"
	"strings"
)

// GenerationRequest is a single prompt bound for a hosted model.
// It is built once per call and never mutated after construction.
type GenerationRequest struct {
	Project string   `json:"project"` // Billing / resource scope
	Region  string   `json:"region"`  // Regional endpoint selector, e.g. "asia-south1"
	Model   string   `json:"model"`   // Hosted model variant, e.g. "gemini-1.5-flash"
	Prompt  string   `json:"prompt"`
	Options *Options `json:"options,omitempty"`
}

// Validate checks that every field required before a call is present.
// The prompt is checked but never trimmed: it is sent exactly as given.
func (r GenerationRequest) Validate() error {
	var errs []error
	if r.Project == "" {
		errs = append(errs, errors.New("project is required"))
	}
	if r.Region == "" {
		errs = append(errs, errors.New("region is required"))
	}
	if r.Model == "" {
		errs = append(errs, errors.New("model is required"))
	}
	if strings.TrimSpace(r.Prompt) == "" {
		errs = append(errs, errors.New("prompt must not be empty"))
	}
	return errors.Join(errs...)
}
