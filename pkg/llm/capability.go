package llm

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Capability is a remote text generation service. Setup is explicit:
// Configure must succeed before Generate is called.
type Capability interface {
	// Configure binds the capability to a project and region.
	Configure(ctx context.Context, project, region string) error

	// Generate sends prompt to model and returns the generated text.
	Generate(ctx context.Context, model, prompt string, opts *Options) (string, error)
}

// Call validates req, configures c and issues a single generation.
// It never panics or returns an error: every failure is folded into the Result.
func Call(ctx context.Context, c Capability, req GenerationRequest) Result {
	if err := req.Validate(); err != nil {
		return Failed(&Failure{Reason: ReasonConfiguration, Message: err.Error(), Err: err})
	}
	if err := c.Configure(ctx, req.Project, req.Region); err != nil {
		return Failed(classifyAs(err, ReasonConfiguration))
	}
	return generate(ctx, c, req)
}

// Generate validates req and issues a single generation on an already
// configured capability.
func Generate(ctx context.Context, c Capability, req GenerationRequest) Result {
	if err := req.Validate(); err != nil {
		return Failed(&Failure{Reason: ReasonConfiguration, Message: err.Error(), Err: err})
	}
	return generate(ctx, c, req)
}

func generate(ctx context.Context, c Capability, req GenerationRequest) Result {
	text, err := c.Generate(ctx, req.Model, req.Prompt, req.Options)
	if err != nil {
		return Failed(Classify(err))
	}
	if strings.TrimSpace(text) == "" {
		return Failed(&Failure{Reason: ReasonResponse, Message: "model returned an empty response"})
	}
	return Success(text)
}

// Classify turns an arbitrary error into a Failure. An error that already
// wraps a *Failure keeps its classification.
func Classify(err error) *Failure {
	return classifyAs(err, ReasonUnknown)
}

func classifyAs(err error, fallback Reason) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	reason := fallback
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		reason = ReasonNetwork
	case errors.As(err, &netErr):
		reason = ReasonNetwork
	}

	return &Failure{Reason: reason, Message: err.Error(), Err: err}
}
