// Package llmtest provides a scripted llm.Capability for tests.
package llmtest

import (
	"context"
	"sync"

	"github.com/papercomputeco/vertexprobe/pkg/llm"
)

// GenerateCall records the arguments of one Generate call.
type GenerateCall struct {
	Model   string
	Prompt  string
	Options *llm.Options
}

// Capability is a fake llm.Capability that records every call and returns
// the configured text or errors.
type Capability struct {
	// Text is returned by Generate when GenerateErr is nil.
	Text string

	// ConfigureErr, when set, is returned by Configure.
	ConfigureErr error

	// GenerateErr, when set, is returned by Generate.
	GenerateErr error

	mu         sync.Mutex
	project    string
	region     string
	configured int
	calls      []GenerateCall
}

var _ llm.Capability = (*Capability)(nil)

// Configure implements llm.Capability.
func (c *Capability) Configure(_ context.Context, project, region string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.configured++
	c.project = project
	c.region = region
	return c.ConfigureErr
}

// Generate implements llm.Capability.
func (c *Capability) Generate(_ context.Context, model, prompt string, opts *llm.Options) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, GenerateCall{Model: model, Prompt: prompt, Options: opts})
	if c.GenerateErr != nil {
		return "", c.GenerateErr
	}
	return c.Text, nil
}

// Configured returns how many times Configure was called and the last
// project and region it received.
func (c *Capability) Configured() (count int, project, region string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.configured, c.project, c.region
}

// Calls returns a copy of every recorded Generate call.
func (c *Capability) Calls() []GenerateCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]GenerateCall(nil), c.calls...)
}
