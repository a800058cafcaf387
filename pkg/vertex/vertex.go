// Package vertex implements llm.Capability on top of Gemini models served by
// Vertex AI, through the google.golang.org/genai SDK.
package vertex

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/auth"
	"cloud.google.com/go/auth/credentials"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/papercomputeco/vertexprobe/pkg/llm"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Client is a Vertex AI backed llm.Capability. It is safe for concurrent use
// once Configure has returned.
type Client struct {
	logger          *zap.Logger
	credentialsFile string

	// detect and newClient are swapped out in tests.
	detect    func(opts *credentials.DetectOptions) (*auth.Credentials, error)
	newClient func(ctx context.Context, cc *genai.ClientConfig) (*genai.Client, error)

	mu     sync.RWMutex
	models generator
}

// generator is the subset of genai.Models used by Client.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Option configures a Client.
type Option func(*Client)

// WithCredentialsFile authenticates with the service account key at path
// instead of Application Default Credentials.
func WithCredentialsFile(path string) Option {
	return func(c *Client) { c.credentialsFile = path }
}

// New creates an unconfigured Client.
func New(logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		logger:    logger,
		detect:    credentials.DetectDefault,
		newClient: genai.NewClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

var _ llm.Capability = (*Client)(nil)

// Configure resolves credentials and builds the genai client for project and
// region. It implements llm.Capability.
func (c *Client) Configure(ctx context.Context, project, region string) error {
	c.logger.Debug("configuring vertex ai client",
		zap.String("project", project),
		zap.String("region", region),
		zap.Bool("credentials_file", c.credentialsFile != ""),
	)

	creds, err := c.detect(&credentials.DetectOptions{
		Scopes:          []string{cloudPlatformScope},
		CredentialsFile: c.credentialsFile,
	})
	if err != nil {
		return &llm.Failure{
			Reason:  llm.ReasonAuthentication,
			Message: fmt.Sprintf("could not load credentials: %v", err),
			Err:     err,
		}
	}

	client, err := c.newClient(ctx, &genai.ClientConfig{
		Project:     project,
		Location:    region,
		Backend:     genai.BackendVertexAI,
		Credentials: creds,
	})
	if err != nil {
		return &llm.Failure{
			Reason:  llm.ReasonConfiguration,
			Message: fmt.Sprintf("could not create genai client: %v", err),
			Err:     err,
		}
	}

	c.mu.Lock()
	c.models = client.Models
	c.mu.Unlock()

	return nil
}

// Generate implements llm.Capability.
func (c *Client) Generate(ctx context.Context, model, prompt string, opts *llm.Options) (string, error) {
	c.mu.RLock()
	models := c.models
	c.mu.RUnlock()

	if models == nil {
		return "", &llm.Failure{Reason: llm.ReasonConfiguration, Message: "vertex client used before Configure"}
	}

	c.logger.Debug("generating content",
		zap.String("model", model),
		zap.Int("prompt_len", len(prompt)),
		zap.Bool("options", !opts.IsZero()),
	)

	resp, err := models.GenerateContent(ctx, model, genai.Text(prompt), generateConfig(opts))
	if err != nil {
		return "", classify(err)
	}

	return responseText(resp)
}

// generateConfig maps sampling options onto the SDK config. A nil config
// leaves every parameter to the service's defaults.
func generateConfig(opts *llm.Options) *genai.GenerateContentConfig {
	if opts.IsZero() {
		return nil
	}

	cfg := &genai.GenerateContentConfig{}
	if opts.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*opts.Temperature))
	}
	if opts.TopP != nil {
		cfg.TopP = genai.Ptr(float32(*opts.TopP))
	}
	if opts.MaxOutputTokens != nil {
		cfg.MaxOutputTokens = int32(*opts.MaxOutputTokens)
	}
	return cfg
}

// responseText extracts the text of the first candidate, or a response
// failure naming why there is none.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", &llm.Failure{Reason: llm.ReasonResponse, Message: "empty response from model"}
	}

	if len(resp.Candidates) == 0 {
		msg := "model returned no candidates"
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			msg = fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", &llm.Failure{Reason: llm.ReasonResponse, Message: msg}
	}

	text := resp.Text()
	if text == "" {
		msg := "model returned no text"
		if reason := resp.Candidates[0].FinishReason; reason != "" {
			msg = fmt.Sprintf("model returned no text (finish reason %s)", reason)
		}
		return "", &llm.Failure{Reason: llm.ReasonResponse, Message: msg}
	}

	return text, nil
}

// classify maps genai API errors onto failure reasons by HTTP code.
// Anything else is left to llm.Classify.
func classify(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var apiErrPtr *genai.APIError
		if !errors.As(err, &apiErrPtr) || apiErrPtr == nil {
			return llm.Classify(err)
		}
		apiErr = *apiErrPtr
	}

	reason := llm.ReasonService
	switch {
	case apiErr.Code == 401:
		reason = llm.ReasonAuthentication
	case apiErr.Code == 403 && detailReason(apiErr) != "SERVICE_DISABLED":
		reason = llm.ReasonAuthentication
	case apiErr.Code == 408 || apiErr.Code == 504:
		reason = llm.ReasonNetwork
	}

	msg := apiErr.Message
	if msg == "" {
		msg = err.Error()
	}

	return &llm.Failure{
		Reason:  reason,
		Message: msg,
		Code:    apiErr.Code,
		Status:  apiErr.Status,
		Err:     err,
	}
}

// detailReason returns the ErrorInfo reason carried in the error details,
// e.g. "SERVICE_DISABLED" when the Vertex AI API is not enabled.
func detailReason(apiErr genai.APIError) string {
	for _, d := range apiErr.Details {
		if r, ok := d["reason"].(string); ok && r != "" {
			return r
		}
	}
	return ""
}
