// Package probe runs a single request/response cycle against a remote text
// generation capability and reports the outcome on standard output.
package probe

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/papercomputeco/vertexprobe/pkg/config"
	"github.com/papercomputeco/vertexprobe/pkg/llm"
)

// ExitStatus is the process exit code of a run.
type ExitStatus int

// ExitOK is returned for every completed run, including a failed generation
// call: failures are reported, not surfaced as process failure.
const ExitOK ExitStatus = 0

// State is the lifecycle of a Runner.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Runner is a one-shot probe. The configuration is fixed at construction.
type Runner struct {
	config     config.Config
	capability llm.Capability
	report     *Reporter
	logger     *zap.Logger
	state      State
}

// New creates a Runner. The reporter decides where and how output is written.
func New(cfg config.Config, capability llm.Capability, report *Reporter, logger *zap.Logger) (*Runner, error) {
	if capability == nil {
		return nil, errors.New("capability is required")
	}
	if report == nil {
		return nil, errors.New("reporter is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		config:     cfg,
		capability: capability,
		report:     report,
		logger:     logger,
	}, nil
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	return r.state
}

// Run issues the configured prompt once and prints the outcome. It always
// returns ExitOK; a second call on the same Runner does nothing.
func (r *Runner) Run(ctx context.Context) ExitStatus {
	if r.state != StateIdle {
		r.logger.Warn("probe already ran", zap.Stringer("state", r.state))
		return ExitOK
	}
	r.state = StateRunning

	req := r.config.Request()
	r.report.Progress(req)

	result := r.call(ctx, req)
	if result.OK() {
		r.state = StateSucceeded
		r.logger.Debug("probe succeeded", zap.Int("text_len", len(result.Text)))
		r.report.Success(result.Text)
		return ExitOK
	}

	r.state = StateFailed
	r.logger.Debug("probe failed",
		zap.String("reason", string(result.Failure.Reason)),
		zap.Int("code", result.Failure.Code),
		zap.Error(result.Failure),
	)
	r.report.Failure(result.Failure, req.Project)
	return ExitOK
}

// call wraps llm.Call so that a panicking capability is reported like any
// other failure.
func (r *Runner) call(ctx context.Context, req llm.GenerationRequest) (result llm.Result) {
	defer func() {
		if p := recover(); p != nil {
			result = llm.Failed(&llm.Failure{
				Reason:  llm.ReasonUnknown,
				Message: fmt.Sprintf("generation panicked: %v", p),
			})
		}
	}()
	return llm.Call(ctx, r.capability, req)
}

// ReportConfigError prints a configuration failure in the same shape as a
// failed run. It is used when the configuration itself could not be loaded,
// before any Runner exists.
func ReportConfigError(report *Reporter, project string, err error) ExitStatus {
	report.Failure(&llm.Failure{Reason: llm.ReasonConfiguration, Message: err.Error(), Err: err}, project)
	return ExitOK
}
