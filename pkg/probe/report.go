package probe

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/papercomputeco/vertexprobe/pkg/llm"
)

const (
	successBanner = "✅ Gemini AI Response:"
	failureBanner = "❌ An error occurred:"
	troubleHeader = "--- Troubleshooting ---"
)

// Troubleshooting returns the fixed checklist printed after any failure.
func Troubleshooting(project string) []string {
	return []string{
		"Ensure you have run 'gcloud auth application-default login'.",
		"Make sure the GOOGLE_APPLICATION_CREDENTIALS environment variable is set correctly in your .env file.",
		fmt.Sprintf("Check that the Vertex AI API is enabled for the project '%s'.", project),
		"Verify the project ID and location are correct.",
	}
}

// Reporter writes the human-readable probe report.
type Reporter struct {
	out      io.Writer
	success  lipgloss.Style
	failure  lipgloss.Style
	header   lipgloss.Style
	markdown *glamour.TermRenderer
}

type reporterConfig struct {
	noColor  bool
	markdown bool
	tty      bool
	wrap     int
}

// ReporterOption configures a Reporter.
type ReporterOption func(*reporterConfig)

// WithoutColor forces plain output regardless of the terminal.
func WithoutColor() ReporterOption {
	return func(c *reporterConfig) { c.noColor = true }
}

// WithMarkdown renders the model's reply as markdown, wrapped at width.
// tty selects a colour style; otherwise the plain notty style is used.
func WithMarkdown(width int, tty bool) ReporterOption {
	return func(c *reporterConfig) {
		c.markdown = true
		c.wrap = width
		c.tty = tty
	}
}

// NewReporter creates a Reporter writing to out. The colour profile is
// detected from out, so a buffer or pipe gets plain text.
func NewReporter(out io.Writer, opts ...ReporterOption) *Reporter {
	cfg := &reporterConfig{wrap: 80}
	for _, o := range opts {
		o(cfg)
	}

	renderer := lipgloss.NewRenderer(out)
	if cfg.noColor {
		renderer.SetColorProfile(termenv.Ascii)
	}

	r := &Reporter{
		out:     out,
		success: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		failure: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		header:  renderer.NewStyle().Faint(true),
	}

	if cfg.markdown {
		style := glamour.WithStandardStyle("notty")
		if cfg.tty && !cfg.noColor {
			style = glamour.WithAutoStyle()
		}
		md, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(cfg.wrap))
		if err == nil {
			r.markdown = md
		}
	}

	return r
}

// Progress prints the steps of a run before the call is made.
func (r *Reporter) Progress(req llm.GenerationRequest) {
	fmt.Fprintln(r.out, "Initializing Vertex AI...")
	fmt.Fprintf(r.out, "Loading model: %s...\n", req.Model)
	fmt.Fprintf(r.out, "Sending prompt: \"%s\"\n", req.Prompt)
}

// Success prints the success banner followed by the generated text.
func (r *Reporter) Success(text string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.success.Render(successBanner))

	if r.markdown != nil {
		if rendered, err := r.markdown.Render(text); err == nil {
			fmt.Fprint(r.out, rendered)
			return
		}
	}
	fmt.Fprintln(r.out, text)
}

// Failure prints the failure banner, the diagnostic and the checklist.
func (r *Reporter) Failure(f *llm.Failure, project string) {
	fmt.Fprintf(r.out, "%s %s\n", r.failure.Render(failureBanner), f.Diagnostic())
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.header.Render(troubleHeader))
	for i, hint := range Troubleshooting(project) {
		fmt.Fprintf(r.out, "%d. %s\n", i+1, hint)
	}
}
