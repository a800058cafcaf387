package rootcmder

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/papercomputeco/vertexprobe/cmd/vertexprobe/cmdconfig"
	moodscmder "github.com/papercomputeco/vertexprobe/cmd/vertexprobe/moods"
	servecmder "github.com/papercomputeco/vertexprobe/cmd/vertexprobe/serve"
	"github.com/papercomputeco/vertexprobe/pkg/logger"
	"github.com/papercomputeco/vertexprobe/pkg/probe"
)

const probeLongDesc string = `Probe a Gemini model hosted on Vertex AI.

Sends one fixed prompt to the configured model and prints the reply,
or a diagnostic and a troubleshooting checklist if anything fails.
A failed call is reported, not surfaced: the exit code is 0 either way.

Configuration is read, in increasing precedence, from defaults, the
--config TOML file, the --env-file dotenv file and the environment:

  GOOGLE_CLOUD_PROJECT            project ID (required)
  GOOGLE_CLOUD_LOCATION           region (default asia-south1)
  GEMINI_MODEL                    model (default gemini-1.5-flash)
  GOOGLE_APPLICATION_CREDENTIALS  service account key (default: ADC)
  PROBE_PROMPT                    prompt override

Examples:
  vertexprobe
  vertexprobe --config probe.toml --markdown`

const probeShortDesc string = "Send one prompt to a Vertex AI Gemini model"

type probeCommander struct {
	flags         cmdconfig.Flags
	markdown      bool
	noColor       bool
	newCapability cmdconfig.CapabilityFactory
}

// NewProbeCmd returns the root command backed by Vertex AI.
func NewProbeCmd() *cobra.Command {
	return newProbeCmd(&probeCommander{newCapability: cmdconfig.VertexCapability})
}

func newProbeCmd(cmder *probeCommander) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "vertexprobe",
		Short:        probeShortDesc,
		Long:         probeLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmder.flags.Register(cmd)
	cmd.Flags().BoolVar(&cmder.markdown, "markdown", false, "Render the reply as markdown")
	cmd.Flags().BoolVar(&cmder.noColor, "no-color", false, "Disable coloured output")

	cmd.AddCommand(servecmder.NewServeCmd(cmder.newCapability))
	cmd.AddCommand(moodscmder.NewMoodsCmd())

	return cmd
}

func (c *probeCommander) run(ctx context.Context, cmd *cobra.Command) error {
	log := logger.NewLogger(c.flags.Debug)
	defer log.Sync()

	out := cmd.OutOrStdout()
	report := probe.NewReporter(out, c.reporterOptions(out)...)

	cfg, err := c.flags.Load()
	if err != nil {
		log.Debug("configuration failed", zap.Error(err))
		probe.ReportConfigError(report, cfg.Project, err)
		return nil
	}

	log.Debug("probe configured",
		zap.String("project", cfg.Project),
		zap.String("location", cfg.Location),
		zap.String("model", cfg.Model),
		zap.Bool("credentials_file", cfg.CredentialsFile != ""),
	)

	runner, err := probe.New(cfg, c.newCapability(cfg, log), report, log)
	if err != nil {
		return fmt.Errorf("could not create probe: %w", err)
	}

	if status := runner.Run(ctx); status != probe.ExitOK {
		return fmt.Errorf("probe exited with status %d", status)
	}
	return nil
}

func (c *probeCommander) reporterOptions(out io.Writer) []probe.ReporterOption {
	var opts []probe.ReporterOption
	if c.noColor {
		opts = append(opts, probe.WithoutColor())
	}
	if c.markdown {
		width, tty := 80, false
		if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			tty = true
			if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
				width = w
			}
		}
		opts = append(opts, probe.WithMarkdown(width, tty))
	}
	return opts
}
