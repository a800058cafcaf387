// Package cmdconfig binds the configuration flags shared by every command.
package cmdconfig

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/vertexprobe/pkg/config"
	"github.com/papercomputeco/vertexprobe/pkg/llm"
	"github.com/papercomputeco/vertexprobe/pkg/vertex"
)

// CapabilityFactory builds the generation capability for a configuration.
type CapabilityFactory func(cfg config.Config, logger *zap.Logger) llm.Capability

// VertexCapability builds a Vertex AI capability from cfg.
func VertexCapability(cfg config.Config, logger *zap.Logger) llm.Capability {
	var opts []vertex.Option
	if cfg.CredentialsFile != "" {
		opts = append(opts, vertex.WithCredentialsFile(cfg.CredentialsFile))
	}
	return vertex.New(logger, opts...)
}

// Flags holds the shared configuration flags.
type Flags struct {
	ConfigFile string
	EnvFile    string
	Debug      bool

	// LookupEnv overrides the process environment; nil means os.LookupEnv.
	LookupEnv func(key string) (string, bool)
}

// Register adds the flags to cmd.
func (f *Flags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.ConfigFile, "config", "c", "", "Path to a TOML configuration file")
	cmd.Flags().StringVar(&f.EnvFile, "env-file", ".env", "Path to a dotenv file (ignored if missing)")
	cmd.Flags().BoolVar(&f.Debug, "debug", false, "Enable debug logging")
}

// Load reads the configuration the flags point at.
func (f *Flags) Load() (config.Config, error) {
	loader := config.Loader{
		ConfigFile: f.ConfigFile,
		LookupEnv:  f.LookupEnv,
	}
	if f.EnvFile != "" {
		loader.EnvFiles = []string{f.EnvFile}
	}
	return loader.Load()
}
