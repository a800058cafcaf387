package servecmder

import (
	"context"
	"fmt"
	"net"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/vertexprobe/api"
	"github.com/papercomputeco/vertexprobe/cmd/vertexprobe/cmdconfig"
	"github.com/papercomputeco/vertexprobe/pkg/config"
	"github.com/papercomputeco/vertexprobe/pkg/logger"
	"github.com/papercomputeco/vertexprobe/pkg/mood"
	"github.com/papercomputeco/vertexprobe/pkg/storage/inmemory"
	"github.com/papercomputeco/vertexprobe/pkg/storage/sqlite"
)

const serveLongDesc string = `Serve the chat and mood API over HTTP.

Endpoints:
  GET  /api/ping   liveness check
  POST /api/chat   {"prompt": "..."} -> {"reply": "..."}
  POST /api/mood   {"userId", "mood", "score", "note"} -> {"ok": true, "id": "..."}

The Vertex AI client is configured once at start-up; start-up fails if
the project, location or credentials are unusable. Mood entries are
kept in memory unless a SQLite database is given.

Examples:
  vertexprobe serve
  vertexprobe serve --listen :9090 --sqlite ~/.vertexprobe/moods.db`

const serveShortDesc string = "Serve the chat and mood HTTP API"

type serveCommander struct {
	flags         cmdconfig.Flags
	listen        string
	sqlitePath    string
	newCapability cmdconfig.CapabilityFactory
}

// NewServeCmd returns the serve command using factory for the capability.
func NewServeCmd(factory cmdconfig.CapabilityFactory) *cobra.Command {
	return newServeCmd(&serveCommander{newCapability: factory})
}

func newServeCmd(cmder *serveCommander) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context())
		},
	}

	cmder.flags.Register(cmd)
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address to listen on (default \":$PORT\")")
	cmd.Flags().StringVarP(&cmder.sqlitePath, "sqlite", "s", "", "Path to SQLite database for mood entries (default $PROBE_DB_PATH, in-memory if unset)")

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	log := logger.NewLogger(c.flags.Debug)
	defer log.Sync()

	cfg, err := c.flags.Load()
	if err != nil {
		return err
	}

	srv, closeStore, err := c.build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	go func() {
		<-ctx.Done()
		log.Info("shutting down api server")
		if err := srv.Shutdown(); err != nil {
			log.Error("shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		return fmt.Errorf("api server failed: %w", err)
	}
	return nil
}

// build validates cfg, configures the capability, opens the mood store and
// creates the server. The returned func closes the store.
func (c *serveCommander) build(ctx context.Context, cfg config.Config, log *zap.Logger) (*api.Server, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	capability := c.newCapability(cfg, log)
	if err := capability.Configure(ctx, cfg.Project, cfg.Location); err != nil {
		return nil, nil, fmt.Errorf("could not configure generation client: %w", err)
	}

	store, err := c.openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	listen := c.listen
	if listen == "" {
		listen = net.JoinHostPort("", cfg.Server.Port)
	}

	srv, err := api.NewServer(api.Config{
		ListenAddr:     listen,
		Project:        cfg.Project,
		Region:         cfg.Location,
		Model:          cfg.Model,
		Chat:           cfg.Server.Chat,
		MoodCollection: cfg.Server.MoodCollection,
	}, capability, store, log)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("could not create api server: %w", err)
	}

	return srv, store.Close, nil
}

func (c *serveCommander) openStore(ctx context.Context, cfg config.Config) (mood.Store, error) {
	path := c.sqlitePath
	if path == "" {
		path = cfg.Server.DBPath
	}
	if path == "" {
		return inmemory.NewDriver(), nil
	}

	driver, err := sqlite.NewDriver(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("could not open mood database %s: %w", path, err)
	}
	return driver, nil
}
