package moodscmder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/vertexprobe/cmd/vertexprobe/cmdconfig"
	"github.com/papercomputeco/vertexprobe/pkg/storage/sqlite"
)

const moodsLongDesc string = `List mood entries stored by "vertexprobe serve".

Reads the SQLite database given by --sqlite (or PROBE_DB_PATH) and
prints one line per entry of the collection, oldest first.

Examples:
  vertexprobe moods --sqlite ~/.vertexprobe/moods.db
  vertexprobe moods --sqlite moods.db --collection journal`

const moodsShortDesc string = "List stored mood entries"

type moodsCommander struct {
	flags      cmdconfig.Flags
	sqlitePath string
	collection string
}

func NewMoodsCmd() *cobra.Command {
	return newMoodsCmd(&moodsCommander{})
}

func newMoodsCmd(cmder *moodsCommander) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moods",
		Short: moodsShortDesc,
		Long:  moodsLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmder.flags.Register(cmd)
	cmd.Flags().StringVarP(&cmder.sqlitePath, "sqlite", "s", "", "Path to SQLite database (default $PROBE_DB_PATH)")
	cmd.Flags().StringVar(&cmder.collection, "collection", "", "Collection to list (default $MOOD_COLLECTION or mood_logs)")

	return cmd
}

func (c *moodsCommander) run(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := c.flags.Load()
	if err != nil {
		return err
	}

	dbPath := c.sqlitePath
	if dbPath == "" {
		dbPath = cfg.Server.DBPath
	}
	if dbPath == "" {
		return errors.New("no database: pass --sqlite or set PROBE_DB_PATH")
	}

	collection := c.collection
	if collection == "" {
		collection = cfg.Server.MoodCollection
	}

	driver, err := sqlite.NewDriver(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("could not open database %s: %w", dbPath, err)
	}
	defer driver.Close()

	entries, err := driver.List(ctx, collection)
	if err != nil {
		return fmt.Errorf("could not list mood entries: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No mood entries in %s.\n", collection)
		return nil
	}

	for _, e := range entries {
		line := fmt.Sprintf("%s  %-12s %-12s %5.1f", e.CreatedAt.Format(time.RFC3339), e.UserID, e.Mood, e.Score)
		if e.Note != "" {
			line += "  " + e.Note
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d entries in %s\n", len(entries), collection)

	return nil
}
