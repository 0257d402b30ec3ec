package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/combo/internal/combination"
	"github.com/hpungsan/combo/internal/config"
	"github.com/hpungsan/combo/internal/errors"
	"github.com/hpungsan/combo/internal/logging"
	"github.com/hpungsan/combo/internal/mcp"
	"github.com/hpungsan/combo/internal/ops"
	"github.com/hpungsan/combo/internal/session"
	"github.com/hpungsan/combo/internal/tui"
	"github.com/hpungsan/combo/internal/web"
)

const (
	fileEnvVar      = "COMBO_FILE"
	defaultLogLevel = "warn"
)

// appState is shared by all commands. The data file is read on first use so
// commands that only touch the practice log work without it.
type appState struct {
	cfg  *config.Config
	db   *sql.DB
	path string
}

// trainer loads the data file and wraps it for the front ends. When record
// is set, shown combinations go to the practice log.
func (s *appState) trainer(record bool) (*ops.Trainer, error) {
	format, err := combination.FormatFor(s.cfg.RecordFields)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	sess, err := session.New(format, s.path)
	if err != nil {
		return nil, err
	}

	var recorder ops.Recorder
	if record && s.db != nil {
		recorder = ops.NewHistoryRecorder(s.db)
	}
	return ops.NewTrainer(sess, recorder), nil
}

// dataPath picks the --file flag or COMBO_FILE value over the configured path.
func dataPath(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}
	return cfg.DataPath
}

// newCLIApp creates the CLI application with all commands.
// database may be nil when the practice log is disabled.
func newCLIApp(cfg *config.Config, database *sql.DB) *cli.App {
	st := &appState{cfg: cfg, db: database}

	app := &cli.App{
		Name:    "combo",
		Usage:   "Boxing combination trainer",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, EnvVars: []string{fileEnvVar}, Usage: "Combinations file (default from config data_path)"},
			&cli.StringFlag{Name: "log-level", Value: defaultLogLevel, Usage: "Log level: debug|info|warn|error"},
			&cli.StringFlag{Name: "log-format", Value: "text", Usage: "Log format: text|json"},
		},
		Before: func(c *cli.Context) error {
			level, err := logging.ParseLevel(c.String("log-level"))
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}
			logging.Init(level, c.String("log-format"), c.App.ErrWriter)
			st.path = dataPath(cfg, c.String("file"))
			return nil
		},
		Commands: []*cli.Command{
			listCmd(st),
			showCmd(st),
			checkCmd(st),
			drillCmd(st),
			serveCmd(st),
			mcpCmd(st),
			historyCmd(st),
			purgeCmd(st),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// filterFlags are shared by list and show.
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "distance", Aliases: []string{"d"}, Usage: "Distance: all|long|short"},
		&cli.StringFlag{Name: "defence", Aliases: []string{"defense"}, Usage: "Defensive move: all|yes|no"},
		&cli.StringFlag{Name: "faint", Usage: "Faint: all|yes|no"},
		&cli.StringFlag{Name: "body", Aliases: []string{"b"}, Usage: "Body shot: all|yes|no"},
	}
}

// filterInput reads the filter flags. Unset flags leave the facet at all.
func filterInput(c *cli.Context) ops.FilterInput {
	var input ops.FilterInput
	for _, f := range []struct {
		name string
		dst  **string
	}{
		{"distance", &input.Distance},
		{"defence", &input.Defence},
		{"faint", &input.Faint},
		{"body", &input.Body},
	} {
		if c.IsSet(f.name) {
			v := c.String(f.name)
			*f.dst = &v
		}
	}
	return input
}

// listCmd creates the list command.
func listCmd(st *appState) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List combinations matching the filters",
		Flags: append(filterFlags(),
			&cli.BoolFlag{Name: "shuffle", Aliases: []string{"s"}, Usage: "Random order instead of file order"},
			&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
		),
		Action: func(c *cli.Context) error {
			trainer, err := st.trainer(false)
			if err != nil {
				return outputError(err)
			}

			view, err := trainer.Filter(c.Context, filterInput(c))
			if err != nil {
				return outputError(err)
			}
			if c.Bool("shuffle") {
				view = trainer.Shuffle(c.Context)
			}

			if c.Bool("json") {
				return outputJSON(c.App.Writer, view)
			}
			tui.PrintList(c.App.Writer, view)
			return nil
		},
	}
}

// showCmd creates the show command.
func showCmd(st *appState) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one combination: row N of the filtered list, or a random one",
		ArgsUsage: "[N]",
		Flags: append(filterFlags(),
			&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
		),
		Action: func(c *cli.Context) error {
			trainer, err := st.trainer(false)
			if err != nil {
				return outputError(err)
			}

			view, err := trainer.Filter(c.Context, filterInput(c))
			if err != nil {
				return outputError(err)
			}

			if c.NArg() > 0 {
				n, err := strconv.Atoi(c.Args().First())
				if err != nil {
					return outputError(errors.NewInvalidRequest(fmt.Sprintf("row must be a number, got %q", c.Args().First())))
				}
				view, err = trainer.Select(c.Context, ops.SelectInput{Index: n - 1})
				if err != nil {
					return outputError(err)
				}
			} else {
				view = trainer.Shuffle(c.Context)
			}

			if c.Bool("json") {
				return outputJSON(c.App.Writer, view.WithoutItems())
			}
			tui.PrintCard(c.App.Writer, view)
			return nil
		},
	}
}

// CheckOutput is the result of the check command.
type CheckOutput struct {
	Path   string         `json:"path"`
	Total  int            `json:"total"`
	Counts session.Counts `json:"counts"`
}

// checkCmd creates the check command.
func checkCmd(st *appState) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Validate the combinations file",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
		},
		Action: func(c *cli.Context) error {
			trainer, err := st.trainer(false)
			if err != nil {
				return outputError(err)
			}

			view := trainer.View()
			out := CheckOutput{Path: st.path, Total: view.Total, Counts: view.Counts}
			if c.Bool("json") {
				return outputJSON(c.App.Writer, out)
			}
			fmt.Fprintf(c.App.Writer, "ok: %d combinations in %s\n", out.Total, out.Path)
			fmt.Fprintf(c.App.Writer, "long %d, short %d, defense %d, faint %d, body %d\n",
				out.Counts.Long, out.Counts.Short, out.Counts.Defense, out.Counts.Faint, out.Counts.Body)
			return nil
		},
	}
}

// drillCmd creates the drill command.
func drillCmd(st *appState) *cli.Command {
	return &cli.Command{
		Name:  "drill",
		Usage: "Interactive drill in the terminal (h for help)",
		Action: func(c *cli.Context) error {
			trainer, err := st.trainer(true)
			if err != nil {
				return outputError(err)
			}
			return tui.Drill(c.Context, trainer, c.App.Reader, c.App.Writer)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(st *appState) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web trainer",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Listen address (default from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			trainer, err := st.trainer(true)
			if err != nil {
				return outputError(err)
			}

			bind, port := st.cfg.Bind, st.cfg.Port
			if c.IsSet("bind") {
				bind = c.String("bind")
			}
			if c.IsSet("port") {
				port = c.Int("port")
			}

			srv, err := web.NewServer(trainer, st.db, Version, bind, port)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return web.Run(srv)
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(st *appState) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server on stdio",
		Action: func(c *cli.Context) error {
			if unknown := mcp.ValidateDisabledTools(st.cfg.DisabledTools); len(unknown) > 0 {
				logging.New("mcp").Warn("unknown tools in disabled_tools", "tools", strings.Join(unknown, ","))
			}
			trainer, err := st.trainer(true)
			if err != nil {
				return outputError(err)
			}
			return mcp.Run(trainer, st.db, st.cfg, Version)
		},
	}
}

// historyCmd creates the history command.
func historyCmd(st *appState) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recently drilled combinations",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Maximum rows (default from config history_limit)"},
			&cli.IntFlag{Name: "offset", Usage: "Rows to skip"},
			&cli.BoolFlag{Name: "top", Usage: "Most drilled combinations instead of recent rows"},
			&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
		},
		Action: func(c *cli.Context) error {
			if st.db == nil {
				return outputError(errors.NewInvalidRequest("practice log is disabled (disable_history in config)"))
			}

			limit := st.cfg.HistoryLimit
			if c.IsSet("limit") {
				limit = c.Int("limit")
			}

			output, err := ops.History(c.Context, st.db, ops.HistoryInput{
				Limit:  limit,
				Offset: c.Int("offset"),
				Top:    c.Bool("top"),
			})
			if err != nil {
				return outputError(err)
			}

			if c.Bool("json") {
				return outputJSON(c.App.Writer, output)
			}
			if c.Bool("top") {
				tui.PrintTop(c.App.Writer, output.Top)
			} else {
				tui.PrintHistory(c.App.Writer, output.Items)
			}
			return nil
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(st *appState) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Delete practice log rows",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Value: "7d", Usage: "Only rows older than N days (e.g., 30d; 0d removes everything)"},
		},
		Action: func(c *cli.Context) error {
			if st.db == nil {
				return outputError(errors.NewInvalidRequest("practice log is disabled (disable_history in config)"))
			}

			days, err := parseDuration(c.String("older-than"))
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}

			output, err := ops.Purge(c.Context, st.db, ops.PurgeInput{OlderThanDays: days})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(c.App.Writer, output)
		},
	}
}

// Helper functions

// outputJSON marshals result to w as JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	return cli.Exit(errors.Describe(err), 1)
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 7d")
}
