package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hpungsan/combo/internal/config"
	"github.com/hpungsan/combo/internal/db"
	"github.com/hpungsan/combo/internal/errors"
	"github.com/hpungsan/combo/internal/logging"
	"github.com/hpungsan/combo/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"list": true, "show": true, "check": true, "drill": true,
	"serve": true, "mcp": true, "history": true, "purge": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	// Global flags come before the subcommand
	if len(arg) > 1 && arg[0] == '-' {
		return true
	}
	return false
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___ ___  _ __ ___ | |__   ___
  / __/ _ \| '_ ' _ \| '_ \ / _ \
 | (_| (_) | | | | | | |_) | (_) |
  \___\___/|_| |_| |_|_.__/ \___/

  Boxing combination trainer

  Usage: combo <command> [options]
         combo --help

  Try: combo drill
  MCP server mode requires piped input.`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before any loading
	if isHelpOrVersion() {
		app := newCLIApp(config.DefaultConfig(), nil)
		if err := app.Run(os.Args); err != nil {
			fatal("%v", err)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fatal("could not determine home directory: %v", err)
	}
	baseDir := filepath.Join(homeDir, config.DirName)

	cwd, err := os.Getwd()
	if err != nil {
		fatal("could not determine working directory: %v", err)
	}

	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fatal("failed to load config: %v", err)
	}

	database, err := openHistory(baseDir, cfg)
	if err != nil {
		fatal("failed to initialize database: %v", err)
	}
	if database != nil {
		defer database.Close()
	}

	// CLI mode: known subcommand or global flag
	if isCLIMode() {
		app := newCLIApp(cfg, database)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			if database != nil {
				database.Close()
			}
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'combo --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default). stdout carries the protocol.
	logging.Init(slog.LevelWarn, "text")
	st := &appState{cfg: cfg, db: database, path: dataPath(cfg, os.Getenv(fileEnvVar))}
	trainer, err := st.trainer(true)
	if err != nil {
		fatal("%v", errors.Describe(err))
	}
	if err := mcp.Run(trainer, database, cfg, Version); err != nil {
		fatal("%v", err)
	}
}

// openHistory opens the practice log unless it is disabled in config.
func openHistory(baseDir string, cfg *config.Config) (*sql.DB, error) {
	if cfg.DisableHistory {
		return nil, nil
	}
	database, err := db.Init(baseDir)
	if err != nil {
		return nil, err
	}
	db.ConfigurePool(database, cfg)
	return database, nil
}
