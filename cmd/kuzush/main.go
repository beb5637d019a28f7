//go:build cgo && kuzu

// kuzush is an interactive shell for Kuzu databases.
//
// Usage:
//
//	kuzush path/to/db
//	kuzush --in-memory
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CaliLuke/go-kuzu/kuzu"
)

var (
	flagReadOnly bool
	flagInMemory bool
	flagTimeout  time.Duration
	flagFormat   string
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "kuzush [database-path]",
	Short: "Interactive shell for Kuzu databases",
	Long: `kuzush opens a Kuzu database and reads Cypher statements from stdin.

Meta commands:
  :tables        list tables
  :schema <tbl>  show table columns
  :timer on|off  toggle query timing
  :quit          exit`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runShell,
}

func init() {
	rootCmd.Flags().BoolVar(&flagReadOnly, "read-only", false, "open the database read-only")
	rootCmd.Flags().BoolVar(&flagInMemory, "in-memory", false, "use a transient in-memory database")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "abort queries running longer than this (e.g. 5s)")
	rootCmd.Flags().StringVar(&flagFormat, "format", "", "output format: table or json")
	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg, err := loadShellConfig(defaultConfigPath())
	if err != nil {
		return err
	}

	// Flags override config file values.
	format := cfg.Format
	if flagFormat != "" {
		format = flagFormat
	}
	if format != "table" && format != "json" {
		return fmt.Errorf("format must be \"table\" or \"json\", got %q", format)
	}
	readOnly := cfg.ReadOnly || flagReadOnly
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if flagTimeout > 0 {
		timeout = flagTimeout
	}

	logger := zap.NewNop()
	if flagVerbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
	}
	defer func() { _ = logger.Sync() }()

	if len(args) == 0 && !flagInMemory {
		return fmt.Errorf("a database path is required unless --in-memory is set")
	}

	sysCfg := kuzu.DefaultSystemConfig()
	sysCfg.ReadOnly = readOnly

	var db *kuzu.Database
	if flagInMemory {
		logger.Debug("opening in-memory database")
		db, err = kuzu.OpenInMemory(sysCfg)
	} else {
		logger.Debug("opening database", zap.String("path", args[0]), zap.Bool("read_only", readOnly))
		db, err = kuzu.OpenDatabase(args[0], sysCfg)
	}
	if err != nil {
		return err
	}
	defer db.Close()

	conn, err := db.Connect()
	if err != nil {
		return err
	}
	defer conn.Close()

	if timeout > 0 {
		if err := conn.SetQueryTimeout(timeout); err != nil {
			return err
		}
	}

	sh := &shell{
		conn:   conn,
		out:    cmd.OutOrStdout(),
		format: format,
		timer:  cfg.Timer,
		logger: logger,
	}
	return sh.run(cmd.InOrStdin())
}
