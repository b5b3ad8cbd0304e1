// Package cmd implements the segment command line tool.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jengzang/travel-segments-go/internal/config"
	"github.com/jengzang/travel-segments-go/internal/database"
	"github.com/jengzang/travel-segments-go/internal/logger"
)

var rootFlags struct {
	dbPath   string
	logLevel string
}

// app carries what every subcommand needs
type app struct {
	cfg *config.Config
	db  *sqlx.DB
}

var rootCmd = &cobra.Command{
	Use:   "segment",
	Short: "Segment booking platform users into marketing personas",
	Long: `segment runs the persona segmentation pipeline against the users, sessions,
flights and hotels tables of a SQLite database and stores one summary row per
segment together with every user's assignment.`,
	SilenceUsage: true,
}

// Execute runs the root command, cancelling on SIGINT or SIGTERM
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.dbPath, "db", "", "SQLite database path (default from DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", "", "Log level (default from LOG_LEVEL)")

	rootCmd.AddCommand(migrateCmd, runCmd)
}

// withApp loads configuration, logging and a migrated database around fn
func withApp(ctx context.Context, fn func(ctx context.Context, a *app) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if rootFlags.dbPath != "" {
		cfg.DBPath = rootFlags.dbPath
	}
	if rootFlags.logLevel != "" {
		cfg.LogLevel = rootFlags.logLevel
	}

	flush, err := logger.Init(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer flush()

	conn, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := database.Migrate(conn); err != nil {
		return err
	}

	zap.L().Debug("database ready", zap.String("path", cfg.DBPath))
	return fn(ctx, &app{cfg: cfg, db: conn})
}
