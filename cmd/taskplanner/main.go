package main

import (
	"context"
	"fmt"
	"io"
	"os"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/gurkanbulca/taskplanner/internal/cli"
	"github.com/gurkanbulca/taskplanner/internal/config"
	"github.com/gurkanbulca/taskplanner/internal/database"
	"github.com/gurkanbulca/taskplanner/internal/logging"
	"github.com/gurkanbulca/taskplanner/internal/repository"
	"github.com/gurkanbulca/taskplanner/internal/service"
)

var (
	userFlag      string
	exportDirFlag string
	debugFlag     bool
)

var rootCmd = &cobra.Command{
	Use:   "taskplanner",
	Short: "taskplanner - prioritized personal task manager",
	Long: "Interactive, in-memory task manager. Tasks are served by priority; " +
		"nothing is kept after the session ends unless exported.",
	SilenceUsage: true,
	RunE:         runSession,
}

func init() {
	rootCmd.Flags().StringVarP(&userFlag, "user", "u", "", "username for the session (overrides TASKPLANNER_USER)")
	rootCmd.Flags().StringVar(&exportDirFlag, "export-dir", "", "directory for export files (overrides TASKPLANNER_EXPORT_DIR)")
	rootCmd.Flags().BoolVar(&debugFlag, "debug", false, "write debug logs to stderr or LOG_FILE")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SessionOptions holds injectable IO for runSessionWithOptions.
type SessionOptions struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func runSession(cmd *cobra.Command, args []string) error {
	return runSessionWithOptions(cmd.Context(), SessionOptions{})
}

func runSessionWithOptions(ctx context.Context, opts SessionOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cfg)
	if err := cfg.ValidateConfig(); err != nil {
		return err
	}

	logger, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	defer logger.Close()

	sys := service.NewTaskSystem(service.WithLogger(logger))
	user, err := sys.RegisterUser(cfg.App.Username)
	if err != nil {
		return fmt.Errorf("register user: %w", err)
	}

	sessionOpts := cli.Options{
		System:    sys,
		User:      user,
		In:        stdin,
		Out:       stdout,
		ExportDir: cfg.App.ExportDir,
		Logger:    logger,
	}

	if cfg.Database.Enabled {
		db, err := database.NewDB(ctx, database.Config{
			Driver:   cfg.Database.Driver,
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			DBName:   cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Errorf("Failed to close database connection: %v", err)
			}
		}()

		repo := repository.NewSQLTaskRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		sessionOpts.Saver = repo
		logger.Infof("database export enabled (%s)", cfg.Database.Driver)
	}

	session, err := cli.NewSession(sessionOpts)
	if err != nil {
		return err
	}
	logger.Infof("session started for %s", user.Username)
	return session.Run(ctx)
}

func applyFlags(cfg *config.Config) {
	if userFlag != "" {
		cfg.App.Username = userFlag
	}
	if exportDirFlag != "" {
		cfg.App.ExportDir = exportDirFlag
	}
	if debugFlag {
		cfg.Log.Debug = true
	}
}

// newLogger logs to LOG_FILE when set. Otherwise logs go to stderr in debug
// mode and are dropped in normal mode so they do not interleave with the menu.
func newLogger(cfg *config.Config, stderr io.Writer) (*logging.Logger, error) {
	if cfg.Log.File != "" {
		l, err := logging.Open(cfg.Log.File, cfg.Log.Debug)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	if cfg.Log.Debug {
		return logging.New(stderr, true), nil
	}
	return logging.Discard(), nil
}
