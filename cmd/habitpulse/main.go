package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/habitpulse/habitpulse/internal/api"
	"github.com/habitpulse/habitpulse/internal/bot"
	"github.com/habitpulse/habitpulse/internal/lockfile"
	"github.com/habitpulse/habitpulse/internal/messaging"
	"github.com/habitpulse/habitpulse/internal/scheduler"
	"github.com/habitpulse/habitpulse/internal/session"
	"github.com/habitpulse/habitpulse/internal/store"
	"github.com/habitpulse/habitpulse/internal/util"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for Habit Pulse state data
	DefaultStateDir = "/var/lib/habitpulse"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "habitpulse.db"
	// DefaultReminderHour is the UTC hour for the daily reminder job
	DefaultReminderHour = 9
)

func main() {
	// Load environment configuration first so logger settings apply
	config := loadEnvironmentConfig()

	initializeLogger(config)

	// Parse command line flags
	flags := parseCommandLineFlags(config)

	// Ensure required directories exist
	if err := ensureDirectoriesExist(flags); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	slog.Info("Bootstrapping Habit Pulse")
	if err := run(flags); err != nil {
		slog.Error("Habit Pulse failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("Habit Pulse exited successfully")
}

// Config holds environment configuration
type Config struct {
	BotToken     string
	DatabaseURL  string
	StateDir     string
	APIAddr      string
	ReminderHour int
	Debug        bool
}

// Flags holds command line flag values
type Flags struct {
	botToken     *string
	stateDir     *string
	dbDSN        *string
	apiAddr      *string
	reminderHour *int
}

// initializeLogger sets up structured logging
func initializeLogger(config Config) {
	level := slog.LevelInfo
	if config.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		BotToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		StateDir:     os.Getenv("HABITPULSE_STATE_DIR"),
		APIAddr:      os.Getenv("API_ADDR"),
		ReminderHour: util.ParseHourEnv("REMINDER_HOUR", DefaultReminderHour),
		Debug:        util.ParseBoolEnv("HABITPULSE_DEBUG", false),
	}

	// Set default state directory if not specified
	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No HABITPULSE_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	}

	// If no database URL is provided, default to SQLite in the state directory
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}

	slog.Debug("environment variables loaded",
		"TELEGRAM_BOT_TOKEN_SET", config.BotToken != "",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"HABITPULSE_STATE_DIR", config.StateDir,
		"API_ADDR", config.APIAddr,
		"REMINDER_HOUR", config.ReminderHour)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		botToken:     flag.String("bot-token", config.BotToken, "Telegram bot token (overrides $TELEGRAM_BOT_TOKEN)"),
		stateDir:     flag.String("state-dir", config.StateDir, "state directory for Habit Pulse data (overrides $HABITPULSE_STATE_DIR)"),
		dbDSN:        flag.String("db-dsn", config.DatabaseURL, "database DSN for the store (overrides $DATABASE_URL)"),
		apiAddr:      flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		reminderHour: flag.Int("reminder-hour", config.ReminderHour, "UTC hour for daily reminders (overrides $REMINDER_HOUR)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"botTokenSet", *flags.botToken != "",
		"stateDir", *flags.stateDir,
		"dbDSN_set", *flags.dbDSN != "",
		"apiAddr", *flags.apiAddr,
		"reminderHour", *flags.reminderHour)

	// Update database DSN if not explicitly set but state directory is provided
	if *flags.dbDSN == config.DatabaseURL && config.DatabaseURL == filepath.Join(config.StateDir, DefaultDBFileName) && *flags.stateDir != config.StateDir {
		*flags.dbDSN = filepath.Join(*flags.stateDir, DefaultDBFileName)
		slog.Debug("Updated dbDSN based on state directory", "new_state_dir", *flags.stateDir)
	}

	return flags
}

// ensureDirectoriesExist creates necessary directories for file-based storage
func ensureDirectoriesExist(flags Flags) error {
	if !strings.Contains(*flags.dbDSN, "postgres://") && !strings.Contains(*flags.dbDSN, "host=") {
		stateDir := filepath.Dir(*flags.dbDSN)
		slog.Debug("Creating state directory for file-based database", "state_dir", stateDir)
		if err := os.MkdirAll(stateDir, store.DefaultDirPermissions); err != nil {
			slog.Error("Failed to create state directory", "error", err, "state_dir", stateDir)
			return err
		}
	}
	return nil
}

// buildStore opens the store backend matching the configured DSN
func buildStore(flags Flags) (store.Store, error) {
	if *flags.dbDSN == "" {
		slog.Debug("No database DSN provided, using in-memory store")
		return store.NewInMemoryStore(), nil
	}
	if store.DetectDSNType(*flags.dbDSN) == "postgres" {
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store")
		return store.NewPostgresStore(store.WithPostgresDSN(*flags.dbDSN))
	}
	slog.Debug("Detected SQLite DSN, configuring SQLite store", "db_path", *flags.dbDSN)
	return store.NewSQLiteStore(store.WithSQLiteDSN(*flags.dbDSN))
}

// run wires all modules together and blocks until shutdown
func run(flags Flags) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lock, err := lockfile.AcquireLock(*flags.stateDir)
	if err != nil {
		return err
	}
	defer lock.Release()

	st, err := buildStore(flags)
	if err != nil {
		return err
	}
	defer st.Close()

	msgSvc, err := messaging.NewTelegramService(messaging.WithToken(*flags.botToken))
	if err != nil {
		return err
	}
	if err := msgSvc.Start(ctx); err != nil {
		return err
	}
	defer msgSvc.Stop()

	sessions := session.NewManager()
	b := bot.New(st, msgSvc, sessions)

	sched := scheduler.NewScheduler()
	defer sched.Stop()
	err = sched.AddDailyJob(*flags.reminderHour, func() {
		if err := b.SendDailyReminders(context.Background()); err != nil {
			slog.Error("Daily reminder run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	slog.Info("Reminder scheduler started", "hour_utc", *flags.reminderHour)

	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	srv := api.NewServer(st, apiOpts...)
	go func() {
		if err := srv.Run(); err != nil {
			slog.Error("API server failed", "error", err)
			stop()
		}
	}()
	defer func() {
		if err := srv.Stop(context.Background()); err != nil {
			slog.Error("API server shutdown failed", "error", err)
		}
	}()

	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
