package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/BTreeMap/PetDiary/internal/api"
	"github.com/BTreeMap/PetDiary/internal/bot"
	"github.com/BTreeMap/PetDiary/internal/flow"
	"github.com/BTreeMap/PetDiary/internal/lockfile"
	"github.com/BTreeMap/PetDiary/internal/messaging"
	"github.com/BTreeMap/PetDiary/internal/scheduler"
	"github.com/BTreeMap/PetDiary/internal/store"
	"github.com/BTreeMap/PetDiary/internal/util"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for PetDiary state data
	DefaultStateDir = "/var/lib/petdiary"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "petdiary.db"
	// DefaultLogFileName is the rotating log file inside the logs directory
	DefaultLogFileName = "petdiary.log"
)

// Log rotation limits
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// errEventsClosed is returned when the transport stops delivering events on its own.
var errEventsClosed = errors.New("event stream closed")

func main() {
	config := loadEnvironmentConfig()
	flags, err := parseCommandLineFlags(flag.CommandLine, os.Args[1:], config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	closeLog := initializeLogger(flags)
	defer closeLog()

	if err := run(flags); err != nil {
		slog.Error("PetDiary failed to run", "error", err)
		closeLog()
		os.Exit(1)
	}
	slog.Info("PetDiary exited successfully")
}

// Config holds environment configuration
type Config struct {
	BotToken         string
	DatabaseURL      string
	StateDir         string
	APIAddr          string
	LogLevel         string
	ReminderInterval time.Duration
	TelegramDebug    bool
}

// Flags holds command line flag values
type Flags struct {
	botToken *string
	stateDir *string
	dbDSN    *string
	apiAddr  *string
	logLevel *string
	interval *time.Duration
	debug    *bool
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	config := Config{
		BotToken:         util.GetEnv("BOT_TOKEN", ""),
		DatabaseURL:      util.GetEnv("DATABASE_URL", ""),
		StateDir:         util.GetEnv("PETDIARY_STATE_DIR", DefaultStateDir),
		APIAddr:          util.GetEnv("API_ADDR", ""),
		LogLevel:         util.GetEnv("LOG_LEVEL", "info"),
		ReminderInterval: util.ParseDurationEnv("REMINDER_INTERVAL", scheduler.DefaultInterval),
		TelegramDebug:    util.ParseBoolEnv("TELEGRAM_DEBUG", false),
	}
	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(fs *flag.FlagSet, args []string, config Config) (Flags, error) {
	flags := Flags{
		botToken: fs.String("bot-token", config.BotToken, "Telegram bot token (overrides $BOT_TOKEN)"),
		stateDir: fs.String("state-dir", config.StateDir, "state directory for PetDiary data (overrides $PETDIARY_STATE_DIR)"),
		dbDSN:    fs.String("db-dsn", config.DatabaseURL, "PostgreSQL URL or SQLite path; defaults to a SQLite file in the state directory (overrides $DATABASE_URL)"),
		apiAddr:  fs.String("api-addr", config.APIAddr, "ops API address, disabled when empty (overrides $API_ADDR)"),
		logLevel: fs.String("log-level", config.LogLevel, "debug, info, warn or error (overrides $LOG_LEVEL)"),
		interval: fs.Duration("reminder-interval", config.ReminderInterval, "time between reminder scans (overrides $REMINDER_INTERVAL)"),
		debug:    fs.Bool("telegram-debug", config.TelegramDebug, "log Telegram API traffic (overrides $TELEGRAM_DEBUG)"),
	}
	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}

	// The default SQLite file follows the state directory chosen last.
	if *flags.dbDSN == "" {
		*flags.dbDSN = filepath.Join(*flags.stateDir, DefaultDBFileName)
	}
	if *flags.interval < time.Second {
		return Flags{}, fmt.Errorf("reminder interval must be at least 1s, got %s", *flags.interval)
	}
	return flags, nil
}

// initializeLogger sets up structured logging to stdout and a rotating file in
// the state directory. The returned func closes the file.
func initializeLogger(flags Flags) func() {
	opts := &slog.HandlerOptions{Level: util.ParseLogLevel(*flags.logLevel)}
	var out io.Writer = os.Stdout

	closer := func() {}
	logDir := filepath.Join(*flags.stateDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "file logging disabled: %v\n", err)
	} else {
		fileWriter := &lumberjack.Logger{
			Filename:   filepath.Join(logDir, DefaultLogFileName),
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, fileWriter)
		closer = func() { _ = fileWriter.Close() }
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(out, opts)))
	return closer
}

func run(flags Flags) error {
	if *flags.botToken == "" {
		return errors.New("BOT_TOKEN is required")
	}
	slog.Debug("Final configuration",
		"state_dir", *flags.stateDir,
		"dsn_type", store.DetectDSNType(*flags.dbDSN),
		"api_addr", *flags.apiAddr,
		"reminder_interval", *flags.interval)

	lock, err := lockfile.AcquireLock(*flags.stateDir)
	if err != nil {
		return err
	}
	defer lock.Release()

	st, err := store.Open(*flags.dbDSN)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	svc, err := messaging.NewTelegramService(*flags.botToken, *flags.debug)
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, svc, st, flags)
}

// serve runs the event loop, the reminder scheduler and the optional ops API
// until ctx is cancelled or one of them fails.
func serve(ctx context.Context, svc messaging.Service, st store.Store, flags Flags) error {
	b := bot.New(svc, st, flow.NewInMemoryStateManager())
	sched := scheduler.NewScheduler(st, svc, scheduler.WithInterval(*flags.interval))

	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start transport: %w", err)
	}
	slog.Info("PetDiary started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := b.Run(gctx, svc.Events()); err != nil {
			return err
		}
		if gctx.Err() == nil {
			return errEventsClosed
		}
		return nil
	})
	g.Go(func() error {
		return sched.Run(gctx)
	})
	if *flags.apiAddr != "" {
		srv := api.NewServer(*flags.apiAddr, st)
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return svc.Stop()
	})
	return g.Wait()
}
