// Package app wires configuration, logging, persistence and the command
// dispatcher into a runnable application.
package app

import (
	"context"
	"io"
	"os"

	"agenda/errors"
	"agenda/eventstore"
	"agenda/jsonstore"
	"agenda/store"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// App is a complete agenda instance performing one command per run.
type App struct {
	// config is the main config used for the App.
	config Config
	// out receives user-facing command output.
	out    io.Writer
	logger *zap.Logger
}

// NewApp creates an App with the given config. Output is written to the
// given writer.
func NewApp(config Config, out io.Writer) *App {
	return &App{
		config: config,
		out:    out,
	}
}

// Run sets everything up based on the set config and performs the command
// described by args: one load, one command, one optional persist.
func (app *App) Run(ctx context.Context, args []string) error {
	// Validate config.
	if err := ValidateConfig(app.config); err != nil {
		return errors.Error{
			Code:    errors.ErrFatal,
			Err:     err,
			Message: "invalid config",
		}
	}
	// Setup logger.
	logger := setupLogging(app.config.Log)
	app.logger = logger
	defer func() {
		_ = logger.Sync()
	}()
	err := app.run(ctx, args)
	if err != nil {
		err = errors.Wrap(err, "run", nil)
		errors.Log(app.logger, err)
		return err
	}
	return nil
}

func (app *App) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.NewInvalidInputError("missing command", nil)
	}
	// Open persistence.
	persistence, closePersistence, err := app.openPersistence(ctx)
	if err != nil {
		return errors.Wrap(err, "open persistence", nil)
	}
	defer closePersistence()
	// Load the schedule.
	schedule := eventstore.NewStore(app.logger.Named("eventstore"), persistence)
	if err := schedule.Load(ctx); err != nil {
		return errors.Wrap(err, "load schedule", nil)
	}
	// Perform the command.
	if err := app.dispatch(ctx, schedule, args[0], args[1:]); err != nil {
		return errors.Wrap(err, args[0], nil)
	}
	return nil
}

// openPersistence opens the configured persistence backend and returns it
// together with a close function.
func (app *App) openPersistence(ctx context.Context) (eventstore.Persistence, func(), error) {
	switch app.config.Storage {
	case StorageSQLite:
		mall, err := store.Connect(ctx, app.logger.Named("store"), app.config.DatabaseFile)
		if err != nil {
			return nil, nil, errors.Wrap(err, "connect database", nil)
		}
		return mall, func() {
			if err := mall.Close(); err != nil {
				errors.Log(app.logger, errors.Wrap(err, "close database", nil))
			}
		}, nil
	default:
		return jsonstore.NewStore(app.logger.Named("jsonstore"), app.config.ScheduleFile),
			func() {}, nil
	}
}

// setupLogging builds the application logger: a colored console core, a
// stderr core for errors and an optional rotated debug file core.
func setupLogging(config LogConfig) *zap.Logger {
	encConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	consoleLevel, err := zapcore.ParseLevel(config.ConsoleLevel)
	if err != nil {
		consoleLevel = zap.WarnLevel
	}
	cores := make([]zapcore.Core, 0)
	// Setup stdout logger with colorful level output.
	stdOutEncConfig := encConfig
	stdOutEncConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cores = append(cores, zapcore.NewCore(
		zapcore.NewConsoleEncoder(stdOutEncConfig),
		zapcore.Lock(os.Stdout),
		zap.LevelEnablerFunc(func(level zapcore.Level) bool {
			return level >= consoleLevel && level < zap.ErrorLevel
		})))
	// Setup error logger.
	cores = append(cores, zapcore.NewCore(
		zapcore.NewConsoleEncoder(encConfig),
		zapcore.Lock(os.Stderr),
		zap.LevelEnablerFunc(func(level zapcore.Level) bool {
			return level >= zap.ErrorLevel
		})))
	// Setup debug logger.
	if config.DebugOutput != "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename: config.DebugOutput,
				MaxSize:  config.MaxSize,
				MaxAge:   config.KeepDays,
			}),
			zap.LevelEnablerFunc(func(level zapcore.Level) bool {
				return level >= zap.DebugLevel
			})))
	}
	// Combine.
	return zap.New(zapcore.NewTee(cores...))
}
