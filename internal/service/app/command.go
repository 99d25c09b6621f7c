package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/oshokin/smart-doorbell/internal/camera"
	"github.com/oshokin/smart-doorbell/internal/config"
	"github.com/oshokin/smart-doorbell/internal/logger"
	"github.com/oshokin/smart-doorbell/internal/service/console"
	"github.com/oshokin/smart-doorbell/internal/service/doorbell"
	"github.com/oshokin/smart-doorbell/internal/service/guard"
	"github.com/oshokin/smart-doorbell/internal/ui"
)

// Options controls a doorbell process.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// LogLevel overrides the configured log level when set.
	LogLevel string
	// Console selects the line-oriented front-end instead of the window.
	Console bool
	// In and Out are the console streams; they default to stdin and stdout.
	In  io.Reader
	Out io.Writer
}

// logFilePermissions restricts the optional log file.
const logFilePermissions = 0o600

// errUnknownLogLevel is returned for an unparsable --log-level.
var errUnknownLogLevel = errors.New("unknown log level")

// frontend runs until the user leaves or ctx is canceled.
type frontend func(ctx context.Context, controller *doorbell.Controller, feed *camera.Feed) error

// Run starts the doorbell and blocks until the front-end exits or ctx is canceled.
// The camera is released on every return path.
func Run(ctx context.Context, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	level, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, cfg.LogLevel)
	}

	logger.SetLevel(level)

	var (
		forwarder *ui.LogForwarder
		run       frontend
	)

	if opts.Console {
		run = consoleFrontend(opts)
	} else {
		forwarder = ui.NewLogForwarder()
		run = windowFrontend(cfg, forwarder)
	}

	l, closeLog, err := buildLogger(cfg, opts.Console, forwarder)
	if err != nil {
		return err
	}

	defer closeLog()

	logger.SetLogger(l)

	ctx = logger.WithName(logger.ToContext(ctx, l), "smart-doorbell")

	if cfg.SingleInstance {
		if err := guard.EnsureSingleInstance(); err != nil {
			return err
		}
	}

	return serve(ctx, cfg, run)
}

// serve holds the camera for the lifetime of the controller and front-end.
func serve(ctx context.Context, cfg *config.Config, run frontend) error {
	source, err := camera.Open(cfg.Camera)
	if err != nil {
		return fmt.Errorf("open camera: %w", err)
	}

	defer func() {
		if err := source.Close(); err != nil {
			logger.ErrorKV(ctx, "Camera release failed", "error", err)

			return
		}

		logger.InfoKV(ctx, "Camera released", "source", source.Name())
	}()

	ctx, cancel := context.WithCancel(ctx)

	var (
		controller = doorbell.New(doorbell.Options{
			DecisionTimeout: cfg.DecisionTimeout,
			RevertDelay:     cfg.RevertDelay,
		})
		feed    = camera.NewFeed(source, cfg.Camera.PollInterval)
		workers sync.WaitGroup
	)

	workers.Go(func() {
		_ = controller.Run(ctx)
	})

	workers.Go(func() {
		_ = feed.Run(ctx)
	})

	// Workers stop before the deferred camera release.
	defer workers.Wait()
	defer cancel()

	return run(ctx, controller, feed)
}

// windowFrontend runs the bubbletea window.
func windowFrontend(cfg *config.Config, forwarder *ui.LogForwarder) frontend {
	return func(ctx context.Context, controller *doorbell.Controller, feed *camera.Feed) error {
		model := ui.NewModel(ctx, controller, feed, ui.Options{
			ClockInterval: cfg.ClockInterval,
			VideoCols:     cfg.Camera.Width,
			VideoRows:     (cfg.Camera.Height + 1) / 2,
			Logs:          forwarder,
		})
		defer model.Close()

		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

		if _, err := program.Run(); err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("run window: %w", err)
		}

		return nil
	}
}

// consoleFrontend runs the line-oriented front-end.
func consoleFrontend(opts *Options) frontend {
	in, out := opts.In, opts.Out
	if in == nil {
		in = os.Stdin
	}

	if out == nil {
		out = os.Stdout
	}

	return func(ctx context.Context, controller *doorbell.Controller, _ *camera.Feed) error {
		return console.Run(ctx, controller, &console.Options{In: in, Out: out})
	}
}

// buildLogger picks the log outputs for the front-end. The window owns the
// terminal, so it only logs to the optional file and its event log.
func buildLogger(
	cfg *config.Config,
	consoleMode bool,
	forwarder *ui.LogForwarder,
) (*zap.SugaredLogger, func(), error) {
	var (
		out     io.Writer
		closers []func()
	)

	if consoleMode {
		out = os.Stderr
	}

	if cfg.LogFile != "" {
		file, err := os.OpenFile(
			filepath.Clean(cfg.LogFile),
			os.O_CREATE|os.O_APPEND|os.O_WRONLY,
			logFilePermissions,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}

		closers = append(closers, func() { _ = file.Close() })

		if out != nil {
			out = io.MultiWriter(out, file)
		} else {
			out = file
		}
	}

	var options []zap.Option
	if forwarder != nil {
		options = append(options, logger.WithForwarder(logger.LevelEnabler(), forwarder.Forward))
	}

	l := logger.New(logger.LevelEnabler(), out, options...)

	return l, func() {
		_ = l.Sync()

		for _, closeFn := range closers {
			closeFn()
		}
	}, nil
}
