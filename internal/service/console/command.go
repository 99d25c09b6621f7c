package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	domain "github.com/oshokin/smart-doorbell/internal/domain/doorbell"
	"github.com/oshokin/smart-doorbell/internal/logger"
)

// Controller is the part of the doorbell controller the console drives.
type Controller interface {
	Submit(ctx context.Context, kind domain.EventKind) error
	Snapshot() *domain.Snapshot
	Subscribe() (<-chan *domain.Snapshot, func())
}

// Options wires the console streams.
type Options struct {
	// In is read line by line for commands.
	In io.Reader
	// Out receives prompts and state changes.
	Out io.Writer
}

// helpText lists the console commands.
const helpText = "commands: ring, accept, reject, close, status, help, quit"

// errNoStreams is returned when Options lacks In or Out.
var errNoStreams = errors.New("console input and output must be set")

// syncWriter serialises writes from the command loop and the state printer.
type syncWriter struct {
	mu  sync.Mutex
	out io.Writer
}

func (w *syncWriter) println(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, _ = fmt.Fprintf(w.out, format+"\n", args...)
}

// Run processes commands until quit, end of input or ctx cancellation.
func Run(ctx context.Context, controller Controller, opts *Options) error {
	if opts == nil || opts.In == nil || opts.Out == nil {
		return errNoStreams
	}

	ctx, cancel := context.WithCancel(logger.WithName(ctx, "console"))
	defer cancel()

	out := &syncWriter{out: opts.Out}

	updates, unsubscribe := controller.Subscribe()

	// Drop the initial snapshot; the greeting prints it.
	<-updates

	var printer sync.WaitGroup

	printer.Go(func() {
		for snapshot := range updates {
			out.println("%s", describe(snapshot, time.Now()))
		}
	})

	defer func() {
		unsubscribe()
		printer.Wait()
	}()

	out.println("%s", describe(controller.Snapshot(), time.Now()))
	out.println("%s", helpText)

	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(opts.In)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		readErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("read commands: %w", err)
			}

			return nil
		case line := <-lines:
			quit, err := execute(ctx, controller, out, line)
			if err != nil {
				return err
			}

			if quit {
				return nil
			}
		}
	}
}

// execute runs one command line and reports whether the console should stop.
func execute(ctx context.Context, controller Controller, out *syncWriter, line string) (bool, error) {
	command := strings.ToLower(strings.TrimSpace(line))

	switch command {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help", "?":
		out.println("%s", helpText)

		return false, nil
	case "status":
		out.println("%s", describe(controller.Snapshot(), time.Now()))

		return false, nil
	}

	kind, ok := domain.ParseEventKind(command)
	if !ok {
		out.println("unknown command %q; %s", command, helpText)

		return false, nil
	}

	logger.DebugKV(ctx, "Console command", "event", kind)

	if err := controller.Submit(ctx, kind); err != nil {
		return false, fmt.Errorf("submit %s: %w", kind, err)
	}

	return false, nil
}

// describe renders a snapshot as one line.
func describe(snapshot *domain.Snapshot, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s", snapshot.Phase, snapshot.Status.Text())

	if snapshot.PromptVisible() {
		fmt.Fprintf(&b, " | accept or reject within %s", snapshot.Remaining(now).Round(time.Second))
	}

	if snapshot.LockControlVisible() {
		b.WriteString(" | close to lock the door")
	}

	if snapshot.Notice != "" {
		fmt.Fprintf(&b, " | %s", snapshot.Notice)
	}

	return b.String()
}
