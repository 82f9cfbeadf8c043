// Package command provides CLI command definitions for keva.
package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/nzoba/keva-go/internal/cli/output"
	"github.com/nzoba/keva-go/internal/infra/fswatch"
	"github.com/nzoba/keva-go/internal/infra/shutdown"
	"github.com/nzoba/keva-go/internal/storage/snapshot"
)

// WatchCommand returns the watch command.
func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:   "watch",
		Usage:  "Follow saves to a store file until interrupted",
		Action: watchRun,
	}
}

type watchEvent struct {
	Time      string `json:"time"`
	Path      string `json:"path"`
	ID        string `json:"id"`
	Entries   int64  `json:"entries"`
	Size      int64  `json:"size"`
	Encrypted bool   `json:"encrypted"`
	Error     string `json:"error,omitempty"`
}

// watchRun prints one line per observed save until SIGINT or SIGTERM.
// It never takes the writer lock: watching is read-only and works while
// a live process owns the store.
func watchRun(c *cli.Context) error {
	cfg := Configuration(c)

	manager, err := snapshot.NewManager(snapshot.Config{Path: cfg.Store.Path})
	if err != nil {
		return err
	}

	printer := newWatchPrinter(c)
	printer.describe(manager, "")

	watcher, err := fswatch.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", cfg.Store.Path, err)
	}
	watcher.OnChange(func(string) { printer.describe(manager, printer.lastID()) })
	watcher.StartAsync()

	handler := shutdown.NewHandler(5 * time.Second)
	handler.OnShutdown(func(context.Context) error { return watcher.Stop() })

	fmt.Fprintf(stdout(c), "watching %s, press Ctrl+C to stop\n", cfg.Store.Path)
	return handler.Wait()
}

// watchPrinter serializes event output. A save lands as a rename and
// can surface as more than one filesystem event; deduplicating on the
// header ID keeps it to one line per save.
type watchPrinter struct {
	c    *cli.Context
	mu   sync.Mutex
	last string
}

func newWatchPrinter(c *cli.Context) *watchPrinter {
	return &watchPrinter{c: c}
}

func (p *watchPrinter) lastID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *watchPrinter) describe(manager *snapshot.Manager, skipID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	event := watchEvent{
		Time: time.Now().Format("15:04:05.000"),
		Path: manager.Path(),
	}

	info, err := manager.Describe()
	switch {
	case errors.Is(err, snapshot.ErrNoSnapshot):
		event.Error = "no store file yet"
	case err != nil:
		// Mid-rename reads can catch a half-visible file; the next
		// event describes the settled state.
		event.Error = err.Error()
	default:
		if skipID != "" && info.ID == skipID {
			return
		}
		event.ID = info.ID
		event.Entries = info.EntryCount
		event.Size = info.Size
		event.Encrypted = info.Encrypted
		p.last = info.ID
	}

	p.print(event)
}

func (p *watchPrinter) print(event watchEvent) {
	switch output.Format(p.c.String("output")) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(p.c.String("output")))
		_ = formatter.Format(stdout(p.c), event)
	default:
		if event.Error != "" {
			fmt.Fprintf(stdout(p.c), "%s  %s\n", event.Time, event.Error)
			return
		}
		fmt.Fprintf(stdout(p.c), "%s  id=%s entries=%s size=%s encrypted=%s\n",
			event.Time,
			event.ID,
			strconv.FormatInt(event.Entries, 10),
			formatBytes(event.Size),
			strconv.FormatBool(event.Encrypted))
	}
}
